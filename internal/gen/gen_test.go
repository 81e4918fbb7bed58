package gen

import (
	"bytes"
	"strconv"
	"testing"
)

func TestBytes_MatchesHistogram(t *testing.T) {
	t.Parallel()

	data, h, err := Bytes(Options{Lines: 5000, Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	if got := bytes.Count(data, []byte{'\n'}); got != 5000 {
		t.Fatalf("lines = %d, want 5000", got)
	}
	if h.Total() != 5000 {
		t.Fatalf("histogram total = %d, want 5000", h.Total())
	}

	// Recount naively.
	var naive [1000]uint64
	for _, line := range bytes.Split(bytes.TrimSuffix(data, []byte{'\n'}), []byte{'\n'}) {
		v, err := strconv.Atoi(string(line))
		if err != nil || v < 0 || v >= 1000 {
			t.Fatalf("bad line %q", line)
		}
		naive[v]++
	}
	for v := range naive {
		if naive[v] != h[v] {
			t.Fatalf("value %d: naive %d, histogram %d", v, naive[v], h[v])
		}
	}
}

func TestBytes_Deterministic(t *testing.T) {
	t.Parallel()

	a, _, _ := Bytes(Options{Lines: 100, Seed: 42})
	b, _, _ := Bytes(Options{Lines: 100, Seed: 42})
	c, _, _ := Bytes(Options{Lines: 100, Seed: 43})
	if !bytes.Equal(a, b) {
		t.Fatal("same seed produced different data")
	}
	if bytes.Equal(a, c) {
		t.Fatal("different seeds produced identical data")
	}
}

func TestBytes_PaddingAndFinalNewline(t *testing.T) {
	t.Parallel()

	data, _, err := Bytes(Options{Lines: 50, Seed: 1, Max: 10, PadWidth: 5, OmitFinalNewline: true})
	if err != nil {
		t.Fatal(err)
	}
	if data[len(data)-1] == '\n' {
		t.Fatal("final newline present")
	}
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		if len(line) != 5 || !bytes.HasPrefix(line, []byte("0000")) {
			t.Fatalf("line %q not padded to 5", line)
		}
	}
}

func TestWrite_NegativeLines(t *testing.T) {
	t.Parallel()

	if _, err := Write(&bytes.Buffer{}, Options{Lines: -1}); err == nil {
		t.Fatal("expected error")
	}
}
