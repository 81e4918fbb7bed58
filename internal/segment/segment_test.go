package segment

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestPlan_InvalidCount(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, -1} {
		_, err := Plan([]byte("1\n"), n)
		if !errors.Is(err, ErrInvalidCount) {
			t.Fatalf("Plan(n=%d) err = %v, want ErrInvalidCount", n, err)
		}
	}
}

// TestPlan_Invariants checks, for every count from 1 to past the line count,
// that the segments reassemble the input and start on line boundaries.
func TestPlan_Invariants(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"\n",
		"42\n",
		"5\n2\n5\n9\n5\n",
		"5\n2\n5\n9\n5",
		"1\n22\n333\n4\n55\n666\n7\n88\n999\n0\n",
		strings.Repeat("123\n", 257) + "7",
		"0000000000000001\n2\n",
	}
	for _, in := range inputs {
		data := []byte(in)
		lines := bytes.Count(data, []byte{'\n'}) + 1
		for n := 1; n <= lines+3; n++ {
			segs, err := Plan(data, n)
			if err != nil {
				t.Fatalf("Plan(%q, %d): %v", in, n, err)
			}
			if len(segs) != n {
				t.Fatalf("Plan(%q, %d) returned %d segments", in, n, len(segs))
			}
			if err := Verify(data, segs); err != nil {
				t.Fatalf("Plan(%q, %d): %v", in, n, err)
			}
			var joined []byte
			for _, s := range segs {
				joined = append(joined, data[s.Start:s.End]...)
			}
			if !bytes.Equal(joined, data) {
				t.Fatalf("Plan(%q, %d): segments do not reassemble input", in, n)
			}
		}
	}
}

func TestPlan_Boundaries(t *testing.T) {
	t.Parallel()

	// 0:'5' 1:'\n' 2:'2' 3:'\n' 4:'5' 5:'\n' 6:'9' 7:'\n' 8:'5' 9:'\n'
	// The split point 5 walks back to the '\n' at 3.
	data := []byte("5\n2\n5\n9\n5\n")
	segs, err := Plan(data, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []Segment{{Index: 0, Start: 0, End: 4}, {Index: 1, Start: 4, End: 10}}
	for i := range want {
		if segs[i] != want[i] {
			t.Fatalf("segs[%d] = %v, want %v", i, segs[i], want[i])
		}
	}
}

func TestPlan_MoreSegmentsThanLines(t *testing.T) {
	t.Parallel()

	data := []byte("42\n")
	segs, err := Plan(data, 8)
	if err != nil {
		t.Fatal(err)
	}
	nonEmpty := 0
	for _, s := range segs {
		if s.Len() > 0 {
			nonEmpty++
		}
	}
	if nonEmpty != 1 {
		t.Fatalf("expected exactly one non-empty segment, got %d: %v", nonEmpty, segs)
	}
}

func TestPlan_LongLineCollapsesSegments(t *testing.T) {
	t.Parallel()

	// One long line: every split point walks back to 0.
	data := []byte(strings.Repeat("0", 100) + "\n")
	segs, err := Plan(data, 4)
	if err != nil {
		t.Fatal(err)
	}
	if err := Verify(data, segs); err != nil {
		t.Fatal(err)
	}
	if segs[3].Start != 0 || segs[3].End != len(data) {
		t.Fatalf("last segment = %v, want whole input", segs[3])
	}
}

func TestVerify_Rejects(t *testing.T) {
	t.Parallel()

	data := []byte("12\n34\n")
	tests := []struct {
		name string
		segs []Segment
	}{
		{"empty", nil},
		{"late start", []Segment{{0, 1, 6}}},
		{"short end", []Segment{{0, 0, 5}}},
		{"gap", []Segment{{0, 0, 2}, {1, 3, 6}}},
		{"mid-line", []Segment{{0, 0, 4}, {1, 4, 6}}},
		{"bad index", []Segment{{0, 0, 3}, {5, 3, 6}}},
	}
	for _, tt := range tests {
		if err := Verify(data, tt.segs); err == nil {
			t.Errorf("%s: Verify accepted %v", tt.name, tt.segs)
		}
	}
}
