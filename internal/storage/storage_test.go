package storage

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"
)

// fakeRepo is a minimal Repository implementation for tests.
type fakeRepo struct {
	runs   []Run
	closed bool
}

func (f *fakeRepo) EnsureTable(ctx context.Context) error { return nil }
func (f *fakeRepo) SaveRun(ctx context.Context, r Run) error {
	f.runs = append(f.runs, r)
	return nil
}
func (f *fakeRepo) Close() { f.closed = true }

// TestRegisterAndNew_Success verifies that registering a backend enables New()
// to return the corresponding repository.
func TestRegisterAndNew_Success(t *testing.T) {
	t.Parallel()

	kind := "fake"
	var got Config
	Register(kind, func(ctx context.Context, cfg Config) (Repository, error) {
		got = cfg
		return &fakeRepo{}, nil
	})

	repo, err := New(context.Background(), Config{Kind: kind, DSN: "mem", Table: "runs"})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if repo == nil {
		t.Fatal("New returned nil repo")
	}
	if got.DSN != "mem" || got.Table != "runs" {
		t.Fatalf("factory got %+v", got)
	}

	found := false
	for _, k := range ListKinds() {
		if k == kind {
			found = true
		}
	}
	if !found {
		t.Fatalf("registered kind %q not present in ListKinds: %v", kind, ListKinds())
	}
}

// TestNew_Unsupported verifies that unsupported kinds return a helpful error.
func TestNew_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{Kind: "does-not-exist", Table: "runs"})
	if err == nil || !strings.Contains(err.Error(), "unsupported kind") {
		t.Fatalf("err = %v, want unsupported kind", err)
	}
}

func TestNew_InvalidTable(t *testing.T) {
	t.Parallel()

	Register("fake-table", func(ctx context.Context, cfg Config) (Repository, error) {
		return nil, errors.New("factory must not be called")
	})
	_, err := New(context.Background(), Config{Kind: "fake-table", Table: "runs; DROP TABLE x"})
	if err == nil || !strings.Contains(err.Error(), "invalid table name") {
		t.Fatalf("err = %v, want invalid table name", err)
	}
}

func TestValidateTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in string
		ok bool
	}{
		{"modecount_runs", true},
		{"public.modecount_runs", true},
		{"_t1", true},
		{"", false},
		{"1runs", false},
		{"a.b.c", false},
		{`runs"`, false},
	}
	for _, tt := range tests {
		if err := ValidateTable(tt.in); (err == nil) != tt.ok {
			t.Fatalf("ValidateTable(%q) = %v, want ok=%v", tt.in, err, tt.ok)
		}
	}
}

func TestInsertSQL(t *testing.T) {
	t.Parallel()

	quote := func(s string) string { return `"` + s + `"` }
	got := InsertSQL("public.runs", quote, func(i int) string { return "$" + strconv.Itoa(i) })

	if !strings.HasPrefix(got, `INSERT INTO "public"."runs" ("started_at", "path",`) {
		t.Fatalf("InsertSQL = %q", got)
	}
	if !strings.HasSuffix(got, "$10, $11)") {
		t.Fatalf("InsertSQL placeholders = %q", got)
	}
}

func TestRun_Values(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	r := Run{
		StartedAt:   start,
		Path:        "in.txt",
		Bytes:       10,
		Fingerprint: 0xabc,
		Threads:     4,
		WordWidth:   8,
		Strategy:    "private",
		Lines:       5,
		Value:       5,
		Count:       3,
		Elapsed:     1500 * time.Microsecond,
	}
	v := r.Values()
	if len(v) != len(Columns) {
		t.Fatalf("len(Values) = %d, want %d", len(v), len(Columns))
	}
	if v[0].(time.Time).Location() != time.UTC {
		t.Fatalf("started_at not UTC: %v", v[0])
	}
	if v[3] != "0000000000000abc" {
		t.Fatalf("fingerprint = %v", v[3])
	}
	if v[10] != int64(1500) {
		t.Fatalf("elapsed_us = %v", v[10])
	}
	if (Run{}).Values()[3] != "" {
		t.Fatal("unset fingerprint must be empty")
	}
}
