// Package histogram holds the dense value→count tables produced by the
// scanners and the reduction that turns them into a single mode.
//
// The value domain is small and known in advance ([0, Size)), so a fixed
// array indexed by value replaces any hashing.
package histogram

import "fmt"

// Size is the number of distinct values a Histogram can count.
const Size = 1000

// Histogram counts occurrences of each value in [0, Size). It is not safe for
// concurrent writers; each scanner owns its own.
type Histogram [Size]uint64

// Result is the mode of a dataset: the most frequent value and its count.
// A Count of zero means no values were seen.
type Result struct {
	Value int
	Count uint64
}

func (r Result) String() string {
	return fmt.Sprintf("Found %d, max: %d", r.Value, r.Count)
}

// Counter is anything a scanner can record values into.
type Counter interface {
	Inc(v uint64)
}

// New returns an empty histogram.
func New() *Histogram { return new(Histogram) }

// Inc records one occurrence of v. v must be < Size.
func (h *Histogram) Inc(v uint64) { h[v]++ }

// Count returns the number of occurrences of v, or 0 when v is out of range.
func (h *Histogram) Count(v int) uint64 {
	if v < 0 || v >= Size {
		return 0
	}
	return h[v]
}

// Add accumulates other into h.
func (h *Histogram) Add(other *Histogram) {
	for i := range h {
		h[i] += other[i]
	}
}

// Total returns the number of recorded values.
func (h *Histogram) Total() uint64 {
	var n uint64
	for _, c := range h {
		n += c
	}
	return n
}

// Distinct returns how many values occurred at least once.
func (h *Histogram) Distinct() int {
	n := 0
	for _, c := range h {
		if c != 0 {
			n++
		}
	}
	return n
}

// Mode returns the most frequent value. Ties go to the lowest value, so the
// answer does not depend on how the input was partitioned.
func (h *Histogram) Mode() Result {
	var r Result
	for v, c := range h {
		if c > r.Count {
			r = Result{Value: v, Count: c}
		}
	}
	return r
}
