package histogram

import "sync/atomic"

// valueBits is wide enough for any value below Size.
const valueBits = 10

// Shared is a histogram that many goroutines may increment at once. Every
// increment is an atomic add, and a packed (count, value) maximum is kept up
// to date with a compare-and-swap loop.
//
// It exists for comparison with the per-worker Histogram + Reduce design,
// which avoids all contention and is the default.
type Shared struct {
	counts [Size]atomic.Uint64
	// max packs count<<valueBits | (Size-1-value) so that a larger word means
	// a larger count, then a lower value.
	max atomic.Uint64
}

// NewShared returns an empty shared histogram.
func NewShared() *Shared { return new(Shared) }

// Inc records one occurrence of v and updates the running maximum.
func (s *Shared) Inc(v uint64) {
	c := s.counts[v].Add(1)
	packed := c<<valueBits | (Size - 1 - v)
	for {
		old := s.max.Load()
		if packed <= old {
			return
		}
		if s.max.CompareAndSwap(old, packed) {
			return
		}
	}
}

// Mode returns the running maximum. Once every writer has finished it equals
// Snapshot().Mode().
func (s *Shared) Mode() Result {
	p := s.max.Load()
	if p == 0 {
		return Result{}
	}
	return Result{
		Value: Size - 1 - int(p&(1<<valueBits-1)),
		Count: p >> valueBits,
	}
}

// Snapshot copies the current counts into a plain Histogram.
func (s *Shared) Snapshot() *Histogram {
	h := New()
	for i := range s.counts {
		h[i] = s.counts[i].Load()
	}
	return h
}
