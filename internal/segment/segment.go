// Package segment splits a byte range into line-aligned, independently
// scannable pieces without reading the data ahead of time.
package segment

import (
	"errors"
	"fmt"
)

// ErrInvalidCount is returned when fewer than one segment is requested.
var ErrInvalidCount = errors.New("segment: count must be >= 1")

// Segment is the half-open byte interval [Start, End) handed to one worker.
type Segment struct {
	Index int
	Start int
	End   int
}

// Len returns the segment length in bytes.
func (s Segment) Len() int { return s.End - s.Start }

func (s Segment) String() string {
	return fmt.Sprintf("#%d[%d,%d)", s.Index, s.Start, s.End)
}

// Plan divides data into n contiguous segments. Segment 0 starts at 0; every
// other segment starts immediately after the last '\n' found by walking
// backward from its even split point, so no segment starts mid-line. The
// last segment ends at len(data) and absorbs the division remainder together
// with any unterminated trailing line.
//
// When n exceeds the number of lines some segments are empty; scanning them
// is a no-op.
func Plan(data []byte, n int) ([]Segment, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidCount, n)
	}
	size := len(data)
	approx := size / n

	segs := make([]Segment, n)
	prev := 0
	for i := 0; i < n; i++ {
		start := 0
		if i > 0 {
			start = alignStart(data, i*approx, prev)
		}
		segs[i] = Segment{Index: i, Start: start}
		if i > 0 {
			segs[i-1].End = start
		}
		prev = start
	}
	segs[n-1].End = size
	return segs, nil
}

// alignStart walks backward from pos to the byte following the nearest '\n'
// before pos. It never goes below floor, which is itself a line start.
func alignStart(data []byte, pos, floor int) int {
	if pos > len(data) {
		pos = len(data)
	}
	p := pos - 1
	for p >= floor && data[p] != '\n' {
		p--
	}
	if p < floor {
		return floor
	}
	return p + 1
}

// Verify checks that segs cover data exactly, in order, and that every
// interior boundary sits right after a '\n'.
func Verify(data []byte, segs []Segment) error {
	if len(segs) == 0 {
		return errors.New("segment: no segments")
	}
	if segs[0].Start != 0 {
		return fmt.Errorf("segment: first segment starts at %d", segs[0].Start)
	}
	if last := segs[len(segs)-1]; last.End != len(data) {
		return fmt.Errorf("segment: last segment ends at %d, want %d", last.End, len(data))
	}
	for i, s := range segs {
		if s.Index != i {
			return fmt.Errorf("segment: %v has index %d, want %d", s, s.Index, i)
		}
		if s.Start > s.End {
			return fmt.Errorf("segment: %v is inverted", s)
		}
		if i > 0 && segs[i-1].End != s.Start {
			return fmt.Errorf("segment: gap between %v and %v", segs[i-1], s)
		}
		if s.Start > 0 && data[s.Start-1] != '\n' {
			return fmt.Errorf("segment: %v starts mid-line", s)
		}
	}
	return nil
}
