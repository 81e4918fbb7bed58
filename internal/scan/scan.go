// Package scan turns one line-aligned segment of the input into a histogram.
//
// The hot loop loads a whole word (8 or 4 bytes, little-endian, see package
// ints), finds every terminator inside it with the zero-in-word idiom, decodes
// the digits in front of each terminator in one SWAR step, and carries digits
// that run past the end of the word into the next one. Only the last
// few bytes of a segment, shorter than a word, are handled byte by byte.
package scan

import (
	"fmt"

	"modecount/internal/histogram"
	"modecount/internal/parser/ints"
	"modecount/internal/segment"
)

// Scan counts every line of seg into a new private histogram.
func Scan(data []byte, seg segment.Segment, w ints.Width) (*histogram.Histogram, error) {
	h := histogram.New()
	if err := ScanInto(data, seg, w, h); err != nil {
		return nil, err
	}
	return h, nil
}

// ScanInto counts every line of seg into c. Offsets in returned errors are
// relative to data, not to the segment.
//
// A trailing line without a terminator is counted like any other line.
func ScanInto[C histogram.Counter](data []byte, seg segment.Segment, w ints.Width, c C) error {
	if seg.Start < 0 || seg.End > len(data) || seg.Start > seg.End {
		return fmt.Errorf("scan: segment %v out of bounds for %d bytes", seg, len(data))
	}
	s := &state[C]{c: c, lineStart: seg.Start}

	var (
		pos int
		err error
	)
	switch w {
	case ints.Width8:
		pos, err = s.words64(data, seg.Start, seg.End)
	case ints.Width4:
		pos, err = s.words32(data, seg.Start, seg.End)
	default:
		return fmt.Errorf("scan: unsupported word width %d", int(w))
	}
	if err != nil {
		return err
	}
	return s.bytes(data, pos, seg.End)
}

// state is the per-segment accumulator. digits counts the digits of the
// current line so far; a terminator with digits == 0 is an empty line.
type state[C histogram.Counter] struct {
	c         C
	acc       uint64
	digits    int
	lineStart int
}

func (s *state[C]) words64(data []byte, pos, end int) (int, error) {
	for pos+8 <= end {
		w := ints.Load64(data[pos:])
		rem := 8
		// Lanes shifted in from the top are zero and never match '\n'.
		for {
			k, ok := ints.FindLinebreak64(w)
			if !ok {
				break
			}
			if err := s.fold64(w, k, pos); err != nil {
				return pos, err
			}
			if err := s.commit(pos + k); err != nil {
				return pos, err
			}
			w >>= uint(k+1) * 8
			pos += k + 1
			rem -= k + 1
		}
		if rem > 0 {
			if err := s.fold64(w, rem, pos); err != nil {
				return pos, err
			}
			pos += rem
		}
	}
	return pos, nil
}

func (s *state[C]) words32(data []byte, pos, end int) (int, error) {
	for pos+4 <= end {
		w := ints.Load32(data[pos:])
		rem := 4
		for {
			k, ok := ints.FindLinebreak32(w)
			if !ok {
				break
			}
			if err := s.fold32(w, k, pos); err != nil {
				return pos, err
			}
			if err := s.commit(pos + k); err != nil {
				return pos, err
			}
			w >>= uint(k+1) * 8
			pos += k + 1
			rem -= k + 1
		}
		if rem > 0 {
			if err := s.fold32(w, rem, pos); err != nil {
				return pos, err
			}
			pos += rem
		}
	}
	return pos, nil
}

// fold64 appends the n digits in lanes 0..n-1 of w (which starts at pos) to
// the accumulator: acc = acc*10^n + digits.
func (s *state[C]) fold64(w uint64, n, pos int) error {
	if n == 0 {
		return nil
	}
	if m := ints.NonDigitMask64(w, n); m != 0 {
		lane := ints.FirstLane(m)
		return &ParseError{Offset: int64(pos + lane), Byte: byte(w >> (8 * uint(lane)))}
	}
	s.acc = s.acc*ints.Pow10[n] + ints.ParsePackedDigits64(w, n)
	s.digits += n
	if s.acc > MaxValue {
		return &RangeError{Offset: int64(s.lineStart), Value: s.acc}
	}
	return nil
}

func (s *state[C]) fold32(w uint32, n, pos int) error {
	if n == 0 {
		return nil
	}
	if m := ints.NonDigitMask32(w, n); m != 0 {
		lane := ints.FirstLane(uint64(m))
		return &ParseError{Offset: int64(pos + lane), Byte: byte(w >> (8 * uint(lane)))}
	}
	s.acc = s.acc*ints.Pow10[n] + uint64(ints.ParsePackedDigits32(w, n))
	s.digits += n
	if s.acc > MaxValue {
		return &RangeError{Offset: int64(s.lineStart), Value: s.acc}
	}
	return nil
}

// commit records the current line, terminated at offset nl.
func (s *state[C]) commit(nl int) error {
	if s.digits == 0 {
		return &ParseError{Offset: int64(nl), Byte: '\n'}
	}
	s.c.Inc(s.acc)
	s.acc, s.digits = 0, 0
	s.lineStart = nl + 1
	return nil
}

// bytes handles whatever is left after the last full word, one byte at a
// time, then commits an unterminated trailing line.
func (s *state[C]) bytes(data []byte, pos, end int) error {
	for ; pos < end; pos++ {
		b := data[pos]
		if b == ints.Linebreak {
			if err := s.commit(pos); err != nil {
				return err
			}
			continue
		}
		d := b - '0'
		if d > 9 {
			return &ParseError{Offset: int64(pos), Byte: b}
		}
		s.acc = s.acc*10 + uint64(d)
		s.digits++
		if s.acc > MaxValue {
			return &RangeError{Offset: int64(s.lineStart), Value: s.acc}
		}
	}
	if s.digits > 0 {
		s.c.Inc(s.acc)
		s.acc, s.digits = 0, 0
	}
	return nil
}
