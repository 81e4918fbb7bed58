// Package gen writes synthetic input files: one random value in [0, Max) per
// line. It returns the histogram of what it wrote so callers can check a scan
// against ground truth.
package gen

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"

	"modecount/internal/histogram"
)

// Options controls the generated data.
type Options struct {
	Lines int    // number of values to write
	Seed  uint64 // same seed, same output
	Max   int    // exclusive upper bound; 0 means histogram.Size

	// PadWidth left-pads every value with '0' to at least this many digits.
	PadWidth int
	// OmitFinalNewline drops the terminator after the last value.
	OmitFinalNewline bool
}

func (o Options) withDefaults() Options {
	if o.Max <= 0 || o.Max > histogram.Size {
		o.Max = histogram.Size
	}
	return o
}

// Write streams the dataset to w.
func Write(w io.Writer, opts Options) (*histogram.Histogram, error) {
	if opts.Lines < 0 {
		return nil, fmt.Errorf("gen: negative line count %d", opts.Lines)
	}
	opts = opts.withDefaults()

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9E3779B97F4A7C15))
	bw := bufio.NewWriterSize(w, 1<<20)
	h := histogram.New()

	var line []byte
	for i := 0; i < opts.Lines; i++ {
		v := rng.IntN(opts.Max)
		h.Inc(uint64(v))

		line = line[:0]
		for pad := opts.PadWidth - digitCount(v); pad > 0; pad-- {
			line = append(line, '0')
		}
		line = strconv.AppendInt(line, int64(v), 10)
		if i < opts.Lines-1 || !opts.OmitFinalNewline {
			line = append(line, '\n')
		}
		if _, err := bw.Write(line); err != nil {
			return nil, fmt.Errorf("gen: write: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("gen: flush: %w", err)
	}
	return h, nil
}

// Bytes returns the dataset in memory.
func Bytes(opts Options) ([]byte, *histogram.Histogram, error) {
	var buf bytes.Buffer
	h, err := Write(&buf, opts)
	if err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), h, nil
}

func digitCount(v int) int {
	n := 1
	for v >= 10 {
		v /= 10
		n++
	}
	return n
}
