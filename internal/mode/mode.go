// Package mode finds the most frequent value of a file of small integers.
//
// Count plans one line-aligned segment per worker, scans every segment on
// its own goroutine and combines the partial counts once all workers have
// joined. Run does the same for a path, owning the memory mapping for the
// duration of the count.
package mode

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"time"

	"modecount/internal/bytesource"
	"modecount/internal/histogram"
	"modecount/internal/metrics"
	"modecount/internal/parser/ints"
	"modecount/internal/scan"
	"modecount/internal/segment"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"
)

// Strategy selects how workers publish their counts.
type Strategy string

const (
	// Private gives every worker its own histogram and sums them after the
	// join. Workers share nothing while scanning.
	Private Strategy = "private"
	// Shared has every worker increment one atomic histogram that tracks the
	// running maximum as it goes.
	Shared Strategy = "shared"
)

// ParseStrategy maps a configuration string to a Strategy. The empty string
// selects Private.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", Private:
		return Private, nil
	case Shared:
		return Shared, nil
	}
	return "", fmt.Errorf("mode: unknown strategy %q (want %q or %q)", s, Private, Shared)
}

// DefaultJob labels metrics when Options.Job is empty.
const DefaultJob = "modecount"

// Options tunes a count. The zero value is usable.
type Options struct {
	Threads  int        // segments scanned in parallel; <= 0 means runtime.NumCPU()
	Width    ints.Width // word width of the scan loop; 0 means ints.Width8
	Strategy Strategy   // "" means Private

	// Elements is the expected number of lines. A mismatch with the scanned
	// count is logged; it never fails the run. 0 disables the check.
	Elements int

	Fingerprint bool // hash the whole input with xxh3 while scanning
	Verify      bool // check segment invariants before scanning
	Verbose     bool // log plan and phase timings
	Job         string
}

func (o Options) withDefaults() Options {
	if o.Threads <= 0 {
		o.Threads = runtime.NumCPU()
	}
	if o.Width == 0 {
		o.Width = ints.Width8
	}
	if o.Strategy == "" {
		o.Strategy = Private
	}
	if o.Job == "" {
		o.Job = DefaultJob
	}
	return o
}

// Report is the outcome of a count.
type Report struct {
	histogram.Result

	Path        string
	Bytes       int
	Lines       uint64
	Distinct    int
	Segments    []segment.Segment
	Threads     int
	Width       ints.Width
	Strategy    Strategy
	Fingerprint uint64 // 0 unless Options.Fingerprint
	Elapsed     time.Duration
	ScanElapsed time.Duration

	// Histogram holds the merged counts.
	Histogram *histogram.Histogram
}

// Run maps path, counts it and releases the mapping after every worker has
// returned.
func Run(ctx context.Context, path string, opts Options) (rep Report, err error) {
	opts = opts.withDefaults()
	start := time.Now()

	src, err := bytesource.Open(path)
	metrics.RecordStep(opts.Job, "map", err, time.Since(start))
	if err != nil {
		return Report{}, err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	rep, err = Count(ctx, src.Bytes(), opts)
	if err != nil {
		return Report{}, err
	}
	rep.Path = src.Path()
	rep.Elapsed = time.Since(start)
	return rep, nil
}

// Count computes the mode of data, one integer per line.
//
// Empty input yields a zero Result. The first worker error is returned and
// cancels workers that have not started yet.
func Count(ctx context.Context, data []byte, opts Options) (Report, error) {
	opts = opts.withDefaults()
	if _, err := ints.ParseWidth(int(opts.Width)); err != nil {
		return Report{}, fmt.Errorf("mode: %w", err)
	}
	start := time.Now()

	t0 := time.Now()
	segs, err := segment.Plan(data, opts.Threads)
	if err == nil && opts.Verify {
		err = segment.Verify(data, segs)
	}
	metrics.RecordStep(opts.Job, "plan", err, time.Since(t0))
	if err != nil {
		return Report{}, fmt.Errorf("mode: plan: %w", err)
	}
	if opts.Verbose {
		log.Printf("mode: plan bytes=%d threads=%d width=%s strategy=%s segments=%v",
			len(data), opts.Threads, opts.Width, opts.Strategy, segs)
	}

	t0 = time.Now()
	g, gctx := errgroup.WithContext(ctx)

	var fp uint64
	if opts.Fingerprint {
		g.Go(func() error {
			fp = xxh3.Hash(data)
			return nil
		})
	}

	// merge runs after the join and returns the combined counts and mode.
	var merge func() (*histogram.Histogram, histogram.Result)
	switch opts.Strategy {
	case Private:
		hs := make([]*histogram.Histogram, len(segs))
		for i, s := range segs {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				h, err := scan.Scan(data, s, opts.Width)
				if err != nil {
					return fmt.Errorf("mode: segment %v: %w", s, err)
				}
				hs[i] = h
				return nil
			})
		}
		merge = func() (*histogram.Histogram, histogram.Result) {
			h := histogram.Merge(hs)
			return h, h.Mode()
		}
	case Shared:
		sh := histogram.NewShared()
		for _, s := range segs {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := scan.ScanInto(data, s, opts.Width, sh); err != nil {
					return fmt.Errorf("mode: segment %v: %w", s, err)
				}
				return nil
			})
		}
		merge = func() (*histogram.Histogram, histogram.Result) {
			return sh.Snapshot(), sh.Mode()
		}
	default:
		return Report{}, fmt.Errorf("mode: unknown strategy %q", opts.Strategy)
	}

	err = g.Wait()
	scanElapsed := time.Since(t0)
	metrics.RecordStep(opts.Job, "scan", err, scanElapsed)
	if err != nil {
		return Report{}, err
	}

	t0 = time.Now()
	hist, res := merge()
	mergeElapsed := time.Since(t0)
	metrics.RecordStep(opts.Job, "merge", nil, mergeElapsed)

	lines := hist.Total()
	metrics.RecordScan(opts.Job, lines, len(data), len(segs), scanElapsed)

	if opts.Elements > 0 && uint64(opts.Elements) != lines {
		log.Printf("mode: elements mismatch expected=%d scanned=%d", opts.Elements, lines)
	}
	if opts.Verbose {
		log.Printf("mode: done lines=%d distinct=%d scan=%s merge=%s",
			lines, hist.Distinct(), scanElapsed, mergeElapsed)
	}

	return Report{
		Result:      res,
		Bytes:       len(data),
		Lines:       lines,
		Distinct:    hist.Distinct(),
		Segments:    segs,
		Threads:     opts.Threads,
		Width:       opts.Width,
		Strategy:    opts.Strategy,
		Fingerprint: fp,
		Elapsed:     time.Since(start),
		ScanElapsed: scanElapsed,
		Histogram:   hist,
	}, nil
}
