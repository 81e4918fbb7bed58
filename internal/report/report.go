// Package report formats count results for people.
package report

import (
	"io"
	"time"

	"modecount/internal/histogram"
	"modecount/internal/mode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NewPrinter returns the printer used for summaries. Numbers get English
// digit grouping ("1,048,576").
func NewPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

// Line is the single result line written to stdout.
func Line(r histogram.Result) string { return r.String() }

// Summary renders the statistics of one run on a single line.
func Summary(p *message.Printer, rep mode.Report) string {
	return p.Sprintf("lines=%d distinct=%d bytes=%d segments=%d threads=%d width=%d strategy=%s elapsed=%s throughput=%s",
		rep.Lines, rep.Distinct, rep.Bytes, len(rep.Segments), rep.Threads, int(rep.Width),
		rep.Strategy, rep.Elapsed.Round(time.Microsecond), Throughput(p, rep.Bytes, rep.ScanElapsed))
}

// Throughput formats n bytes over d as MB/s. It returns "n/a" when d is zero.
func Throughput(p *message.Printer, n int, d time.Duration) string {
	if d <= 0 {
		return "n/a"
	}
	return p.Sprintf("%.1f MB/s", float64(n)/1e6/d.Seconds())
}

// WriteSegments writes one line per segment: index, bounds and length.
func WriteSegments(w io.Writer, p *message.Printer, rep mode.Report) error {
	for _, s := range rep.Segments {
		if _, err := p.Fprintf(w, "segment %d: [%d, %d) %d bytes\n", s.Index, s.Start, s.End, s.Len()); err != nil {
			return err
		}
	}
	return nil
}
