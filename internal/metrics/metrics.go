// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from a counting run.
//
// It exposes a narrow interface (Backend) focused on counters and timing
// observations, and a global, pluggable backend that defaults to a no-op
// implementation, so metrics are always safe to call even when no real
// backend is configured. Concrete systems (Prometheus Pushgateway, Datadog)
// live in subpackages.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Metric names emitted by this package.
const (
	StepTotal      = "modecount_step_total"
	StepDuration   = "modecount_step_duration_seconds"
	LinesTotal     = "modecount_lines_total"
	BytesTotal     = "modecount_bytes_total"
	SegmentsTotal  = "modecount_segments_total"
	ScanThroughput = "modecount_scan_bytes_per_second"
)

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep measures latency + success/failure of one pipeline step
// ("map", "plan", "scan", "merge", "store").
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordScan records the volume of a finished scan: lines counted, bytes
// read, segments used, and the resulting throughput.
func RecordScan(job string, lines uint64, bytes int, segments int, d time.Duration) {
	lbls := Labels{"job": job}
	if lines > 0 {
		backend.IncCounter(LinesTotal, float64(lines), lbls)
	}
	if bytes > 0 {
		backend.IncCounter(BytesTotal, float64(bytes), lbls)
		if d > 0 {
			backend.ObserveHistogram(ScanThroughput, float64(bytes)/d.Seconds(), lbls)
		}
	}
	if segments > 0 {
		backend.IncCounter(SegmentsTotal, float64(segments), lbls)
	}
}
