// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// A counting run is a short-lived batch job with nothing to scrape, so the
// collected metrics are pushed to a Pushgateway on Flush instead of being
// exposed over HTTP. All Prometheus-specific dependencies stay in this
// package.
package prompush

import (
	"fmt"

	"modecount/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	stepCounter  *prometheus.CounterVec // modecount_step_total
	stepDuration *prometheus.SummaryVec // modecount_step_duration_seconds

	lines      prometheus.Counter // modecount_lines_total
	bytes      prometheus.Counter // modecount_bytes_total
	segments   prometheus.Counter // modecount_segments_total
	throughput prometheus.Gauge   // modecount_scan_bytes_per_second (last run)
}

// NewBackend constructs a Prometheus Pushgateway backend.
// jobName: the Pushgateway "job" name.
// gatewayURL: base URL of the Pushgateway server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "modecount"
	}

	reg := prometheus.NewRegistry()

	stepCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Total number of pipeline step executions, partitioned by step and status.",
		},
		[]string{"step", "status"},
	)
	stepDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       metrics.StepDuration,
			Help:       "Duration of pipeline steps in seconds, partitioned by step and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step", "status"},
	)
	lines := prometheus.NewCounter(prometheus.CounterOpts{
		Name: metrics.LinesTotal,
		Help: "Lines counted.",
	})
	bytes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: metrics.BytesTotal,
		Help: "Input bytes scanned.",
	})
	segments := prometheus.NewCounter(prometheus.CounterOpts{
		Name: metrics.SegmentsTotal,
		Help: "Segments scanned in parallel.",
	})
	throughput := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: metrics.ScanThroughput,
		Help: "Scan throughput of the last run in bytes per second.",
	})

	for _, c := range []prometheus.Collector{stepCounter, stepDuration, lines, bytes, segments, throughput} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register collector: %w", err)
		}
	}

	return &Backend{
		gatewayURL:   gatewayURL,
		jobName:      jobName,
		reg:          reg,
		stepCounter:  stepCounter,
		stepDuration: stepDuration,
		lines:        lines,
		bytes:        bytes,
		segments:     segments,
		throughput:   throughput,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)
	case metrics.LinesTotal:
		b.lines.Add(delta)
	case metrics.BytesTotal:
		b.bytes.Add(delta)
	case metrics.SegmentsTotal:
		b.segments.Add(delta)
	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	switch name {
	case metrics.StepDuration:
		b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
	case metrics.ScanThroughput:
		b.throughput.Set(value)
	}
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
