// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// It adapts the generic metrics.Backend interface to Prometheus by using
// client_golang collectors and pushing the registry to a Pushgateway instead
// of exposing a scrape endpoint, which suits a short-lived batch job. All
// Prometheus-specific dependencies stay inside this package so the rest of
// the project can swap backends without changes.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"txclean/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	stepCounter  *prometheus.CounterVec // txclean_step_total
	stepDuration *prometheus.SummaryVec // txclean_step_duration_seconds

	recordCounter    *prometheus.CounterVec // txclean_records_total
	rejectionCounter *prometheus.CounterVec // txclean_rejections_total
	batchCounter     prometheus.Counter     // txclean_batches_total
}

// NewBackend constructs a Pushgateway backend. jobName doubles as the
// Pushgateway grouping key.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "txclean"
	}

	reg := prometheus.NewRegistry()

	stepCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txclean_step_total",
			Help: "Total pipeline stage executions, partitioned by step and status.",
		},
		[]string{"step", "status"},
	)
	stepDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "txclean_step_duration_seconds",
			Help:       "Duration of pipeline stages in seconds, partitioned by step and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step", "status"},
	)
	recordCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txclean_records_total",
			Help: "Record-level counts per kind (ingested, clean, loaded, ...).",
		},
		[]string{"kind"},
	)
	rejectionCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txclean_rejections_total",
			Help: "Rejected records per ledger reason code.",
		},
		[]string{"reason"},
	)
	batchCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "txclean_batches_total",
			Help: "Total number of load batches flushed for this job.",
		},
	)

	for _, c := range []prometheus.Collector{stepCounter, stepDuration, recordCounter, rejectionCounter, batchCounter} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register collector: %w", err)
		}
	}

	return &Backend{
		gatewayURL:       gatewayURL,
		jobName:          jobName,
		reg:              reg,
		stepCounter:      stepCounter,
		stepDuration:     stepDuration,
		recordCounter:    recordCounter,
		rejectionCounter: rejectionCounter,
		batchCounter:     batchCounter,
	}, nil
}

// IncCounter implements metrics.Backend.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "txclean_step_total":
		b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)
	case "txclean_records_total":
		b.recordCounter.WithLabelValues(labels["kind"]).Add(delta)
	case "txclean_rejections_total":
		b.rejectionCounter.WithLabelValues(labels["reason"]).Add(delta)
	case "txclean_batches_total":
		b.batchCounter.Add(delta)
	default:
		// unknown metric name: ignore
	}
}

// ObserveHistogram implements metrics.Backend.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != "txclean_step_duration_seconds" {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
