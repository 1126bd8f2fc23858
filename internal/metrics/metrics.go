// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the cleaning pipeline.
//
// The package is intentionally minimal:
//
//   - It exposes a narrow interface (Backend) focused on counters and timing
//     data.
//   - It provides a global, pluggable backend that defaults to a no-op
//     implementation, so metrics are always safe to call even when no real
//     backend is configured.
//
// The primary use case is instrumentation of the pipeline stages (identity,
// normalize, impute, load) without coupling the core logic to a specific
// metrics system; concrete systems live in subpackages.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends. It is generic
// enough to plug in Prometheus, Datadog, etc.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics if the backend needs it.
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
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

// RecordStep measures latency plus success/failure for one pipeline stage.
func RecordStep(step string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"step": step, "status": status}
	backend.IncCounter("txclean_step_total", 1, lbls)
	backend.ObserveHistogram("txclean_step_duration_seconds", d.Seconds(), lbls)
}

// AddRecords increments the record counter for the given kind.
//
// Typical kinds: "ingested", "parse_skipped", "clean", "loaded".
func AddRecords(kind string, delta float64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("txclean_records_total", delta, Labels{"kind": kind})
}

// AddRejections increments the rejection counter for the given reason code.
func AddRejections(reason string, delta float64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("txclean_rejections_total", delta, Labels{"reason": reason})
}

// AddBatches increments the flushed-batch counter.
func AddBatches(delta float64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("txclean_batches_total", delta, nil)
}
