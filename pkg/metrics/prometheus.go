package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	classifications *prometheus.CounterVec
	fallbacks       *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	progressDone    prometheus.Gauge
	progressTotal   prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		classifications: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockscout_classifications_total",
				Help: "Total classification outcomes by signal or disposition",
			},
			[]string{"outcome"},
		),
		fallbacks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockscout_fallbacks_total",
				Help: "Total degraded-pass fallbacks by oracle failure class",
			},
			[]string{"class"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockscout_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockscout_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		progressDone: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "stockscout_screening_processed",
				Help: "Processed candidates of the current screening task",
			},
		),
		progressTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "stockscout_screening_total",
				Help: "Total candidates of the current screening task",
			},
		),
	}
}

// RecordClassification records one classification outcome.
func (r *Recorder) RecordClassification(outcome string) {
	r.classifications.WithLabelValues(outcome).Inc()
}

// RecordFallback records a degraded pass for a failure class.
func (r *Recorder) RecordFallback(class string) {
	r.fallbacks.WithLabelValues(class).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordProgress records the current task's progress counters.
func (r *Recorder) RecordProgress(processed, total int) {
	r.progressDone.Set(float64(processed))
	r.progressTotal.Set(float64(total))
}
