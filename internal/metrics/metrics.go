// Package metrics provides Prometheus metrics for image compression.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "kleinimg"

// Outcome labels
const (
	OutcomeSuccess     = "success"
	OutcomeDecodeError = "decode_error"
	OutcomeEncodeError = "encode_error"
	OutcomeError       = "error"
)

// Metrics holds the collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	// CompressionsTotal counts compressions by purpose and outcome.
	CompressionsTotal *prometheus.CounterVec
	// EncodeAttempts observes how many encodes a compression needed.
	EncodeAttempts *prometheus.HistogramVec
	// CompressionDuration measures a single compression in seconds.
	CompressionDuration *prometheus.HistogramVec
	// BytesSavedTotal counts bytes saved. Grown outputs are not subtracted.
	BytesSavedTotal prometheus.Counter
}

// New creates a Metrics instance with its own registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CompressionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compressions_total",
				Help:      "Total number of image compressions",
			},
			[]string{"purpose", "outcome"},
		),
		EncodeAttempts: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "encode_attempts",
				Help:      "Distribution of encode attempts per compression",
				Buckets:   []float64{1, 2, 3, 4, 5},
			},
			[]string{"purpose"},
		),
		CompressionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "compression_duration_seconds",
				Help:      "Duration of image compressions in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"purpose"},
		),
		BytesSavedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bytes_saved_total",
				Help:      "Total bytes saved by compression",
			},
		),
	}
}

// RecordSuccess records a finished compression
func (m *Metrics) RecordSuccess(purpose string, attempts int, originalSize, compressedSize int64, duration time.Duration) {
	if m == nil {
		return
	}
	m.CompressionsTotal.WithLabelValues(purpose, OutcomeSuccess).Inc()
	m.EncodeAttempts.WithLabelValues(purpose).Observe(float64(attempts))
	m.CompressionDuration.WithLabelValues(purpose).Observe(duration.Seconds())
	if saved := originalSize - compressedSize; saved > 0 {
		m.BytesSavedTotal.Add(float64(saved))
	}
}

// RecordFailure records a failed compression
func (m *Metrics) RecordFailure(purpose, outcome string) {
	if m == nil {
		return
	}
	m.CompressionsTotal.WithLabelValues(purpose, outcome).Inc()
}

// Registry returns the private registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
