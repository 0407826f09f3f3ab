// Package metrics provides prometheus observability for the decoder
// and the scan store. All observation methods are nil-receiver safe so
// callers can run without metrics wired.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors registered with the default registry.
type Metrics struct {
	// Decodes by payload recognition outcome ("recognized", "empty").
	DecodesTotal *prometheus.CounterVec

	// Fields extracted per decode.
	DecodedFields prometheus.Histogram

	// Store operations by name and outcome ("ok", "error").
	StoreOps *prometheus.CounterVec

	// Store operation latency by operation name.
	StoreLatency *prometheus.HistogramVec
}

// New registers and returns all idscanpro collectors.
func New() *Metrics {
	return &Metrics{
		DecodesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "idscanpro_decodes_total",
			Help: "Total payload decodes by recognition outcome",
		}, []string{"outcome"}),

		DecodedFields: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "idscanpro_decoded_fields",
			Help:    "Number of fields extracted per decode",
			Buckets: []float64{0, 1, 2, 5, 10, 15, 20, 30},
		}),

		StoreOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "idscanpro_store_operations_total",
			Help: "Total scan store operations by operation and outcome",
		}, []string{"operation", "outcome"}),

		StoreLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "idscanpro_store_operation_duration_seconds",
			Help:    "Duration of scan store operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

// ObserveDecode records one decode and how many fields it produced.
func (m *Metrics) ObserveDecode(fieldCount int) {
	if m == nil {
		return
	}
	outcome := "recognized"
	if fieldCount == 0 {
		outcome = "empty"
	}
	m.DecodesTotal.WithLabelValues(outcome).Inc()
	m.DecodedFields.Observe(float64(fieldCount))
}

// ObserveStoreOp records the outcome and duration of a store operation.
func (m *Metrics) ObserveStoreOp(operation string, seconds float64, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.StoreOps.WithLabelValues(operation, outcome).Inc()
	m.StoreLatency.WithLabelValues(operation).Observe(seconds)
}
