// Package obs holds the store's observability surface: Prometheus
// metrics, a circuit breaker guarding the backing-memory grow path,
// and a health checker built on both.
package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters, histogram, and gauges a store registers
// when metrics are enabled.
type Metrics struct {
	Creates prometheus.Counter
	Updates prometheus.Counter
	Deletes prometheus.Counter
	Errors  prometheus.Counter

	OperationLatency prometheus.Histogram

	Allocated prometheus.Gauge
	Free      prometheus.Gauge
}

// NewMetrics registers a fresh set of metrics with the default
// Prometheus registerer. Calling it twice in the same process without
// an intervening unregister panics, same as promauto anywhere else in
// this module's ambient stack — callers that open more than one store
// per process should disable metrics on all but one.
func NewMetrics() *Metrics {
	return &Metrics{
		Creates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doublets_store_creates_total",
			Help: "Total link creations.",
		}),
		Updates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doublets_store_updates_total",
			Help: "Total link updates.",
		}),
		Deletes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doublets_store_deletes_total",
			Help: "Total link deletions.",
		}),
		Errors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doublets_store_errors_total",
			Help: "Total failed store operations.",
		}),
		OperationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name: "doublets_store_operation_latency_seconds",
			Help: "Latency of create/update/delete operations.",
		}),
		Allocated: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "doublets_store_allocated",
			Help: "Highest link index ever allocated.",
		}),
		Free: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "doublets_store_free",
			Help: "Number of indices currently on the free list.",
		}),
	}
}
