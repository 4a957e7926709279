// Package metrics exposes the Prometheus instruments shared across the
// server. Everything is registered through promauto on the default
// registry and served by the /metrics endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration observes request latency per route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "route", "status"},
	)

	// StoreOperationDuration observes persistence call latency.
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Store operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation", "backend"},
	)

	// StoreFallbackTotal counts operations that fell back to the mirror.
	StoreFallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_fallback_total",
			Help: "Total number of operations served by the in-memory mirror after a primary failure",
		},
		[]string{"operation"},
	)

	// StoreDegraded reports whether the durable backend is considered down.
	StoreDegraded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "store_degraded",
			Help: "1 when operations are served by the in-memory mirror, 0 when the durable backend is healthy",
		},
	)

	// AllocationConflictTotal counts rejected double-booking attempts.
	AllocationConflictTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "allocation_conflict_total",
			Help: "Total number of allocation requests rejected due to interval overlap",
		},
	)
)

// ObserveHTTPRequest records one handled HTTP request.
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// ObserveStoreOperation records one persistence call.
func ObserveStoreOperation(operation, backend string, duration time.Duration) {
	StoreOperationDuration.WithLabelValues(operation, backend).Observe(duration.Seconds())
}
