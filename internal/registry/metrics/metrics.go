// Package metrics exposes Prometheus instrumentation for the registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the registry's Prometheus collectors.
type Metrics struct {
	MintsTotal       prometheus.Counter
	TransfersTotal   prometheus.Counter
	MutationFailures *prometheus.CounterVec
	MutationDuration *prometheus.HistogramVec
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
}

// New creates and registers all registry metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		MintsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "steward_registry_mints_total",
			Help: "Total number of certificates minted",
		}),
		TransfersTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "steward_registry_transfers_total",
			Help: "Total number of ownership transfers",
		}),
		MutationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "steward_registry_mutation_failures_total",
			Help: "Failed mutations by operation and error code",
		}, []string{"operation", "code"}),
		MutationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "steward_registry_mutation_duration_seconds",
			Help:    "Mutation latency by operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "steward_registry_metadata_cache_hits_total",
			Help: "Metadata cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "steward_registry_metadata_cache_misses_total",
			Help: "Metadata cache misses",
		}),
	}
}

// IncFailure records a failed mutation.
func (m *Metrics) IncFailure(operation, code string) {
	if m == nil {
		return
	}
	m.MutationFailures.WithLabelValues(operation, code).Inc()
}

// ObserveDuration records a mutation's latency in seconds.
func (m *Metrics) ObserveDuration(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.MutationDuration.WithLabelValues(operation).Observe(seconds)
}
