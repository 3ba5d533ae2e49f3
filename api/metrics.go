package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// =============================================================================
// METRICS - Gateway observability
// =============================================================================

// Metrics holds the gateway's Prometheus collectors on a private registry,
// so tests can run several gateways without default-registry collisions.
type Metrics struct {
	registry *prometheus.Registry

	// UpstreamRequests counts calls to the inventory backend by operation
	// and outcome (ok | api_error | network_error).
	UpstreamRequests *prometheus.CounterVec

	// CacheReads counts snapshot/SKU reads by how the cache served them
	// (fresh | stale | fetch).
	CacheReads *prometheus.CounterVec

	// ClassifiedErrors counts errors surfaced to clients by severity.
	ClassifiedErrors *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with a fresh
// registry alongside the Go runtime collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_upstream_requests_total",
			Help: "Inventory backend calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		CacheReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_cache_reads_total",
			Help: "Cached reads by how the cache served them.",
		}, []string{"source"}),
		ClassifiedErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_classified_errors_total",
			Help: "Errors returned to clients by severity.",
		}, []string{"severity"}),
	}

	registry.MustRegister(
		m.UpstreamRequests,
		m.CacheReads,
		m.ClassifiedErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry for the /metrics route.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
