package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the Prometheus collectors of the catalog client and caches.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	CacheLookups    *prometheus.CounterVec
	MovesResolved   prometheus.Counter
	MovesSkipped    prometheus.Counter
}

// New constructs and registers all collectors on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokeview_catalog_requests_total",
			Help: "Catalog HTTP requests by resource kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pokeview_catalog_request_duration_seconds",
			Help:    "Catalog HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
	lookups := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokeview_cache_lookups_total",
			Help: "Cache lookups by layer and result.",
		},
		[]string{"layer", "result"},
	)
	resolved := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pokeview_moves_resolved_total",
			Help: "Move details resolved into a page.",
		},
	)
	skipped := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pokeview_moves_skipped_total",
			Help: "Move details that failed to resolve and were skipped.",
		},
	)

	registry.MustRegister(requests, duration, lookups, resolved, skipped)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: duration,
		CacheLookups:    lookups,
		MovesResolved:   resolved,
		MovesSkipped:    skipped,
	}
}

// ObserveRequest records one catalog request.
func (m *Metrics) ObserveRequest(kind, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(kind, outcome).Inc()
	m.RequestDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// CacheHit counts a hit on the named layer.
func (m *Metrics) CacheHit(layer string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(layer, "hit").Inc()
}

// CacheMiss counts a miss on the named layer.
func (m *Metrics) CacheMiss(layer string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(layer, "miss").Inc()
}

// AddMoves counts the outcome of one batch.
func (m *Metrics) AddMoves(resolved, skipped int) {
	if m == nil {
		return
	}
	m.MovesResolved.Add(float64(resolved))
	m.MovesSkipped.Add(float64(skipped))
}
