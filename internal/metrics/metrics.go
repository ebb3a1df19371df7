// Package metrics exposes the Prometheus collectors used by the API and
// the sync worker.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so constructing it twice (in tests, or
// API and worker in one process) never panics on duplicate collectors.
type Metrics struct {
	Registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	cacheHits        *prometheus.CounterVec
	cacheMisses      *prometheus.CounterVec
	syncOutcomes     *prometheus.CounterVec
	bookingConflicts prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexia_http_requests_total",
				Help: "HTTP requests by route and status code.",
			},
			[]string{"route", "code"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lexia_http_request_duration_seconds",
				Help:    "HTTP request latency by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexia_cache_hits_total",
				Help: "Report cache hits.",
			},
			[]string{"view"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexia_cache_misses_total",
				Help: "Report cache misses.",
			},
			[]string{"view"},
		),
		syncOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexia_sync_total",
				Help: "Spreadsheet sync attempts by operation and result.",
			},
			[]string{"op", "result"},
		),
		bookingConflicts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "lexia_booking_conflicts_total",
				Help: "Reservations rejected because the slot was taken.",
			},
		),
	}
}

// All recorders tolerate a nil receiver so callers can run without metrics.

func (m *Metrics) ObserveHTTP(route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) CacheHit(view string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(view).Inc()
}

func (m *Metrics) CacheMiss(view string) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(view).Inc()
}

func (m *Metrics) SyncResult(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.syncOutcomes.WithLabelValues(op, result).Inc()
}

func (m *Metrics) BookingConflict() {
	if m == nil {
		return
	}
	m.bookingConflicts.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
