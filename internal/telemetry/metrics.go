package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rratsunrollun/rollun-usps/pkg/lookup"
)

// Selection outcomes.
const (
	OutcomeSelected = "selected"
	OutcomeNone     = "none"
	OutcomeError    = "error"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	SelectionsTotal   *prometheus.CounterVec
	SelectionDuration *prometheus.HistogramVec
	RequestsTotal     *prometheus.CounterVec
	Errors            *prometheus.CounterVec

	registerer prometheus.Registerer
}

// NewMetrics creates metrics registered with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SelectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rollun_usps_selections_total",
				Help: "Total number of shipping selections by outcome and winning supplier",
			},
			[]string{"outcome", "supplier"},
		),
		SelectionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rollun_usps_selection_duration_seconds",
				Help:    "Shipping selection duration in seconds by outcome",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rollun_usps_requests_total",
				Help: "Total number of API requests by surface and status",
			},
			[]string{"surface", "status"},
		),
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rollun_usps_errors_total",
				Help: "Total selection errors by error type",
			},
			[]string{"error_type"},
		),
		registerer: reg,
	}
}

// RecordSelection records a selection metric.
func (m *Metrics) RecordSelection(outcome, supplier string, duration float64) {
	m.SelectionsTotal.WithLabelValues(outcome, supplier).Inc()
	m.SelectionDuration.WithLabelValues(outcome).Observe(duration)
}

// RecordRequest records an API request metric.
func (m *Metrics) RecordRequest(surface, status string) {
	m.RequestsTotal.WithLabelValues(surface, status).Inc()
}

// RecordError records a selection error metric.
func (m *Metrics) RecordError(errorType string) {
	m.Errors.WithLabelValues(errorType).Inc()
}

// ObserveCache exports the lookup cache counters.
func (m *Metrics) ObserveCache(cache *lookup.Cache) {
	factory := promauto.With(m.registerer)

	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "rollun_usps_lookup_cache_hits_total",
		Help: "Lookups answered from the cache",
	}, func() float64 { return float64(cache.Stats().Hits) })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "rollun_usps_lookup_cache_misses_total",
		Help: "Lookups that reached the backend",
	}, func() float64 { return float64(cache.Stats().Misses) })
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "rollun_usps_lookup_cache_entries",
		Help: "Responses held by the lookup cache",
	}, func() float64 { return float64(cache.Stats().Entries) })
}
