package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "aire_web"

// Metrics holds the Prometheus collectors for the story service.
type Metrics struct {
	HTTPRequests *prometheus.CounterVec   // labels: route, method, status
	HTTPDuration *prometheus.HistogramVec // labels: route, method

	// Story interaction metrics.
	ScrollObservations *prometheus.CounterVec // labels: outcome={changed,unchanged,invalid}
	SectionTransitions *prometheus.CounterVec // labels: index
	LocaleSwitches     *prometheus.CounterVec // labels: locale
	DetailToggles      *prometheus.CounterVec // labels: category (empty = collapsed)
	LiveSessions       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern and method.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route", "method"}),
		ScrollObservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scroll_observations_total",
			Help:      "Scroll observations received, by outcome.",
		}, []string{"outcome"}),
		SectionTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "section_transitions_total",
			Help:      "Active section changes, by destination index.",
		}, []string{"index"}),
		LocaleSwitches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "locale_switches_total",
			Help:      "Active locale changes, by destination locale.",
		}, []string{"locale"}),
		DetailToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detail_toggles_total",
			Help:      "Pollution source detail expand/collapse transitions.",
		}, []string{"category"}),
		LiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_sessions",
			Help:      "Visitor sessions currently held in memory.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.HTTPRequests,
			m.HTTPDuration,
			m.ScrollObservations,
			m.SectionTransitions,
			m.LocaleSwitches,
			m.DetailToggles,
			m.LiveSessions,
		)
	}
	return m
}

// Section records a transition to index.
func (m *Metrics) Section(index int) {
	m.SectionTransitions.WithLabelValues(strconv.Itoa(index)).Inc()
}

// Locale records a switch to locale.
func (m *Metrics) Locale(locale string) {
	m.LocaleSwitches.WithLabelValues(locale).Inc()
}

// Toggle records an expand (category) or collapse (empty).
func (m *Metrics) Toggle(category string) {
	m.DetailToggles.WithLabelValues(category).Inc()
}

// Live sets the number of sessions held.
func (m *Metrics) Live(n int) { m.LiveSessions.Set(float64(n)) }

// Scroll records one observation outcome.
func (m *Metrics) Scroll(outcome string) {
	m.ScrollObservations.WithLabelValues(outcome).Inc()
}
