package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the auth core.
type Metrics struct {
	// Auth metrics
	LoginAttemptsTotal    *prometheus.CounterVec
	SessionsResolvedTotal *prometheus.CounterVec
	SessionsSweptTotal    prometheus.Counter
	ActiveSessionsGauge   prometheus.Gauge

	// Authorization metrics
	PermissionChecksTotal *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewMetrics creates and registers all Prometheus metrics. Passing a nil
// registry creates a private one, which keeps tests isolated.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		LoginAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "curator_login_attempts_total",
				Help: "Total number of login attempts by outcome",
			},
			[]string{"outcome"},
		),
		SessionsResolvedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "curator_sessions_resolved_total",
				Help: "Total number of token resolutions by outcome",
			},
			[]string{"outcome"},
		),
		SessionsSweptTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "curator_sessions_swept_total",
				Help: "Total number of expired sessions removed by sweeps",
			},
		),
		ActiveSessionsGauge: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "curator_active_sessions",
				Help: "Number of sessions currently stored",
			},
		),
		PermissionChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "curator_permission_checks_total",
				Help: "Total number of permission checks by action and outcome",
			},
			[]string{"action", "allowed"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "curator_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "curator_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.LoginAttemptsTotal,
		m.SessionsResolvedTotal,
		m.SessionsSweptTotal,
		m.ActiveSessionsGauge,
		m.PermissionChecksTotal,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)

	return m
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveLogin records a login attempt outcome ("success", "denied",
// "error").
func (m *Metrics) ObserveLogin(outcome string) {
	if m == nil {
		return
	}
	m.LoginAttemptsTotal.WithLabelValues(outcome).Inc()
}

// ObserveResolve records a token resolution outcome ("success", "denied",
// "error", "cached").
func (m *Metrics) ObserveResolve(outcome string) {
	if m == nil {
		return
	}
	m.SessionsResolvedTotal.WithLabelValues(outcome).Inc()
}

// ObserveSweep records how many sessions a sweep removed.
func (m *Metrics) ObserveSweep(removed int64) {
	if m == nil {
		return
	}
	m.SessionsSweptTotal.Add(float64(removed))
}

// ObservePermissionCheck records a permission decision.
func (m *Metrics) ObservePermissionCheck(action string, allowed bool) {
	if m == nil {
		return
	}
	outcome := "false"
	if allowed {
		outcome = "true"
	}
	m.PermissionChecksTotal.WithLabelValues(action, outcome).Inc()
}
