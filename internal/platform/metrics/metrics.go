// Package metrics registers the Prometheus instruments for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics is
// valid and records nothing, which keeps unit tests free of registry setup.
type Metrics struct {
	Registrations *prometheus.CounterVec
	Logins        *prometheus.CounterVec
	AuthFailures  *prometheus.CounterVec
	HTTPLatency   *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		Registrations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "civicid_registrations_total",
			Help: "Total successful registrations by actor kind.",
		}, []string{"user_type"}),
		Logins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "civicid_logins_total",
			Help: "Total successful logins by actor kind.",
		}, []string{"user_type"}),
		AuthFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "civicid_auth_failures_total",
			Help: "Total authentication failures by internal reason.",
		}, []string{"reason"}),
		HTTPLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "civicid_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// IncRegistered counts a successful registration.
func (m *Metrics) IncRegistered(userType string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(userType).Inc()
}

// IncLogin counts a successful login.
func (m *Metrics) IncLogin(userType string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(userType).Inc()
}

// IncAuthFailure counts a failed authentication attempt. Failure reasons stay
// internal; responses carry one generic message.
func (m *Metrics) IncAuthFailure(reason string) {
	if m == nil {
		return
	}
	m.AuthFailures.WithLabelValues(reason).Inc()
}

// ObserveHTTPLatency records one request's duration in seconds.
func (m *Metrics) ObserveHTTPLatency(route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPLatency.WithLabelValues(route, status).Observe(seconds)
}
