package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	contactSubmissions    *prometheus.CounterVec
	contactNotifications  *prometheus.CounterVec
	diagnosticsDatabaseUp prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors exported by the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency distribution for HTTP requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
		}, []string{"method", "route"})

		contactSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Contact form submissions by outcome.",
		}, []string{"outcome"})

		contactNotifications = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contact_notifications_total",
			Help: "Contact notification emails by delivery status.",
		}, []string{"status"})

		diagnosticsDatabaseUp = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "diagnostics_database_up",
			Help: "1 when the last diagnostics probe listed collections successfully.",
		})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, contactSubmissions, contactNotifications, diagnosticsDatabaseUp)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// ContactSubmissions counts submissions labelled stored, invalid or error.
func ContactSubmissions() *prometheus.CounterVec {
	RegisterMetrics()
	return contactSubmissions
}

// ContactNotifications counts notification attempts labelled sent or not_sent.
func ContactNotifications() *prometheus.CounterVec {
	RegisterMetrics()
	return contactNotifications
}

// DiagnosticsDatabaseUp reports the result of the latest diagnostics probe.
func DiagnosticsDatabaseUp() prometheus.Gauge {
	RegisterMetrics()
	return diagnosticsDatabaseUp
}
