package monitoring

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects client-side API call metrics
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	sessionEvictions prometheus.Counter
	registry         *prometheus.Registry
}

// NewMetrics creates and registers the client metric collectors
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "aghims_client",
				Name:      "api_requests_total",
				Help:      "Outbound API requests by method and status code",
			},
			[]string{"method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "aghims_client",
				Name:      "api_request_duration_seconds",
				Help:      "Outbound API request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		sessionEvictions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "aghims_client",
				Name:      "session_evictions_total",
				Help:      "Sessions evicted after an unrecoverable 401",
			},
		),
		registry: registry,
	}

	registry.MustRegister(m.requestsTotal, m.requestDuration, m.sessionEvictions)
	return m
}

// RecordRequest records metrics for a completed API call. A status of
// zero records as "transport" for calls that never got a response.
func (m *Metrics) RecordRequest(method string, statusCode int, duration time.Duration) {
	status := "transport"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}

	m.requestsTotal.WithLabelValues(method, status).Inc()
	m.requestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordEviction records a session eviction
func (m *Metrics) RecordEviction() {
	m.sessionEvictions.Inc()
}

// Handler returns the HTTP handler exposing the metric registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes the metrics endpoint on a local listener; intended for
// workstation diagnostics, disabled by default.
func (m *Metrics) Serve(path string, port int) error {
	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())

	return http.ListenAndServe(fmt.Sprintf("127.0.0.1:%d", port), mux)
}
