// Package metrics exposes Prometheus metrics for the tool server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the tool server
type Metrics struct {
	toolCalls    *prometheus.CounterVec
	toolLatency  *prometheus.HistogramVec
	resultTerms  *prometheus.HistogramVec
	httpRequests *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates a metrics instance backed by its own registry
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gopn_tool_calls_total",
				Help: "Total number of tool calls by tool and status",
			},
			[]string{"tool", "status"},
		),

		toolLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gopn_tool_call_duration_seconds",
				Help:    "Tool call latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
			},
			[]string{"tool"},
		),

		resultTerms: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gopn_result_terms",
				Help:    "Number of monomials in tool call results",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
			[]string{"tool"},
		),

		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gopn_http_requests_total",
				Help: "Total number of HTTP requests by endpoint and status code",
			},
			[]string{"endpoint", "code"},
		),

		registry: registry,
	}

	registry.MustRegister(
		m.toolCalls,
		m.toolLatency,
		m.resultTerms,
		m.httpRequests,
	)

	return m
}

// RecordToolCall records one dispatched tool call
func (m *Metrics) RecordToolCall(tool, status string, terms int, duration time.Duration) {
	m.toolCalls.WithLabelValues(tool, status).Inc()
	m.toolLatency.WithLabelValues(tool).Observe(duration.Seconds())
	if terms > 0 {
		m.resultTerms.WithLabelValues(tool).Observe(float64(terms))
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(endpoint, code string) {
	m.httpRequests.WithLabelValues(endpoint, code).Inc()
}

// Handler returns the HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
