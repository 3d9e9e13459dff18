package observability

import (
	"context"
	"strconv"

	"github.com/aretw0/rdrscript/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by session hooks.
type Metrics struct {
	registry *prometheus.Registry

	requests  *prometheus.CounterVec
	bytes     *prometheus.CounterVec
	responses *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	events    *prometheus.CounterVec
	windows   *prometheus.CounterVec
}

// NewMetrics registers the session collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rdrscript_requests_total",
				Help: "Requests sent to the renderer",
			},
			[]string{"operation"},
		),
		bytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rdrscript_request_bytes_total",
				Help: "Document bytes carried by load and write requests",
			},
			[]string{"operation"},
		),
		responses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rdrscript_responses_total",
				Help: "Responses matched to a pending request",
			},
			[]string{"operation", "ret_code"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rdrscript_response_latency_seconds",
				Help:    "Time between a request and its response",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"operation"},
		),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rdrscript_events_total",
				Help: "Renderer events by name and outcome",
			},
			[]string{"event", "outcome"},
		),
		windows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rdrscript_window_transitions_total",
				Help: "Window transfer state transitions",
			},
			[]string{"to"},
		),
	}
	m.registry.MustRegister(m.requests, m.bytes, m.responses, m.latency, m.events, m.windows)
	return m
}

// Registry exposes the collectors, e.g. for promhttp or tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRequestSent: func(_ context.Context, e *domain.RequestEvent) {
			m.requests.WithLabelValues(e.Operation).Inc()
			if e.Bytes > 0 {
				m.bytes.WithLabelValues(e.Operation).Add(float64(e.Bytes))
			}
		},
		OnResponse: func(_ context.Context, e *domain.ResponseEvent) {
			code := strconv.Itoa(e.RetCode)
			if e.Cancelled {
				code = "cancelled"
			}
			m.responses.WithLabelValues(e.Operation, code).Inc()
			m.latency.WithLabelValues(e.Operation).Observe(e.Latency.Seconds())
		},
		OnEvent: func(_ context.Context, e *domain.RendererEvent) {
			outcome := "unmatched"
			switch {
			case e.Matched && e.Action == domain.ActionQuit:
				outcome = "quit"
			case e.Matched:
				outcome = "matched"
			}
			m.events.WithLabelValues(e.Event, outcome).Inc()
		},
		OnWindowState: func(_ context.Context, e *domain.WindowEvent) {
			m.windows.WithLabelValues(string(e.To)).Inc()
		},
	}
}
