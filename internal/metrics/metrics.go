package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	ChatTurnsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_chat_turns_total",
			Help: "Total completed chat turns",
		},
	)

	AuthFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_auth_remote_fallbacks_total",
			Help: "Total credential verifications that fell back to the remote provider",
		},
	)

	// Upstream metrics
	UpstreamLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gateway_upstream_latency_seconds",
			Help:    "Chat completion call latency",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	UpstreamErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_upstream_errors_total",
			Help: "Total failed chat completion calls",
		},
	)
)
