// Package metrics provides Prometheus instrumentation for the gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts logical Kling requests by final outcome.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kling_requests_total",
			Help: "Total logical Kling API requests by outcome.",
		},
		[]string{"region", "purpose", "outcome"}, // outcome: success, api_error, no_keys, failed
	)

	// AttemptsTotal counts individual dispatch attempts, including retries.
	AttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kling_attempts_total",
			Help: "Total Kling API dispatch attempts, including retries.",
		},
		[]string{"region"},
	)

	// KeysExhaustedTotal counts keys disabled after the service reported
	// an exhaustion code.
	KeysExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kling_keys_exhausted_total",
			Help: "Total API keys disabled due to exhaustion responses.",
		},
		[]string{"region"},
	)

	// RequestDuration tracks end-to-end latency of successful requests,
	// including retries and backoff.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kling_request_duration_seconds",
			Help:    "End-to-end Kling request latency in seconds.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"region"},
	)

	// AvailableKeys tracks how many keys are currently selectable per region.
	AvailableKeys = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kling_available_keys",
			Help: "Number of enabled, unexpired API keys per region.",
		},
		[]string{"region"},
	)

	// GatewayRequestsTotal counts inbound gateway requests by route and status.
	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Total inbound gateway requests by route and status code.",
		},
		[]string{"route", "status"},
	)
)
