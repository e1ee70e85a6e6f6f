package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ReconciliationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "balance_reconciliations_total",
			Help: "Total number of balance reconciliation runs",
		},
	)

	// BalanceClampsTotal counts reconciliations whose computed closing balance
	// was negative and got clamped to zero. A non-zero rate indicates data
	// inconsistency that the clamp is masking.
	BalanceClampsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "balance_clamps_total",
			Help: "Reconciliations where a negative computed balance was clamped to zero",
		},
	)
)
