// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"proximity-pay/internal/pkg/errs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "proxpay"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by route, method and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	SessionOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_operations_total",
		Help:      "Payment session operations by outcome.",
	}, []string{"operation", "outcome"})

	TransferDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ledger_transfer_duration_seconds",
		Help:      "Time spent inside a ledger transfer.",
		Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	})

	TransferredCentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_transferred_cents_total",
		Help:      "Sum of amounts moved by committed transfers.",
	})
)

// Outcome turns an operation error into a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errs.Is(err, errs.ErrInvalidAmount):
		return "invalid_amount"
	case errs.Is(err, errs.ErrNotFound):
		return "not_found"
	case errs.Is(err, errs.ErrGone):
		return "gone"
	case errs.Is(err, errs.ErrConflict):
		return "conflict"
	case errs.Is(err, errs.ErrSelfPayment):
		return "self_payment"
	case errs.Is(err, errs.ErrDuplicateRequest):
		return "duplicate"
	case errs.Is(err, errs.ErrInsufficientFunds):
		return "insufficient_funds"
	default:
		return "error"
	}
}

func ObserveSessionOperation(operation string, err error) {
	SessionOperationsTotal.WithLabelValues(operation, Outcome(err)).Inc()
}
