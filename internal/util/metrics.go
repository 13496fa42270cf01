package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckoutsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_started_total",
		Help: "Total number of checkout attempts",
	})

	CheckoutsSettledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_settled_total",
		Help: "Total number of checkouts fully settled and archived",
	})

	CheckoutsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_failed_total",
		Help: "Total number of failed checkouts",
	}, []string{"reason"})

	DiscountsAppliedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "discounts_applied_total",
		Help: "Total number of checkouts that crossed the volume discount threshold",
	})

	PaymentAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_attempts_total",
		Help: "Total number of charge attempts during settlement",
	})

	PaymentSuccessTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_success_total",
		Help: "Total number of successful charges",
	})

	PaymentFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_failed_total",
		Help: "Total number of failed charges",
	}, []string{"reason"})

	StockCommitsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_commits_failed_total",
		Help: "Total number of stock commits that failed after settlement",
	}, []string{"reason"})

	SettlementLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "settlement_latency_seconds",
		Help:    "Wall time from checkout start to archive",
		Buckets: prometheus.DefBuckets,
	})

	PaymentsPerCheckout = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "payments_per_checkout",
		Help:    "Number of partial payments used to settle a checkout",
		Buckets: []float64{1, 2, 3, 4, 5, 8, 13},
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
