package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderdesk_orders_created_total",
		Help: "Total number of orders successfully created.",
	})

	OrdersReplacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderdesk_orders_replaced_total",
		Help: "Total number of orders successfully replaced.",
	})

	OrdersDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderdesk_orders_deleted_total",
		Help: "Total number of order records removed.",
	})

	HistoryAppendsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderdesk_history_appends_total",
		Help: "Total number of history entries appended.",
	})

	ChatbotRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderdesk_chatbot_requests_total",
		Help: "Total number of chatbot questions proxied, by outcome.",
	},
		[]string{"outcome"},
	)

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderdesk_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "orderdesk_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	},
		[]string{"method", "route"},
	)
)
