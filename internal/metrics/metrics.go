package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Метрики для gRPC (health)
	GrpcRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grpc_requests_total",
		Help: "Total number of gRPC requests",
	}, []string{"method", "status"})

	GrpcRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "grpc_request_duration_seconds",
		Help:    "Duration of gRPC requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	// Метрики для HTTP (REST API)
	HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HttpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// Доменные события по kind (см. api/events.go)
	ActivityTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weconnect_activity_total",
		Help: "Committed user activity by kind",
	}, []string{"kind"})

	TransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weconnect_store_transactions_total",
		Help: "Store transactions by outcome",
	}, []string{"reason", "outcome"})
)
