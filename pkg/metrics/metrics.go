package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ProductOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "catalog", Name: "product_operations_total", Help: "Number of product operations by operation and result."},
		[]string{"operation", "result"},
	)
	ImageBytesStored = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "catalog", Name: "image_bytes_stored_total", Help: "Bytes of uploaded images written to the image store."},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "catalog", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "catalog", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "catalog", Name: "http_request_duration_seconds", Help: "HTTP request latency by method, route and status.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route", "status"},
	)
)

// Operation results used as the "result" label.
const (
	ResultSuccess     = "success"
	ResultClientError = "client_error"
	ResultError       = "error"
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(ProductOperations)
	reg.MustRegister(ImageBytesStored)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(HTTPRequestDuration)
}
