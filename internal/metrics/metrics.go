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
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	RentalsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rentals_created_total",
			Help: "Total number of rentals opened",
		},
	)

	RentalsReturnedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rentals_returned_total",
			Help: "Total number of rentals returned",
		},
	)
)
