package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	URLChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "url_checks_total",
			Help: "Total number of check runs by outcome.",
		},
		[]string{"outcome"}, // recorded, failed, not_found
	)

	URLCheckDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "url_check_duration_seconds",
			Help:    "Duration of page fetches during checks.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"host"},
	)

	URLsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "urls_created_total",
			Help: "Total number of registered URLs.",
		},
	)
)
