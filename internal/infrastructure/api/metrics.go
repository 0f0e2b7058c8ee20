package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "userhub_client_api_requests_total", Help: "Backend API requests by endpoint and status"},
		[]string{"endpoint", "status"},
	)
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "userhub_client_api_request_duration_seconds", Help: "Backend API request duration", Buckets: prometheus.DefBuckets},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(apiRequestsTotal, apiRequestDuration)
}

func observeRequest(endpoint, status string, elapsed time.Duration) {
	apiRequestsTotal.WithLabelValues(endpoint, status).Inc()
	apiRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}
