// Package metrics exposes Prometheus collectors for HTTP traffic and
// mutation action outcomes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "homeaway_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "homeaway_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	actionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "homeaway_action_outcomes_total",
		Help: "Mutation action outcomes by action and result",
	}, []string{"action", "result"})

	uploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "homeaway_upload_bytes",
		Help:    "Size of accepted image uploads",
		Buckets: prometheus.ExponentialBuckets(16*1024, 2, 7),
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// ObserveAction counts one action outcome. result is "success", "redirect" or "error".
func ObserveAction(action, result string) {
	actionOutcomes.WithLabelValues(action, result).Inc()
}

// ObserveUpload records the size of an accepted upload
func ObserveUpload(size int64) {
	uploadBytes.Observe(float64(size))
}
