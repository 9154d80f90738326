package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sysexconf",
			Subsystem: "admin_http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sysexconf",
			Subsystem: "admin_http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	responsesByStatus = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sysexconf",
			Subsystem: "engine",
			Name:      "responses_total",
			Help:      "Protocol engine responses, by status byte.",
		},
		[]string{"status"},
	)
)

// RegisterMetrics registers the package's collectors with the default
// Prometheus registry. Safe to call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, responsesByStatus)
	})
}

// RecordHTTPRequest records one admin HTTP request's outcome.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

// RecordEngineStatus records one engine response's status byte.
func RecordEngineStatus(statusLabel string) {
	RegisterMetrics()
	responsesByStatus.WithLabelValues(statusLabel).Inc()
}
