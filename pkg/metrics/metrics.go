package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pixel fetch outcomes: first_seen, repeat, not_found, missing_token, error
	PixelFetchCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pixel_fetch_count",
			Help: "Total number of tracking pixel fetches by outcome",
		},
		[]string{"outcome"},
	)

	TrackedEmailCreatedCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tracked_email_created_count",
			Help: "Total number of tracked emails issued",
		},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)
)

// RecordPixelFetch increments the pixel fetch counter for an outcome.
func RecordPixelFetch(outcome string) {
	PixelFetchCount.WithLabelValues(outcome).Inc()
}

// RecordDBQueryDuration records store query latency per operation and table.
func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordHTTPRequestDuration records HTTP request latency.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
