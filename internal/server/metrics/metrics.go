// Package metrics registers the server's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Circulation
	BooksIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "libris_books_issued_total",
			Help: "Total number of loans opened",
		},
	)

	BooksReturned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "libris_books_returned_total",
			Help: "Total number of loans closed",
		},
	)

	FinesAssessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "libris_fines_assessed_total",
			Help: "Sum of fines charged on return",
		},
	)

	IdentifiersAllocated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libris_identifiers_allocated_total",
			Help: "Sequential identifiers handed out, by prefix",
		},
		[]string{"prefix"},
	)

	ManagementDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libris_management_requests_resolved_total",
			Help: "Management requests resolved, by outcome",
		},
		[]string{"status"},
	)

	// Notifications
	NotificationsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "libris_notifications_sent_total",
			Help: "Notifications delivered to the mail relay",
		},
	)

	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libris_notifications_failed_total",
			Help: "Notifications that could not be queued or delivered",
		},
		[]string{"stage"}, // "enqueue", "deliver"
	)

	// HTTP
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "libris_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RecordHTTPRequest observes one finished request.
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// RecordReturn counts a closed loan and its fine.
func RecordReturn(fine int64) {
	BooksReturned.Inc()
	if fine > 0 {
		FinesAssessed.Add(float64(fine))
	}
}
