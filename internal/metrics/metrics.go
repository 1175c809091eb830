package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, endpoint and status code.",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shareit",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by endpoint.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	bookingEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "booking_events_total",
			Help:      "Booking lifecycle events by resulting status.",
		},
		[]string{"status"},
	)

	syncTasks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "sheet_sync_tasks_total",
			Help:      "Spreadsheet sync tasks by type and result.",
		},
		[]string{"type", "result"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, bookingEvents, syncTasks)
	})
}

// ObserveHTTP records one finished HTTP request.
func ObserveHTTP(method, endpoint, status string, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, endpoint, status).Inc()
	httpDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// IncBooking increments the booking event counter for a status label.
func IncBooking(status string) {
	bookingEvents.WithLabelValues(status).Inc()
}

// IncSyncTask increments the sync task counter.
func IncSyncTask(taskType, result string) {
	syncTasks.WithLabelValues(taskType, result).Inc()
}
