package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Check-in / queue lifecycle
	CheckInsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "helpdesk_checkins_total",
			Help: "Total number of student check-ins",
		},
	)

	CheckOutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_checkouts_total",
			Help: "Total number of check-outs by whether they were forced",
		},
		[]string{"forced"},
	)

	QueueItemsAdded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "helpdesk_queue_items_added_total",
			Help: "Total number of queue items added",
		},
	)

	QueueTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_queue_transitions_total",
			Help: "Total number of queue item status changes by target status",
		},
		[]string{"status"},
	)

	ForcedCheckIns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "helpdesk_forced_checkins_closed_total",
			Help: "Total number of check-ins closed by a helpdesk clear",
		},
	)

	ForcedQueueItems = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "helpdesk_forced_queue_items_removed_total",
			Help: "Total number of queue items removed by a helpdesk clear",
		},
	)

	// Background jobs
	JobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_job_runs_total",
			Help: "Total number of background job runs by job and result",
		},
		[]string{"job", "result"},
	)

	JobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "helpdesk_job_duration_seconds",
			Help:    "Background job duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"job"},
	)

	// HTTP
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "helpdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func init() {
	prometheus.MustRegister(CheckInsTotal)
	prometheus.MustRegister(CheckOutsTotal)
	prometheus.MustRegister(QueueItemsAdded)
	prometheus.MustRegister(QueueTransitions)
	prometheus.MustRegister(ForcedCheckIns)
	prometheus.MustRegister(ForcedQueueItems)
	prometheus.MustRegister(JobRuns)
	prometheus.MustRegister(JobDuration)
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
