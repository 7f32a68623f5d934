package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Term extraction sources.
const (
	SourceCache         = "cache"
	SourceLLM           = "llm"
	SourceFallback      = "fallback"
	SourceParseFallback = "parse_fallback"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	TermExtractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "term_extractions_total",
			Help: "Term extractions by the source that produced the result",
		},
		[]string{"source"},
	)

	MatchSuggestionsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_suggestions_returned",
			Help:    "Number of suggestions returned per request",
			Buckets: []float64{0, 1, 2, 5, 10},
		},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Submission notifications by channel and outcome",
		},
		[]string{"channel", "status"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)
)
