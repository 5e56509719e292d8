// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "govscheme_worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "govscheme_worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "govscheme_worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "govscheme_worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "govscheme_gateway_requests_total",
			Help: "Calls to the recommendation backend by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	GatewayLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "govscheme_gateway_request_duration_seconds",
			Help:    "Latency of calls to the recommendation backend",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"operation"},
	)

	SchemesClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "govscheme_schemes_classified_total",
			Help: "Schemes labelled by the classifier",
		},
		[]string{"kind"},
	)

	StaleResultsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "govscheme_stale_results_dropped_total",
			Help: "Backend replies discarded because the session moved on",
		},
		[]string{"operation"},
	)

	ViewTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "govscheme_view_transitions_total",
			Help: "Session view changes by target view",
		},
		[]string{"view"},
	)
)

// ObserveJob records a finished job. An empty errorCode counts as success.
func ObserveJob(taskType string, start time.Time, errorCode string) {
	WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		return
	}
	WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
}

func ObserveGateway(operation, outcome string, start time.Time) {
	GatewayRequests.WithLabelValues(operation, outcome).Inc()
	GatewayLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
