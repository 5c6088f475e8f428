// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
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

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	QueriesInterpreted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_queries_interpreted_total",
			Help: "Messages interpreted, by classified intent",
		},
		[]string{"intent"},
	)

	InterpretDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_interpret_duration_seconds",
			Help:    "Time spent classifying and extracting entities",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
		[]string{"intent"},
	)

	QuickActionsRouted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_quick_actions_total",
			Help: "Messages answered by a quick action, by section",
		},
		[]string{"section_id"},
	)

	VisitsUpserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_vip_visits_upserted_total",
			Help: "VIP visit upserts, by outcome (created or updated)",
		},
		[]string{"operation"},
	)

	VisitStoreRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assistant_visit_store_records",
			Help: "Number of VIP visits held by the store",
		},
	)

	VisitStorePersistFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_visit_store_persist_failures_total",
			Help: "Snapshot load and save failures",
		},
		[]string{"phase"},
	)
)
