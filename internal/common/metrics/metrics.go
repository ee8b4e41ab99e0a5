// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EstimationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estimator_estimations_total",
			Help: "Estimation requests by outcome",
		},
		[]string{"channel", "status"},
	)

	EstimationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "estimator_estimation_duration_seconds",
			Help:    "Time spent assembling features, predicting and rounding",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"channel"},
	)

	ParseFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estimator_parse_failures_total",
			Help: "Text attributes that normalized to missing",
		},
		[]string{"field"},
	)

	ApproximatedFeatures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estimator_approximated_features_total",
			Help: "Serving features filled from structured flags or placeholders instead of description text",
		},
		[]string{"field"},
	)

	TrainingRecordsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estimator_training_records_dropped_total",
			Help: "Historical records excluded from a training run",
		},
		[]string{"reason"},
	)

	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estimator_training_runs_total",
			Help: "Training runs by outcome",
		},
		[]string{"status"},
	)

	ModelTestMetric = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "estimator_model_test_metric",
			Help: "Held-out evaluation of the last trained model (r2, mae, rmse)",
		},
		[]string{"metric"},
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
)
