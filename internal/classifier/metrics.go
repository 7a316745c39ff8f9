package classifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TrainingRunsTotal tracks training runs by outcome
	TrainingRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tactics_training_runs_total",
			Help: "Total number of model training runs",
		},
		[]string{"status"}, // success, failure
	)

	// TrainingDuration tracks end-to-end training duration
	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tactics_training_duration_seconds",
			Help:    "Model training duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)

	// GridSearchFitsTotal tracks individual fold fits during grid search
	GridSearchFitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tactics_grid_search_fits_total",
			Help: "Total number of grid-search fold fits",
		},
	)

	// PredictionsTotal tracks served predictions
	PredictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tactics_predictions_total",
			Help: "Total number of tactical predictions served",
		},
	)

	// PredictionLatency tracks single-prediction latency
	PredictionLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tactics_prediction_latency_seconds",
			Help:    "Tactical prediction latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
