// Package metrics declares the Prometheus collectors shared across the
// service. Collectors register on the default registerer, which the API server
// exposes on its metrics path.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "fraudrisk"

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

// Prediction outcomes.
const (
	OutcomeFraud    = "fraud"
	OutcomeSafe     = "safe"
	OutcomeRejected = "rejected"
)

// Training run outcomes.
const (
	RunCompleted = "completed"
	RunFailed    = "failed"
)

//nolint: gochecknoglobals
var (
	// Predictions counts scoring requests by outcome.
	Predictions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scoring",
		Name:      "predictions_total",
		Help:      "Number of scoring requests by outcome.",
	}, []string{"outcome"})

	// PredictionDuration observes model inference latency.
	PredictionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "scoring",
		Name:      "prediction_duration_seconds",
		Help:      "Latency of model inference.",
		Buckets:   DefaultBuckets,
	})

	// RiskScores observes the distribution of returned risk scores.
	RiskScores = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "scoring",
		Name:      "risk_score",
		Help:      "Distribution of returned risk scores (0-100).",
		Buckets:   prometheus.LinearBuckets(10, 10, 10),
	})

	// TrainingRuns counts training runs by outcome.
	TrainingRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "training",
		Name:      "runs_total",
		Help:      "Number of training runs by outcome.",
	}, []string{"outcome"})

	// TrainingDuration observes the wall time of fitting and evaluating a model.
	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "training",
		Name:      "duration_seconds",
		Help:      "Time spent fitting and evaluating a model.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})

	// ModelQuality exposes the held-out metrics of the model being served or
	// last trained, as fractions.
	ModelQuality = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "model",
		Name:      "quality",
		Help:      "Held-out evaluation metrics of the current model.",
	}, []string{"metric"})
)

func init() { //nolint: gochecknoinits
	prometheus.MustRegister(
		Predictions,
		PredictionDuration,
		RiskScores,
		TrainingRuns,
		TrainingDuration,
		ModelQuality,
	)
}

// SetModelQuality publishes accuracy, precision, recall and f1.
func SetModelQuality(accuracy, precision, recall, f1 float64) {
	ModelQuality.WithLabelValues("accuracy").Set(accuracy)
	ModelQuality.WithLabelValues("precision").Set(precision)
	ModelQuality.WithLabelValues("recall").Set(recall)
	ModelQuality.WithLabelValues("f1").Set(f1)
}
