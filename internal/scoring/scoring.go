// Package scoring turns a feature vector into a fraud decision and a risk
// percentage using a loaded model.
//
//go:generate mockgen -package mockscoring -source=scoring.go -destination=mock/mockscoring.go *
package scoring

import (
	"context"
	"fmt"
	"time"

	"fraudrisk/pkg/logger"
	"fraudrisk/pkg/metrics"
	"fraudrisk/pkg/schema"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Threshold is the fraud probability above which a request is flagged.
const Threshold = 0.5

// Model is a fitted binary classifier.
type Model interface {
	// PredictProba returns the probability that x is fraudulent.
	PredictProba(x []float64) float64
	// InputSize is the number of features the model was fitted on.
	InputSize() int
}

// Scorer scores feature vectors.
type Scorer interface {
	Score(ctx context.Context, features schema.FeatureVector) (bool, float64, error)
}

// Service is a Scorer over an immutable model. It holds no mutable state and
// may be shared by concurrent callers.
type Service struct {
	model Model
}

var _ Scorer = (*Service)(nil)

// New wraps model, refusing one fitted on a different schema.
func New(model Model) (*Service, error) {
	if model.InputSize() != schema.Size {
		return nil, fmt.Errorf("model expects %d features, schema has %d", model.InputSize(), schema.Size)
	}

	return &Service{model: model}, nil
}

// Score validates features and returns the decision and the unrounded risk
// in [0, 100]. An invalid vector never reaches the model.
func (s *Service) Score(ctx context.Context, features schema.FeatureVector) (bool, float64, error) {
	ctx, span := otel.Tracer("fraudrisk/scoring").Start(ctx, "scoring.Score")
	defer span.End()

	if err := schema.Validate(features); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid features")
		metrics.Predictions.WithLabelValues(metrics.OutcomeRejected).Inc()

		return false, 0, err //nolint: wrapcheck
	}

	started := time.Now()
	proba := s.model.PredictProba(features)
	metrics.PredictionDuration.Observe(time.Since(started).Seconds())

	isFraud := proba > Threshold
	risk := proba * 100

	outcome := metrics.OutcomeSafe
	if isFraud {
		outcome = metrics.OutcomeFraud
	}
	metrics.Predictions.WithLabelValues(outcome).Inc()
	metrics.RiskScores.Observe(risk)
	span.SetAttributes(attribute.Bool("score.fraud", isFraud), attribute.Float64("score.risk", risk))
	logger.Debug(ctx, "scored features", zap.Bool("fraud", isFraud), zap.Float64("risk", risk))

	return isFraud, risk, nil
}
