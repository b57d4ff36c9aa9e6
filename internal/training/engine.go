// Package training fits and evaluates the fraud classifier, and runs the
// end-to-end pipeline (read, build, train, save) either inline or as a
// background job.
package training

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"fraudrisk/pkg/domain"
	"fraudrisk/pkg/forest"
	"fraudrisk/pkg/logger"
	"fraudrisk/pkg/metrics"
	"fraudrisk/pkg/schema"
	"fraudrisk/pkg/serrors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Fixed training parameters. Changing any of them changes every report.
const (
	TestFraction = 0.2
	Seed         = 42
	Trees        = 100
)

// Engine trains a forest on a dataset and evaluates it on a held-out split.
type Engine struct {
	forest       forest.Options
	testFraction float64
	seed         int64
	now          func() time.Time
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithClock overrides the clock stamping EvaluationReport.TrainedAt.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithForestOptions overrides the forest hyperparameters.
func WithForestOptions(opts forest.Options) EngineOption {
	return func(e *Engine) { e.forest = opts }
}

// NewEngine returns an engine with 100 trees, seed 42 and a 20% test split.
func NewEngine(opts ...EngineOption) *Engine {
	fo := forest.DefaultOptions()
	fo.Trees = Trees
	fo.Seed = Seed

	e := &Engine{
		forest:       fo,
		testFraction: TestFraction,
		seed:         Seed,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Train splits ds, fits a forest on the training partition and evaluates it
// on the test partition. Nothing is retried; the report is computed strictly
// on records the forest did not see.
func (e *Engine) Train(ctx context.Context, ds domain.Dataset) (*forest.Forest, domain.EvaluationReport, error) {
	ctx, span := otel.Tracer("fraudrisk/training").Start(ctx, "training.Train")
	defer span.End()
	span.SetAttributes(attribute.Int("dataset.records", ds.Len()))

	model, report, err := e.train(ctx, ds)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "training failed")

		return nil, domain.EvaluationReport{}, err
	}

	return model, report, nil
}

// validate checks every record against the schema so a malformed dataset
// fails naming the offending field rather than inside the forest.
func validate(ds domain.Dataset) error {
	for i := range ds.Len() {
		rec := ds.At(i)
		if err := schema.Validate(rec.Features); err != nil {
			return fmt.Errorf("record %d (%s): %w", i, rec.Domain, err)
		}
		if rec.IsFraudulent != domain.LabelSafe && rec.IsFraudulent != domain.LabelFraudulent {
			return fmt.Errorf("record %d (%s): %w", i, rec.Domain, schema.Mismatch(
				schema.LabelColumn, schema.ReasonOutOfDomain, "0 or 1", strconv.Itoa(int(rec.IsFraudulent))))
		}
	}

	return nil
}

func (e *Engine) train(ctx context.Context, ds domain.Dataset) (*forest.Forest, domain.EvaluationReport, error) {
	if err := validate(ds); err != nil {
		return nil, domain.EvaluationReport{}, err
	}

	safe, fraudulent := ds.LabelCounts()
	if ds.Len() < 2 || safe == 0 || fraudulent == 0 {
		return nil, domain.EvaluationReport{}, serrors.With(ErrInsufficientData,
			"need at least two records of both labels, got %d safe and %d fraudulent", safe, fraudulent)
	}

	trainSet, testSet := Split(ds.Records(), e.testFraction, e.seed)
	X, y := matrix(trainSet)

	started := time.Now()
	model, err := forest.Fit(X, y, e.forest)
	if errors.Is(err, forest.ErrSingleClass) {
		return nil, domain.EvaluationReport{}, serrors.Wrap(ErrInsufficientData, err,
			"training partition of %d records holds a single class", len(trainSet))
	}
	if err != nil {
		return nil, domain.EvaluationReport{}, fmt.Errorf("could not fit forest: %w", err)
	}
	if model.InputSize() != schema.Size {
		return nil, domain.EvaluationReport{}, fmt.Errorf("forest fitted on %d features, schema has %d",
			model.InputSize(), schema.Size)
	}

	predicted := make([]domain.Label, len(testSet))
	actual := make([]domain.Label, len(testSet))
	for i, rec := range testSet {
		predicted[i] = domain.Label(model.Predict(rec.Features))
		actual[i] = rec.IsFraudulent
	}
	metrics.TrainingDuration.Observe(time.Since(started).Seconds())

	report := Evaluate(predicted, actual)
	report.TrainSize = len(trainSet)
	report.TrainedAt = e.now().UTC()

	logger.Info(ctx, "model trained",
		zap.Int("train", report.TrainSize),
		zap.Int("test", report.TestSize),
		zap.Float64("accuracy", report.Accuracy),
		zap.Float64("precision", report.Precision),
		zap.Float64("recall", report.Recall),
		zap.Float64("f1", report.F1))

	return model, report, nil
}

func matrix(records []domain.LabeledRecord) ([][]float64, []int) {
	X := make([][]float64, len(records))
	y := make([]int, len(records))
	for i, rec := range records {
		X[i] = rec.Features
		y[i] = int(rec.IsFraudulent)
	}

	return X, y
}
