package training

import (
	"context"

	"fraudrisk/pkg/domain"
	"fraudrisk/pkg/forest"
)

//go:generate mockgen -package mocktraining -source=interface.go -destination=mock/mocktraining.go *

// ModelSaver persists a trained model together with its report.
type ModelSaver interface {
	Save(ctx context.Context, model *forest.Forest, report domain.EvaluationReport) error
}

// Trainer schedules and processes background training runs.
type Trainer interface {
	// Enqueue records a pending run for src and queues a job for it.
	Enqueue(ctx context.Context, src Source) (*domain.TrainingRun, error)
	// Run returns a training run by id.
	Run(ctx context.Context, id domain.RunID) (*domain.TrainingRun, error)
	// Process runs the pipeline for a queued run and records the outcome.
	// lastAttempt marks the run failed when the pipeline fails.
	Process(ctx context.Context, id domain.RunID, src Source, lastAttempt bool) error
}

// Runner executes the training pipeline inline.
type Runner interface {
	Run(ctx context.Context, src Source) (domain.EvaluationReport, error)
}
