package storage

import (
	"context"

	"fraudrisk/pkg/domain"
)

// RunUpdates describes the fields applied to a training run on update.
// Attempts is always incremented and updated_at set.
type RunUpdates struct {
	// Status is the new status of the run.
	Status domain.RunStatus
	// Report, when provided, stores the evaluation report of a completed run.
	Report *domain.EvaluationReport
	// LastError, when provided, sets the last error text. An empty string
	// clears it.
	LastError *string
}

// RunStorage keeps track of background training runs.
type RunStorage interface {
	// StoreRun inserts a run and returns it with its generated fields.
	StoreRun(ctx context.Context, run domain.TrainingRun) (*domain.TrainingRun, error)
	// UpdateRun applies updates to a run and returns the updated row, or nil
	// when the run does not exist.
	UpdateRun(ctx context.Context, id domain.RunID, updates RunUpdates) (*domain.TrainingRun, error)
	// RunByID returns the run or nil when it does not exist.
	RunByID(ctx context.Context, id domain.RunID) (*domain.TrainingRun, error)
}
