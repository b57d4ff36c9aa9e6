package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunID uniquely identifies a background training run.
type RunID uuid.UUID

func (id RunID) String() string { return uuid.UUID(id).String() }

// RunStatus is the lifecycle state of a training run.
type RunStatus string

const (
	// RunStatusPending means the job is queued or being retried.
	RunStatusPending RunStatus = "PENDING"
	// RunStatusCompleted means a new artifact was saved; Report is set.
	RunStatusCompleted RunStatus = "COMPLETED"
	// RunStatusFailed means the run gave up; see LastError.
	RunStatusFailed RunStatus = "FAILED"
)

// SourceFormat tells the training pipeline how to read its input file.
type SourceFormat string

const (
	// SourceFormatRaw is a URL,Label corpus that goes through the dataset builder.
	SourceFormatRaw SourceFormat = "raw"
	// SourceFormatDataset is an already built interchange file.
	SourceFormatDataset SourceFormat = "dataset"
)

// TrainingRun tracks one background training request.
type TrainingRun struct {
	ID     RunID
	Source string
	Format SourceFormat
	Status RunStatus
	// Report is set once the run completed.
	Report *EvaluationReport

	Attempts  uint
	LastError string

	CreatedAt time.Time
	UpdatedAt time.Time
}
