package training

import (
	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"

	"fraudrisk/pkg/domain"
)

// JobArgs contains the arguments of a background training job submitted to
// River.
type JobArgs struct {
	// RunID is the training run this job reports to. It is marked as unique
	// so a run is never trained twice concurrently.
	RunID uuid.UUID `json:"runId" river:"unique"`
	// Path is the input file, read on the worker host.
	Path string `json:"path"`
	// Format tells how to read Path.
	Format domain.SourceFormat `json:"format"`

	// maxAttempts configures the maximum number of times River should retry the job.
	maxAttempts int
}

// Kind returns the River job kind used to register and dispatch the training worker.
func (args JobArgs) Kind() string { return "TrainModelJob" }

// InsertOpts returns the River options that control how the job is enqueued.
func (args JobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: args.maxAttempts,
		Queue:       Queue,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStatePending,
				rivertype.JobStateRunning,
				rivertype.JobStateRetryable,
				rivertype.JobStateScheduled,
			},
		},
	}
}

// Source returns the pipeline input described by the job.
func (args JobArgs) Source() Source {
	return Source{Path: args.Path, Format: args.Format}
}

// Queue is the River queue training jobs run on.
const Queue = "training"
