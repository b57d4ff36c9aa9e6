package worker

import (
	"context"
	"fmt"
	"time"

	"fraudrisk/internal/training"
	"fraudrisk/pkg/domain"
	"fraudrisk/pkg/logger"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

// TrainModelWorker is a River worker that runs queued training runs through a
// training.Trainer, which records each attempt's outcome on the run.
//
// Permanent failures (bad input, a single-class dataset, a missing file) cancel
// the job so River does not retry them. Other failures are returned and
// retried until the job's attempts are exhausted; the last attempt marks the
// run failed.
type TrainModelWorker struct {
	river.WorkerDefaults[training.JobArgs]

	trainer training.Trainer
	timeout time.Duration
}

// NewTrainModelWorker constructs a TrainModelWorker. A zero timeout lets a
// training job run without a deadline.
func NewTrainModelWorker(trainer training.Trainer, timeout time.Duration) *TrainModelWorker {
	return &TrainModelWorker{
		trainer: trainer,
		timeout: timeout,
	}
}

// Timeout overrides River's default job timeout, which is far shorter than a
// training run.
func (w *TrainModelWorker) Timeout(*river.Job[training.JobArgs]) time.Duration {
	if w.timeout <= 0 {
		return -1
	}

	return w.timeout
}

func (w *TrainModelWorker) Work(ctx context.Context, job *river.Job[training.JobArgs]) error {
	ctx = logger.WithFields(ctx,
		zap.Int64("jobID", job.ID),
		zap.Stringer("runID", job.Args.RunID),
		zap.Int("attempt", job.Attempt))

	lastAttempt := job.Attempt >= job.MaxAttempts
	err := w.trainer.Process(ctx, domain.RunID(job.Args.RunID), job.Args.Source(), lastAttempt)
	if err != nil {
		if training.IsPermanent(err) {
			logger.Warn(ctx, "training run failed permanently", zap.Error(err))

			return river.JobCancel(err) //nolint: wrapcheck
		}

		logger.Error(ctx, "training run failed", zap.Error(err), zap.Bool("lastAttempt", lastAttempt))

		return fmt.Errorf("could not train model: %w", err)
	}

	logger.Info(ctx, "training run completed")

	return nil
}
