// Package worker runs background training jobs on River.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fraudrisk/internal/config"
	"fraudrisk/internal/training"
	"fraudrisk/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"go.uber.org/zap/exp/zapslog"
)

// Options configure the River client of the training worker.
type Options struct {
	// MaxWorkers is the number of training jobs run concurrently.
	MaxWorkers int
	// JobTimeout bounds a single training attempt; zero disables it.
	JobTimeout time.Duration
}

// NewOptions reads the worker section of cfg.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxWorkers: cfg.Worker.MaxWorkers,
		JobTimeout: cfg.Worker.JobTimeout,
	}
}

// Start registers the training worker and starts a River client processing
// the training queue.
func Start(ctx context.Context, dbPool *pgxpool.Pool, trainer training.Trainer, opts Options) (*river.Client[pgx.Tx], error) {
	workers := river.NewWorkers()
	river.AddWorker(workers, NewTrainModelWorker(trainer, opts.JobTimeout))

	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			training.Queue: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
		Logger:  slog.New(zapslog.NewHandler(logger.Get(ctx).Core())),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}

	return riverClient, nil
}
