package main

import (
	"context"
	"os/signal"
	"syscall"

	"fraudrisk/internal/config"
	"fraudrisk/internal/training"
	"fraudrisk/internal/worker"
	"fraudrisk/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startWorker starts processing training jobs and returns a function that
// stops the River client, waiting for running jobs until ctx expires.
func startWorker(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, trainer training.Trainer) func(ctx context.Context) {
	riverClient, err := worker.Start(ctx, pool, trainer, worker.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not start worker", zap.Error(err))
	}
	logger.Info(ctx, "worker started", zap.Int("maxWorkers", cfg.Worker.MaxWorkers))

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping worker...")
		if err := riverClient.Stop(ctx); err != nil {
			logger.Error(ctx, "could not stop worker", zap.Error(err))
		}
	}
}

func workerCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Processes queued training runs",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pg, closePg := getPostgres(ctx, cfg)
			defer closePg()

			trainer, closeTrainer := newTrainer(ctx, cfg, pg)
			defer closeTrainer()

			stopWorker := startWorker(ctx, cfg, pg.Pool, trainer)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWorker(shutdownCtx)
		},
	}
}
