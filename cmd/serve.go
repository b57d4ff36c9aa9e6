package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"fraudrisk/internal/api"
	"fraudrisk/internal/api/handler/v1handler"
	"fraudrisk/internal/artifact"
	"fraudrisk/internal/config"
	"fraudrisk/internal/scoring"
	"fraudrisk/pkg/logger"
	"fraudrisk/pkg/metrics"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func setupServer(ctx context.Context, cfg *config.Config, deps api.Deps) func(ctx context.Context) {
	server, err := api.NewServer(deps, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

// loadScorer loads the stored artifact. The process exits when no usable
// model exists; serving never falls back to a default.
func loadScorer(ctx context.Context, cfg *config.Config) v1handler.Deps {
	backend, closeBackend := getArtifactBackend(ctx, cfg, nil)
	defer closeBackend()

	model, report, err := artifact.NewStore(backend).Load(ctx)
	if err != nil {
		logger.Fatal(ctx, "could not load model artifact", zap.Error(err))
	}
	scorer, err := scoring.New(model)
	if err != nil {
		logger.Fatal(ctx, "could not create scorer", zap.Error(err))
	}
	metrics.SetModelQuality(report.Accuracy, report.Precision, report.Recall, report.F1)
	logger.Info(ctx, "model loaded",
		zap.Int("trees", len(model.Trees)),
		zap.Time("trainedAt", report.TrainedAt),
		zap.Float64("accuracy", report.Accuracy))

	return v1handler.Deps{Scorer: scorer, Report: report}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	var (
		trainAPI   bool
		withWorker bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Loads the model and starts the scoring API",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			deps := api.Deps{Deps: loadScorer(ctx, cfg)}

			var stopWorker func(ctx context.Context)
			if trainAPI || withWorker {
				pg, closePg := getPostgres(ctx, cfg)
				defer closePg()

				trainer, closeTrainer := newTrainer(ctx, cfg, pg)
				defer closeTrainer()
				deps.Trainer = trainer

				if withWorker {
					stopWorker = startWorker(ctx, cfg, pg.Pool, trainer)
				}
			}

			stopWebserver := setupServer(ctx, cfg, deps)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
			if stopWorker != nil {
				stopWorker(shutdownCtx)
			}
		},
	}
	cmd.Flags().BoolVar(&trainAPI, "train-api", false, "Serve /v1/train (requires postgres)")
	cmd.Flags().BoolVar(&withWorker, "worker", false, "Also process training jobs in this process (implies --train-api)")

	return cmd
}
