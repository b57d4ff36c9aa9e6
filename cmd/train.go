package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fraudrisk/internal/config"
	"fraudrisk/internal/training"
	"fraudrisk/pkg/domain"
	"fraudrisk/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// writeMetrics stores the report interchange JSON consumed by the frontend.
func writeMetrics(path string, report domain.EvaluationReport) error {
	b, err := json.MarshalIndent(report.Summary(), "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode metrics: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil { //nolint: gosec
		return fmt.Errorf("could not write metrics: %w", err)
	}

	return nil
}

func trainInline(ctx context.Context, cfg *config.Config, src training.Source) error {
	backend, closeBackend := getArtifactBackend(ctx, cfg, nil)
	defer closeBackend()

	report, err := newPipeline(cfg, backend).Run(ctx, src)
	if err != nil {
		return err //nolint: wrapcheck
	}

	s := report.Summary()
	logger.Info(ctx, "model metrics (%)",
		zap.Float64("accuracy", s.Accuracy),
		zap.Float64("precision", s.Precision),
		zap.Float64("recall", s.Recall),
		zap.Float64("f1", s.F1))

	if cfg.Artifact.MetricsPath != "" {
		if err := writeMetrics(cfg.Artifact.MetricsPath, report); err != nil {
			return err
		}
		logger.Info(ctx, "metrics written", zap.String("path", cfg.Artifact.MetricsPath))
	}

	return nil
}

func trainEnqueue(ctx context.Context, cfg *config.Config, src training.Source) error {
	pg, closePg := getPostgres(ctx, cfg)
	defer closePg()

	trainer, closeTrainer := newTrainer(ctx, cfg, pg)
	defer closeTrainer()

	// the CLI takes paths relative to the working directory, the API relative
	// to the data directory
	abs, err := filepath.Abs(src.Path)
	if err != nil {
		return fmt.Errorf("could not resolve input path: %w", err)
	}
	src.Path = abs

	run, err := trainer.Enqueue(ctx, src)
	if err != nil {
		return fmt.Errorf("could not enqueue training run: %w", err)
	}
	logger.Info(ctx, "training run queued", zap.Stringer("runID", run.ID))

	return nil
}

// trainCommand trains, evaluates and saves the model, either inline or by
// queueing a job for the worker.
func trainCommand(cfg *config.Config) *cobra.Command {
	var (
		input   string
		format  string
		enqueue bool
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Trains the classifier and saves it with its evaluation report",
		RunE: func(cmd *cobra.Command, args []string) error {
			src := training.Source{Path: input, Format: domain.SourceFormat(format)}
			if enqueue {
				return trainEnqueue(cmd.Context(), cfg, src)
			}

			return trainInline(cmd.Context(), cfg, src)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "dataset.csv", "Training input file")
	cmd.Flags().StringVarP(&format, "format", "f", string(domain.SourceFormatDataset),
		"Input format: dataset (feature CSV) or raw (URL,Label CSV)")
	cmd.Flags().BoolVar(&enqueue, "enqueue", false, "Queue a background training run instead of training inline")

	return cmd
}
