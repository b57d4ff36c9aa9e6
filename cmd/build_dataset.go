package main

import (
	"context"
	"fmt"
	"os"

	"fraudrisk/internal/config"
	"fraudrisk/internal/dataset"
	"fraudrisk/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func buildDataset(ctx context.Context, cfg *config.Config, input, output string) error {
	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("could not open raw corpus: %w", err)
	}
	defer in.Close()

	raw, err := dataset.ReadRaw(in)
	if err != nil {
		return fmt.Errorf("could not read raw corpus: %w", err)
	}

	ds, report, err := newBuilder(cfg).Build(ctx, raw)
	if err != nil {
		return fmt.Errorf("could not build dataset: %w", err)
	}

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("could not create dataset file: %w", err)
	}
	if err := dataset.WriteDataset(out, ds); err != nil {
		_ = out.Close()

		return fmt.Errorf("could not write dataset: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("could not close dataset file: %w", err)
	}

	logger.Info(ctx, "dataset written",
		zap.String("output", output),
		zap.Int("records", ds.Len()),
		zap.Int("dropped", len(report.Dropped)),
		zap.Int("duplicates", report.Duplicates))

	return nil
}

// buildDatasetCommand converts a raw URL,Label corpus into the dataset
// interchange CSV.
func buildDatasetCommand(cfg *config.Config) *cobra.Command {
	var input, output string

	cmd := &cobra.Command{
		Use:   "build-dataset",
		Short: "Converts a raw URL,Label CSV into the feature dataset CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildDataset(cmd.Context(), cfg, input, output)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Raw corpus CSV with URL and Label columns")
	cmd.Flags().StringVarP(&output, "output", "o", "dataset.csv", "Dataset CSV to write")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
