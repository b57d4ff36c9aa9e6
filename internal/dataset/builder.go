// Package dataset turns raw labeled URLs into schema-conformant training
// rows and reads/writes the dataset interchange files.
package dataset

import (
	"context"
	"fmt"

	"fraudrisk/pkg/domain"
	"fraudrisk/pkg/logger"
	"fraudrisk/pkg/schema"

	"go.uber.org/zap"
)

// DroppedRow records why a raw row did not make it into the dataset.
type DroppedRow struct {
	// Row is the zero-based index in the raw input.
	Row int
	Err error
}

// BuildReport summarizes one build.
type BuildReport struct {
	Input      int
	Dropped    []DroppedRow
	Duplicates int
}

// Builder converts raw records into a Dataset.
type Builder struct {
	extractor Extractor
	labels    LabelMap
}

// NewBuilder returns a Builder using the given feature extractor and label
// lookup.
func NewBuilder(extractor Extractor, labels LabelMap) *Builder {
	return &Builder{
		extractor: extractor,
		labels:    labels,
	}
}

// Build maps every raw record to a LabeledRecord and deduplicates by
// registrable domain, keeping the first occurrence in input order.
//
// Rows whose domain can not be extracted or whose label is unknown are dropped
// and listed in the report. Any other error, including an extractor producing
// a vector that violates the schema, aborts the build.
func (b *Builder) Build(ctx context.Context, raw []RawRecord) (domain.Dataset, BuildReport, error) {
	report := BuildReport{Input: len(raw)}
	seen := make(map[string]struct{}, len(raw))
	records := make([]domain.LabeledRecord, 0, len(raw))

	for i, rec := range raw {
		registrable, err := RegistrableDomain(rec.URL)
		if err != nil {
			report.Dropped = append(report.Dropped, b.drop(ctx, i, err))

			continue
		}
		label, err := b.labels.Map(rec.Label)
		if err != nil {
			report.Dropped = append(report.Dropped, b.drop(ctx, i, err))

			continue
		}
		if _, dup := seen[registrable]; dup {
			report.Duplicates++

			continue
		}

		features, err := b.extractor.Extract(ctx, rec, registrable)
		if err != nil {
			return domain.Dataset{}, report, fmt.Errorf("could not extract features of row %d: %w", i, err)
		}
		if err := schema.Validate(features); err != nil {
			return domain.Dataset{}, report, fmt.Errorf("extractor produced invalid features for row %d: %w", i, err)
		}

		seen[registrable] = struct{}{}
		records = append(records, domain.LabeledRecord{
			Domain:       registrable,
			Features:     features,
			IsFraudulent: label,
		})
	}

	logger.Info(ctx, "dataset built",
		zap.Int("input", report.Input),
		zap.Int("records", len(records)),
		zap.Int("dropped", len(report.Dropped)),
		zap.Int("duplicates", report.Duplicates))

	return domain.NewDataset(records), report, nil
}

func (b *Builder) drop(ctx context.Context, row int, err error) DroppedRow {
	logger.Warn(ctx, "dropping raw row", zap.Int("row", row), zap.Error(err))

	return DroppedRow{Row: row, Err: err}
}
