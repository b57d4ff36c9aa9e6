package training

import (
	"context"
	"fmt"
	"os"

	"fraudrisk/internal/dataset"
	"fraudrisk/pkg/domain"
	"fraudrisk/pkg/logger"
	"fraudrisk/pkg/metrics"
	"fraudrisk/pkg/serrors"

	"go.uber.org/zap"
)

// Source is a pipeline input file.
type Source struct {
	Path   string
	Format domain.SourceFormat
}

// Pipeline reads a source, builds the dataset when needed, trains, evaluates
// and saves the artifact. Any failure aborts the run before anything is saved.
type Pipeline struct {
	builder *dataset.Builder
	engine  *Engine
	saver   ModelSaver
}

// NewPipeline wires a pipeline.
func NewPipeline(builder *dataset.Builder, engine *Engine, saver ModelSaver) *Pipeline {
	return &Pipeline{
		builder: builder,
		engine:  engine,
		saver:   saver,
	}
}

// Run executes the pipeline and returns the report of the saved model.
func (p *Pipeline) Run(ctx context.Context, src Source) (domain.EvaluationReport, error) {
	ctx = logger.WithFields(ctx, zap.String("source", src.Path), zap.String("format", string(src.Format)))

	report, err := p.run(ctx, src)
	if err != nil {
		metrics.TrainingRuns.WithLabelValues(metrics.RunFailed).Inc()

		return domain.EvaluationReport{}, err
	}
	metrics.TrainingRuns.WithLabelValues(metrics.RunCompleted).Inc()
	metrics.SetModelQuality(report.Accuracy, report.Precision, report.Recall, report.F1)

	return report, nil
}

func (p *Pipeline) run(ctx context.Context, src Source) (domain.EvaluationReport, error) {
	ds, err := p.Load(ctx, src)
	if err != nil {
		return domain.EvaluationReport{}, err
	}

	model, report, err := p.engine.Train(ctx, ds)
	if err != nil {
		return domain.EvaluationReport{}, fmt.Errorf("could not train model: %w", err)
	}

	if err := p.saver.Save(ctx, model, report); err != nil {
		return domain.EvaluationReport{}, fmt.Errorf("could not save model: %w", err)
	}
	logger.Info(ctx, "model saved")

	return report, nil
}

// Load reads src into a Dataset, running the dataset builder for raw corpora.
func (p *Pipeline) Load(ctx context.Context, src Source) (domain.Dataset, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("could not open source: %w", err)
	}
	defer f.Close()

	switch src.Format {
	case domain.SourceFormatRaw:
		raw, err := dataset.ReadRaw(f)
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("could not read raw corpus: %w", err)
		}
		ds, _, err := p.builder.Build(ctx, raw)
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("could not build dataset: %w", err)
		}

		return ds, nil
	case domain.SourceFormatDataset:
		ds, err := dataset.ReadDataset(f)
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("could not read dataset: %w", err)
		}

		return ds, nil
	default:
		return domain.Dataset{}, serrors.With(serrors.ErrBadRequest, "unknown source format %q", src.Format)
	}
}
