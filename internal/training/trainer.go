package training

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"fraudrisk/internal/config"
	"fraudrisk/internal/dataset"
	"fraudrisk/pkg/domain"
	"fraudrisk/pkg/logger"
	"fraudrisk/pkg/schema"
	"fraudrisk/pkg/serrors"
	"fraudrisk/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options configure how training jobs are enqueued.
type Options struct {
	// MaxAttempts is the maximum number of attempts the background worker
	// makes before marking a run failed.
	MaxAttempts int
	// DataDir confines the sources of queued runs. Relative paths are resolved
	// against it.
	DataDir string
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxAttempts: cfg.Worker.MaxAttempts,
		DataDir:     cfg.Worker.DataDir,
	}
}

// ResolveSource returns the absolute, cleaned form of path and fails with
// serrors.ErrBadRequest when it lies outside dataDir. The check is lexical;
// the data directory is expected to hold no symlinks pointing out of it.
func ResolveSource(dataDir, path string) (string, error) {
	if dataDir == "" {
		return "", serrors.With(serrors.ErrBadRequest, "no data directory is configured")
	}
	root, err := filepath.Abs(dataDir)
	if err != nil {
		return "", fmt.Errorf("could not resolve data directory: %w", err)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", serrors.With(serrors.ErrBadRequest, "source path must be a file inside the data directory")
	}

	return path, nil
}

// trainer is the concrete implementation of the Trainer interface. It
// coordinates run bookkeeping, job enqueueing and the pipeline.
type trainer struct {
	options Options
	storage storage.Storage
	runner  Runner
}

// NewTrainer creates a Trainer backed by the provided storage and runner.
func NewTrainer(storage storage.Storage, runner Runner, options Options) Trainer {
	return &trainer{
		options: options,
		storage: storage,
		runner:  runner,
	}
}

// Enqueue stores a pending run and its job in one transaction, so a run
// without a job (or a job without a run) never becomes visible.
func (t *trainer) Enqueue(ctx context.Context, src Source) (*domain.TrainingRun, error) {
	if src.Path == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "source path is required")
	}
	if src.Format != domain.SourceFormatRaw && src.Format != domain.SourceFormatDataset {
		return nil, serrors.With(serrors.ErrBadRequest, "unknown source format %q", src.Format)
	}
	path, err := ResolveSource(t.options.DataDir, src.Path)
	if err != nil {
		return nil, err
	}
	src.Path = path

	var run *domain.TrainingRun
	if err := t.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		stored, err := tx.StoreRun(ctx, domain.TrainingRun{
			Source: src.Path,
			Format: src.Format,
			Status: domain.RunStatusPending,
		})
		if err != nil {
			return fmt.Errorf("could not store run: %w", err)
		}
		run = stored

		if _, err := tx.AddJob(ctx, JobArgs{
			RunID:       uuid.UUID(run.ID),
			Path:        src.Path,
			Format:      src.Format,
			maxAttempts: t.options.MaxAttempts,
		}, nil); err != nil {
			return fmt.Errorf("could not add job: %w", err)
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("could not enqueue training: %w", err)
	}

	return run, nil
}

// Run fetches a training run by id.
func (t *trainer) Run(ctx context.Context, id domain.RunID) (*domain.TrainingRun, error) {
	run, err := t.storage.RunByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get training run: %w", err)
	}
	if run == nil {
		return nil, serrors.With(serrors.ErrNotFound, "training run not found")
	}

	return run, nil
}

// Process runs the pipeline and records the outcome on the run. A failed
// attempt leaves the run pending unless it was the last one or the failure
// can not be fixed by retrying.
func (t *trainer) Process(ctx context.Context, id domain.RunID, src Source, lastAttempt bool) error {
	ctx = logger.WithFields(ctx, zap.Stringer("runID", id))

	report, runErr := t.runner.Run(ctx, src)
	if runErr == nil {
		noError := ""
		if _, err := t.storage.UpdateRun(ctx, id, storage.RunUpdates{
			Status:    domain.RunStatusCompleted,
			Report:    &report,
			LastError: &noError,
		}); err != nil {
			return fmt.Errorf("could not complete training run: %w", err)
		}

		return nil
	}

	status := domain.RunStatusPending
	if lastAttempt || IsPermanent(runErr) {
		status = domain.RunStatusFailed
	}
	msg := runErr.Error()
	if _, err := t.storage.UpdateRun(ctx, id, storage.RunUpdates{
		Status:    status,
		LastError: &msg,
	}); err != nil {
		logger.Error(ctx, "could not record training failure", zap.Error(err))

		return errors.Join(runErr, err)
	}

	return runErr
}

// IsPermanent reports whether retrying a pipeline that failed with err is
// pointless: the input is missing, malformed or unusable for training.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, schema.ErrSchemaMismatch) ||
		errors.Is(err, dataset.ErrMalformedFile) ||
		errors.Is(err, serrors.ErrBadRequest) ||
		errors.Is(err, fs.ErrNotExist)
}
