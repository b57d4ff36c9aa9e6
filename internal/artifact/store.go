// Package artifact saves and loads the trained classifier together with its
// evaluation report through whichever storage backend is configured.
package artifact

import (
	"context"
	"fmt"
	"time"

	"fraudrisk/internal/training"
	"fraudrisk/pkg/domain"
	"fraudrisk/pkg/forest"
	"fraudrisk/pkg/logger"
	"fraudrisk/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ training.ModelSaver = (*Store)(nil)

// Store is the Model Artifact Store: it encodes a forest with its report into
// one artifact and writes it to a single-slot backend.
type Store struct {
	backend storage.ArtifactStorage
	now     func() time.Time
}

// NewStore returns a Store over backend.
func NewStore(backend storage.ArtifactStorage) *Store {
	return &Store{
		backend: backend,
		now:     time.Now,
	}
}

// Save encodes model and writes it with report as one artifact. Each save
// gets a fresh id.
func (s *Store) Save(ctx context.Context, model *forest.Forest, report domain.EvaluationReport) error {
	blob, err := model.MarshalBinary()
	if err != nil {
		return fmt.Errorf("could not encode model: %w", err)
	}

	artifact := domain.Artifact{
		ID:        uuid.New(),
		Model:     blob,
		Report:    report,
		CreatedAt: s.now().UTC(),
	}
	if err := s.backend.SaveArtifact(ctx, artifact); err != nil {
		return err //nolint: wrapcheck
	}

	logger.Info(ctx, "artifact saved",
		zap.Stringer("artifactId", artifact.ID),
		zap.Int("modelBytes", len(blob)))

	return nil
}

// Load returns the stored model and the report it was saved with. A missing
// artifact is reported as storage.ErrArtifactNotFound.
func (s *Store) Load(ctx context.Context) (*forest.Forest, domain.EvaluationReport, error) {
	artifact, err := s.backend.LoadArtifact(ctx)
	if err != nil {
		return nil, domain.EvaluationReport{}, err //nolint: wrapcheck
	}

	model, err := forest.Decode(artifact.Model)
	if err != nil {
		return nil, domain.EvaluationReport{}, fmt.Errorf("could not decode model of artifact %s: %w", artifact.ID, err)
	}

	return model, artifact.Report, nil
}
