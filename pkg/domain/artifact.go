package domain

import (
	"time"

	"github.com/google/uuid"
)

// Artifact is the persisted envelope of one training run's output. Model is
// an opaque classifier blob; Report always belongs to that exact model.
type Artifact struct {
	ID        uuid.UUID
	Model     []byte
	Report    EvaluationReport
	CreatedAt time.Time
}
