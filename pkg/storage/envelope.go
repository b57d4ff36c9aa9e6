package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"fraudrisk/pkg/domain"

	"github.com/google/uuid"
)

// EnvelopeVersion is bumped whenever the envelope layout changes.
const EnvelopeVersion = 1

// envelope is the self-describing form used by key/value and file backends
// that store the whole artifact as one value.
type envelope struct {
	Version   int                     `json:"version"`
	ID        uuid.UUID               `json:"id"`
	Model     []byte                  `json:"model"`
	Report    domain.EvaluationReport `json:"report"`
	CreatedAt time.Time               `json:"createdAt"`
}

// EncodeArtifact serializes artifact into a single JSON envelope.
func EncodeArtifact(artifact domain.Artifact) ([]byte, error) {
	b, err := json.Marshal(envelope{
		Version:   EnvelopeVersion,
		ID:        artifact.ID,
		Model:     artifact.Model,
		Report:    artifact.Report,
		CreatedAt: artifact.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("could not encode artifact envelope: %w", err)
	}

	return b, nil
}

// DecodeArtifact parses an envelope written by EncodeArtifact.
func DecodeArtifact(b []byte) (*domain.Artifact, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("could not decode artifact envelope: %w", err)
	}
	if env.Version != EnvelopeVersion {
		return nil, fmt.Errorf("unsupported artifact envelope version %d", env.Version)
	}
	if len(env.Model) == 0 {
		return nil, fmt.Errorf("artifact envelope %s holds no model", env.ID)
	}

	return &domain.Artifact{
		ID:        env.ID,
		Model:     env.Model,
		Report:    env.Report,
		CreatedAt: env.CreatedAt,
	}, nil
}
