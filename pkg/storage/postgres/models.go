package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"fraudrisk/pkg/domain"

	"github.com/google/uuid"
)

// artifactSlot is the primary key of the only artifact row.
const artifactSlot = 1

// PgArtifact is a row of model_artifacts. The table holds one row, at artifactSlot.
type PgArtifact struct {
	Slot      int16     `db:"slot"`
	ID        uuid.UUID `db:"id"`
	Model     []byte    `db:"model"`
	Report    string    `db:"report"`
	CreatedAt time.Time `db:"created_at"`
}

// ToDomain decodes the stored report.
func (p *PgArtifact) ToDomain() (*domain.Artifact, error) {
	var report domain.EvaluationReport
	if err := json.Unmarshal([]byte(p.Report), &report); err != nil {
		return nil, fmt.Errorf("could not unmarshal artifact report: %w", err)
	}

	return &domain.Artifact{
		ID:        p.ID,
		Model:     p.Model,
		Report:    report,
		CreatedAt: p.CreatedAt,
	}, nil
}

// FromDomain fills the row from artifact, targeting the single slot.
func (p *PgArtifact) FromDomain(artifact domain.Artifact) error {
	report, err := json.Marshal(artifact.Report)
	if err != nil {
		return fmt.Errorf("could not marshal artifact report: %w", err)
	}

	*p = PgArtifact{
		Slot:      artifactSlot,
		ID:        artifact.ID,
		Model:     artifact.Model,
		Report:    string(report),
		CreatedAt: artifact.CreatedAt,
	}

	return nil
}

// PgRun is a row of training_runs.
type PgRun struct {
	ID uuid.UUID `db:"id" goqu:"skipinsert"`

	Source string `db:"source"`
	Format string `db:"format"`
	Status string `db:"status"`
	Report []byte `db:"report" goqu:"skipinsert"`

	Attempts  uint           `db:"attempts"   goqu:"skipinsert"`
	LastError sql.NullString `db:"last_error" goqu:"skipinsert"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
}

// ToDomain converts the row, decoding the report when present.
func (p *PgRun) ToDomain() (*domain.TrainingRun, error) {
	var report *domain.EvaluationReport
	if len(p.Report) > 0 {
		report = &domain.EvaluationReport{}
		if err := json.Unmarshal(p.Report, report); err != nil {
			return nil, fmt.Errorf("could not unmarshal run report: %w", err)
		}
	}

	return &domain.TrainingRun{
		ID:        domain.RunID(p.ID),
		Source:    p.Source,
		Format:    domain.SourceFormat(p.Format),
		Status:    domain.RunStatus(p.Status),
		Report:    report,
		Attempts:  p.Attempts,
		LastError: p.LastError.String,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt.Time,
	}, nil
}

// FromDomain copies the insertable fields of run.
func (p *PgRun) FromDomain(run domain.TrainingRun) {
	*p = PgRun{
		ID:     uuid.UUID(run.ID),
		Source: run.Source,
		Format: string(run.Format),
		Status: string(run.Status),
	}
}
