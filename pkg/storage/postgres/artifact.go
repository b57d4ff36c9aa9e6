package postgres

import (
	"context"
	"fmt"

	"fraudrisk/pkg/domain"
	"fraudrisk/pkg/storage"

	"github.com/doug-martin/goqu/v9"
)

const (
	artifactsTable = "model_artifacts"
)

// SaveArtifact upserts the singleton artifact row. The statement is prepared
// so the model blob travels as a bytea parameter.
func (p *PgSQL) SaveArtifact(ctx context.Context, artifact domain.Artifact) error {
	var row PgArtifact
	if err := row.FromDomain(artifact); err != nil {
		return err
	}

	_, err := p.Builder.Insert(artifactsTable).
		Prepared(true).
		Rows(row).
		OnConflict(goqu.DoUpdate("slot", goqu.Record{
			"id":         goqu.I("excluded.id"),
			"model":      goqu.I("excluded.model"),
			"report":     goqu.I("excluded.report"),
			"created_at": goqu.I("excluded.created_at"),
		})).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not save artifact into pg: %w", err)
	}

	return nil
}

// LoadArtifact returns the artifact row or storage.ErrArtifactNotFound.
func (p *PgSQL) LoadArtifact(ctx context.Context) (*domain.Artifact, error) {
	var row PgArtifact
	found, err := p.Builder.From(artifactsTable).
		Where(goqu.I("slot").Eq(artifactSlot)).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not load artifact from pg: %w", err)
	}
	if !found {
		return nil, storage.ErrArtifactNotFound
	}

	return row.ToDomain()
}
