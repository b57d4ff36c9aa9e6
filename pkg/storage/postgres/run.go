package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"fraudrisk/pkg/domain"
	"fraudrisk/pkg/storage"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const (
	runsTable = "training_runs"
)

// StoreRun inserts run and returns it with its generated id and timestamps.
func (p *PgSQL) StoreRun(ctx context.Context, run domain.TrainingRun) (*domain.TrainingRun, error) {
	var row PgRun
	row.FromDomain(run)

	var stored PgRun
	if _, err := p.Builder.Insert(runsTable).
		Rows(row).
		Returning(&PgRun{}).
		Executor().ScanStructContext(ctx, &stored); err != nil {
		return nil, fmt.Errorf("could not store training run into pg: %w", err)
	}

	return stored.ToDomain()
}

// UpdateRun sets the given fields, increments attempts and stamps updated_at.
func (p *PgSQL) UpdateRun(ctx context.Context,
	id domain.RunID,
	updates storage.RunUpdates) (*domain.TrainingRun, error) {
	rec := goqu.Record{
		"updated_at": goqu.L("CURRENT_TIMESTAMP"),
		"attempts":   goqu.L("attempts + 1"),
		"status":     string(updates.Status),
	}
	if updates.Report != nil {
		b, err := json.Marshal(updates.Report)
		if err != nil {
			return nil, fmt.Errorf("could not marshal report: %w", err)
		}

		rec["report"] = string(b)
	}
	if updates.LastError != nil {
		if *updates.LastError == "" {
			// set to NULL when empty string provided
			rec["last_error"] = goqu.L("NULL")
		} else {
			rec["last_error"] = *updates.LastError
		}
	}

	var row PgRun
	found, err := p.Builder.Update(runsTable).
		Set(rec).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Returning(&PgRun{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update training run in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

// RunByID returns nil, nil when no run has id.
func (p *PgSQL) RunByID(ctx context.Context, id domain.RunID) (*domain.TrainingRun, error) {
	var row PgRun
	found, err := p.Builder.From(runsTable).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch training run by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}
