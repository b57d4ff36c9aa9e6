// Package sqlite stores the model artifact in an embedded SQLite database,
// using the pure Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"fraudrisk"
	"fraudrisk/pkg/domain"
	"fraudrisk/pkg/logger"
	"fraudrisk/pkg/storage"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // registers the sqlite3 dialect
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // registers the sqlite driver
)

const (
	artifactsTable = "model_artifacts"
	artifactSlot   = 1
)

var _ storage.ArtifactBackend = (*SQLite)(nil)

// SQLite keeps the artifact in a single-row table of a local database file.
type SQLite struct {
	DB      *sql.DB
	Builder *goqu.Database
}

type row struct {
	Slot      int    `db:"slot"`
	ID        string `db:"id"`
	Model     []byte `db:"model"`
	Report    string `db:"report"`
	CreatedAt string `db:"created_at"`
}

// New opens (creating if needed) the database at path and applies the
// embedded migrations.
func New(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("could not create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("could not ping sqlite database: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()

		return nil, err
	}

	return &SQLite{
		DB:      db,
		Builder: goqu.New("sqlite3", db),
	}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	migrations, err := fs.Sub(fraudrisk.Migrations, fraudrisk.SQLiteMigrations)
	if err != nil {
		return fmt.Errorf("could not open sqlite migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations)
	if err != nil {
		return fmt.Errorf("could not create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("could not run sqlite migrations: %w", err)
	}
	for _, r := range results {
		logger.Info(ctx, "applied sqlite migration", zap.Int64("version", r.Source.Version))
	}

	return nil
}

// SaveArtifact upserts the singleton artifact row.
func (s *SQLite) SaveArtifact(ctx context.Context, artifact domain.Artifact) error {
	report, err := jsonReport(artifact.Report)
	if err != nil {
		return err
	}

	_, err = s.Builder.Insert(artifactsTable).
		Prepared(true).
		Rows(row{
			Slot:      artifactSlot,
			ID:        artifact.ID.String(),
			Model:     artifact.Model,
			Report:    report,
			CreatedAt: artifact.CreatedAt.UTC().Format(time.RFC3339Nano),
		}).
		OnConflict(goqu.DoUpdate("slot", goqu.Record{
			"id":         goqu.I("excluded.id"),
			"model":      goqu.I("excluded.model"),
			"report":     goqu.I("excluded.report"),
			"created_at": goqu.I("excluded.created_at"),
		})).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not save artifact into sqlite: %w", err)
	}

	return nil
}

// LoadArtifact fails with storage.ErrArtifactNotFound when nothing was saved yet.
func (s *SQLite) LoadArtifact(ctx context.Context) (*domain.Artifact, error) {
	var r row
	found, err := s.Builder.From(artifactsTable).
		Where(goqu.I("slot").Eq(artifactSlot)).
		Executor().ScanStructContext(ctx, &r)
	if err != nil {
		return nil, fmt.Errorf("could not load artifact from sqlite: %w", err)
	}
	if !found {
		return nil, storage.ErrArtifactNotFound
	}

	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("could not parse artifact id: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("could not parse artifact creation time: %w", err)
	}
	report, err := parseReport(r.Report)
	if err != nil {
		return nil, err
	}

	return &domain.Artifact{
		ID:        id,
		Model:     r.Model,
		Report:    report,
		CreatedAt: createdAt,
	}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("could not close sqlite database: %w", err)
	}

	return nil
}
