package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"fraudrisk"
	"fraudrisk/internal/config"
	"fraudrisk/pkg/logger"

	"github.com/pressly/goose/v3"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateTables(ctx context.Context, db *sql.DB) error {
	dir, err := fs.Sub(fraudrisk.Migrations, fraudrisk.PostgresMigrations)
	if err != nil {
		return fmt.Errorf("could not open postgres migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, dir)
	if err != nil {
		return fmt.Errorf("could not create goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("could not migrate postgres: %w", err)
	}
	for _, r := range results {
		logger.Info(ctx, "applied migration",
			zap.String("source", r.Source.Path), zap.Duration("took", r.Duration))
	}

	return nil
}

func migrateRiver(ctx context.Context, db *sql.DB) error {
	migrator, err := rivermigrate.New(riverdatabasesql.New(db), nil)
	if err != nil {
		return fmt.Errorf("could not create river queue migrator: %w", err)
	}

	// nil options migrate to the latest version and skip applied ones
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return fmt.Errorf("could not migrate river queue: %w", err)
	}
	for _, v := range res.Versions {
		logger.Info(ctx, "applied river migration", zap.Int("version", v.Version))
	}

	return nil
}

// migrateCommand applies the postgres tables (artifacts, training runs) and
// River's schema. The sqlite backend migrates itself when opened.
func migrateCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Migrates the postgres database to the latest version",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			db, ok := strg.DB.(*sql.DB)
			if !ok {
				return fmt.Errorf("unexpected postgres executor %T", strg.DB)
			}
			if err := migrateTables(ctx, db); err != nil {
				return err
			}

			return migrateRiver(ctx, db)
		},
	}
}
