package main

import (
	"context"

	"fraudrisk/internal/artifact"
	"fraudrisk/internal/config"
	"fraudrisk/internal/dataset"
	"fraudrisk/internal/training"
	"fraudrisk/pkg/logger"
	"fraudrisk/pkg/storage"
	"fraudrisk/pkg/storage/file"
	"fraudrisk/pkg/storage/postgres"
	"fraudrisk/pkg/storage/redis"
	"fraudrisk/pkg/storage/sqlite"

	"go.uber.org/zap"
)

// getPostgres creates a PostgreSQL client using configuration values and returns it
// along with a cleanup function to close the connection pool.
func getPostgres(ctx context.Context, cfg *config.Config) (*postgres.PgSQL, func()) {
	pgsql, err := postgres.New(ctx, postgres.Options{
		Username:           cfg.Database.Username,
		Password:           cfg.Database.Password,
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		Database:           cfg.Database.DatabaseName,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime:    cfg.Database.ConnMaxIdleTime,
		MaxOpenConnections: cfg.Database.MaxOpenConnections,
		MaxIdleConnections: cfg.Database.MaxIdleConnections,
		SslMode:            cfg.Database.SslMode,
	})
	if err != nil {
		logger.Fatal(ctx, "could not create postgres storage", zap.Error(err))
	}

	return pgsql, func() {
		logger.Info(ctx, "closing postgres client...")
		if err = pgsql.Close(); err != nil {
			logger.Warn(ctx, "could not close postgres connection", zap.Error(err))
		}
	}
}

// getArtifactBackend opens the configured artifact backend. pg is reused for
// the postgres backend when the caller already holds a connection.
func getArtifactBackend(ctx context.Context, cfg *config.Config, pg *postgres.PgSQL) (storage.ArtifactBackend, func()) {
	ctx = logger.WithFields(ctx, zap.String("backend", cfg.Artifact.Backend))

	var (
		backend storage.ArtifactBackend
		err     error
	)
	switch cfg.Artifact.Backend {
	case config.BackendPostgres:
		if pg != nil {
			return pg, func() {}
		}
		pgsql, closePg := getPostgres(ctx, cfg)

		return pgsql, closePg
	case config.BackendSQLite:
		backend, err = sqlite.New(ctx, cfg.Artifact.SQLitePath)
	case config.BackendRedis:
		backend, err = redis.New(ctx, redis.Options{
			Addr:     cfg.Artifact.Redis.Addr,
			Password: cfg.Artifact.Redis.Password,
			DB:       cfg.Artifact.Redis.DB,
			Key:      cfg.Artifact.Redis.Key,
		})
	default:
		backend = file.New(cfg.Artifact.FilePath)
	}
	if err != nil {
		logger.Fatal(ctx, "could not open artifact storage", zap.Error(err))
	}

	return backend, func() {
		if err := backend.Close(); err != nil {
			logger.Warn(ctx, "could not close artifact storage", zap.Error(err))
		}
	}
}

func newBuilder(cfg *config.Config) *dataset.Builder {
	return dataset.NewBuilder(
		dataset.NewPlaceholderExtractor(dataset.Placeholders{
			DomainAge:    cfg.Dataset.DomainAge,
			WhoisPrivacy: cfg.Dataset.WhoisPrivacy,
			SpamScore:    cfg.Dataset.SpamScore,
		}),
		dataset.DefaultLabels(),
	)
}

func newPipeline(cfg *config.Config, backend storage.ArtifactStorage) *training.Pipeline {
	return training.NewPipeline(newBuilder(cfg), training.NewEngine(), artifact.NewStore(backend))
}

// newTrainer wires background training on pg, saving models to the
// configured artifact backend.
func newTrainer(ctx context.Context, cfg *config.Config, pg *postgres.PgSQL) (training.Trainer, func()) {
	backend, closeBackend := getArtifactBackend(ctx, cfg, pg)

	return training.NewTrainer(pg, newPipeline(cfg, backend), training.NewOptions(cfg)), closeBackend
}
