package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"testing"
	"time"

	"fraudrisk"
	"fraudrisk/pkg/domain"
	"fraudrisk/pkg/logger"
	"fraudrisk/pkg/storage/postgres"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment, "error")
	m.Run()
}

const (
	testUser     = "postgres"
	testPassword = "postgres"
	testDB       = "testdb"
)

type postgresContainer struct {
	Container testcontainers.Container
	Host      string
	Port      int
}

func startPostgresContainer(ctx context.Context) (*postgresContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:17",
		ExposedPorts: []string{"5432"},
		Env: map[string]string{
			"POSTGRES_USER":     testUser,
			"POSTGRES_PASSWORD": testPassword,
			"POSTGRES_DB":       testDB,
		},
		// postgres restarts once after init; New pings, so wait for the second start
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(time.Minute),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("could not start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get container host: %w", err)
	}

	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("could not get mapped port: %w", err)
	}

	return &postgresContainer{
		Container: container,
		Host:      host,
		Port:      mappedPort.Int(),
	}, nil
}

// migrate applies the embedded goose migrations, as `fraudrisk migrate` does.
func migrate(ctx context.Context, db *sql.DB) error {
	dir, err := fs.Sub(fraudrisk.Migrations, fraudrisk.PostgresMigrations)
	if err != nil {
		return fmt.Errorf("could not open migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, dir)
	if err != nil {
		return fmt.Errorf("could not create goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// setupTestDB starts a postgres container with the artifact and training run
// tables migrated. River's schema is only added by tests that need it.
func setupTestDB(t *testing.T) (*postgres.PgSQL, func()) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := startPostgresContainer(ctx)
	require.NoError(t, err)

	pgSQL, err := postgres.New(ctx, postgres.Options{
		Username:           testUser,
		Password:           testPassword,
		Host:               pgContainer.Host,
		Port:               pgContainer.Port,
		Database:           testDB,
		SslMode:            "disable",
		ConnMaxLifetime:    time.Minute,
		ConnMaxIdleTime:    time.Minute,
		MaxOpenConnections: 5,
		MaxIdleConnections: 2,
	})
	require.NoError(t, err)
	require.NoError(t, migrate(ctx, pgSQL.DB.(*sql.DB)))

	return pgSQL, func() {
		_ = pgSQL.Close()
		_ = pgContainer.Container.Terminate(ctx)
	}
}

// testArtifact is a stored model with a report as the training engine
// produces it: 20 records split 16/4.
func testArtifact(model []byte) domain.Artifact {
	return domain.Artifact{
		ID:    uuid.New(),
		Model: model,
		Report: domain.EvaluationReport{
			Accuracy: 0.75, Precision: 0.5, Recall: 1, F1: 2.0 / 3,
			Confusion: domain.ConfusionMatrix{TruePositives: 1, FalsePositives: 1, TrueNegatives: 2},
			TrainSize: 16,
			TestSize:  4,
			TrainedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 1, 0, time.UTC),
	}
}

// seedArtifact fills the artifact slot.
func seedArtifact(t *testing.T, pg *postgres.PgSQL, model []byte) domain.Artifact {
	t.Helper()
	artifact := testArtifact(model)
	require.NoError(t, pg.SaveArtifact(context.Background(), artifact))

	return artifact
}
