package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"fraudrisk/pkg/storage/postgres"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/riverqueue/river/rivertest"
	"github.com/stretchr/testify/require"
)

// runJobArgs mimics a training job: unique per run id.
type runJobArgs struct {
	RunID string `json:"runId"`
}

func (runJobArgs) Kind() string { return "test_run" }

func uniqueOpts() *river.InsertOpts {
	return &river.InsertOpts{UniqueOpts: river.UniqueOpts{ByArgs: true}}
}

func migrateRiver(t *testing.T, storage *postgres.PgSQL) {
	t.Helper()
	migrator, err := rivermigrate.New(riverdatabasesql.New(storage.DB.(*sql.DB)), nil)
	require.NoError(t, err)
	_, err = migrator.Migrate(t.Context(), rivermigrate.DirectionUp, nil)
	require.NoError(t, err)
}

func TestPgSQL_AddJob_InTx(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()
	migrateRiver(t, pg)
	ctx := context.Background()

	tx, err := pg.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	inserted, err := tx.AddJob(ctx, runJobArgs{RunID: "a"}, uniqueOpts())
	require.NoError(t, err)
	require.True(t, inserted)
	rivertest.RequireInsertedTx[*riverdatabasesql.Driver](
		ctx,
		t,
		tx.(*postgres.PgSQL).DB.(*sql.Tx),
		&runJobArgs{},
		nil,
	)
}

func TestPgSQL_AddJob_UniqueByRun(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()
	migrateRiver(t, pg)
	ctx := context.Background()

	inserted, err := pg.AddJob(ctx, runJobArgs{RunID: "a"}, uniqueOpts())
	require.NoError(t, err)
	require.True(t, inserted)

	inserted, err = pg.AddJob(ctx, runJobArgs{RunID: "a"}, uniqueOpts())
	require.NoError(t, err)
	require.False(t, inserted)

	inserted, err = pg.AddJob(ctx, runJobArgs{RunID: "b"}, uniqueOpts())
	require.NoError(t, err)
	require.True(t, inserted)

	rivertest.RequireManyInserted[*riverdatabasesql.Driver](
		ctx,
		t,
		riverdatabasesql.New(pg.DB.(*sql.DB)),
		[]rivertest.ExpectedJob{
			{Args: &runJobArgs{RunID: "a"}},
			{Args: &runJobArgs{RunID: "b"}},
		},
	)
}
