package redis_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"fraudrisk/pkg/domain"
	"fraudrisk/pkg/storage"
	"fraudrisk/pkg/storage/redis"
)

func setupRedis(t *testing.T) (*redis.Redis, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379"},
			WaitingFor:   wait.ForListeningPort("6379"),
		},
		Started: true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	r, err := redis.New(ctx, redis.Options{
		Addr: fmt.Sprintf("%s:%d", host, port.Int()),
		Key:  "fraudrisk:test:artifact",
	})
	require.NoError(t, err)

	return r, func() {
		_ = r.Close()
		_ = container.Terminate(ctx)
	}
}

func TestRedis_SaveLoad(t *testing.T) {
	r, cleanup := setupRedis(t)
	defer cleanup()
	ctx := context.Background()

	_, err := r.LoadArtifact(ctx)
	require.ErrorIs(t, err, storage.ErrArtifactNotFound)

	artifact := domain.Artifact{
		ID:    uuid.New(),
		Model: []byte{9, 8, 7, 0},
		Report: domain.EvaluationReport{
			Accuracy:  0.8,
			TestSize:  5,
			TrainSize: 20,
			TrainedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, r.SaveArtifact(ctx, artifact))

	got, err := r.LoadArtifact(ctx)
	require.NoError(t, err)
	require.Equal(t, artifact, *got)

	artifact.ID = uuid.New()
	artifact.Report.Accuracy = 0.95
	require.NoError(t, r.SaveArtifact(ctx, artifact))
	got, err = r.LoadArtifact(ctx)
	require.NoError(t, err)
	require.Equal(t, artifact, *got)
}

func TestRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := redis.New(ctx, redis.Options{Addr: "127.0.0.1:1", Key: "k"})
	require.ErrorContains(t, err, "could not connect to redis")
}
