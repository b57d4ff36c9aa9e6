// Package redis stores the model artifact envelope under a single Redis key.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fraudrisk/pkg/domain"
	"fraudrisk/pkg/storage"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

var _ storage.ArtifactBackend = (*Redis)(nil)

// Options configure the redis connection and the key holding the artifact.
type Options struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// Redis keeps the artifact envelope under a single key.
type Redis struct {
	client *redis.Client
	key    string
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, options Options) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     options.Addr,
		Password: options.Password,
		DB:       options.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}

	return &Redis{client: client, key: options.Key}, nil
}

// SaveArtifact overwrites the key with a freshly encoded envelope. A single
// SET is atomic, so model and report always change together.
func (r *Redis) SaveArtifact(ctx context.Context, artifact domain.Artifact) error {
	b, err := storage.EncodeArtifact(artifact)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.key, b, 0).Err(); err != nil {
		return fmt.Errorf("could not save artifact into redis: %w", err)
	}

	return nil
}

// LoadArtifact fails with storage.ErrArtifactNotFound when the key is absent.
func (r *Redis) LoadArtifact(ctx context.Context) (*domain.Artifact, error) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not load artifact from redis: %w", err)
	}

	return storage.DecodeArtifact(b)
}

// Close closes the client.
func (r *Redis) Close() error {
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("could not close redis client: %w", err)
	}

	return nil
}
