package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fraudrisk/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, ":8080", cfg.HTTP.Addr)
	require.Equal(t, config.BackendFile, cfg.Artifact.Backend)
	require.Equal(t, 1, cfg.Dataset.DomainAge)
	require.Equal(t, 1, cfg.Dataset.WhoisPrivacy)
	require.InDelta(t, 0.8, cfg.Dataset.SpamScore, 1e-12)
	require.Equal(t, 10*time.Second, cfg.GracefulShutdownTimeout)
	require.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
	require.Equal(t, "data", cfg.Worker.DataDir)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: production
artifact:
  backend: sqlite
  sqlitePath: /var/lib/fraudrisk/model.db
dataset:
  spamScore: 0.5
worker:
  maxAttempts: 5
  dataDir: /srv/corpora
`), 0o600))
	t.Setenv("HTTP_ADDR", ":9090")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, config.BackendSQLite, cfg.Artifact.Backend)
	require.Equal(t, "/var/lib/fraudrisk/model.db", cfg.Artifact.SQLitePath)
	require.InDelta(t, 0.5, cfg.Dataset.SpamScore, 1e-12)
	require.Equal(t, 5, cfg.Worker.MaxAttempts)
	require.Equal(t, "/srv/corpora", cfg.Worker.DataDir)
	require.Equal(t, ":9090", cfg.HTTP.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("ARTIFACT_BACKEND", "s3")
	_, err := config.Load("")
	require.ErrorContains(t, err, "unknown artifact backend")

	t.Setenv("ARTIFACT_BACKEND", "file")
	t.Setenv("DATASET_SPAM_SCORE", "1.5")
	_, err = config.Load("")
	require.ErrorContains(t, err, "spam score")
}
