package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rgauld/dialectic/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.False(t, cfg.Auth.Enabled)
	require.Equal(t, "dialectic.db", cfg.DB.Path)
	require.Equal(t, "artifacts", cfg.Storage.Root)
	require.Equal(t, "content", cfg.Storage.Bucket)
	require.Equal(t, 5*time.Minute, cfg.Generation.ModelCallTimeout)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DIALECTIC_SERVER_PORT", "9090")
	t.Setenv("DIALECTIC_TRANSPORT_MODE", "http")
	t.Setenv("DIALECTIC_AUTH_ENABLED", "true")
	t.Setenv("DIALECTIC_MODEL_CALL_TIMEOUT", "90s")
	t.Setenv("DIALECTIC_LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.True(t, cfg.Auth.Enabled)
	require.Equal(t, 90*time.Second, cfg.Generation.ModelCallTimeout)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("DIALECTIC_SERVER_PORT", "not-a-port")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("DIALECTIC_MODEL_CALL_TIMEOUT", "soon")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
transport:
  mode: http
db:
  path: /tmp/test.db
storage:
  root: /tmp/artifacts
  bucket: generated
generation:
  model_call_timeout: 2m
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	t.Setenv("DIALECTIC_CONFIG_PATH", path)

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, "/tmp/test.db", cfg.DB.Path)
	require.Equal(t, "/tmp/artifacts", cfg.Storage.Root)
	require.Equal(t, "generated", cfg.Storage.Bucket)
	require.Equal(t, 2*time.Minute, cfg.Generation.ModelCallTimeout)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport:\n  mode: http\n"), 0o644))
	t.Setenv("DIALECTIC_CONFIG_PATH", path)
	t.Setenv("DIALECTIC_TRANSPORT_MODE", "stdio")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "stdio", cfg.Transport.Mode)
}
