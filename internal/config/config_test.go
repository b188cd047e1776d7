package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"calculus/internal/config"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, ":8080", cfg.HTTP.Addr)
	require.Equal(t, 10*time.Second, cfg.HTTP.RequestTimeout)
	require.Equal(t, "calculus", cfg.Database.DatabaseName)
	require.InDelta(t, 0.01, cfg.Engine.DisagreementThreshold, 1e-15)
	require.Equal(t, 200, cfg.Engine.MaxSubdivisions)
	require.Equal(t, 3, cfg.Calculator.MaxAttempts)
	require.Equal(t, 24*time.Hour, cfg.Calculator.ResultCacheTTL)
	require.Equal(t, time.Minute, cfg.Calculator.JobTimeout)
	require.Equal(t, "/riverui", cfg.HTTP.JobsUIPath)
	require.Equal(t, int64(65536), cfg.HTTP.MaxBodyBytes)
	require.Empty(t, cfg.JWT.PublicKey)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: production
http:
  addr: ":9090"
engine:
  disagreementThreshold: 0.05
calculator:
  maxWorkers: 4
`), 0o600))
	t.Setenv("CALCULATOR_MAX_WORKERS", "16")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, ":9090", cfg.HTTP.Addr)
	require.InDelta(t, 0.05, cfg.Engine.DisagreementThreshold, 1e-15)
	require.Equal(t, 16, cfg.Calculator.MaxWorkers)
	require.Equal(t, "/metrics", cfg.HTTP.MetricsPath)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("http: [not, a, map"), 0o600))

	_, err := config.Load(path)
	require.Error(t, err)
}
