package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	thresholds, err := cfg.Interchange.Thresholds()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, thresholds.Warning)
	assert.Equal(t, 3*time.Hour, thresholds.Max)
}

func TestValidateRejectsTTLShorterThanLease(t *testing.T) {
	cfg := Default()
	cfg.Cache.TTL = 10 * time.Second

	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadThresholds(t *testing.T) {
	cfg := Default()
	cfg.Interchange.MaxWaitTime = "PT30M"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Interchange.WarningWaitTime = "one hour"
	assert.Error(t, cfg.Validate())
}

func TestLoadFromFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "validator.yml")
	contents := `
redis:
  address: redis:6379
cache:
  ttl: 2h
worker:
  consumers: 8
interchange:
  warning_wait_time: PT45M
  max_wait_time: PT2H
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	t.Setenv("TRAVIGO_VALIDATOR_CONFIG", path)
	t.Setenv("TRAVIGO_REDIS_DATABASE", "3")
	t.Setenv("TRAVIGO_VALIDATOR_CONSUMERS", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, 3, cfg.Redis.Database)
	assert.Equal(t, 2*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 2, cfg.Worker.Consumers)
	assert.Equal(t, "netex-validation-files", cfg.Worker.FileQueue)

	thresholds, err := cfg.Interchange.Thresholds()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, thresholds.Warning)
}

func TestLoadRejectsBadEnvironment(t *testing.T) {
	t.Setenv("TRAVIGO_VALIDATOR_CONFIG", "")
	t.Setenv("TRAVIGO_REDIS_DATABASE", "zero")

	_, err := Load()
	assert.Error(t, err)
}
