package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "India", cfg.Resolver.DefaultRegion)
	assert.Equal(t, 3, cfg.Resolver.MaxAlternatives)
	assert.False(t, cfg.Estimator.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Resolver.DefaultRegion, cfg.Resolver.DefaultRegion)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
  format: json
dataset:
  paths:
    - /srv/factors/india.yaml
resolver:
  default_region: Kenya
  max_alternatives: 5
  batch_concurrency: 4
estimator:
  enabled: true
  endpoint: https://llm.internal/v1/chat/completions
  model: estimator-1
  timeout_seconds: 30
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"/srv/factors/india.yaml"}, cfg.Dataset.Paths)
	assert.Equal(t, "Kenya", cfg.Resolver.DefaultRegion)
	assert.Equal(t, 5, cfg.Resolver.MaxAlternatives)
	assert.True(t, cfg.Estimator.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Estimator.Timeout())
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging: ["), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "trace")
	t.Setenv(EnvDefaultRegion, "Brazil")
	t.Setenv(EnvEstimatorEndpoint, "https://llm.example/v1")
	t.Setenv(EnvEstimatorAPIKey, "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "trace", cfg.Logging.Level)
	assert.Equal(t, "Brazil", cfg.Resolver.DefaultRegion)
	assert.True(t, cfg.Estimator.Enabled)
	assert.Equal(t, "https://llm.example/v1", cfg.Estimator.Endpoint)
	assert.Equal(t, "sk-test", cfg.Estimator.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "defaults valid", mutate: func(*Config) {}, ok: true},
		{name: "negative alternatives", mutate: func(c *Config) { c.Resolver.MaxAlternatives = -1 }},
		{name: "zero concurrency", mutate: func(c *Config) { c.Resolver.BatchConcurrency = 0 }},
		{name: "enabled estimator without endpoint", mutate: func(c *Config) { c.Estimator.Enabled = true }},
		{name: "negative timeout", mutate: func(c *Config) { c.Estimator.TimeoutSeconds = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Setenv("EMFACTOR_TEST_FLAG", "true")
	assert.True(t, ParseBoolEnv("EMFACTOR_TEST_FLAG", false))

	t.Setenv("EMFACTOR_TEST_FLAG", "garbage")
	assert.False(t, ParseBoolEnv("EMFACTOR_TEST_FLAG", false))

	assert.True(t, ParseBoolEnv("EMFACTOR_UNSET_FLAG", true))
}
