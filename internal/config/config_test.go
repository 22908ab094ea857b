package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const validYAML = `
app:
  name: hedgebets
  environment: development
  log_level: debug
server:
  port: 9000
  health_port: 9090
  read_timeout_seconds: 5
  write_timeout_seconds: 10
model_service:
  base_url: http://models.internal:8500
  request_timeout_seconds: 10
  retry_attempts: 2
  rate_limit_per_second: 15.0
  circuit_breaker_max: 3
  cache_ttl_seconds: 120
  cache_max_size: 1000
  default_season: 2025
  default_week: 3
scoring:
  good_bet_ev: 0.2
metrics:
  enabled: true
  path: /metrics
`

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, validYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "hedgebets", cfg.App.Name)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "http://models.internal:8500", cfg.ModelService.BaseURL)
	assert.Equal(t, 3, cfg.ModelService.DefaultWeek)
	assert.InDelta(t, 0.2, cfg.Scoring.GoodBetEV, 1e-9)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, ":9000", cfg.ListenAddr())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_EnvironmentVariableExpansion(t *testing.T) {
	t.Setenv("TEST_MODEL_API_KEY", "secret-key-123")

	withSecret := `
app:
  name: hedgebets
  environment: development
  log_level: info
server:
  port: 9000
  read_timeout_seconds: 5
  write_timeout_seconds: 10
model_service:
  base_url: http://localhost:8500
  api_key: ${TEST_MODEL_API_KEY}
  request_timeout_seconds: 10
  rate_limit_per_second: 15.0
  circuit_breaker_max: 3
  cache_ttl_seconds: 120
  cache_max_size: 1000
  default_season: 2025
  default_week: 3
metrics:
  enabled: false
  path: /metrics
`
	path := writeConfigFile(t, withSecret)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-key-123", cfg.ModelService.APIKey)
}

func TestLoadWithDefaults_NoFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "hedgebets", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8500", cfg.ModelService.BaseURL)
	assert.Equal(t, "@every 30s", cfg.ModelService.HealthProbeSchedule)
	assert.True(t, cfg.Metrics.Enabled)

	require.NoError(t, Validate(cfg))
}

func TestLoadWithDefaults_FileOverrides(t *testing.T) {
	path := writeConfigFile(t, validYAML)

	cfg, err := LoadWithDefaults(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	// Defaults still fill fields the file omits.
	assert.Equal(t, "@every 1m", cfg.ModelService.CacheStatsSchedule)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		return cfg
	}

	t.Run("valid defaults", func(t *testing.T) {
		assert.NoError(t, Validate(base()))
	})

	t.Run("bad environment", func(t *testing.T) {
		cfg := base()
		cfg.App.Environment = "prod"
		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "development, staging, production")
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := base()
		cfg.App.LogLevel = "verbose"
		assert.Error(t, Validate(cfg))
	})

	t.Run("bad model service url", func(t *testing.T) {
		cfg := base()
		cfg.ModelService.BaseURL = "not a url"
		assert.Error(t, Validate(cfg))
	})

	t.Run("health port collides with api port", func(t *testing.T) {
		cfg := base()
		cfg.Server.HealthPort = cfg.Server.Port
		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "health_port")
	})

	t.Run("inverted confidence cutoffs", func(t *testing.T) {
		cfg := base()
		cfg.Scoring.HighConfidenceSpread = 0.8
		cfg.Scoring.MediumConfidenceSpread = 0.4
		assert.Error(t, Validate(cfg))
	})

	t.Run("inverted ev cutoffs", func(t *testing.T) {
		cfg := base()
		cfg.Scoring.GoodBetEV = -0.2
		cfg.Scoring.RiskyBetEV = 0.2
		assert.Error(t, Validate(cfg))
	})

	t.Run("production requires api key", func(t *testing.T) {
		cfg := base()
		cfg.App.Environment = "production"
		cfg.ModelService.APIKey = ""
		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "API key")

		cfg.ModelService.APIKey = "key"
		assert.NoError(t, Validate(cfg))
	})
}

func TestModelServiceURL_TrimsTrailingSlash(t *testing.T) {
	cfg := &Config{}
	cfg.ModelService.BaseURL = "http://localhost:8500/"
	assert.Equal(t, "http://localhost:8500", cfg.ModelServiceURL())
}
