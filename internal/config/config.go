// Package config provides configuration management for the HedgeBets service.
package config

import (
	"fmt"
	"strings"

	"github.com/J-cmar/hedgebets/internal/scoring"
)

// Config represents the complete application configuration
type Config struct {
	App          AppConfig          `mapstructure:"app" validate:"required"`
	Server       ServerConfig       `mapstructure:"server" validate:"required"`
	ModelService ModelServiceConfig `mapstructure:"model_service" validate:"required"`
	Scoring      scoring.Config     `mapstructure:"scoring"`
	Metrics      MetricsConfig      `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the API server configuration
type ServerConfig struct {
	Port                int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	HealthPort          int      `mapstructure:"health_port" validate:"omitempty,min=1,max=65535"`
	ReadTimeoutSeconds  int      `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int      `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	AllowedOrigins      []string `mapstructure:"allowed_origins"`
}

// ModelServiceConfig represents the quantile model service configuration
type ModelServiceConfig struct {
	BaseURL               string  `mapstructure:"base_url" validate:"required,url"`
	APIKey                string  `mapstructure:"api_key"`
	RequestTimeoutSeconds int     `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	RetryAttempts         int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimitPerSecond    float64 `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
	CircuitBreakerMax     int     `mapstructure:"circuit_breaker_max" validate:"required,gt=0"`
	CacheTTLSeconds       int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	CacheMaxSize          int     `mapstructure:"cache_max_size" validate:"required,gt=0"`
	DefaultSeason         int     `mapstructure:"default_season" validate:"required,gte=2000"`
	DefaultWeek           int     `mapstructure:"default_week" validate:"required,min=1,max=22"`
	HealthProbeSchedule   string  `mapstructure:"health_probe_schedule"`
	CacheStatsSchedule    string  `mapstructure:"cache_stats_schedule"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// ListenAddr returns the API server listen address
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// ModelServiceURL returns the base URL of the model service without a
// trailing slash
func (c *Config) ModelServiceURL() string {
	return strings.TrimRight(c.ModelService.BaseURL, "/")
}
