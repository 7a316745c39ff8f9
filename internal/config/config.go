// Package config provides configuration management for the Diamond Tactics engine.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	StatsAPI  StatsAPIConfig  `mapstructure:"stats_api" validate:"required"`
	Training  TrainingConfig  `mapstructure:"training" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents the historical-corpus database connection
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// StatsAPIConfig represents the MLB Stats API client configuration
type StatsAPIConfig struct {
	BaseURL           string  `mapstructure:"base_url" validate:"required,url"`
	Season            int     `mapstructure:"season" validate:"omitempty,min=1901"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"required,gte=0"`
	RateLimit         float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	CacheTTLMinutes   int     `mapstructure:"cache_ttl_minutes" validate:"required,gt=0"`
	CircuitBreakerMax int     `mapstructure:"circuit_breaker_max" validate:"required,gt=0"`
}

// TrainingConfig represents classifier training configuration
type TrainingConfig struct {
	ModelPath string `mapstructure:"model_path" validate:"required"`
	Optimize  bool   `mapstructure:"optimize"`
	Seed      int64  `mapstructure:"seed"`
	Workers   int    `mapstructure:"workers" validate:"gte=0"`
}

// SchedulerConfig represents the periodic retraining schedule
type SchedulerConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	RetrainCron  string `mapstructure:"retrain_cron"`
	GamesPerRun  int    `mapstructure:"games_per_run" validate:"omitempty,gt=0"`
	LookbackDays int    `mapstructure:"lookback_days" validate:"omitempty,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// StatsAPITimeout returns the stats client timeout as a duration
func (c *Config) StatsAPITimeout() time.Duration {
	return time.Duration(c.StatsAPI.TimeoutSeconds) * time.Second
}

// StatsAPICacheTTL returns the stats cache TTL as a duration
func (c *Config) StatsAPICacheTTL() time.Duration {
	return time.Duration(c.StatsAPI.CacheTTLMinutes) * time.Minute
}
