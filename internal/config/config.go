// Package config provides configuration management for the grid-picks client.
package config

import (
	"fmt"
	"time"

	"4d63.com/tz"

	"github.com/yourusername/grid-picks/internal/window"
)

// Config represents the complete application configuration
type Config struct {
	App          AppConfig          `mapstructure:"app" validate:"required"`
	API          APIConfig          `mapstructure:"api" validate:"required"`
	Championship ChampionshipConfig `mapstructure:"championship" validate:"required"`
	Betting      BettingConfig      `mapstructure:"betting" validate:"required"`
	Cache        CacheConfig        `mapstructure:"cache" validate:"required"`
	Metrics      MetricsConfig      `mapstructure:"metrics" validate:"required"`
	Monitor      MonitorConfig      `mapstructure:"monitor"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// APIConfig represents the contest backend connection
type APIConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"required,url"`
	Token          string  `mapstructure:"token"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts  int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// ChampionshipConfig selects the championship the client acts on
type ChampionshipConfig struct {
	ID       int64  `mapstructure:"id" validate:"required,gt=0"`
	Timezone string `mapstructure:"timezone" validate:"required,timezone"`
}

// BettingConfig holds the betting window offsets
type BettingConfig struct {
	LineupLeadDays      int `mapstructure:"lineup_lead_days" validate:"required,gt=0"`
	SprintMarginMinutes int `mapstructure:"sprint_margin_minutes" validate:"gte=0"`
	RaceCutoffHour      int `mapstructure:"race_cutoff_hour" validate:"gte=0,lte=23"`
}

// CacheConfig controls caching of championship reference data
type CacheConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// MonitorConfig configures the window monitor job
type MonitorConfig struct {
	Schedule string  `mapstructure:"schedule" validate:"omitempty,cron"`
	Races    []int64 `mapstructure:"races" validate:"dive,gt=0"`
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

// Location loads the championship timezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := tz.LoadLocation(c.Championship.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", c.Championship.Timezone, err)
	}
	return loc, nil
}

// WindowPolicy returns the betting window offsets
func (c *Config) WindowPolicy() window.Policy {
	return window.Policy{
		LineupLeadDays: c.Betting.LineupLeadDays,
		SprintMargin:   time.Duration(c.Betting.SprintMarginMinutes) * time.Minute,
		RaceCutoffHour: c.Betting.RaceCutoffHour,
	}
}

// APITimeout returns the backend request timeout
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// CacheTTL returns the reference data cache lifetime
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}
