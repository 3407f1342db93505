package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Firewall  FirewallConfig
	Web       WebConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// FirewallConfig holds default task budgets. Per-task overrides supplied
// at intent creation always win over these process-wide defaults.
type FirewallConfig struct {
	MaxDurationSeconds int `envconfig:"FIREWALL_MAX_DURATION_SECONDS" default:"300"`
	MaxActions         int `envconfig:"FIREWALL_MAX_ACTIONS" default:"500"`
}

// WebConfig holds outbound page-fetch client configuration. A zero
// RequestsPerSecond leaves fetches uncapped.
type WebConfig struct {
	TimeoutSeconds    int     `envconfig:"WEB_TIMEOUT_SECONDS" default:"30"`
	MaxRetries        int     `envconfig:"WEB_MAX_RETRIES" default:"3"`
	RequestsPerSecond float64 `envconfig:"WEB_RPS" default:"0"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Firewall: FirewallConfig{
			MaxDurationSeconds: 300,
			MaxActions:         500,
		},
		Web: WebConfig{
			TimeoutSeconds:    30,
			MaxRetries:        3,
			RequestsPerSecond: 0,
		},
	}
}
