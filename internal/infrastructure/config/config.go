package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Logging    LogConfig
	RateLimit  RateLimitConfig
	Store      StoreConfig
	Translator TranslatorConfig
	Catalog    CatalogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8000"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	Compress        bool          `envconfig:"COMPRESS" default:"true"`
	AllowOrigins    []string      `envconfig:"CORS_ORIGINS" default:"*"`
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

// StoreConfig selects the file-system node database.
type StoreConfig struct {
	Driver  string `envconfig:"STORE_DRIVER" default:"sqlite"`
	DSN     string `envconfig:"STORE_DSN" default:"nexus.db"`
	Migrate bool   `envconfig:"STORE_MIGRATE" default:"true"`
}

// TranslatorConfig selects how command text becomes intents.
type TranslatorConfig struct {
	Mode             string        `envconfig:"TRANSLATOR_MODE" default:"keyword"`
	URL              string        `envconfig:"TRANSLATOR_URL"`
	Timeout          time.Duration `envconfig:"TRANSLATOR_TIMEOUT" default:"15s"`
	Retries          int           `envconfig:"TRANSLATOR_RETRIES" default:"2"`
	Fallback         bool          `envconfig:"TRANSLATOR_FALLBACK" default:"true"`
	BreakerThreshold uint32        `envconfig:"TRANSLATOR_BREAKER_THRESHOLD" default:"5"`
	BreakerTimeout   time.Duration `envconfig:"TRANSLATOR_BREAKER_TIMEOUT" default:"30s"`
}

// CatalogConfig points at an optional app catalog file (YAML or TOML).
type CatalogConfig struct {
	Path string `envconfig:"CATALOG_PATH"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
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

// Validate checks values envconfig cannot check on its own.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q (want sqlite or postgres)", c.Store.Driver)
	}
	switch c.Translator.Mode {
	case "keyword":
	case "remote":
		if c.Translator.URL == "" {
			return fmt.Errorf("TRANSLATOR_URL is required when TRANSLATOR_MODE=remote")
		}
	default:
		return fmt.Errorf("invalid TRANSLATOR_MODE %q (want keyword or remote)", c.Translator.Mode)
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive")
	}
	return nil
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Host:            "0.0.0.0",
			ShutdownTimeout: 10 * time.Second,
			Compress:        true,
			AllowOrigins:    []string{"*"},
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
		Store: StoreConfig{
			Driver:  "sqlite",
			DSN:     "nexus.db",
			Migrate: true,
		},
		Translator: TranslatorConfig{
			Mode:             "keyword",
			Timeout:          15 * time.Second,
			Retries:          2,
			Fallback:         true,
			BreakerThreshold: 5,
			BreakerTimeout:   30 * time.Second,
		},
	}
}
