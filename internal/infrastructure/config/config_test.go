package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.Server.Compress)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "keyword", cfg.Translator.Mode)

	assert.NoError(t, cfg.Validate())
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                "9000",
		"HOST":                "127.0.0.1",
		"SHUTDOWN_TIMEOUT":    "3s",
		"COMPRESS":            "false",
		"CORS_ORIGINS":        "http://localhost:3000,https://nexus.example",
		"LOG_LEVEL":           "debug",
		"LOG_DEV":             "true",
		"RATE_LIMIT_RPS":      "500",
		"RATE_LIMIT_BURST":    "1000",
		"RATE_LIMIT_ENABLED":  "false",
		"STORE_DRIVER":        "postgres",
		"STORE_DSN":           "postgres://nexus@db/nexus?sslmode=disable",
		"TRANSLATOR_MODE":     "remote",
		"TRANSLATOR_URL":      "http://llm:9000/api/os-command",
		"TRANSLATOR_RETRIES":  "4",
		"TRANSLATOR_FALLBACK": "false",
		"CATALOG_PATH":        "/etc/nexus/apps.yaml",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr())
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.False(t, cfg.Server.Compress)
	assert.Equal(t, []string{"http://localhost:3000", "https://nexus.example"}, cfg.Server.AllowOrigins)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)

	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "remote", cfg.Translator.Mode)
	assert.Equal(t, 4, cfg.Translator.Retries)
	assert.False(t, cfg.Translator.Fallback)
	assert.Equal(t, "/etc/nexus/apps.yaml", cfg.Catalog.Path)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Store.Driver = "mysql" }},
		{"unknown translator", func(c *Config) { c.Translator.Mode = "oracle" }},
		{"remote without url", func(c *Config) { c.Translator.Mode = "remote" }},
		{"zero rate", func(c *Config) { c.RateLimit.RequestsPerSecond = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mysql")
	cfg := LoadOrDefault()
	assert.Equal(t, "sqlite", cfg.Store.Driver)
}
