package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		GoEnv:              "development",
		HTTPPort:           8080,
		DatabaseURL:        "postgres://localhost:5432/libraryhub",
		JWTSecret:          "test-secret-key-with-at-least-32-chars",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    7 * 24 * time.Hour,
		CacheTTL:           300,
		LoanPeriod:         30 * 24 * time.Hour,
		FinePerDay:         5,
		MaxBooksPerMember:  2,
		RateLimitPerSecond: 10,
		RateLimitBurst:     20,
		LogLevel:           "debug",
		LogFormat:          "text",
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-with-at-least-32-chars")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.GoEnv)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.LoanPeriod)
	assert.Equal(t, float64(5), cfg.FinePerDay)
	assert.Equal(t, 2, cfg.MaxBooksPerMember)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-with-at-least-32-chars")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOAN_PERIOD", "336h")
	t.Setenv("FINE_PER_DAY", "10")
	t.Setenv("MAX_BOOKS_PER_MEMBER", "5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 14*24*time.Hour, cfg.LoanPeriod)
	assert.Equal(t, float64(10), cfg.FinePerDay)
	assert.Equal(t, 5, cfg.MaxBooksPerMember)
}

func TestLoadConfig_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadConfig_RejectsBadInt(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-with-at-least-32-chars")
	t.Setenv("HTTP_PORT", "not-a-number")

	_, err := LoadConfig()

	assert.Error(t, err)
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port out of range", func(c *Config) { c.HTTPPort = 0 }, "HTTP_PORT"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "LOG_FORMAT"},
		{"short jwt secret", func(c *Config) { c.JWTSecret = "short" }, "JWT_SECRET"},
		{"zero loan period", func(c *Config) { c.LoanPeriod = 0 }, "LOAN_PERIOD"},
		{"negative fine", func(c *Config) { c.FinePerDay = -1 }, "FINE_PER_DAY"},
		{"zero book limit", func(c *Config) { c.MaxBooksPerMember = 0 }, "MAX_BOOKS_PER_MEMBER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
