package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "APP_ENV", "LOG_LEVEL", "ALLOWED_ORIGIN", "CLIENT_RATE_LIMIT", "CLIENT_RATE_BURST", "DB_HOST", "DB_PORT"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "local", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "*", cfg.AllowedOrigin)
	assert.Equal(t, 30.0, cfg.ClientRateLimit)
	assert.Equal(t, 60, cfg.ClientRateBurst)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.False(t, cfg.Database.Enabled())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("CLIENT_RATE_LIMIT", "5.5")
	t.Setenv("CLIENT_RATE_BURST", "not-a-number")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_DATABASE", "typinghub")
	t.Setenv("DB_USERNAME", "app")

	cfg := LoadConfig()
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, 5.5, cfg.ClientRateLimit)
	assert.Equal(t, 60, cfg.ClientRateBurst)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.True(t, cfg.Database.Enabled())
}
