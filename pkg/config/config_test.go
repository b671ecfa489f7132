package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_ACCESS_TTL", "")
	t.Setenv("MIN_AGE", "")
	t.Setenv("LOGIN_FAILURE_STATUS", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*24*time.Hour, cfg.JWTAccessTTL)
	assert.Equal(t, 14, cfg.MinAge)
	assert.Equal(t, 100, cfg.MaxAge)
	assert.Equal(t, 401, cfg.LoginFailureStatus)
	assert.True(t, cfg.CookieSecure)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_ACCESS_TTL", "90")
	t.Setenv("JWT_REFRESH_TTL", "48h")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("PUBLIC_URL", "https://crm.example.com/")
	t.Setenv("LOGIN_FAILURE_STATUS", "404")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 90*time.Minute, cfg.JWTAccessTTL)
	assert.Equal(t, 48*time.Hour, cfg.JWTRefreshTTL)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, "https://crm.example.com", cfg.PublicURL)
	assert.Equal(t, 404, cfg.LoginFailureStatus)
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	assert.Equal(t, 7, getEnvInt("SOME_INT", 7))
}
