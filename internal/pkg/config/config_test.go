package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://localhost:8000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8091", cfg.ServerPort)
	assert.Equal(t, "9092", cfg.MetricsPort)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.False(t, cfg.Cookies.Secure)
	assert.Equal(t, 7*24*time.Hour, cfg.Cookies.UserMaxAge)
	assert.Equal(t, 2*time.Hour, cfg.Cookies.AccessMaxAge)
	assert.Equal(t, 7*24*time.Hour, cfg.Cookies.RefreshMaxAge)
	assert.False(t, cfg.Guard.Strict)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://api.example.com")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("NOTE_CACHE_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.True(t, cfg.Cookies.Secure)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
}

func TestLoadRequiresBackendURL(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BACKEND_BASE_URL")
}

func TestLoadStrictGuardNeedsSecret(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://localhost:8000")
	t.Setenv("GUARD_STRICT", "true")
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")

	t.Setenv("JWT_SECRET_KEY", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Guard.Strict)
	assert.Equal(t, "s3cret", cfg.Guard.SecretKey)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://localhost:8000")
	t.Setenv("BACKEND_TIMEOUT", "not-a-duration")
	t.Setenv("COOKIE_SECURE", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.False(t, cfg.Cookies.Secure)
}
