package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// BackendConfig points the web tier at the remote PenFolio API that
// owns authentication and persistence.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CookieConfig controls the session cookies the sign-in handler sets.
type CookieConfig struct {
	Secure        bool
	UserMaxAge    time.Duration
	AccessMaxAge  time.Duration
	RefreshMaxAge time.Duration
}

// GuardConfig controls the route guard. Strict mode additionally
// validates the access token as a signed JWT instead of gating on
// presence alone.
type GuardConfig struct {
	Strict    bool
	SecretKey string
}

type Config struct {
	ServerPort  string
	MetricsPort string
	Backend     BackendConfig
	Cookies     CookieConfig
	Guard       GuardConfig
	CacheTTL    time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:  getEnvOrDefault("SERVER_PORT", "8091"),
		MetricsPort: getEnvOrDefault("METRICS_PORT", "9092"),
		Backend: BackendConfig{
			BaseURL: os.Getenv("BACKEND_BASE_URL"),
			Timeout: getDurationOrDefault("BACKEND_TIMEOUT", 10*time.Second),
		},
		Cookies: CookieConfig{
			Secure:        getBoolOrDefault("COOKIE_SECURE", false),
			UserMaxAge:    7 * 24 * time.Hour,
			AccessMaxAge:  2 * time.Hour,
			RefreshMaxAge: 7 * 24 * time.Hour,
		},
		Guard: GuardConfig{
			Strict:    getBoolOrDefault("GUARD_STRICT", false),
			SecretKey: os.Getenv("JWT_SECRET_KEY"),
		},
		CacheTTL: getDurationOrDefault("NOTE_CACHE_TTL", time.Minute),
	}

	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("BACKEND_BASE_URL environment variable is required")
	}
	if cfg.Guard.Strict && cfg.Guard.SecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY is required when GUARD_STRICT is enabled")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
