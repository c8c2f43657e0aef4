// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config validation errors
var (
	// ErrMissingDatabaseURL is returned when STORAGE=postgres without DATABASE_URL
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required for postgres storage")
	// ErrInvalidStorage is returned for an unknown STORAGE value
	ErrInvalidStorage = errors.New("STORAGE must be postgres or memory")
	// ErrInvalidTTL is returned when a cache TTL is not positive
	ErrInvalidTTL = errors.New("cache TTL must be positive")
	// ErrInvalidSweepInterval is returned when the sweep interval is under one second
	ErrInvalidSweepInterval = errors.New("cache sweep interval must be at least 1s")
	// ErrInvalidSyncSpec is returned when REPUTATION_SYNC_SPEC does not parse
	ErrInvalidSyncSpec = errors.New("invalid reputation sync schedule")
	// ErrInvalidRateLimit is returned when the rate limit is not positive
	ErrInvalidRateLimit = errors.New("rate limit must be positive")
)

// Config holds the server configuration.
type Config struct {
	// Storage selects the profile store: "postgres" or "memory".
	Storage     string
	DatabaseURL string
	Port        string

	// RedisURL enables the shared search cache tier when set.
	RedisURL string

	SearchCacheTTL     time.Duration
	APICacheTTL        time.Duration
	CacheSweepInterval time.Duration

	// JWTSecret signs the HS256 bearer tokens accepted on profile writes.
	// Empty disables authenticated endpoints.
	JWTSecret string

	TalentAPIURL string
	// TalentAPIKey enables the reputation sync job when set.
	TalentAPIKey       string
	ReputationSyncSpec string

	RateLimitPerMinute int

	// TrustProxyHeaders takes the client IP from X-Real-IP / X-Forwarded-For.
	// Only enable behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Storage:            StoragePostgres,
		Port:               "8080",
		SearchCacheTTL:     120 * time.Second,
		APICacheTTL:        300 * time.Second,
		CacheSweepInterval: 60 * time.Second,
		TalentAPIURL:       "https://api.talentprotocol.com/api/v2",
		ReputationSyncSpec: "@every 6h",
		RateLimitPerMinute: 100,
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	case StorageMemory:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidStorage, c.Storage)
	}

	if c.SearchCacheTTL <= 0 {
		return fmt.Errorf("%w: search cache got %v", ErrInvalidTTL, c.SearchCacheTTL)
	}
	if c.APICacheTTL <= 0 {
		return fmt.Errorf("%w: API cache got %v", ErrInvalidTTL, c.APICacheTTL)
	}
	if c.CacheSweepInterval < time.Second {
		return fmt.Errorf("%w: got %v", ErrInvalidSweepInterval, c.CacheSweepInterval)
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidRateLimit, c.RateLimitPerMinute)
	}
	if c.ReputationEnabled() {
		if _, err := cron.ParseStandard(c.ReputationSyncSpec); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSyncSpec, err)
		}
	}
	return nil
}

// ReputationEnabled reports whether the Talent Protocol sync should run
func (c Config) ReputationEnabled() bool {
	return c.TalentAPIKey != ""
}

// ConfigFromEnv creates a Config from environment variables.
// Uses defaults for any missing environment variables.
//
// Environment variables:
//   - STORAGE: "postgres" or "memory" (default: postgres)
//   - DATABASE_URL: PostgreSQL connection string
//   - PORT: HTTP listen port (default: 8080)
//   - REDIS_URL: optional shared search cache
//   - SEARCH_CACHE_TTL_SECONDS: search result TTL (default: 120)
//   - API_CACHE_TTL_SECONDS: profile lookup TTL (default: 300)
//   - CACHE_SWEEP_INTERVAL_SECONDS: expired entry sweep interval (default: 60)
//   - AUTH_JWT_SECRET: HS256 secret for bearer tokens
//   - TALENT_API_URL, TALENT_API_KEY: Talent Protocol API
//   - REPUTATION_SYNC_SPEC: cron spec for the score sync (default: "@every 6h")
//   - RATE_LIMIT_PER_MINUTE: per-client request budget (default: 100)
//   - TRUST_PROXY_HEADERS: "true" to read the client IP from proxy headers (default: false)
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("STORAGE"); v != "" {
		cfg.Storage = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}

	cfg.SearchCacheTTL = secondsFromEnv("SEARCH_CACHE_TTL_SECONDS", cfg.SearchCacheTTL)
	cfg.APICacheTTL = secondsFromEnv("API_CACHE_TTL_SECONDS", cfg.APICacheTTL)
	cfg.CacheSweepInterval = secondsFromEnv("CACHE_SWEEP_INTERVAL_SECONDS", cfg.CacheSweepInterval)

	cfg.JWTSecret = os.Getenv("AUTH_JWT_SECRET")

	if v := os.Getenv("TALENT_API_URL"); v != "" {
		cfg.TalentAPIURL = v
	}
	cfg.TalentAPIKey = os.Getenv("TALENT_API_KEY")
	if v := os.Getenv("REPUTATION_SYNC_SPEC"); v != "" {
		cfg.ReputationSyncSpec = v
	}

	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitPerMinute = n
		} else {
			slog.Warn("[CONFIG] invalid RATE_LIMIT_PER_MINUTE value, using default",
				"value", v,
				"default", cfg.RateLimitPerMinute,
				"error", err,
			)
		}
	}

	if v := os.Getenv("TRUST_PROXY_HEADERS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.TrustProxyHeaders = b
		} else {
			slog.Warn("[CONFIG] invalid TRUST_PROXY_HEADERS value, using default",
				"value", v,
				"default", cfg.TrustProxyHeaders,
			)
		}
	}

	return cfg
}

func secondsFromEnv(name string, def time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("[CONFIG] invalid "+name+" value, using default",
			"value", v,
			"default_seconds", int(def.Seconds()),
			"error", err,
		)
		return def
	}
	return time.Duration(n) * time.Second
}
