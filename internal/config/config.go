// Package config loads and validates labelize-server's environment-driven
// configuration. Grounded on the teacher's (now-removed) lib/config.go
// pattern: plain env-var reads with sensible defaults, validated with
// go-playground/validator. spec.md §6, SPEC_FULL.md §6/§10.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds every environment-derived setting labelize-server needs to
// run. SPEC_FULL.md §6 env var table.
type Config struct {
	// Domain is the upstream wiki to query for persistent objects and
	// global keys, e.g. "https://www.wikifunctions.org".
	Domain string `validate:"required,url"`

	// Addr is the local listen address for the HTTP server.
	Addr string `validate:"required"`

	// CacheProvider selects the fetch-result cache backend: "memory" or
	// "redis".
	CacheProvider string `validate:"required,oneof=memory redis"`

	// CacheTTL bounds how long a fetched (or failed) result is cached.
	CacheTTL time.Duration `validate:"required,gt=0"`

	// RedisURL is required when CacheProvider is "redis".
	RedisURL string

	// DevMode relaxes gin's release-mode logging.
	DevMode bool

	// DefaultLangs is the language-preference fallback chain used when a
	// request omits its own "langs" field.
	DefaultLangs []string `validate:"required,min=1"`

	// OtelEndpoint is the OTLP gRPC collector endpoint for traces/metrics.
	OtelEndpoint string `validate:"required"`
}

const (
	envDomain        = "DOMAIN"
	envAddr          = "LABELIZE_ADDR"
	envCacheProvider = "LABELIZE_CACHE_PROVIDER"
	envCacheTTL      = "LABELIZE_CACHE_TTL_SECONDS"
	envRedisURL      = "LABELIZE_REDIS_URL"
	envDevMode       = "LABELIZE_DEV_MODE"
	envDefaultLangs  = "LABELIZE_DEFAULT_LANGS"
	envOtelEndpoint  = "LABELIZE_OTEL_ENDPOINT"

	defaultAddr          = ":8000"
	defaultCacheProvider = "memory"
	defaultCacheTTLSecs  = 600
	defaultLangsCSV      = "Z1830,Z1006,Z1002"
	defaultOtelEndpoint  = "localhost:4317"
)

// Load reads Config from the process environment and validates it.
func Load() (*Config, error) {
	ttlSecs := defaultCacheTTLSecs
	if v := os.Getenv(envCacheTTL); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid %s: %w", envCacheTTL, err)
		}
		ttlSecs = n
	}

	devMode := false
	if v := os.Getenv(envDevMode); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid %s: %w", envDevMode, err)
		}
		devMode = b
	}

	cfg := &Config{
		Domain:        os.Getenv(envDomain),
		Addr:          envOrDefault(envAddr, defaultAddr),
		CacheProvider: envOrDefault(envCacheProvider, defaultCacheProvider),
		CacheTTL:      time.Duration(ttlSecs) * time.Second,
		RedisURL:      os.Getenv(envRedisURL),
		DevMode:       devMode,
		DefaultLangs:  splitCSV(envOrDefault(envDefaultLangs, defaultLangsCSV)),
		OtelEndpoint:  envOrDefault(envOtelEndpoint, defaultOtelEndpoint),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.CacheProvider == "redis" && cfg.RedisURL == "" {
		return nil, fmt.Errorf("config: %s is required when %s=redis", envRedisURL, envCacheProvider)
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
