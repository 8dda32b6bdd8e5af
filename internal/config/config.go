// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leonardcser/gh-cards/internal/card"
	"github.com/leonardcser/gh-cards/internal/web"
)

// Cache backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendDaemon = "daemon"
)

// Environment variables.
const (
	EnvBackend        = "GHCARDS_CACHE_BACKEND"
	EnvCacheFile      = "GHCARDS_CACHE_FILE"
	EnvCacheDB        = "GHCARDS_CACHE_DB"
	EnvCacheSock      = "GHCARDS_CACHE_SOCK"
	EnvCacheTTL       = "GHCARDS_CACHE_TTL"
	EnvRequestTimeout = "GHCARDS_REQUEST_TIMEOUT"
	EnvAPIBase        = "GHCARDS_API_BASE"
	EnvColorsURL      = "GHCARDS_COLORS_URL"
	EnvToken          = "GITHUB_TOKEN"
)

const (
	DefaultCacheFile = "./cache.json"
	// DefaultCacheTTL is also the cache package's DefaultTTL.
	DefaultCacheTTL  = time.Hour
)

type Config struct {
	Backend        string
	CacheFile      string
	CacheDB        string
	CacheSock      string
	CacheTTL       time.Duration
	RequestTimeout time.Duration
	APIBase        string
	ColorsURL      string
	Token          string
}

// FromEnv builds a Config from the process environment, falling back to
// defaults for unset variables.
func FromEnv() (Config, error) {
	cfg := Config{
		Backend:   strings.ToLower(defaultString(os.Getenv(EnvBackend), BackendFile)),
		CacheFile: defaultString(os.Getenv(EnvCacheFile), DefaultCacheFile),
		CacheDB:   defaultString(os.Getenv(EnvCacheDB), DefaultDBPath()),
		CacheSock: defaultString(os.Getenv(EnvCacheSock), DefaultSocketPath()),
		APIBase:   strings.TrimRight(defaultString(os.Getenv(EnvAPIBase), card.DefaultAPIBase), "/"),
		ColorsURL: defaultString(os.Getenv(EnvColorsURL), card.DefaultColorsURL),
		Token:     os.Getenv(EnvToken),
	}
	switch cfg.Backend {
	case BackendMemory, BackendFile, BackendBolt, BackendDaemon:
	default:
		return Config{}, fmt.Errorf("%s: unknown cache backend %q", EnvBackend, cfg.Backend)
	}

	var err error
	if cfg.CacheTTL, err = durationEnv(EnvCacheTTL, DefaultCacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout, err = durationEnv(EnvRequestTimeout, web.RequestTimeout); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func DefaultSocketPath() string {
	return filepath.Join(cacheDir(), "cache.sock")
}

func DefaultDBPath() string {
	return filepath.Join(cacheDir(), "cache.bbolt")
}

func cacheDir() string {
	home, _ := os.UserHomeDir()
	if home == "" {
		home = "."
	}
	return filepath.Join(home, ".cache", "gh-cards")
}

func durationEnv(name string, d time.Duration) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return d, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", name, v)
	}
	return parsed, nil
}

func defaultString(v, d string) string {
	if v == "" {
		return d
	}
	return v
}
