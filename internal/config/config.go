// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// Tool output limit defaults
const (
	DefaultSearchLimitValue = 20
	MaxSearchResultsValue   = 10000
)

// Config holds all configuration for the search server and CLI.
type Config struct {
	PowHTTPBaseURL       string        // POWHTTP_BASE_URL, default "http://localhost:7777"
	HTTPClientTimeout    time.Duration // HTTP_CLIENT_TIMEOUT_MS, default 10000ms (10s)
	RefreshTimeout       time.Duration // REFRESH_TIMEOUT_MS, default 15000ms (15s)
	RefreshInterval      time.Duration // REFRESH_INTERVAL_MS, default 2000ms (2s)
	FreshnessThreshold   time.Duration // FRESHNESS_THRESHOLD_MS, default 500ms
	BootstrapTailLimit   int           // BOOTSTRAP_TAIL_LIMIT, default 20000
	FetchWorkers         int           // FETCH_WORKERS, default 16
	ContentCacheMaxItems int           // CONTENT_CACHE_MAX_ITEMS, default 512

	// Search scope
	SearchMaxWorkers int    // SEARCH_MAX_WORKERS, default 0 (one goroutine per request)
	SearchLocale     string // SEARCH_LOCALE, default "en"

	// Tool output limits
	DefaultSearchLimit int // DEFAULT_SEARCH_LIMIT
	MaxSearchResults   int // MAX_SEARCH_RESULTS, default 10000

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogFormat     string // LOG_FORMAT, "text" or "json", default "text"
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		PowHTTPBaseURL:       getEnvString("POWHTTP_BASE_URL", "http://localhost:7777"),
		HTTPClientTimeout:    getEnvDurationMs("HTTP_CLIENT_TIMEOUT_MS", 10000),
		RefreshTimeout:       getEnvDurationMs("REFRESH_TIMEOUT_MS", 15000),
		RefreshInterval:      getEnvDurationMs("REFRESH_INTERVAL_MS", 2000),
		FreshnessThreshold:   getEnvDurationMs("FRESHNESS_THRESHOLD_MS", 500),
		BootstrapTailLimit:   getEnvInt("BOOTSTRAP_TAIL_LIMIT", 20000),
		FetchWorkers:         getEnvInt("FETCH_WORKERS", 16),
		ContentCacheMaxItems: getEnvInt("CONTENT_CACHE_MAX_ITEMS", 512),

		SearchMaxWorkers: getEnvInt("SEARCH_MAX_WORKERS", 0),
		SearchLocale:     getEnvString("SEARCH_LOCALE", "en"),

		DefaultSearchLimit: getEnvInt("DEFAULT_SEARCH_LIMIT", DefaultSearchLimitValue),
		MaxSearchResults:   getEnvInt("MAX_SEARCH_RESULTS", MaxSearchResultsValue),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
