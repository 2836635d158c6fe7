// Package config provides centralized configuration management for the application.
// It layers environment variables over built-in defaults with koanf and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables; see envKeys.
type Config struct {
	Server   ServerConfig    `koanf:"server"`
	Database DatabaseConfig  `koanf:"database"`
	Upload   UploadConfig    `koanf:"upload"`
	Rate     RateLimitConfig `koanf:"rate"`
	Security SecurityConfig  `koanf:"security"`
	Logging  LoggingConfig   `koanf:"logging"`
	History  HistoryConfig   `koanf:"history"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `koanf:"host"`

	// Port is the port to listen on (default: 8080)
	Port int `koanf:"port"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `koanf:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// DatabaseConfig holds settings for the optional run history database.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. Run history is disabled when empty.
	// DB_URL is accepted when DATABASE_URL is unset.
	URL string `koanf:"url"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `koanf:"max_conns"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `koanf:"min_conns"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `koanf:"max_conn_lifetime"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `koanf:"max_conn_idle_time"`
}

// Enabled reports whether a database has been configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// UploadConfig holds file upload processing settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 20MB)
	MaxFileSize int64 `koanf:"max_file_size"`

	// MaxConcurrent is the maximum number of parallel processing runs (default: 5)
	MaxConcurrent int `koanf:"max_concurrent"`

	// MaxWaitTime is how long to wait for a processing slot (default: 30s)
	MaxWaitTime time.Duration `koanf:"max_wait_time"`

	// ExportCacheSize is how many results stay downloadable from the results page (default: 32)
	ExportCacheSize int `koanf:"export_cache_size"`

	// ExportTTL is how long a result stays downloadable (default: 15m)
	ExportTTL time.Duration `koanf:"export_ttl"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `koanf:"enabled"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `koanf:"requests_per_minute"`

	// UploadLimit is requests per minute for upload endpoints (default: 10)
	UploadLimit int `koanf:"upload_limit"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `koanf:"trusted_proxies"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `koanf:"enable_csp"`

	// RequireAPIKey enables X-API-Key checks on /api routes (default: false)
	RequireAPIKey bool `koanf:"require_api_key"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `koanf:"api_keys"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `koanf:"level"`

	// Format is the log format: text or json (default: text)
	Format string `koanf:"format"`
}

// HistoryConfig holds processing run history settings.
type HistoryConfig struct {
	// RetentionDays is how long run summaries are kept (default: 30)
	RetentionDays int `koanf:"retention_days"`

	// CheckInterval is how often the retention job runs (default: 24h)
	CheckInterval time.Duration `koanf:"check_interval"`

	// PageSize is the number of runs shown on the history page (default: 50)
	PageSize int `koanf:"page_size"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
