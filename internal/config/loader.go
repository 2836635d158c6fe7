package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// defaults is loaded first so that every key has a value before the
// environment is applied.
const defaults = `
server:
  host: 0.0.0.0
  port: 8080
  read_timeout: 15s
  write_timeout: 60s
  idle_timeout: 60s
  shutdown_timeout: 30s
  request_timeout: 60s
database:
  max_conns: 4
  min_conns: 1
  max_conn_lifetime: 1h
  max_conn_idle_time: 30m
upload:
  max_file_size: 20971520
  max_concurrent: 5
  max_wait_time: 30s
  export_cache_size: 32
  export_ttl: 15m
rate:
  enabled: true
  requests_per_minute: 100
  upload_limit: 10
security:
  enable_csp: true
  require_api_key: false
logging:
  level: info
  format: text
history:
  retention_days: 30
  check_interval: 24h
  page_size: 50
`

// envKeys maps each supported environment variable to its config key.
var envKeys = map[string]string{
	"SERVER_HOST":             "server.host",
	"SERVER_PORT":             "server.port",
	"SERVER_READ_TIMEOUT":     "server.read_timeout",
	"SERVER_WRITE_TIMEOUT":    "server.write_timeout",
	"SERVER_IDLE_TIMEOUT":     "server.idle_timeout",
	"SERVER_SHUTDOWN_TIMEOUT": "server.shutdown_timeout",
	"SERVER_REQUEST_TIMEOUT":  "server.request_timeout",

	"DATABASE_URL":          "database.url",
	"DB_URL":                altDatabaseURL,
	"DB_MAX_CONNS":          "database.max_conns",
	"DB_MIN_CONNS":          "database.min_conns",
	"DB_MAX_CONN_LIFETIME":  "database.max_conn_lifetime",
	"DB_MAX_CONN_IDLE_TIME": "database.max_conn_idle_time",

	"UPLOAD_MAX_FILE_SIZE":     "upload.max_file_size",
	"UPLOAD_MAX_CONCURRENT":    "upload.max_concurrent",
	"UPLOAD_MAX_WAIT_TIME":     "upload.max_wait_time",
	"UPLOAD_EXPORT_CACHE_SIZE": "upload.export_cache_size",
	"UPLOAD_EXPORT_TTL":        "upload.export_ttl",

	"RATE_LIMIT_ENABLED":             "rate.enabled",
	"RATE_LIMIT_REQUESTS_PER_MINUTE": "rate.requests_per_minute",
	"RATE_LIMIT_UPLOAD":              "rate.upload_limit",

	"TRUSTED_PROXIES":     "security.trusted_proxies",
	"SECURITY_ENABLE_CSP": "security.enable_csp",
	"REQUIRE_API_KEY":     "security.require_api_key",
	"API_KEYS":            "security.api_keys",

	"LOG_LEVEL":  "logging.level",
	"LOG_FORMAT": "logging.format",

	"HISTORY_RETENTION_DAYS": "history.retention_days",
	"HISTORY_CHECK_INTERVAL": "history.check_interval",
	"HISTORY_PAGE_SIZE":      "history.page_size",
}

// altDatabaseURL holds DB_URL, which is only used when DATABASE_URL is unset.
const altDatabaseURL = "database.url_alt"

// listKeys are read as comma-separated lists.
var listKeys = map[string]bool{
	"security.trusted_proxies": true,
	"security.api_keys":        true,
}

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if a value cannot be decoded or validation fails.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider([]byte(defaults)), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	if err := k.Load(env.ProviderWithValue("", ".", fromEnv), nil); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		if name := envNameFor(err); name != "" {
			return nil, fmt.Errorf("config load: invalid value for %s: %w", name, err)
		}
		return nil, fmt.Errorf("config load: %w", err)
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = k.String(altDatabaseURL)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// fromEnv maps a known environment variable to its config key. Unknown and
// empty variables are skipped so the default stays in place.
func fromEnv(name, value string) (string, interface{}) {
	key, ok := envKeys[name]
	if !ok || value == "" {
		return "", nil
	}
	if listKeys[key] {
		return key, splitList(value)
	}
	return key, value
}

// splitList splits a comma-separated value and drops empty entries.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// envNameFor returns the environment variable whose key appears in a decode
// error, or "" when none does.
func envNameFor(err error) string {
	msg := err.Error()
	for name, key := range envKeys {
		if key != altDatabaseURL && strings.Contains(msg, key) {
			return name
		}
	}
	return ""
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Database validation (only when history is enabled)
	if c.Database.Enabled() {
		if c.Database.MaxConns < c.Database.MinConns {
			errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
				c.Database.MaxConns, c.Database.MinConns))
		}
		if c.Database.MaxConns <= 0 {
			errs = append(errs, "DB_MAX_CONNS must be positive")
		}
		if c.Database.MinConns < 0 {
			errs = append(errs, "DB_MIN_CONNS must be non-negative")
		}
	}

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "SERVER_REQUEST_TIMEOUT must be positive")
	}

	// Upload validation
	if c.Upload.MaxFileSize <= 0 {
		errs = append(errs, "UPLOAD_MAX_FILE_SIZE must be positive")
	}
	if c.Upload.MaxConcurrent <= 0 {
		errs = append(errs, "UPLOAD_MAX_CONCURRENT must be positive")
	}
	if c.Upload.MaxWaitTime <= 0 {
		errs = append(errs, "UPLOAD_MAX_WAIT_TIME must be positive")
	}
	if c.Upload.ExportCacheSize <= 0 {
		errs = append(errs, "UPLOAD_EXPORT_CACHE_SIZE must be positive")
	}
	if c.Upload.ExportTTL <= 0 {
		errs = append(errs, "UPLOAD_EXPORT_TTL must be positive")
	}

	// Rate limit validation
	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}
	if c.Rate.Enabled && c.Rate.UploadLimit <= 0 {
		errs = append(errs, "RATE_LIMIT_UPLOAD must be positive when rate limiting is enabled")
	}

	// History validation
	if c.History.RetentionDays <= 0 {
		errs = append(errs, "HISTORY_RETENTION_DAYS must be positive")
	}
	if c.History.CheckInterval <= 0 {
		errs = append(errs, "HISTORY_CHECK_INTERVAL must be positive")
	}
	if c.History.PageSize <= 0 {
		errs = append(errs, "HISTORY_PAGE_SIZE must be positive")
	}

	// Security validation
	if c.Security.RequireAPIKey && len(c.Security.APIKeys) == 0 {
		errs = append(errs, "REQUIRE_API_KEY is true but API_KEYS is empty; configure at least one API key or disable auth")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// Sensitive values like database URLs and API keys are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	dbURL := ""
	if c.Database.Enabled() {
		dbURL = "[MASKED]"
	}
	b.WriteString(fmt.Sprintf("Database: {URL: %s, MaxConns: %d, MinConns: %d}, ",
		dbURL, c.Database.MaxConns, c.Database.MinConns))
	b.WriteString(fmt.Sprintf("Upload: {MaxFileSize: %d, MaxConcurrent: %d}, ",
		c.Upload.MaxFileSize, c.Upload.MaxConcurrent))
	b.WriteString(fmt.Sprintf("Rate: {Enabled: %v, RequestsPerMinute: %d, UploadLimit: %d}, ",
		c.Rate.Enabled, c.Rate.RequestsPerMinute, c.Rate.UploadLimit))
	b.WriteString(fmt.Sprintf("Security: {RequireAPIKey: %v, APIKeys: %d}, ",
		c.Security.RequireAPIKey, len(c.Security.APIKeys)))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
