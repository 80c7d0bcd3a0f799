// Package config provides centralized configuration management for the application.
// It loads configuration from defaults, an optional YAML file and environment
// variables, and validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Supported values for DatabaseConfig.Driver.
const (
	DriverPostgres  = "postgres"
	DriverSQLServer = "sqlserver"
	DriverLocal     = "local"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Database DatabaseConfig  `yaml:"database"`
	Redis    RedisConfig     `yaml:"redis"`
	Import   ImportConfig    `yaml:"import"`
	Rate     RateLimitConfig `yaml:"rate"`
	Security SecurityConfig  `yaml:"security"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" yaml:"host" default:"0.0.0.0"`

	// Port is the port to listen on (default: 3000)
	Port int `env:"SERVER_PORT" envAlt:"PORT" yaml:"port" default:"3000"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" yaml:"read_timeout" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" yaml:"write_timeout" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" yaml:"idle_timeout" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" yaml:"shutdown_timeout" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" yaml:"request_timeout" default:"30s"`

	// StaticDir is served under /static/ when set
	StaticDir string `env:"STATIC_DIR" yaml:"static_dir"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Driver selects the store: postgres, sqlserver or local (default: postgres)
	Driver string `env:"DB_DRIVER" yaml:"driver" default:"postgres"`

	// URL is the connection string, required unless Driver is local.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" yaml:"url"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" yaml:"max_conns" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" yaml:"min_conns" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" yaml:"max_conn_lifetime" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30s)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" yaml:"max_conn_idle_time" default:"30s"`

	// QueryTimeout bounds every store call (default: 5s)
	QueryTimeout time.Duration `env:"DB_QUERY_TIMEOUT" yaml:"query_timeout" default:"5s"`

	// AutoMigrate applies embedded migrations at startup (default: true)
	AutoMigrate bool `env:"DB_AUTO_MIGRATE" yaml:"auto_migrate" default:"true"`
}

// RedisConfig holds the optional Redis backing for the local driver.
type RedisConfig struct {
	// URL is a redis:// URL. Empty means the local driver keeps data in memory.
	URL string `env:"REDIS_URL" yaml:"url"`

	// Prefix namespaces the keys (default: contactdesk)
	Prefix string `env:"REDIS_PREFIX" yaml:"prefix" default:"contactdesk"`
}

// ImportConfig bounds CSV import processing.
type ImportConfig struct {
	// MaxConcurrent is the maximum number of parallel imports (default: 2)
	MaxConcurrent int `env:"IMPORT_MAX_CONCURRENT" yaml:"max_concurrent" default:"2"`

	// MaxWaitTime is how long an import waits for a slot (default: 10s)
	MaxWaitTime time.Duration `env:"IMPORT_MAX_WAIT_TIME" yaml:"max_wait_time" default:"10s"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" yaml:"enabled" default:"true"`

	// RequestsPerMinute is the limit per client IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" yaml:"requests_per_minute" default:"100"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES" yaml:"trusted_proxies"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" yaml:"enable_csp" default:"true"`

	// RequireAPIKey guards destructive endpoints with X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" yaml:"require_api_key" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS" yaml:"api_keys"`

	// CORSAllowedOrigins lists origins allowed to call the API (default: *)
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" yaml:"cors_allowed_origins" default:"*"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" yaml:"level" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" yaml:"format" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + strconv.Itoa(c.Port)
	}
	return c.Host + ":" + strconv.Itoa(c.Port)
}
