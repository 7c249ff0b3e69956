// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Source kinds.
const (
	SourceGitHub   = "github"
	SourceDir      = "dir"
	SourcePostgres = "postgres"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Source   SourceConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Resolver ResolverConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing the response (default: 120s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"120s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 90s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"90s"`
}

// SourceConfig selects and configures where sheets are fetched from.
type SourceConfig struct {
	// Kind is github, dir, or postgres (default: github)
	Kind string `env:"SHEET_SOURCE" default:"github"`

	// BaseURL is the raw content host for the github source
	BaseURL string `env:"SHEET_BASE_URL" default:"https://raw.githubusercontent.com"`

	// RepoID is the datamining repository, owner/name (default: xivapi/ffxiv-datamining)
	RepoID string `env:"SHEET_REPO" default:"xivapi/ffxiv-datamining"`

	// Branch is the repository branch (default: master)
	Branch string `env:"SHEET_BRANCH" default:"master"`

	// Dir is the local checkout read by the dir source
	Dir string `env:"SHEET_DIR"`

	// Table holds sheet CSV for the postgres source (default: sheets)
	Table string `env:"SHEET_TABLE" default:"sheets"`

	// FetchTimeout bounds a single upstream fetch (default: 30s)
	FetchTimeout time.Duration `env:"SHEET_FETCH_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds database connection settings for the postgres source.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string, required for the postgres source
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`
}

// CacheConfig holds sheet cache settings.
type CacheConfig struct {
	// TTLSeconds is how long a fetched sheet stays cached; 0 never expires (default: 600)
	TTLSeconds int `env:"CACHE_TTL_SECONDS" default:"600"`

	// CheckPeriod is how often expired sheets are swept (default: 10m)
	CheckPeriod time.Duration `env:"CACHE_CHECK_PERIOD" default:"10m"`
}

// ResolverConfig holds materialization settings.
type ResolverConfig struct {
	// Identifier is the name given to each sheet's first column (default: ID)
	Identifier string `env:"RESOLVER_IDENTIFIER" default:"ID"`

	// LinkableTypes is a comma-separated list of sheet names that other sheets reference
	LinkableTypes []string `env:"LINKABLE_TYPES"`

	// LinkableTypesFile is a JSON or YAML file holding an array of linkable sheet names
	LinkableTypesFile string `env:"LINKABLE_TYPES_FILE"`

	// Workers bounds concurrent row and reference resolution per request (default: 16)
	Workers int `env:"RESOLVER_WORKERS" default:"16"`

	// MaxConcurrentFetches bounds parallel upstream fetches (default: 8)
	MaxConcurrentFetches int `env:"RESOLVER_MAX_CONCURRENT_FETCHES" default:"8"`

	// MaxFetchWait is how long to wait for a fetch slot (default: 30s)
	MaxFetchWait time.Duration `env:"RESOLVER_MAX_FETCH_WAIT" default:"30s"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// ExportLimit is requests per minute for export endpoints (default: 10)
	ExportLimit int `env:"RATE_LIMIT_EXPORT" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// RequireAPIKey enables API key authentication on /api routes (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// TTL returns the cache time-to-live as a duration.
func (c *CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}
