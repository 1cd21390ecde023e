package config

import "time"

// Config is the root configuration structure for the case retention service.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and authentication settings.
	Server ServerConfig `yaml:"server"`

	// Cleanup contains the retention policy and sweep scheduling settings.
	Cleanup CleanupConfig `yaml:"cleanup"`

	// Storage contains case store backend configuration.
	Storage StorageConfig `yaml:"storage"`

	// Telemetry contains observability configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8085", "0.0.0.0:8085").
	// Default: "127.0.0.1:8085"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response writes.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request when
	// keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// Auth contains API authentication configuration.
	Auth AuthConfig `yaml:"auth"`
}

// AuthConfig contains configuration for API authentication.
type AuthConfig struct {
	// Mode selects the bearer token validation scheme.
	// Options: "api_key" (static keys), "jwt" (HS256 tokens)
	// Default: "api_key"
	Mode string `yaml:"mode"`

	// APIKeys is the list of accepted API keys when Mode is "api_key".
	APIKeys []APIKeyConfig `yaml:"api_keys"`

	// JWTSecret is the HMAC signing secret when Mode is "jwt".
	// Required when Mode is "jwt".
	JWTSecret string `yaml:"jwt_secret"`
}

// APIKeyConfig describes a single static API key.
type APIKeyConfig struct {
	// Key is the bearer token value presented by clients.
	Key string `yaml:"key"`

	// UserID identifies the caller in logs and sweep results.
	UserID string `yaml:"user_id"`

	// Enabled allows a key to be turned off without removing it.
	// Default: true
	Enabled *bool `yaml:"enabled"`
}

// CleanupConfig contains the retention policy and scheduling settings.
type CleanupConfig struct {
	// RetentionDays is the number of days a closed case is retained after
	// its last update before its folder is deleted. An explicit 0 deletes
	// closed cases on the next sweep; absent means the default.
	// Default: 90
	RetentionDays *int `yaml:"retention_days"`

	// ScheduleExpression is the cron expression for automatic sweeps.
	// "disabled" or "" suppresses automatic sweeps; manual triggers keep
	// working.
	// Default: "0 2 * * *" (daily at 2 AM)
	ScheduleExpression string `yaml:"schedule_expression"`

	// AutoCleanupEnabled is the master switch for scheduled sweeps.
	// Default: true
	AutoCleanupEnabled *bool `yaml:"auto_cleanup_enabled"`

	// Timezone is the IANA timezone the schedule is evaluated in. It only
	// affects when sweeps fire, never the retention date math.
	// Default: "America/New_York"
	Timezone string `yaml:"timezone"`

	// FolderRoot is the root directory that case folders live under.
	// Default: "data/cases"
	FolderRoot string `yaml:"folder_root"`

	// DeleteRecords also removes the case store record after its folder.
	// Default: false (records are kept for audit history)
	DeleteRecords bool `yaml:"delete_records"`

	// CaseTimeout bounds each folder deletion.
	// Default: 30s
	CaseTimeout time.Duration `yaml:"case_timeout"`

	// RunTimeout bounds a whole sweep.
	// Default: 10m
	RunTimeout time.Duration `yaml:"run_timeout"`
}

// RetentionPeriodDays returns the configured retention period, defaulting
// to 90 when the field is absent from the file. An explicit 0 is honored
// and means closed cases are eligible on the next sweep.
func (c *CleanupConfig) RetentionPeriodDays() int {
	if c.RetentionDays == nil {
		return DefaultRetentionDays
	}
	return *c.RetentionDays
}

// AutoEnabled reports whether scheduled sweeps are enabled, defaulting to
// true when the field is absent from the file.
func (c *CleanupConfig) AutoEnabled() bool {
	if c.AutoCleanupEnabled == nil {
		return true
	}
	return *c.AutoCleanupEnabled
}

// StorageConfig contains case store backend configuration.
type StorageConfig struct {
	// Backend selects the case store implementation.
	// Options: "sqlite", "postgres", "memory"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite backend configuration.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Postgres contains PostgreSQL backend configuration.
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig contains SQLite backend configuration.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/cases.db"
	Path string `yaml:"path"`

	// MaxOpenConns limits open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns limits idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode *bool `yaml:"wal_mode"`

	// BusyTimeout is the SQLite busy timeout.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// WALEnabled reports whether WAL mode is enabled, defaulting to true when
// the field is absent from the file.
func (c *SQLiteConfig) WALEnabled() bool {
	if c.WALMode == nil {
		return true
	}
	return *c.WALMode
}

// PostgresConfig contains PostgreSQL backend configuration.
type PostgresConfig struct {
	// Host is the database host.
	Host string `yaml:"host"`

	// Port is the database port.
	// Default: 5432
	Port int `yaml:"port"`

	// Database is the database name.
	Database string `yaml:"database"`

	// User is the database user.
	User string `yaml:"user"`

	// Password is the database password. Prefer the environment variable
	// CUSTODIAN_STORAGE_POSTGRES_PASSWORD over the file.
	Password string `yaml:"password"`

	// SSLMode is the connection SSL mode.
	// Default: "require"
	SSLMode string `yaml:"ssl_mode"`

	// MaxConns limits pool connections.
	// Default: 10
	MaxConns int `yaml:"max_conns"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format selects the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is served.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Path is the metrics endpoint path.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name namespace.
	// Default: "pepper"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric name subsystem.
	// Default: "custodian"
	Subsystem string `yaml:"subsystem"`
}

// MetricsEnabled reports whether the metrics endpoint is enabled, defaulting
// to true when the field is absent from the file.
func (c *MetricsConfig) MetricsEnabled() bool {
	if c.Enabled == nil {
		return true
	}
	return *c.Enabled
}
