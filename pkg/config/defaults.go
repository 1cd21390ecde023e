package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8085"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultAuthMode        = "api_key"

	// Cleanup defaults
	DefaultRetentionDays      = 90
	DefaultScheduleExpression = "0 2 * * *"
	DefaultTimezone           = "America/New_York"
	DefaultFolderRoot         = "data/cases"
	DefaultCaseTimeout        = 30 * time.Second
	DefaultRunTimeout         = 10 * time.Minute

	// Storage defaults
	DefaultStorageBackend     = "sqlite"
	DefaultSQLitePath         = "data/cases.db"
	DefaultSQLiteMaxOpenConns = 10
	DefaultSQLiteMaxIdleConns = 5
	DefaultSQLiteBusyTimeout  = 5 * time.Second
	DefaultPostgresPort       = 5432
	DefaultPostgresSSLMode    = "require"
	DefaultPostgresMaxConns   = 10

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "pepper"
	DefaultMetricsSubsystem = "custodian"
)

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.Auth.Mode == "" {
		cfg.Server.Auth.Mode = DefaultAuthMode
	}

	// Cleanup defaults. RetentionDays is a pointer so an explicit 0 in the
	// file (delete closed cases on the next sweep) survives; absent means
	// the default, applied by RetentionPeriodDays.
	if cfg.Cleanup.ScheduleExpression == "" {
		cfg.Cleanup.ScheduleExpression = DefaultScheduleExpression
	}
	if cfg.Cleanup.Timezone == "" {
		cfg.Cleanup.Timezone = DefaultTimezone
	}
	if cfg.Cleanup.FolderRoot == "" {
		cfg.Cleanup.FolderRoot = DefaultFolderRoot
	}
	if cfg.Cleanup.CaseTimeout == 0 {
		cfg.Cleanup.CaseTimeout = DefaultCaseTimeout
	}
	if cfg.Cleanup.RunTimeout == 0 {
		cfg.Cleanup.RunTimeout = DefaultRunTimeout
	}

	// Storage defaults
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultStorageBackend
	}
	if cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Storage.SQLite.MaxOpenConns == 0 {
		cfg.Storage.SQLite.MaxOpenConns = DefaultSQLiteMaxOpenConns
	}
	if cfg.Storage.SQLite.MaxIdleConns == 0 {
		cfg.Storage.SQLite.MaxIdleConns = DefaultSQLiteMaxIdleConns
	}
	if cfg.Storage.SQLite.BusyTimeout == 0 {
		cfg.Storage.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if cfg.Storage.Postgres.Port == 0 {
		cfg.Storage.Postgres.Port = DefaultPostgresPort
	}
	if cfg.Storage.Postgres.SSLMode == "" {
		cfg.Storage.Postgres.SSLMode = DefaultPostgresSSLMode
	}
	if cfg.Storage.Postgres.MaxConns == 0 {
		cfg.Storage.Postgres.MaxConns = DefaultPostgresMaxConns
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
}
