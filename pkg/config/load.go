package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention CUSTODIAN_SECTION_FIELD (e.g., CUSTODIAN_SERVER_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format CUSTODIAN_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("CUSTODIAN_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("CUSTODIAN_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("CUSTODIAN_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("CUSTODIAN_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}
	if val := os.Getenv("CUSTODIAN_SERVER_AUTH_MODE"); val != "" {
		cfg.Server.Auth.Mode = val
	}
	if val := os.Getenv("CUSTODIAN_SERVER_AUTH_JWT_SECRET"); val != "" {
		cfg.Server.Auth.JWTSecret = val
	}

	// Cleanup overrides
	if val := os.Getenv("CUSTODIAN_CLEANUP_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Cleanup.RetentionDays = &i
		}
	}
	if val := os.Getenv("CUSTODIAN_CLEANUP_SCHEDULE_EXPRESSION"); val != "" {
		cfg.Cleanup.ScheduleExpression = val
	}
	if val := os.Getenv("CUSTODIAN_CLEANUP_AUTO_CLEANUP_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Cleanup.AutoCleanupEnabled = &b
		}
	}
	if val := os.Getenv("CUSTODIAN_CLEANUP_TIMEZONE"); val != "" {
		cfg.Cleanup.Timezone = val
	}
	if val := os.Getenv("CUSTODIAN_CLEANUP_FOLDER_ROOT"); val != "" {
		cfg.Cleanup.FolderRoot = val
	}
	if val := os.Getenv("CUSTODIAN_CLEANUP_DELETE_RECORDS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Cleanup.DeleteRecords = b
		}
	}

	// Storage overrides
	if val := os.Getenv("CUSTODIAN_STORAGE_BACKEND"); val != "" {
		cfg.Storage.Backend = val
	}
	if val := os.Getenv("CUSTODIAN_STORAGE_SQLITE_PATH"); val != "" {
		cfg.Storage.SQLite.Path = val
	}
	if val := os.Getenv("CUSTODIAN_STORAGE_POSTGRES_HOST"); val != "" {
		cfg.Storage.Postgres.Host = val
	}
	if val := os.Getenv("CUSTODIAN_STORAGE_POSTGRES_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Storage.Postgres.Port = i
		}
	}
	if val := os.Getenv("CUSTODIAN_STORAGE_POSTGRES_DATABASE"); val != "" {
		cfg.Storage.Postgres.Database = val
	}
	if val := os.Getenv("CUSTODIAN_STORAGE_POSTGRES_USER"); val != "" {
		cfg.Storage.Postgres.User = val
	}
	if val := os.Getenv("CUSTODIAN_STORAGE_POSTGRES_PASSWORD"); val != "" {
		cfg.Storage.Postgres.Password = val
	}
	if val := os.Getenv("CUSTODIAN_STORAGE_POSTGRES_SSL_MODE"); val != "" {
		cfg.Storage.Postgres.SSLMode = val
	}

	// Telemetry overrides
	if val := os.Getenv("CUSTODIAN_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("CUSTODIAN_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("CUSTODIAN_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = &b
		}
	}
	if val := os.Getenv("CUSTODIAN_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
}
