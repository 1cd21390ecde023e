package config

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
//
// The cron schedule expression is deliberately not validated here: an invalid
// expression is a scheduler concern and must not prevent the service from
// starting, since the manual trigger still works without a schedule.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateCleanup(&cfg.Cleanup)...)
	errs = append(errs, validateStorage(&cfg.Storage)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateServer validates server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "idle timeout must be positive",
		})
	}
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}

	switch cfg.Auth.Mode {
	case "api_key":
		for i, key := range cfg.Auth.APIKeys {
			if key.Key == "" {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("server.auth.api_keys[%d].key", i),
					Message: "key is required",
				})
			}
			if key.UserID == "" {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("server.auth.api_keys[%d].user_id", i),
					Message: "user_id is required",
				})
			}
		}
	case "jwt":
		if cfg.Auth.JWTSecret == "" {
			errs = append(errs, FieldError{
				Field:   "server.auth.jwt_secret",
				Message: "jwt_secret is required when mode is \"jwt\"",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "server.auth.mode",
			Message: fmt.Sprintf("invalid auth mode %q (must be \"api_key\" or \"jwt\")", cfg.Auth.Mode),
		})
	}

	return errs
}

// validateCleanup validates cleanup configuration.
func validateCleanup(cfg *CleanupConfig) []FieldError {
	var errs []FieldError

	if cfg.RetentionDays != nil && *cfg.RetentionDays < 0 {
		errs = append(errs, FieldError{
			Field:   "cleanup.retention_days",
			Message: "retention days must be non-negative",
		})
	}
	if cfg.FolderRoot == "" {
		errs = append(errs, FieldError{
			Field:   "cleanup.folder_root",
			Message: "folder root is required",
		})
	}
	if cfg.CaseTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "cleanup.case_timeout",
			Message: "case timeout must be positive",
		})
	}
	if cfg.RunTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "cleanup.run_timeout",
			Message: "run timeout must be positive",
		})
	}

	return errs
}

// validateStorage validates storage configuration.
func validateStorage(cfg *StorageConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "sqlite":
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "storage.sqlite.path",
				Message: "database path is required",
			})
		}
	case "postgres":
		if cfg.Postgres.Host == "" {
			errs = append(errs, FieldError{
				Field:   "storage.postgres.host",
				Message: "host is required",
			})
		}
		if cfg.Postgres.Database == "" {
			errs = append(errs, FieldError{
				Field:   "storage.postgres.database",
				Message: "database name is required",
			})
		}
		if cfg.Postgres.User == "" {
			errs = append(errs, FieldError{
				Field:   "storage.postgres.user",
				Message: "user is required",
			})
		}
		if cfg.Postgres.Port < 1 || cfg.Postgres.Port > 65535 {
			errs = append(errs, FieldError{
				Field:   "storage.postgres.port",
				Message: "port must be between 1 and 65535",
			})
		}
	case "memory":
		// No settings
	default:
		errs = append(errs, FieldError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend %q (must be \"sqlite\", \"postgres\", or \"memory\")", cfg.Backend),
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be debug, info, warn, or error)", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be json or text)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.MetricsEnabled() && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}

	return errs
}
