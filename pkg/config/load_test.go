package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "custodian.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, "{}\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("ListenAddress = %q, want %q", cfg.Server.ListenAddress, DefaultListenAddress)
	}
	if cfg.Server.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("ShutdownTimeout = %v, want %v", cfg.Server.ShutdownTimeout, DefaultShutdownTimeout)
	}
	if got := cfg.Cleanup.RetentionPeriodDays(); got != DefaultRetentionDays {
		t.Errorf("RetentionPeriodDays() = %d, want %d", got, DefaultRetentionDays)
	}
	if cfg.Cleanup.ScheduleExpression != DefaultScheduleExpression {
		t.Errorf("ScheduleExpression = %q, want %q", cfg.Cleanup.ScheduleExpression, DefaultScheduleExpression)
	}
	if !cfg.Cleanup.AutoEnabled() {
		t.Error("AutoEnabled() = false, want true by default")
	}
	if cfg.Cleanup.Timezone != DefaultTimezone {
		t.Errorf("Timezone = %q, want %q", cfg.Cleanup.Timezone, DefaultTimezone)
	}
	if cfg.Cleanup.DeleteRecords {
		t.Error("DeleteRecords = true, want false by default")
	}
	if cfg.Storage.Backend != DefaultStorageBackend {
		t.Errorf("Backend = %q, want %q", cfg.Storage.Backend, DefaultStorageBackend)
	}
	if !cfg.Storage.SQLite.WALEnabled() {
		t.Error("WALEnabled() = false, want true by default")
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("Logging = %q/%q, want info/json", cfg.Telemetry.Logging.Level, cfg.Telemetry.Logging.Format)
	}
	if !cfg.Telemetry.Metrics.MetricsEnabled() {
		t.Error("MetricsEnabled() = false, want true by default")
	}
}

func TestLoadConfigExplicitValues(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "0.0.0.0:9000"
  read_timeout: 10s
cleanup:
  retention_days: 30
  schedule_expression: "0 4 * * *"
  auto_cleanup_enabled: false
  timezone: "UTC"
  delete_records: true
storage:
  backend: memory
telemetry:
  logging:
    level: debug
    format: text
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9000" {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("ReadTimeout = %v, want 10s", cfg.Server.ReadTimeout)
	}
	if got := cfg.Cleanup.RetentionPeriodDays(); got != 30 {
		t.Errorf("RetentionPeriodDays() = %d, want 30", got)
	}
	if cfg.Cleanup.AutoEnabled() {
		t.Error("AutoEnabled() = true, want false")
	}
	if !cfg.Cleanup.DeleteRecords {
		t.Error("DeleteRecords = false, want true")
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Backend = %q, want memory", cfg.Storage.Backend)
	}
}

func TestLoadConfigZeroRetention(t *testing.T) {
	// An explicit 0 must survive default application.
	path := writeConfigFile(t, "cleanup:\n  retention_days: 0\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if got := cfg.Cleanup.RetentionPeriodDays(); got != 0 {
		t.Errorf("RetentionPeriodDays() = %d, want 0", got)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("LoadConfig() error = nil, want error for missing file")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "server: [not a map\n")

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig() error = nil, want parse error")
	}
}

func TestLoadConfigInvalidCronDoesNotFail(t *testing.T) {
	// Schedule validation is the scheduler's concern; the service still
	// starts so manual sweeps keep working.
	path := writeConfigFile(t, "cleanup:\n  schedule_expression: \"not a cron\"\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want nil", err)
	}
	if cfg.Cleanup.ScheduleExpression != "not a cron" {
		t.Errorf("ScheduleExpression = %q", cfg.Cleanup.ScheduleExpression)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
cleanup:
  retention_days: 30
storage:
  backend: sqlite
`)

	t.Setenv("CUSTODIAN_CLEANUP_RETENTION_DAYS", "7")
	t.Setenv("CUSTODIAN_CLEANUP_AUTO_CLEANUP_ENABLED", "false")
	t.Setenv("CUSTODIAN_STORAGE_BACKEND", "memory")
	t.Setenv("CUSTODIAN_SERVER_LISTEN_ADDRESS", "127.0.0.1:9999")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if got := cfg.Cleanup.RetentionPeriodDays(); got != 7 {
		t.Errorf("RetentionPeriodDays() = %d, want 7", got)
	}
	if cfg.Cleanup.AutoEnabled() {
		t.Error("AutoEnabled() = true, want false from env")
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Backend = %q, want memory from env", cfg.Storage.Backend)
	}
	if cfg.Server.ListenAddress != "127.0.0.1:9999" {
		t.Errorf("ListenAddress = %q, want env override", cfg.Server.ListenAddress)
	}
}
