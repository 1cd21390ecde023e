package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidateValid(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		field   string
	}{
		{
			name:   "empty listen address",
			mutate: func(c *Config) { c.Server.ListenAddress = "" },
			field:  "server.listen_address",
		},
		{
			name:   "negative retention days",
			mutate: func(c *Config) { d := -1; c.Cleanup.RetentionDays = &d },
			field:  "cleanup.retention_days",
		},
		{
			name:   "empty folder root",
			mutate: func(c *Config) { c.Cleanup.FolderRoot = "" },
			field:  "cleanup.folder_root",
		},
		{
			name:   "unknown storage backend",
			mutate: func(c *Config) { c.Storage.Backend = "etcd" },
			field:  "storage.backend",
		},
		{
			name: "postgres missing host",
			mutate: func(c *Config) {
				c.Storage.Backend = "postgres"
				c.Storage.Postgres.Database = "pepper"
				c.Storage.Postgres.User = "pepper"
			},
			field: "storage.postgres.host",
		},
		{
			name:   "unknown auth mode",
			mutate: func(c *Config) { c.Server.Auth.Mode = "oauth" },
			field:  "server.auth.mode",
		},
		{
			name:   "jwt mode without secret",
			mutate: func(c *Config) { c.Server.Auth.Mode = "jwt" },
			field:  "server.auth.jwt_secret",
		},
		{
			name: "api key without user id",
			mutate: func(c *Config) {
				c.Server.Auth.APIKeys = []APIKeyConfig{{Key: "secret"}}
			},
			field: "server.auth.api_keys[0].user_id",
		},
		{
			name:   "invalid log level",
			mutate: func(c *Config) { c.Telemetry.Logging.Level = "trace" },
			field:  "telemetry.logging.level",
		},
		{
			name:   "invalid metrics path",
			mutate: func(c *Config) { c.Telemetry.Metrics.Path = "metrics" },
			field:  "telemetry.metrics.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("Validate() error = %q, want mention of %q", err.Error(), tt.field)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.ListenAddress = ""
	cfg.Cleanup.FolderRoot = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() error = nil, want error")
	}

	verr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("Validate() error type = %T, want ValidationError", err)
	}
	if len(verr.Errors) != 2 {
		t.Errorf("len(Errors) = %d, want 2", len(verr.Errors))
	}
}
