package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"pepper-hq/custodian/pkg/cases"
	"pepper-hq/custodian/pkg/cases/storage"
	"pepper-hq/custodian/pkg/cleanup"
	"pepper-hq/custodian/pkg/cleanup/schedule"
	"pepper-hq/custodian/pkg/cli"
	"pepper-hq/custodian/pkg/config"
	"pepper-hq/custodian/pkg/security/auth"
	"pepper-hq/custodian/pkg/server"
	"pepper-hq/custodian/pkg/telemetry/health"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
	noWatch       bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the retention cleanup service",
	Long: `Start the retention cleanup service with the specified configuration.

The service runs scheduled sweeps over closed cases past their retention
period and serves an HTTP API for manual triggers, status, probes, and
metrics.

Examples:
  # Start with default config
  custodian run

  # Start with custom config
  custodian run --config /etc/custodian/custodian.yaml

  # Override listen address
  custodian run --listen 0.0.0.0:8085

  # Validate config without starting the service
  custodian run --dry-run`,
	RunE: runService,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the service")
	runCmd.Flags().BoolVar(&runFlags.noWatch, "no-watch", false, "disable config file watching")
}

func runService(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	setupLogging(&cfg.Telemetry.Logging)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Pepper Custodian v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	// Case store
	repo, err := buildRepository(cfg)
	if err != nil {
		return fmt.Errorf("failed to open case store: %w", err)
	}
	defer repo.Close()
	fmt.Printf("✓ Case store initialized (%s)\n", cfg.Storage.Backend)

	// Folder store and sweep orchestrator
	folders := cleanup.NewFolderStore(cfg.Cleanup.FolderRoot)
	sweeper := cleanup.NewSweeper(repo, folders, &cleanup.Config{
		RetentionDays: cfg.Cleanup.RetentionPeriodDays(),
		DeleteRecords: cfg.Cleanup.DeleteRecords,
		CaseTimeout:   cfg.Cleanup.CaseTimeout,
		RunTimeout:    cfg.Cleanup.RunTimeout,
	})

	// Metrics
	var registry *prometheus.Registry
	if cfg.Telemetry.Metrics.MetricsEnabled() {
		registry = prometheus.NewRegistry()
		metrics := cleanup.NewMetrics(
			cfg.Telemetry.Metrics.Namespace,
			cfg.Telemetry.Metrics.Subsystem,
			registry,
		)
		sweeper.SetMetrics(metrics)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Scheduler. An invalid cron expression or timezone is non-fatal: the
	// manual trigger keeps working without a schedule.
	scheduler := schedule.NewScheduler(sweeper, &schedule.Config{
		Expression: cfg.Cleanup.ScheduleExpression,
		Timezone:   cfg.Cleanup.Timezone,
		Enabled:    cfg.Cleanup.AutoEnabled(),
	})
	if err := scheduler.Start(ctx); err != nil {
		slog.Warn("cleanup scheduler not started", "error", err)
	} else if next := scheduler.NextRun(); next != nil {
		fmt.Printf("✓ Cleanup scheduled (next run %s)\n", next.Format("2006-01-02 15:04:05 MST"))
	}
	defer scheduler.Stop()

	// Health checks
	checker := health.New(0)
	checker.RegisterCheck("case_store", func(ctx context.Context) error {
		_, err := repo.Count(ctx)
		return err
	})
	checker.RegisterCheck("folder_root", func(ctx context.Context) error {
		_, err := os.Stat(folders.Root())
		if os.IsNotExist(err) {
			// Created lazily on first write; absence is healthy
			return nil
		}
		return err
	})

	// Config hot reload: only the retention policy is applied at runtime,
	// schedule and server changes need a restart.
	if !runFlags.noWatch {
		watcher, err := config.NewFileWatcher(cfgFile)
		if err != nil {
			slog.Warn("config watcher unavailable", "error", err)
		} else {
			go func() {
				watchErr := watcher.Watch(ctx, func() error {
					if err := config.ReloadConfig(cfgFile); err != nil {
						return err
					}
					reloaded := config.GetConfig()
					sweeper.UpdatePolicy(
						reloaded.Cleanup.RetentionPeriodDays(),
						reloaded.Cleanup.DeleteRecords,
					)
					return nil
				})
				if watchErr != nil {
					slog.Warn("config watcher stopped", "error", watchErr)
				}
			}()
			defer watcher.Stop()
		}
	}

	// HTTP server
	validator, err := buildValidator(&cfg.Server.Auth)
	if err != nil {
		return cli.NewConfigError("server.auth", err.Error())
	}

	srv := server.NewServer(&cfg.Server, server.Options{
		Sweeper:         sweeper,
		Auth:            validator,
		NextRun:         scheduler.NextRun,
		Health:          checker,
		MetricsRegistry: registry,
		MetricsConfig:   cfg.Telemetry.Metrics,
		Version:         Version,
		Commit:          GitCommit,
		BuildTime:       BuildDate,
	})

	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Println("\nPress Ctrl+C to stop")

	// Start blocks until a signal, context cancellation, or server error.
	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Println("✓ Server stopped")
	return nil
}

// setupLogging configures the process-wide slog default from config.
func setupLogging(cfg *config.LoggingConfig) {
	var logLevel slog.Level
	switch cfg.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// buildRepository opens the configured case store backend.
func buildRepository(cfg *config.Config) (cases.Repository, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		return storage.NewSQLiteRepository(&storage.SQLiteConfig{
			Path:         cfg.Storage.SQLite.Path,
			MaxOpenConns: cfg.Storage.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.Storage.SQLite.MaxIdleConns,
			WALMode:      cfg.Storage.SQLite.WALEnabled(),
			BusyTimeout:  cfg.Storage.SQLite.BusyTimeout,
		})
	case "postgres":
		return storage.NewPostgresRepository(context.Background(), &storage.PostgresConfig{
			Host:     cfg.Storage.Postgres.Host,
			Port:     cfg.Storage.Postgres.Port,
			Database: cfg.Storage.Postgres.Database,
			User:     cfg.Storage.Postgres.User,
			Password: cfg.Storage.Postgres.Password,
			SSLMode:  cfg.Storage.Postgres.SSLMode,
			MaxConns: int32(cfg.Storage.Postgres.MaxConns),
		})
	case "memory":
		return storage.NewMemoryRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
}

// buildValidator constructs the token validator from the auth configuration.
func buildValidator(cfg *config.AuthConfig) (auth.TokenValidator, error) {
	switch cfg.Mode {
	case "api_key":
		keys := make([]*auth.APIKeyInfo, 0, len(cfg.APIKeys))
		for _, key := range cfg.APIKeys {
			enabled := true
			if key.Enabled != nil {
				enabled = *key.Enabled
			}
			keys = append(keys, &auth.APIKeyInfo{
				Key:     key.Key,
				UserID:  key.UserID,
				Enabled: enabled,
			})
		}
		return auth.NewAPIKeyValidator(keys), nil
	case "jwt":
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("jwt_secret is required for jwt auth mode")
		}
		return auth.NewJWTValidator(cfg.JWTSecret), nil
	default:
		return nil, fmt.Errorf("unsupported auth mode: %s", cfg.Mode)
	}
}
