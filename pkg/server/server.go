// Package server provides the HTTP API for the case retention service.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pepper-hq/custodian/pkg/config"
	"pepper-hq/custodian/pkg/security/auth"
	"pepper-hq/custodian/pkg/server/middleware"
	"pepper-hq/custodian/pkg/telemetry/health"
)

// Options bundles the dependencies the server serves.
type Options struct {
	// Sweeper is the cleanup orchestrator behind the API endpoints.
	Sweeper SweepRunner

	// Auth validates bearer tokens on the cleanup endpoints.
	Auth auth.TokenValidator

	// NextRun reports the next scheduled sweep for the status endpoint.
	// Optional; the status endpoint reports null when unset.
	NextRun NextRunFunc

	// Health serves the liveness and readiness probes. Optional.
	Health *health.Checker

	// MetricsRegistry backs the /metrics endpoint. Optional; the endpoint
	// is not registered when nil or when metrics are disabled.
	MetricsRegistry *prometheus.Registry

	// MetricsConfig controls the metrics endpoint.
	MetricsConfig config.MetricsConfig

	// Version, Commit, and BuildTime populate the /version endpoint.
	Version   string
	Commit    string
	BuildTime string
}

// Server is the HTTP API server for cleanup triggers and probes.
type Server struct {
	config       *config.ServerConfig
	opts         Options
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new API server.
func NewServer(cfg *config.ServerConfig, opts Options) *Server {
	return &Server{
		config:       cfg,
		opts:         opts,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        handler,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting cleanup API server",
			"address", s.config.ListenAddress,
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("cleanup API server stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Authenticated cleanup endpoints
	authMiddleware := auth.NewMiddleware(s.opts.Auth)
	mux.Handle("/api/case-cleanup/manual", authMiddleware.Handle(NewManualCleanupHandler(s.opts.Sweeper)))
	mux.Handle("/api/case-cleanup/status", authMiddleware.Handle(NewStatusHandler(s.opts.Sweeper).WithNextRun(s.opts.NextRun)))

	// Unauthenticated probes
	if s.opts.Health != nil {
		health.Register(mux, s.opts.Health, s.opts.Version, s.opts.Commit, s.opts.BuildTime)
	}

	if s.opts.MetricsRegistry != nil && s.opts.MetricsConfig.MetricsEnabled() {
		mux.Handle(s.opts.MetricsConfig.Path, promhttp.HandlerFor(
			s.opts.MetricsRegistry,
			promhttp.HandlerOpts{},
		))
	}

	var handler http.Handler = mux
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler. Useful for tests.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}
