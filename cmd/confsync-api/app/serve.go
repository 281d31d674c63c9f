package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/confsync/confsync/internal/api"
	v0 "github.com/confsync/confsync/internal/api/v0"
	"github.com/confsync/confsync/internal/appregistry"
	"github.com/confsync/confsync/internal/config"
	"github.com/confsync/confsync/internal/git"
	"github.com/confsync/confsync/internal/sourcecontrol"
	"github.com/confsync/confsync/internal/status"
	"github.com/confsync/confsync/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the synchronization API server",
	Long: `Start the synchronization API server to push and pull application
configurations against remote git repositories.

The server requires a configuration file (--config) that specifies:
- The namespaces and the git repository each one synchronizes against
- Storage paths for registered configurations and synchronization status
- All other operational settings

See examples/ directory for sample configurations.`,
	RunE: runServe,
}

const (
	defaultGracefulTimeout = 30 * time.Second // Kubernetes-friendly shutdown time
	serverRequestTimeout   = 60 * time.Second // Push and pull operations clone remote repositories
	serverReadTimeout      = 10 * time.Second // Enough for headers and small request bodies
	serverWriteTimeout     = 90 * time.Second // Must be > serverRequestTimeout to let middleware handle timeout
	serverIdleTimeout      = 60 * time.Second // Keep connections alive for reuse
)

func init() {
	serveCmd.Flags().String("address", "", "Address to listen on (overrides server.address)")
	serveCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")

	if err := viper.BindPFlag("address", serveCmd.Flags().Lookup("address")); err != nil {
		slog.Error("Failed to bind address flag", "error", err)
		os.Exit(1)
	}
	if err := viper.BindPFlag("config", serveCmd.Flags().Lookup("config")); err != nil {
		slog.Error("Failed to bind config flag", "error", err)
		os.Exit(1)
	}

	// Mark config as required
	if err := serveCmd.MarkFlagRequired("config"); err != nil {
		slog.Error("Failed to mark config flag as required", "error", err)
		os.Exit(1)
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	configPath := viper.GetString("config")
	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	address := viper.GetString("address")
	if address == "" {
		address = cfg.Server.ListenAddress()
	}

	slog.Info("Loaded configuration",
		"path", configPath,
		"namespaces", len(cfg.Namespaces))

	// Initialize telemetry. Providers are no-ops when telemetry is not
	// configured.
	tel, err := telemetry.New(ctx, telemetry.WithTelemetryConfig(cfg.Telemetry))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultGracefulTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shut down telemetry", "error", err)
		}
	}()

	syncMetrics, err := telemetry.NewSyncMetrics(tel.MeterProvider())
	if err != nil {
		return fmt.Errorf("failed to create sync metrics: %w", err)
	}

	// Wire the synchronization engine
	repos := git.NewFactory(
		git.WithWorkRoot(cfg.Git.WorkDir),
		git.WithCloneLimits(cfg.Git.MaxCloneFiles, cfg.Git.MaxCloneSizeBytes),
	)
	registry := appregistry.NewFileRegistry(cfg.Registry.Path)
	statusStore := status.NewFileStore(cfg.Status.Path)

	runner := sourcecontrol.NewRunner(repos, registry,
		sourcecontrol.WithStatusStore(statusStore),
		sourcecontrol.WithMetrics(syncMetrics),
		sourcecontrol.WithTracer(tel.Tracer("confsync")),
	)
	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("failed to start operation runner: %w", err)
	}

	metricsMiddleware, err := telemetry.MetricsMiddleware(tel.MeterProvider())
	if err != nil {
		return fmt.Errorf("failed to create metrics middleware: %w", err)
	}

	// Create the synchronization server with middleware
	router := api.NewServer(
		v0.Dependencies{
			Runner:   runner,
			Registry: registry,
			Status:   statusStore,
			Config:   cfg,
		},
		api.WithMiddlewares(
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(serverRequestTimeout),
			telemetry.TracingMiddleware(tel.TracerProvider()),
			metricsMiddleware,
			api.LoggingMiddleware,
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		slog.Info("Server listening", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	// Graceful shutdown with timeout. Drain in-flight requests before
	// stopping the runner so they do not fail mid-operation.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultGracefulTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		return err
	}

	if err := runner.Stop(shutdownCtx); err != nil {
		slog.Error("Failed to stop operation runner", "error", err)
	}

	slog.Info("Server shutdown complete")
	return nil
}
