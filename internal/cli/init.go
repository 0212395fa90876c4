// Package cli provides common CLI initialization utilities.
// This package consolidates the bootstrap shared by cmd/expenses,
// cmd/expenses-form and cmd/expenses-seed.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"expenses/internal/backend"
	"expenses/internal/config"
	"expenses/internal/services"
)

// SetupLogger initializes structured logging at the given level on w.
// Returns the configured logger and sets it as the default logger.
func SetupLogger(level slog.Level, w io.Writer) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads <base>/.env for local overrides.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load(filepath.Join(config.ResolveBaseDir(), ".env"))
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Configuration load failed", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// ApplyLogLevel re-creates the default logger at the configured level.
func ApplyLogLevel(cfg *config.Config, w io.Writer) *slog.Logger {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return SetupLogger(level, w)
}

// InitService builds the expense service for the configured backend.
// Returns the service or exits the process on failure.
func InitService(ctx context.Context, logger *slog.Logger, cfg *config.Config) *services.ExpenseService {
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backend.FromAppConfig(cfg))
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.Backend)
		os.Exit(1)
	}
	return services.NewExpenseService(result.Store, cfg.Categories, logger)
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
