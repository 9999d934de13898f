// Package cli provides common process bootstrap shared by cmd/ledgerboard
// and cmd/ledger-worker.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ledgerboard/internal/config"
	applog "ledgerboard/internal/log"
	"ledgerboard/internal/report"
)

// SetupLogger builds the logger from LOG_LEVEL and LOG_FORMAT and installs it
// as the slog default.
func SetupLogger(component string) *applog.Logger {
	cfg := applog.ConfigFromEnv()
	cfg.Component = component
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and runs validate on it.
// Exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger, validate func(*config.Config) error) *config.Config {
	cfg := config.Load()
	if err := validate(cfg); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err.Error())
		os.Exit(1)
	}
	return cfg
}

// EngineOptions maps the report settings of cfg onto engine options.
func EngineOptions(cfg *config.Config) (report.Options, error) {
	dir, err := report.ParseDirection(cfg.TransactionDirection)
	if err != nil {
		return report.Options{}, fmt.Errorf("transaction direction: %w", err)
	}
	empty, err := report.ParseEmptySeries(cfg.EmptySeries)
	if err != nil {
		return report.Options{}, fmt.Errorf("empty series: %w", err)
	}

	opts := report.DefaultOptions()
	opts.TrendWindow = cfg.TrendWindowMonths
	opts.RecentLimit = cfg.RecentTransactionsLimit
	opts.Direction = dir
	opts.EmptySeries = empty
	return opts, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM, or when
// the returned cancel func is called.
func SignalContext(logger *applog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
