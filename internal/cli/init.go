// Package cli provides the initialization shared by the lexia binaries.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"lexia/internal/config"
	applog "lexia/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// NewLogger builds the process logger at the configured level and installs
// it as the slog default.
func NewLogger(cfg *config.Config, component string) *applog.Logger {
	logCfg := applog.DefaultConfig()
	logCfg.Component = component
	if cfg != nil {
		logCfg.Level = applog.ParseLevel(cfg.LogLevel)
	}
	logger := applog.New(logCfg)
	applog.SetDefault(logger)
	return logger
}

// Bootstrap loads .env and the configuration, then sets up logging.
// It exits the process when the configuration cannot be loaded or validate
// rejects it.
func Bootstrap(component string, validate func(*config.Config) error) (*config.Config, *applog.Logger) {
	LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		NewLogger(nil, component).Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := NewLogger(cfg, component)
	if validate != nil {
		if err := validate(cfg); err != nil {
			logger.Error("Configuration validation failed", "error", err)
			os.Exit(1)
		}
	}
	return cfg, logger
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
