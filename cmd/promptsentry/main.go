package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/promptsentry/promptsentry-go/guard"
	"github.com/promptsentry/promptsentry-go/guardhttp"
	"github.com/promptsentry/promptsentry-go/internal/cli"
	"github.com/promptsentry/promptsentry-go/internal/config"
	"github.com/promptsentry/promptsentry-go/internal/store"
	"github.com/promptsentry/promptsentry-go/internal/store/sqlite"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return
		}
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	// Cancellable context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "promptsentry",
		EnvPrefix:   "PROMPTSENTRY",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	logger := buildLogger(cfg.Observability.Logging)

	apiKey := cfg.API.Key
	if apiKey == "" && os.Getenv(guard.EnvAPIKey) == "" && cli.IsInteractive() {
		apiKey, err = cli.PromptAPIKey(os.Stderr)
		if err != nil {
			return err
		}
	}

	client, err := buildClient(cfg, apiKey)
	if err != nil {
		return err
	}

	var auditStore store.Store
	if cfg.Store.Enabled {
		auditStore = openStore(cfg.Store.Path, logger)
		if auditStore != nil {
			defer auditStore.Close()
		}
	}

	root := cli.NewRootCommand(cli.Dependencies{
		Detector:     client,
		Store:        auditStore,
		Logger:       logger,
		CanaryLength: cfg.Canary.Length,
		CanaryFormat: cfg.Canary.Format,
		Version:      version,
	})

	return root.ExecuteContext(ctx)
}

func buildClient(cfg config.Config, apiKey string) (*guard.Client, error) {
	opts := []guard.Option{}

	if apiKey != "" {
		opts = append(opts, guard.WithAPIKey(apiKey))
	}
	if cfg.API.BaseURL != "" {
		opts = append(opts, guard.WithBaseURL(cfg.API.BaseURL))
	}
	if cfg.API.MaxWaitTime != "" {
		maxWait, err := time.ParseDuration(cfg.API.MaxWaitTime)
		if err != nil {
			return nil, fmt.Errorf("invalid api.maxWaitTime %q: %w", cfg.API.MaxWaitTime, err)
		}
		opts = append(opts, guard.WithMaxWaitTime(maxWait))
	}
	if cfg.Canary.Length > 0 {
		opts = append(opts, guard.WithCanaryLength(cfg.Canary.Length))
	}
	if cfg.Canary.Format != "" {
		opts = append(opts, guard.WithCanaryFormat(cfg.Canary.Format))
	}

	if cfg.Observability.Logging.Enabled {
		opts = append(opts, guard.WithLogger(buildClientLogger(cfg.Observability.Logging)))
	}

	return guard.NewClient(opts...)
}

func buildClientLogger(cfg config.LoggingConfig) guardhttp.Logger {
	level := guardhttp.LogLevelInfo
	switch cfg.Level {
	case "debug":
		level = guardhttp.LogLevelDebug
	case "error":
		level = guardhttp.LogLevelError
	}

	format := guardhttp.LogFormatHuman
	if cfg.Format == "json" {
		format = guardhttp.LogFormatJSON
	}

	return guardhttp.NewDefaultLogger(level, format, cfg.RedactAPIKeys)
}

func buildLogger(cfg config.LoggingConfig) *charmlog.Logger {
	level := charmlog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = charmlog.DebugLevel
	case "error":
		level = charmlog.ErrorLevel
	}

	formatter := charmlog.TextFormatter
	if cfg.Format == "json" {
		formatter = charmlog.JSONFormatter
	}

	return charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
}

// openStore opens the audit store, creating its directory if needed. A
// store failure degrades to running without an audit log rather than
// blocking the command.
func openStore(path string, logger *charmlog.Logger) store.Store {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Warn("failed to create store directory", "error", err)
		return nil
	}

	s, err := sqlite.NewStore(path)
	if err != nil {
		logger.Warn("failed to open audit store", "error", err)
		return nil
	}
	return s
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "promptsentry"))
	}
	return paths
}
