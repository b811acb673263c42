package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	audioimpl "github.com/foxseedlab/moodlog/external/audio"
	configloader "github.com/foxseedlab/moodlog/external/config"
	remoteimpl "github.com/foxseedlab/moodlog/external/remote"
	"github.com/foxseedlab/moodlog/internal/config"
	"github.com/foxseedlab/moodlog/internal/submission"
	"github.com/foxseedlab/moodlog/internal/voice"
	"github.com/samber/do/v2"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func loadConfig(verbose bool) (*config.Config, error) {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		return nil, err
	}
	initLogger(cfg, verbose)
	slog.Debug("configuration loaded", "env", cfg.Env, "recordings_dir", cfg.RecordingsDir)
	return cfg, nil
}

// initLogger writes JSON logs to stderr so command output on stdout stays
// clean. Only warnings surface unless asked for.
func initLogger(cfg *config.Config, verbose bool) {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelInfo
	}
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config, events voice.EventSink) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	if events != nil {
		do.ProvideValue(injector, events)
	}
	audioimpl.RegisterDI(injector)
	remoteimpl.RegisterDI(injector)
	voice.RegisterDI(injector)
	submission.RegisterDI(injector)

	return injector
}
