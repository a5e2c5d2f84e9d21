package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sglre6355/multibot/internal/bot"
	"github.com/sglre6355/multibot/internal/bots"
	"github.com/sglre6355/multibot/internal/credentials"
	"github.com/sglre6355/multibot/internal/logging"
	"github.com/sglre6355/multibot/internal/platform/discord"
	"github.com/sglre6355/multibot/internal/settings"
)

// version is set at build time via ldflags:
// go build -ldflags "-X main.version=1.0.0" ./cmd/multibot
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := bot.LoadConfig()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		return 1
	}

	// Configure JSON logging to stdout and the rotating log file
	level := new(slog.LevelVar)
	logger, logFile := logging.New(logging.Options{File: cfg.LogFile, Level: level})
	defer logFile.Close()
	slog.SetDefault(logger)
	discord.BridgeLogs(logger)

	logger.Info("starting multibot", "version", version)

	s, err := settings.Load(filepath.Join(cfg.ConfigDir, settings.FileName), level,
		logger.With("component", "settings"))
	if err != nil {
		logger.Error("failed to load settings", "error", err)
		return 1
	}
	s.Watch()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := bots.Env{
		ConfigRoot:   cfg.ConfigDir,
		ResourcesDir: cfg.ResourcesDir,
		Logger:       logger,
		Debounce:     cfg.ReloadDebounce,
	}

	var running []*bot.Bot
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		for _, b := range running {
			if err := b.Shutdown(shutdownCtx); err != nil {
				logger.Error("failed to shutdown bot", "bot", b.Name(), "error", err)
			}
		}
		logger.Info("completed shutdown")
	}()

	for _, build := range bots.All() {
		b, err := build(env)
		if err != nil {
			logger.Error("failed to create bot", "error", err)
			continue
		}
		running = append(running, b)
	}

	for _, b := range running {
		if err := b.Init(ctx); err != nil {
			logger.Warn("startup interrupted", "error", err)
			return 0
		}

		if err := startDiscord(ctx, b, cfg, s, logger); err != nil {
			logger.Error("bot is not connected to Discord", "bot", b.Name(), "error", err)
		}
	}

	// Wait for shutdown signal
	<-ctx.Done()
	logger.Info("received termination signal, shutting down")

	return 0
}

// startDiscord looks up the bot's token and starts its Discord adapter. A
// missing token leaves the bot offline on Discord without stopping the process.
func startDiscord(ctx context.Context, b *bot.Bot, cfg *bot.Config, s *settings.Settings, logger *slog.Logger) error {
	token, err := credentials.Lookup(cfg.TokenFile, b.Name())
	if err != nil {
		return err
	}

	adapter, err := discord.New(discord.Options{
		Bot:            b.Name(),
		Registry:       b.Registry(),
		Token:          token,
		Logger:         logger,
		TextPrefixes:   s.TextPrefixes,
		PrepareTimeout: cfg.PrepareTimeout,
		UserRate:       cfg.UserRate,
		UserBurst:      cfg.UserBurst,
	})
	if err != nil {
		return err
	}

	return b.Start(ctx, adapter)
}
