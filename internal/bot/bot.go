package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sglre6355/multibot/internal/command"
)

// initConcurrency bounds how many commands initialize at once.
const initConcurrency = 4

// Bot is a named set of commands together with the platform adapters serving them.
type Bot struct {
	name     string
	registry *command.Registry
	logger   *slog.Logger

	mu       sync.Mutex
	adapters []Adapter

	shutdownOnce sync.Once
	shutdownErr  error
}

// New creates a Bot owning cmds. Duplicate command names are a configuration
// error; on failure the given commands are shut down.
func New(name string, logger *slog.Logger, cmds ...command.Command) (*Bot, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	registry, err := command.NewRegistry(cmds...)
	if err != nil {
		for _, cmd := range cmds {
			_ = cmd.Shutdown()
		}
		return nil, fmt.Errorf("failed to register commands for %s: %w", name, err)
	}

	return &Bot{
		name:     name,
		registry: registry,
		logger:   logger.With("bot", name),
	}, nil
}

// Name returns the bot's name, used for config paths and token lookup.
func (b *Bot) Name() string {
	return b.name
}

// Registry returns the bot's command registry.
func (b *Bot) Registry() *command.Registry {
	return b.registry
}

// Init runs every command's one-time setup concurrently. A command that fails
// to initialize stays registered but produces no data; only cancellation of ctx
// is returned as an error.
func (b *Bot) Init(ctx context.Context) error {
	b.logger.Info("initializing commands")

	var g errgroup.Group
	g.SetLimit(initConcurrency)

	for _, cmd := range b.registry.Commands() {
		g.Go(func() error {
			if err := cmd.Init(ctx); err != nil {
				b.logger.Error("failed to initialize command",
					"command", cmd.Name(),
					"error", err,
				)
				return nil
			}
			b.logger.Debug("initialized command", "command", cmd.Name())
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("command initialization cancelled: %w", err)
	}

	names := make([]string, 0, len(b.registry.Commands()))
	for _, cmd := range b.registry.Commands() {
		names = append(names, cmd.Name())
	}
	b.logger.Info("initialized commands", "commands", names)

	return nil
}

// Start starts each adapter. An adapter that fails to start is logged and
// skipped; the others keep running. The joined start errors are returned.
func (b *Bot) Start(ctx context.Context, adapters ...Adapter) error {
	var errs []error
	for _, adapter := range adapters {
		if err := adapter.Start(ctx); err != nil {
			b.logger.Error("failed to start platform adapter",
				"platform", adapter.Platform().String(),
				"error", err,
			)
			errs = append(errs, fmt.Errorf("%s: %w", adapter.Platform(), err))
			continue
		}

		b.mu.Lock()
		b.adapters = append(b.adapters, adapter)
		b.mu.Unlock()

		b.logger.Info("started platform adapter", "platform", adapter.Platform().String())
	}
	return errors.Join(errs...)
}

// Shutdown stops all adapters and then all commands. Later calls are no-ops
// and return the first result.
func (b *Bot) Shutdown(ctx context.Context) error {
	b.shutdownOnce.Do(func() {
		b.logger.Info("shutting down")

		b.mu.Lock()
		adapters := b.adapters
		b.adapters = nil
		b.mu.Unlock()

		var errs []error
		for _, adapter := range adapters {
			if err := adapter.Stop(ctx); err != nil {
				b.logger.Warn("failed to stop platform adapter",
					"platform", adapter.Platform().String(),
					"error", err,
				)
				errs = append(errs, err)
			}
		}

		for _, cmd := range b.registry.Commands() {
			if err := cmd.Shutdown(); err != nil {
				b.logger.Warn("failed to shutdown command", "command", cmd.Name(), "error", err)
				errs = append(errs, err)
			}
		}

		b.shutdownErr = errors.Join(errs...)
		b.logger.Info("shutdown complete")
	})
	return b.shutdownErr
}
