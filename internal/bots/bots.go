// Package bots assembles the concrete bots this process runs.
package bots

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sglre6355/multibot/internal/bot"
	"github.com/sglre6355/multibot/internal/command"
)

// Env holds what every bot's commands share.
type Env struct {
	ConfigRoot   string
	ResourcesDir string
	Logger       *slog.Logger
	Debounce     time.Duration

	// Rand and Client default to the global source and http.DefaultClient.
	Rand   command.Rand
	Client *http.Client
}

// Factory builds one bot.
type Factory func(env Env) (*bot.Bot, error)

// All returns the factories of every bot, in start order.
func All() []Factory {
	return []Factory{TCHJR}
}

// assemble builds each command in order and creates the bot. If any step fails,
// the commands built so far are shut down.
func assemble(name string, logger *slog.Logger, builders ...func() (command.Command, error)) (*bot.Bot, error) {
	cmds := make([]command.Command, 0, len(builders))
	for _, build := range builders {
		cmd, err := build()
		if err != nil {
			errs := []error{fmt.Errorf("failed to create command for %s: %w", name, err)}
			for _, built := range cmds {
				errs = append(errs, built.Shutdown())
			}
			return nil, errors.Join(errs...)
		}
		cmds = append(cmds, cmd)
	}

	return bot.New(name, logger, cmds...)
}
