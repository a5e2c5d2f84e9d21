// Package commandsync decides whether a platform's registered command list must be
// overwritten and performs the overwrite only when it differs.
package commandsync

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Definition is the part of a command that a platform registers remotely.
type Definition struct {
	Name        string
	Description string
}

// NeedsSync reports whether the existing remote set differs from the desired set.
// Names compare case-insensitively, descriptions exactly; order is ignored.
func NeedsSync(existing, desired []Definition) bool {
	if len(existing) != len(desired) {
		return true
	}

	byName := make(map[string]Definition, len(existing))
	for _, def := range existing {
		byName[strings.ToLower(def.Name)] = def
	}

	for _, want := range desired {
		have, ok := byName[strings.ToLower(want.Name)]
		if !ok || have.Description != want.Description {
			return true
		}
	}

	return false
}

// Remote is a platform's command registration endpoint.
type Remote interface {
	// List returns the currently registered commands.
	List(ctx context.Context) ([]Definition, error)

	// Overwrite replaces the registered commands with defs in one call.
	Overwrite(ctx context.Context, defs []Definition) error
}

// Syncer registers a desired command set against a Remote when it has changed.
type Syncer struct {
	remote Remote
	logger *slog.Logger
}

// NewSyncer creates a new Syncer.
func NewSyncer(remote Remote, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Syncer{
		remote: remote,
		logger: logger,
	}
}

// Sync overwrites the remote command set with desired if it differs.
// It reports whether an overwrite was issued.
func (s *Syncer) Sync(ctx context.Context, desired []Definition) (bool, error) {
	existing, err := s.remote.List(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list registered commands: %w", err)
	}

	if !NeedsSync(existing, desired) {
		s.logger.Info("registered commands are up to date", "count", len(desired))
		return false, nil
	}

	s.logger.Info("registering commands",
		"existing", len(existing),
		"desired", len(desired),
	)
	if err := s.remote.Overwrite(ctx, desired); err != nil {
		return false, fmt.Errorf("failed to register commands: %w", err)
	}

	s.logger.Info("registered commands", "count", len(desired))
	return true, nil
}
