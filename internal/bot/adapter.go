package bot

import (
	"context"

	"github.com/sglre6355/multibot/internal/command"
)

// Adapter connects a bot to one chat platform.
type Adapter interface {
	// Platform returns the platform this adapter serves.
	Platform() command.Platform

	// Start connects to the platform and begins handling events.
	Start(ctx context.Context) error

	// Stop stops accepting events, waits for in-flight invocations until ctx
	// expires, and releases the platform connection. It must be idempotent.
	Stop(ctx context.Context) error
}
