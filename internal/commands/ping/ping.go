// Package ping implements the ping command, a configurable liveness reply.
package ping

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sglre6355/multibot/internal/command"
	"github.com/sglre6355/multibot/internal/configstore"
)

const (
	// Name is the command name.
	Name = "ping"

	// ConfigVersion is the schema version written to new config files.
	ConfigVersion = 1

	// DefaultReply is the reply written to new config files.
	DefaultReply = "Pong!"
)

// Config is the on-disk configuration of ping.
type Config struct {
	Version int    `json:"version"`
	Reply   string `json:"reply"`
}

// Options configures the command.
type Options struct {
	Bot        string
	ConfigRoot string
	Logger     *slog.Logger
	Debounce   time.Duration
}

// Command replies with the configured text.
type Command struct {
	*command.Base
	record *configstore.Record[Config]
}

// Compile-time check that Command implements command.Command.
var _ command.Command = (*Command)(nil)

// New creates a new ping Command.
func New(opts Options) (*Command, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	record, err := configstore.Open(configstore.Options[Config]{
		Root:    opts.ConfigRoot,
		Bot:     opts.Bot,
		Command: Name,
		Default: func() Config {
			return Config{Version: ConfigVersion, Reply: DefaultReply}
		},
		Logger:   logger.With("bot", opts.Bot, "command", Name),
		Debounce: opts.Debounce,
	})
	if err != nil {
		return nil, err
	}

	return &Command{
		Base: command.NewBase(opts.Bot, Name, "Replies with Pong!",
			command.SlashCommand|command.TextCommand, command.PlatformsOf(command.PlatformDiscord)),
		record: record,
	}, nil
}

// NewResponse returns a Response carrying the configured reply.
func (c *Command) NewResponse(inv command.Invocation) *command.Response {
	return c.Respond(inv, c.prepare)
}

// Init is a no-op.
func (c *Command) Init(ctx context.Context) error {
	return nil
}

// Shutdown stops watching the config file.
func (c *Command) Shutdown() error {
	return c.record.Close()
}

func (c *Command) prepare(ctx context.Context, r *command.Response) bool {
	reply := strings.TrimSpace(c.record.Current().Reply)
	if reply == "" {
		return false
	}
	r.Message = reply
	return true
}
