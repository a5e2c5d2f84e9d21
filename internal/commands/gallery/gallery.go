// Package gallery implements commands that reply with a random embed, and
// optionally an image, picked from a hot-reloadable list of entries.
package gallery

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sglre6355/multibot/internal/command"
	"github.com/sglre6355/multibot/internal/configstore"
)

// ConfigVersion is the schema version written to new config files.
const ConfigVersion = 1

// Entry is one candidate reply.
type Entry struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	ImageFileName string `json:"imageFileName"`
}

// Config is the on-disk configuration of a gallery command.
type Config struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
}

// Options configures a gallery command.
type Options struct {
	Bot         string
	Name        string
	Description string
	Types       command.Type

	// ConfigRoot is the directory holding per-bot config directories.
	ConfigRoot string

	// ResourcesDir holds Images/<command name>/ with the entries' images.
	ResourcesDir string

	Color    int
	Defaults []Entry

	Rand     command.Rand
	Logger   *slog.Logger
	Debounce time.Duration
}

// Command replies with a random entry from its config.
type Command struct {
	*command.Base

	record   *configstore.Record[Config]
	imageDir string
	color    int
	rand     command.Rand
	logger   *slog.Logger
}

// Compile-time check that Command implements command.Command.
var _ command.Command = (*Command)(nil)

// New opens the command's config, creating it from opts.Defaults when missing.
func New(opts Options) (*Command, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("bot", opts.Bot, "command", opts.Name)

	types := opts.Types
	if types == 0 {
		types = command.SlashCommand | command.TextCommand
	}

	random := opts.Rand
	if random == nil {
		random = command.DefaultRand()
	}

	c := &Command{
		Base: command.NewBase(opts.Bot, opts.Name, opts.Description, types,
			command.PlatformsOf(command.PlatformDiscord)),
		imageDir: filepath.Join(opts.ResourcesDir, "Images", opts.Name),
		color:    opts.Color,
		rand:     random,
		logger:   logger,
	}

	defaults := opts.Defaults
	record, err := configstore.Open(configstore.Options[Config]{
		Root:    opts.ConfigRoot,
		Bot:     opts.Bot,
		Command: opts.Name,
		Default: func() Config {
			entries := make([]Entry, len(defaults))
			copy(entries, defaults)
			return Config{Version: ConfigVersion, Entries: entries}
		},
		OnLoaded: c.onLoaded,
		Logger:   logger,
		Debounce: opts.Debounce,
	})
	if err != nil {
		return nil, err
	}
	c.record = record

	return c, nil
}

// NewResponse returns a Response that picks a random entry.
func (c *Command) NewResponse(inv command.Invocation) *command.Response {
	return c.Respond(inv, c.prepare)
}

// Init is a no-op; the config is loaded when the command is created.
func (c *Command) Init(ctx context.Context) error {
	return nil
}

// Shutdown stops watching the config file.
func (c *Command) Shutdown() error {
	return c.record.Close()
}

// ConfigPath returns the file backing the command's entries.
func (c *Command) ConfigPath() string {
	return c.record.Path()
}

func (c *Command) onLoaded(cfg *Config) {
	if cfg.Version != ConfigVersion {
		c.logger.Warn("unexpected config version", "version", cfg.Version, "expected", ConfigVersion)
	}
	if len(cfg.Entries) == 0 {
		c.logger.Warn("config has no entries, command will not respond")
		return
	}
	c.logger.Debug("entries loaded", "count", len(cfg.Entries))
}

func (c *Command) prepare(ctx context.Context, r *command.Response) bool {
	cfg := c.record.Current()
	if cfg == nil || len(cfg.Entries) == 0 {
		return false
	}

	entry := cfg.Entries[c.rand.IntN(len(cfg.Entries))]
	r.EmbedTitle = entry.Title
	r.EmbedDescription = entry.Description
	r.EmbedColor = c.color

	if path, ok := c.imagePath(entry.ImageFileName); ok {
		r.EmbedFilePath = path
		r.EmbedFileName = entry.ImageFileName
	}
	return true
}

// imagePath resolves an entry's image. Names that escape the image directory
// and files that do not exist are dropped.
func (c *Command) imagePath(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if filepath.Base(name) != name {
		c.logger.Warn("ignoring image outside the image directory", "image", name)
		return "", false
	}

	path := filepath.Join(c.imageDir, name)
	if _, err := os.Stat(path); err != nil {
		c.logger.Warn("image not found, sending embed without attachment", "path", path, "error", err)
		return "", false
	}
	return path, true
}
