// Package imdb implements random-imdb, which links a random movie or TV series
// from the IMDb title.basics dataset.
package imdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/sglre6355/multibot/internal/command"
	"github.com/sglre6355/multibot/internal/configstore"
)

const (
	// Name is the command name.
	Name = "random-imdb"

	// ConfigVersion is the schema version written to new config files.
	ConfigVersion = 1

	// DataFileName is the dataset file kept under <resources>/IMDB.
	DataFileName = "title.basics.tsv.gz"

	// DefaultDataURL is written to new config files. It is not a URL; the
	// operator has to replace it.
	DefaultDataURL = "URL to title.basics.tsv.gz here, ensure your use of this data is in compliance with the terms of the IMDB license: https://help.imdb.com/article/imdb/general-information/can-i-use-imdb-data-in-my-software/G5JTRESSHJBBHTGX"

	titleURLFormat = "https://www.imdb.com/title/%s/"
)

// ErrDataSource is returned when the dataset cannot be fetched.
var ErrDataSource = errors.New("imdb dataset unavailable")

// Config is the on-disk configuration of random-imdb.
type Config struct {
	Version     int    `json:"version"`
	ImdbDataURL string `json:"imdbDataUrl"`
}

// Options configures the command.
type Options struct {
	Bot          string
	ConfigRoot   string
	ResourcesDir string

	// Client downloads the dataset. Defaults to http.DefaultClient.
	Client *http.Client

	Rand     command.Rand
	Logger   *slog.Logger
	Debounce time.Duration
}

// Command links a random title. It responds only after Init has loaded the dataset.
type Command struct {
	*command.Base

	record   *configstore.Record[Config]
	dataPath string
	client   *http.Client
	rand     command.Rand
	logger   *slog.Logger

	titles atomic.Pointer[[]string]
}

// Compile-time check that Command implements command.Command.
var _ command.Command = (*Command)(nil)

// New opens the command's config. The dataset is loaded by Init.
func New(opts Options) (*Command, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("bot", opts.Bot, "command", Name)

	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}

	random := opts.Rand
	if random == nil {
		random = command.DefaultRand()
	}

	record, err := configstore.Open(configstore.Options[Config]{
		Root:    opts.ConfigRoot,
		Bot:     opts.Bot,
		Command: Name,
		Default: func() Config {
			return Config{Version: ConfigVersion, ImdbDataURL: DefaultDataURL}
		},
		Logger:   logger,
		Debounce: opts.Debounce,
	})
	if err != nil {
		return nil, err
	}

	return &Command{
		Base: command.NewBase(opts.Bot, Name, "Get a random movie or TV series from IMDB",
			command.SlashCommand, command.PlatformsOf(command.PlatformDiscord)),
		record:   record,
		dataPath: filepath.Join(opts.ResourcesDir, "IMDB", DataFileName),
		client:   client,
		rand:     random,
		logger:   logger,
	}, nil
}

// NewResponse returns a Response linking a random title.
func (c *Command) NewResponse(inv command.Invocation) *command.Response {
	return c.Respond(inv, c.prepare)
}

// Init downloads the dataset when it is not cached locally and loads the
// qualifying titles. On failure the command stays registered without data.
func (c *Command) Init(ctx context.Context) error {
	if _, err := os.Stat(c.dataPath); errors.Is(err, os.ErrNotExist) {
		c.logger.Info("dataset not found locally, downloading", "path", c.dataPath)
		if err := download(ctx, c.client, c.record.Current().ImdbDataURL, c.dataPath); err != nil {
			return err
		}
		c.logger.Info("downloaded dataset", "path", c.dataPath)
	}

	c.logger.Info("loading dataset")
	titles, err := loadTitles(ctx, c.dataPath)
	if err != nil {
		return err
	}

	c.titles.Store(&titles)
	c.logger.Info("loaded dataset", "titles", len(titles))
	return nil
}

// Shutdown stops watching the config file.
func (c *Command) Shutdown() error {
	return c.record.Close()
}

// Ready reports whether the dataset has been loaded.
func (c *Command) Ready() bool {
	titles := c.titles.Load()
	return titles != nil && len(*titles) > 0
}

func (c *Command) prepare(ctx context.Context, r *command.Response) bool {
	titles := c.titles.Load()
	if titles == nil || len(*titles) == 0 {
		return false
	}

	r.Message = fmt.Sprintf(titleURLFormat, (*titles)[c.rand.IntN(len(*titles))])
	return true
}
