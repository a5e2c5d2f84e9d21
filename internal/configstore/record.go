// Package configstore keeps one hot-reloadable JSON configuration value per
// (bot, command) pair.
package configstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last file notification before a reload runs.
const DefaultDebounce = 500 * time.Millisecond

var (
	// ErrParse is returned when a config file cannot be decoded.
	ErrParse = errors.New("failed to parse config")

	// ErrWrite is returned when a config file cannot be persisted.
	ErrWrite = errors.New("failed to write config")
)

// Options configures a Record.
type Options[T any] struct {
	// Root is the config root directory, e.g. "Config".
	Root    string
	Bot     string
	Command string

	// Default builds the documented default value. A nil Default yields the zero value.
	Default func() T

	// OnLoaded is called every time a new value becomes live.
	OnLoaded func(*T)

	Logger   *slog.Logger
	Debounce time.Duration
}

// Record is the disk-backed configuration value for one (bot, command) pair.
// Current always returns a complete value; reloads replace it wholesale.
type Record[T any] struct {
	path     string
	dir      string
	defaults func() T
	onLoaded func(*T)
	logger   *slog.Logger
	debounce time.Duration

	current atomic.Pointer[T]

	reloadMu sync.Mutex

	timerMu sync.Mutex
	timer   *time.Timer
	closed  bool

	watcher *fsnotify.Watcher
	done    chan struct{}

	closeOnce sync.Once
}

// Open loads (or creates) the config file for the given bot and command and starts
// watching it for changes.
func Open[T any](opts Options[T]) (*Record[T], error) {
	if err := EnsureDir(opts.Root, opts.Bot); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	path := Path(opts.Root, opts.Bot, opts.Command)
	r := &Record[T]{
		path:     path,
		dir:      filepath.Dir(path),
		defaults: opts.Default,
		onLoaded: opts.OnLoaded,
		logger:   logger.With("config", path),
		debounce: opts.Debounce,
		done:     make(chan struct{}),
	}
	if r.debounce <= 0 {
		r.debounce = DefaultDebounce
	}

	r.load()
	r.watch()

	return r, nil
}

// Path returns the file backing this record.
func (r *Record[T]) Path() string {
	return r.path
}

// Current returns the live configuration snapshot. Callers must treat it as read-only.
func (r *Record[T]) Current() *T {
	return r.current.Load()
}

// Close stops watching the file. It is safe to call more than once.
func (r *Record[T]) Close() error {
	var err error
	r.closeOnce.Do(func() {
		r.timerMu.Lock()
		r.closed = true
		if r.timer != nil {
			r.timer.Stop()
		}
		r.timerMu.Unlock()

		if r.watcher != nil {
			err = r.watcher.Close()
			<-r.done
		}
	})
	return err
}

// load runs the startup policy: missing or unreadable files are replaced by the default.
func (r *Record[T]) load() {
	if _, err := os.Stat(r.path); errors.Is(err, os.ErrNotExist) {
		r.logger.Warn("config file not found, creating default")
		r.storeDefault()
		return
	}

	value, err := r.read()
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "error", err)
		r.storeDefault()
		return
	}

	r.store(value)
	r.logger.Info("loaded config")
}

// reload re-reads the file after a change. Failures keep the previous value.
func (r *Record[T]) reload() {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	value, err := r.read()
	if err != nil {
		r.logger.Error("failed to reload config, keeping previous value", "error", err)
		return
	}

	r.store(value)
	r.logger.Info("reloaded config")
}

func (r *Record[T]) read() (*T, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, err
	}

	value := new(T)
	if err := json.Unmarshal(data, value); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return value, nil
}

func (r *Record[T]) storeDefault() {
	value := r.newDefault()
	if err := write(r.path, value); err != nil {
		r.logger.Error("failed to persist default config", "error", err)
	} else {
		r.logger.Info("created default config")
	}
	r.store(value)
}

func (r *Record[T]) newDefault() *T {
	value := new(T)
	if r.defaults != nil {
		*value = r.defaults()
	}
	return value
}

func (r *Record[T]) store(value *T) {
	r.current.Store(value)
	if r.onLoaded != nil {
		r.onLoaded(value)
	}
}

func write[T any](path string, value *T) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// watch subscribes to the bot directory and filters events down to this record's file.
func (r *Record[T]) watch() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		r.logger.Warn("failed to create config watcher", "error", err)
		close(r.done)
		return
	}
	if err := watcher.Add(r.dir); err != nil {
		r.logger.Warn("failed to watch config directory", "error", err)
		_ = watcher.Close()
		close(r.done)
		return
	}

	r.watcher = watcher
	go r.run()
	r.logger.Debug("config watcher enabled")
}

func (r *Record[T]) run() {
	defer close(r.done)
	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != r.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				r.notify()
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.logger.Warn("config watcher error", "error", err)
		}
	}
}

// notify schedules a reload after the debounce window, restarting any pending delay.
func (r *Record[T]) notify() {
	r.timerMu.Lock()
	defer r.timerMu.Unlock()

	if r.closed {
		return
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.debounce, r.reload)
}
