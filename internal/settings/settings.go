// Package settings loads the process-wide config.json (log level, text command
// prefixes) and re-applies it when the file changes.
package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/sglre6355/multibot/internal/logging"
)

// FileName is the settings file name inside the config root.
const FileName = "config.json"

const (
	keyLogLevel     = "log_level"
	keyTextPrefixes = "text_prefixes"
)

// Settings holds the live application settings.
type Settings struct {
	v      *viper.Viper
	level  *slog.LevelVar
	logger *slog.Logger

	prefixes atomic.Pointer[[]string]
}

// Load reads path, creating it with defaults when absent, and applies the log
// level to level.
func Load(path string, level *slog.LevelVar, logger *slog.Logger) (*Settings, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if level == nil {
		level = new(slog.LevelVar)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetDefault(keyLogLevel, "Information")
	v.SetDefault(keyTextPrefixes, []string{"!"})

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create settings directory: %w", err)
		}
		if err := v.SafeWriteConfigAs(path); err != nil {
			return nil, fmt.Errorf("failed to write default settings: %w", err)
		}
		logger.Info("created default settings", "path", path)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	s := &Settings{
		v:      v,
		level:  level,
		logger: logger,
	}
	s.apply()
	return s, nil
}

// Watch re-applies the settings whenever the file changes.
func (s *Settings) Watch() {
	s.v.OnConfigChange(func(e fsnotify.Event) {
		s.logger.Info("settings changed", "path", e.Name)
		s.apply()
	})
	s.v.WatchConfig()
}

// Level returns the level variable the settings control.
func (s *Settings) Level() *slog.LevelVar {
	return s.level
}

// TextPrefixes returns the prefixes that mark a text message as a command.
func (s *Settings) TextPrefixes() []string {
	return *s.prefixes.Load()
}

func (s *Settings) apply() {
	name := s.v.GetString(keyLogLevel)
	level, ok := logging.ParseLevel(name)
	if !ok {
		s.logger.Warn("unknown log level in settings, defaulting to info", "level", name)
	}
	if s.level.Level() != level {
		s.level.Set(level)
		s.logger.Info("log level changed", "level", level.String())
	}

	prefixes := s.v.GetStringSlice(keyTextPrefixes)
	if len(prefixes) == 0 {
		prefixes = []string{"!"}
	}
	s.prefixes.Store(&prefixes)
}
