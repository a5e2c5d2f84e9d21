// Package logging builds the process logger: JSON records to stdout and to a
// size-rotated log file, with a level that can change at runtime.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	// File is the log file path. Empty disables the file sink.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int

	// Level controls the minimum level. A nil Level is created at info.
	Level *slog.LevelVar

	// Console defaults to os.Stdout.
	Console io.Writer
}

// New returns a logger and a closer that flushes and closes the file sink.
func New(opts Options) (*slog.Logger, io.Closer) {
	level := opts.Level
	if level == nil {
		level = new(slog.LevelVar)
	}

	var out io.Writer = os.Stdout
	if opts.Console != nil {
		out = opts.Console
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 10),
			MaxBackups: orDefault(opts.MaxBackups, 5),
			MaxAge:     orDefault(opts.MaxAgeDays, 30),
			Compress:   true,
		}
		out = io.MultiWriter(out, file)
		closer = file
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closer
}

// ParseLevel maps a level name to a slog level. Both slog names (debug, info,
// warn, error) and the long forms (verbose, information, warning, fatal) are accepted.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "verbose", "debug":
		return slog.LevelDebug, true
	case "information", "info":
		return slog.LevelInfo, true
	case "warning", "warn":
		return slog.LevelWarn, true
	case "error", "fatal":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
