// Package logging sets up the client's logger. The terminal belongs to the
// TUI, so records go to a size-rotated file instead of stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much is logged
type Options struct {
	// File is the log path. Empty or "-" logs to stderr.
	File  string
	Level string
	// MaxSizeMB, MaxBackups and MaxAgeDays bound the rotated files
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New builds a logger from opts. The returned closer releases the log file.
func New(opts Options) (*log.Logger, io.Closer, error) {
	level, err := log.ParseLevel(opts.Level)
	if opts.Level == "" {
		level, err = log.InfoLevel, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("log level %q: %w", opts.Level, err)
	}

	var out io.WriteCloser = nopCloser{os.Stderr}
	if opts.File != "" && opts.File != "-" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		out = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 10),
			MaxBackups: orDefault(opts.MaxBackups, 3),
			MaxAge:     orDefault(opts.MaxAgeDays, 28),
		}
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "scrapeview",
	})
	return logger, out, nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
