// Package logging builds the service logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"tidal-service/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates a [log.Logger] writing to w (default [os.Stderr]) and, when
// cfg.File is set, to a lumberjack-rotated file as well. The returned closer
// releases the file.
func New(cfg config.LogConfig, w io.Writer) (*log.Logger, io.Closer, error) {
	if w == nil {
		w = os.Stderr
	}

	level := log.InfoLevel
	if cfg.Level != "" {
		parsed, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		w = io.MultiWriter(w, file)
		closer = file
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	return logger, closer, nil
}
