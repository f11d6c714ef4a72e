package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tidal-service/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("Writes To Writer At Level", func(t *testing.T) {
		var buf bytes.Buffer
		logger, closer, err := New(config.LogConfig{Level: "warn"}, &buf)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer closer.Close()

		logger.Info("hidden")
		logger.Warn("shown", "key", "value")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("expected info entry to be filtered, got %q", out)
		}
		if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
			t.Errorf("expected warn entry with fields, got %q", out)
		}
	})

	t.Run("Invalid Level", func(t *testing.T) {
		_, _, err := New(config.LogConfig{Level: "loud"}, &bytes.Buffer{})
		if err == nil {
			t.Error("expected error for invalid level")
		}
	})

	t.Run("Rotated File Sink", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "service.log")
		var buf bytes.Buffer
		logger, closer, err := New(config.LogConfig{File: path, MaxSizeMB: 1}, &buf)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		logger.Info("to both")
		if err := closer.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("expected log file, got %v", err)
		}
		if !strings.Contains(string(data), "to both") {
			t.Errorf("expected entry in file, got %q", string(data))
		}
		if !strings.Contains(buf.String(), "to both") {
			t.Errorf("expected entry in writer, got %q", buf.String())
		}
	})
}
