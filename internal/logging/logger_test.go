package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/handiism/podcasts-export/internal/config"
)

func TestNew_RejectsUnknownValues(t *testing.T) {
	if _, err := New(Options{Level: "chatty"}); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestNew_JSONFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "export.log")
	logger, err := New(Options{Level: "info", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Debug("hidden")
	logger.Error("copy failed", zap.String("source", "/cache/a.mp3"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "copy failed" || entry["source"] != "/cache/a.mp3" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestNewFromSettings_NoOutputsIsNop(t *testing.T) {
	settings := config.DefaultSettings()
	logger, err := NewFromSettings(settings, false, false)
	if err != nil {
		t.Fatalf("NewFromSettings() error = %v", err)
	}
	if logger.Core().Enabled(zap.ErrorLevel) {
		t.Error("expected a no-op logger")
	}
}

func TestNewFromSettings_VerboseEnablesDebug(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Logging.File = filepath.Join(t.TempDir(), "export.log")

	logger, err := NewFromSettings(settings, false, true)
	if err != nil {
		t.Fatalf("NewFromSettings() error = %v", err)
	}
	if !logger.Core().Enabled(zap.DebugLevel) {
		t.Error("verbose logger should enable debug")
	}
}
