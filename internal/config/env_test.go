package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "olive.db" {
		t.Fatalf("expected default db olive.db, got %q", cfg.DBPath)
	}
	if cfg.SettingsPath != "olive-settings.yaml" {
		t.Fatalf("expected default settings path, got %q", cfg.SettingsPath)
	}
	if cfg.SuggestionLimit != 8 {
		t.Fatalf("expected default suggestion limit 8, got %d", cfg.SuggestionLimit)
	}
	if cfg.LogMaxSizeMB != 10 {
		t.Fatalf("expected default log size 10, got %d", cfg.LogMaxSizeMB)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("OLIVE_DB", "/tmp/meals.db")
	t.Setenv("OLIVE_LOG_LEVEL", "debug")
	t.Setenv("OLIVE_SUGGESTION_LIMIT", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/meals.db" || cfg.LogLevel != "debug" || cfg.SuggestionLimit != 3 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("OLIVE_SUGGESTION_LIMIT", "many")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := Config{DBPath: "a.db", SettingsPath: "s.yaml", LogLevel: "info", LogMaxSizeMB: 1, SuggestionLimit: 1}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := base
	bad.LogLevel = "loud"
	bad.SuggestionLimit = 0
	err := bad.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"OLIVE_LOG_LEVEL", "OLIVE_SUGGESTION_LIMIT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}

	empty := base
	empty.DBPath = " "
	if err := empty.Validate(); err == nil {
		t.Error("expected error for empty db path")
	}
}

func TestNewLoggerStderr(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{LogLevel: "warn", LogMaxSizeMB: 1}

	logger, closer, err := cfg.NewLogger(&buf, false)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	defer closer.Close()

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestNewLoggerVerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{LogLevel: "error", LogMaxSizeMB: 1}

	logger, closer, err := cfg.NewLogger(&buf, true)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	defer closer.Close()

	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("verbose logger should enable debug")
	}
}

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "olive.log")
	cfg := Config{LogLevel: "info", LogFile: path, LogMaxSizeMB: 1}

	var stderr bytes.Buffer
	logger, closer, err := cfg.NewLogger(&stderr, false)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("to file")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file missing record: %q", data)
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr should be empty, got %q", stderr.String())
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
