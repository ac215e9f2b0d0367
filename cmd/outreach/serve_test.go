package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantDebug bool
		wantWarn  bool
		wantJSON  bool
	}{
		{"info json", "info", "json", false, true, true},
		{"debug text", "debug", "text", true, true, false},
		{"warn json", "warn", "json", false, true, true},
		{"error text", "error", "text", false, false, false},
		{"unknown level defaults to info", "loud", "json", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level, tt.format)
			ctx := context.Background()

			if got := logger.Enabled(ctx, slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if got := logger.Enabled(ctx, slog.LevelWarn); got != tt.wantWarn {
				t.Errorf("warn enabled = %v, want %v", got, tt.wantWarn)
			}

			logger.Error("probe", "key", "value")
			isJSON := strings.HasPrefix(strings.TrimSpace(buf.String()), "{")
			if isJSON != tt.wantJSON {
				t.Errorf("json output = %v, want %v (got %q)", isJSON, tt.wantJSON, buf.String())
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("OUTREACH_TEST_FROM_FILE=loaded\nOUTREACH_TEST_PRESET=from-file\n"), 0644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	t.Setenv("OUTREACH_TEST_PRESET", "from-process")
	// registered so t.Setenv restores (unsets) it after the test
	t.Setenv("OUTREACH_TEST_FROM_FILE", "")
	os.Unsetenv("OUTREACH_TEST_FROM_FILE")

	if err := loadEnvFile(path); err != nil {
		t.Fatalf("loadEnvFile() error = %v", err)
	}

	if got := os.Getenv("OUTREACH_TEST_FROM_FILE"); got != "loaded" {
		t.Errorf("OUTREACH_TEST_FROM_FILE = %q, want loaded", got)
	}
	if got := os.Getenv("OUTREACH_TEST_PRESET"); got != "from-process" {
		t.Errorf("OUTREACH_TEST_PRESET = %q, want from-process (existing vars are not overridden)", got)
	}
}

func TestLoadEnvFile_Missing(t *testing.T) {
	if err := loadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("loadEnvFile() error = %v, want nil for a missing file", err)
	}
	if err := loadEnvFile(""); err != nil {
		t.Errorf("loadEnvFile(\"\") error = %v, want nil", err)
	}
}

func TestLoadConfig_NoPathUsesDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Title != "School Outreach Tracker" {
		t.Errorf("Title = %q, want default", cfg.Title)
	}
}
