package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "api:\n  key: secret\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.Key != "secret" {
		t.Errorf("expected key from file, got %q", cfg.API.Key)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("expected default base URL, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("expected default API timeout 30s, got %s", cfg.API.Timeout)
	}
	if cfg.Fetch.Concurrency != 5 {
		t.Errorf("expected default concurrency 5, got %d", cfg.Fetch.Concurrency)
	}
	if cfg.Fetch.Timeout != 10*time.Second {
		t.Errorf("expected default fetch timeout 10s, got %s", cfg.Fetch.Timeout)
	}
	if cfg.Watch.Interval != time.Hour {
		t.Errorf("expected default watch interval 1h, got %s", cfg.Watch.Interval)
	}
	if cfg.Watch.DropThreshold != 3.0 {
		t.Errorf("expected default drop threshold 3.0, got %g", cfg.Watch.DropThreshold)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("expected default logging info/console, got %s/%s", cfg.Log.Level, cfg.Log.Format)
	}
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://staging.example.com/v1
  key: staging-key
  timeout: 5s
fetch:
  concurrency: 2
  timeout: 3s
watch:
  interval: 15m
  drop_threshold: 2.5
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.BaseURL != "https://staging.example.com/v1" {
		t.Errorf("unexpected base URL %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %s", cfg.API.Timeout)
	}
	if cfg.Fetch.Concurrency != 2 {
		t.Errorf("expected concurrency 2, got %d", cfg.Fetch.Concurrency)
	}
	if cfg.Watch.Interval != 15*time.Minute {
		t.Errorf("expected interval 15m, got %s", cfg.Watch.Interval)
	}
	if cfg.Watch.DropThreshold != 2.5 {
		t.Errorf("expected drop threshold 2.5, got %g", cfg.Watch.DropThreshold)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected logging %s/%s", cfg.Log.Level, cfg.Log.Format)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("RANKWATCH_API_KEY", "env-key")
	t.Setenv("RANKWATCH_LOG_LEVEL", "warn")

	path := writeConfig(t, "api:\n  key: file-key\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.Key != "env-key" {
		t.Errorf("expected env override, got %q", cfg.API.Key)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected env log level warn, got %q", cfg.Log.Level)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad base url", "api:\n  base_url: not-a-url\n"},
		{"zero concurrency", "fetch:\n  concurrency: 0\n"},
		{"interval too short", "watch:\n  interval: 5s\n"},
		{"bad log level", "log:\n  level: loud\n"},
		{"bad log format", "log:\n  format: xml\n"},
		{"negative drop threshold", "watch:\n  drop_threshold: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
