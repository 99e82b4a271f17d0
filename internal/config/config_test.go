package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paydar/paydar/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
api:
  key: sk-test
  base_url: https://proxy.example.com/
  timeout: 30s
  min_delay: 2s
defaults:
  tier: opus
  samples: 25
history:
  enabled: false
  path: /tmp/runs.db
watch:
  interval: 6h
notification:
  type: slack
  webhook_url: https://hooks.slack.com/services/T0/B0/XYZ
serve:
  port: 9000
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Key != "sk-test" {
		t.Errorf("API.Key = %q, want sk-test", cfg.API.Key)
	}
	if cfg.API.BaseURL != "https://proxy.example.com" {
		t.Errorf("API.BaseURL = %q, want trailing slash trimmed", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("API.Timeout = %v, want 30s", cfg.API.Timeout)
	}
	if cfg.API.MinDelay != 2*time.Second {
		t.Errorf("API.MinDelay = %v, want 2s", cfg.API.MinDelay)
	}
	if cfg.Defaults.Tier != model.TierOpus {
		t.Errorf("Defaults.Tier = %q, want opus", cfg.Defaults.Tier)
	}
	if cfg.Defaults.Samples != 25 {
		t.Errorf("Defaults.Samples = %d, want 25", cfg.Defaults.Samples)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
	if cfg.Watch.Interval != 6*time.Hour {
		t.Errorf("Watch.Interval = %v, want 6h", cfg.Watch.Interval)
	}
	if cfg.Notification.Type != "slack" {
		t.Errorf("Notification.Type = %q, want slack", cfg.Notification.Type)
	}
	if cfg.Serve.Port != 9000 {
		t.Errorf("Serve.Port = %d, want 9000", cfg.Serve.Port)
	}
}

func TestLoad_DefaultsApply(t *testing.T) {
	path := writeConfig(t, `
api:
  key: sk-test
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://api.anthropic.com" {
		t.Errorf("API.BaseURL = %q, want the production endpoint", cfg.API.BaseURL)
	}
	if cfg.Defaults.Tier != model.TierHaiku {
		t.Errorf("Defaults.Tier = %q, want haiku", cfg.Defaults.Tier)
	}
	if cfg.Defaults.Samples != 10 {
		t.Errorf("Defaults.Samples = %d, want 10", cfg.Defaults.Samples)
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled = false, want true by default")
	}
	if cfg.History.Path != "paydar.db" {
		t.Errorf("History.Path = %q, want paydar.db", cfg.History.Path)
	}
	if cfg.Notification.Type != "log" {
		t.Errorf("Notification.Type = %q, want log", cfg.Notification.Type)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("PAYDAR_TEST_KEY", "sk-from-env")
	path := writeConfig(t, `
api:
  key: ${PAYDAR_TEST_KEY}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Key != "sk-from-env" {
		t.Errorf("API.Key = %q, want sk-from-env", cfg.API.Key)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "api: [broken")
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown tier", content: "defaults:\n  tier: gpt4\n"},
		{name: "samples above limit", content: "defaults:\n  samples: 101\n"},
		{name: "negative samples", content: "defaults:\n  samples: -1\n"},
		{name: "bad timeout", content: "api:\n  timeout: soon\n"},
		{name: "negative min delay", content: "api:\n  min_delay: -5s\n"},
		{name: "short watch interval", content: "watch:\n  interval: 10s\n"},
		{name: "slack without webhook", content: "notification:\n  type: slack\n"},
		{name: "slack with foreign webhook", content: "notification:\n  type: slack\n  webhook_url: https://example.com/hook\n"},
		{name: "unknown notifier", content: "notification:\n  type: pager\n"},
		{name: "port out of range", content: "serve:\n  port: 70000\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Errorf("Load: expected error for %s", tt.name)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ambient")
	cfg := Default()
	if cfg.API.Key != "sk-ambient" {
		t.Errorf("API.Key = %q, want the value of ANTHROPIC_API_KEY", cfg.API.Key)
	}
	if err := validate(cfg); err != nil {
		t.Errorf("Default() does not validate: %v", err)
	}
}
