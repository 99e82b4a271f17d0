package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/paydar/paydar/internal/model"
)

// Config is the root configuration for paydar.
type Config struct {
	API          APIConfig
	Defaults     DefaultsConfig
	History      HistoryConfig
	Watch        WatchConfig
	Notification NotificationConfig
	Serve        ServeConfig
}

// APIConfig controls how the Anthropic API is reached.
type APIConfig struct {
	Key      string        // expanded from env var by Load
	BaseURL  string        // defaults to https://api.anthropic.com
	Timeout  time.Duration // per-request timeout
	MinDelay time.Duration // minimum gap between requests to the same model, 0 disables pacing
}

// DefaultsConfig seeds a run when flags leave tier or samples unset.
type DefaultsConfig struct {
	Tier    model.Tier
	Samples int
}

// HistoryConfig controls run persistence.
type HistoryConfig struct {
	Enabled bool
	Path    string // SQLite database file
}

// WatchConfig controls the repeated-run mode.
type WatchConfig struct {
	Interval time.Duration
}

// NotificationConfig controls which notifier announces watch results.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// ServeConfig controls the HTTP API.
type ServeConfig struct {
	Port int
}

const (
	defaultTimeout       = 60 * time.Second
	defaultSamples       = 10
	defaultHistoryPath   = "paydar.db"
	defaultWatchInterval = 24 * time.Hour
	defaultPort          = 8977

	apiKeyEnv = "ANTHROPIC_API_KEY"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	API          rawAPIConfig       `yaml:"api"`
	Defaults     rawDefaultsConfig  `yaml:"defaults"`
	History      rawHistoryConfig   `yaml:"history"`
	Watch        rawWatchConfig     `yaml:"watch"`
	Notification NotificationConfig `yaml:"notification"`
	Serve        rawServeConfig     `yaml:"serve"`
}

type rawAPIConfig struct {
	Key      string `yaml:"key"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
	MinDelay string `yaml:"min_delay"`
}

type rawDefaultsConfig struct {
	Tier    string `yaml:"tier"`
	Samples int    `yaml:"samples"`
}

type rawHistoryConfig struct {
	Enabled *bool  `yaml:"enabled"` // nil means enabled
	Path    string `yaml:"path"`
}

type rawWatchConfig struct {
	Interval string `yaml:"interval"`
}

type rawServeConfig struct {
	Port int `yaml:"port"`
}

// Default returns the configuration used when no config file exists. The API
// key comes from the ANTHROPIC_API_KEY environment variable.
func Default() *Config {
	return &Config{
		API: APIConfig{
			Key:     os.Getenv(apiKeyEnv),
			BaseURL: "https://api.anthropic.com",
			Timeout: defaultTimeout,
		},
		Defaults:     DefaultsConfig{Tier: model.TierHaiku, Samples: defaultSamples},
		History:      HistoryConfig{Enabled: true, Path: defaultHistoryPath},
		Watch:        WatchConfig{Interval: defaultWatchInterval},
		Notification: NotificationConfig{Type: "log"},
		Serve:        ServeConfig{Port: defaultPort},
	}
}

// Load reads and parses the YAML config file at path, validates it, and
// returns Config. Unset fields fall back to the Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()

	if raw.API.Key != "" {
		cfg.API.Key = raw.API.Key
	}
	if raw.API.BaseURL != "" {
		cfg.API.BaseURL = strings.TrimSuffix(raw.API.BaseURL, "/")
	}
	if raw.API.Timeout != "" {
		cfg.API.Timeout, err = time.ParseDuration(raw.API.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse api.timeout %q: %w", raw.API.Timeout, err)
		}
	}
	if raw.API.MinDelay != "" {
		cfg.API.MinDelay, err = time.ParseDuration(raw.API.MinDelay)
		if err != nil {
			return nil, fmt.Errorf("parse api.min_delay %q: %w", raw.API.MinDelay, err)
		}
	}

	if raw.Defaults.Tier != "" {
		tier, err := model.ParseTier(raw.Defaults.Tier)
		if err != nil {
			return nil, fmt.Errorf("parse defaults.tier: %w", err)
		}
		cfg.Defaults.Tier = tier
	}
	if raw.Defaults.Samples != 0 {
		cfg.Defaults.Samples = raw.Defaults.Samples
	}

	if raw.History.Enabled != nil {
		cfg.History.Enabled = *raw.History.Enabled
	}
	if raw.History.Path != "" {
		cfg.History.Path = raw.History.Path
	}

	if raw.Watch.Interval != "" {
		cfg.Watch.Interval, err = time.ParseDuration(raw.Watch.Interval)
		if err != nil {
			return nil, fmt.Errorf("parse watch.interval %q: %w", raw.Watch.Interval, err)
		}
	}

	if raw.Notification.Type != "" {
		cfg.Notification.Type = raw.Notification.Type
	}
	cfg.Notification.WebhookURL = raw.Notification.WebhookURL

	if raw.Serve.Port != 0 {
		cfg.Serve.Port = raw.Serve.Port
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %v", cfg.API.Timeout)
	}
	if cfg.API.MinDelay < 0 {
		return fmt.Errorf("api.min_delay must not be negative, got %v", cfg.API.MinDelay)
	}

	if cfg.Defaults.Tier.Model() == "" {
		return fmt.Errorf("defaults.tier %q is not a known tier", cfg.Defaults.Tier)
	}
	if cfg.Defaults.Samples < 1 || cfg.Defaults.Samples > model.MaxSamples {
		return fmt.Errorf("defaults.samples must be between 1 and %d, got %d", model.MaxSamples, cfg.Defaults.Samples)
	}

	if cfg.History.Enabled && cfg.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}

	if cfg.Watch.Interval < time.Minute {
		return fmt.Errorf("watch.interval must be at least 1m, got %v", cfg.Watch.Interval)
	}

	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	if cfg.Serve.Port < 1 || cfg.Serve.Port > 65535 {
		return fmt.Errorf("serve.port must be between 1 and 65535, got %d", cfg.Serve.Port)
	}

	return nil
}
