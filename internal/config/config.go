// Package config provides configuration loading, defaults, and validation
// for rankwatch. Settings come from an optional YAML file with RANKWATCH_*
// environment overrides; the loaded Config is passed explicitly to the
// components that need it.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/blackwell-systems/rankwatch/internal/analyzer"
)

// Defaults applied when neither the file nor the environment sets a value.
const (
	DefaultBaseURL      = "https://api.localrankhq.com/v1"
	DefaultShareBaseURL = "https://app.localrankhq.com/share"

	defaultAPITimeout       = 30 * time.Second
	defaultFetchConcurrency = 5
	defaultFetchTimeout     = 10 * time.Second
	defaultWatchInterval    = time.Hour
	defaultLogLevel         = "info"
	defaultLogFormat        = "console"
)

// defaultDropThreshold mirrors the urgent-drop cutoff so watch alerts line
// up with the daily priorities report unless overridden.
const defaultDropThreshold = analyzer.UrgentDrop

// Config is the full rankwatch configuration.
type Config struct {
	API   APIConfig   `mapstructure:"api"`
	Fetch FetchConfig `mapstructure:"fetch"`
	Watch WatchConfig `mapstructure:"watch"`
	Log   LogConfig   `mapstructure:"log"`
}

// APIConfig configures the scan-service client.
type APIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Key          string        `mapstructure:"key"`
	ShareBaseURL string        `mapstructure:"share_base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// FetchConfig bounds concurrent detail fetches.
type FetchConfig struct {
	Concurrency int           `mapstructure:"concurrency"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// WatchConfig drives the background watch daemon.
type WatchConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	DropThreshold float64       `mapstructure:"drop_threshold"`
}

// LogConfig selects log verbosity and encoding.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format"` // "console" or "json"
}

// Validate checks the loaded configuration for values that would break at
// runtime.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Fetch.Concurrency < 1 {
		return fmt.Errorf("fetch.concurrency must be at least 1, got %d", c.Fetch.Concurrency)
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %s", c.Fetch.Timeout)
	}
	if c.Watch.Interval < time.Minute {
		return fmt.Errorf("watch.interval must be at least 1m, got %s", c.Watch.Interval)
	}
	if c.Watch.DropThreshold <= 0 {
		return fmt.Errorf("watch.drop_threshold must be positive, got %g", c.Watch.DropThreshold)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// Dir returns the rankwatch config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/rankwatch if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "rankwatch"), nil
}

// DefaultPath returns the default config file location, {Dir}/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
