package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all rankwatch settings.
const envPrefix = "RANKWATCH"

// newViper builds a viper instance with the standard setup: YAML files,
// RANKWATCH_ env prefix, and a "." → "_" key replacer so that nested keys
// like "api.key" resolve to RANKWATCH_API_KEY. Every key gets a registered
// default; without that, env-only overrides would not survive Unmarshal.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.key", "")
	v.SetDefault("api.share_base_url", DefaultShareBaseURL)
	v.SetDefault("api.timeout", defaultAPITimeout)
	v.SetDefault("fetch.concurrency", defaultFetchConcurrency)
	v.SetDefault("fetch.timeout", defaultFetchTimeout)
	v.SetDefault("watch.interval", defaultWatchInterval)
	v.SetDefault("watch.drop_threshold", float64(defaultDropThreshold))
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	return v
}

// Load reads the YAML file at path, merges RANKWATCH_* environment
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return finalize(v)
}

// LoadDefault loads {config dir}/config.yaml when it exists, and otherwise
// builds the configuration from environment variables and defaults alone. A
// missing file is not an error; a present-but-broken one is.
func LoadDefault() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return finalize(newViper())
		}
		return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
	}
	return Load(path)
}

func finalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
