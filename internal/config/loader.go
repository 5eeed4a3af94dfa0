package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config *Config
	path   string
}

// NewLoader creates a loader for the given file. An empty path means DefaultPath().
func NewLoader(path string) *Loader {
	if path == "" {
		path = DefaultPath()
	}
	return &Loader{
		config: NewConfig(),
		path:   path,
	}
}

// Path returns the configuration file the loader reads.
func (l *Loader) Path() string {
	return l.path
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the configuration file, writing a template if there is none
// 3. Override with environment variables
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	return l.LoadWithOverrides(nil)
}

func (l *Loader) loadFile() error {
	v := viper.New()
	v.SetConfigFile(l.path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading %s: %w", l.path, err)
	}
	if err := v.Unmarshal(l.config); err != nil {
		return fmt.Errorf("decoding %s: %w", l.path, err)
	}
	return nil
}

// LoadWithOverrides loads configuration and applies command line overrides.
// The result is validated once, after every source has been applied.
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	created := false
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		if err := WriteDefault(l.path); err != nil {
			return nil, err
		}
		created = true
	} else if err := l.loadFile(); err != nil {
		return nil, err
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}
	if overrides != nil {
		l.applyOverrides(l.config, overrides)
	}

	if err := l.config.Validate(); err != nil {
		if created {
			return nil, fmt.Errorf("created %s with default settings, edit it and run again: %w", l.path, err)
		}
		return nil, fmt.Errorf("%s: %w", l.path, err)
	}
	return l.config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	TimeFormat  *string
	Timeout     *time.Duration
	WorkspaceID *int64
	ListDays    *int
	NoCache     *bool
}

func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	if overrides.TimeFormat != nil {
		config.TimeFormat = *overrides.TimeFormat
	}
	if overrides.Timeout != nil {
		config.Timeout = *overrides.Timeout
	}
	if overrides.WorkspaceID != nil {
		config.WorkspaceID = *overrides.WorkspaceID
	}
	if overrides.ListDays != nil {
		config.ListDays = *overrides.ListDays
	}
	if overrides.NoCache != nil && *overrides.NoCache {
		config.Cache.Enabled = false
	}
}

// fileTemplate is what a new configuration file contains. Durations are
// written as strings so the file stays editable.
type fileTemplate struct {
	APIToken    string        `yaml:"api_token"`
	BaseURL     string        `yaml:"base_url"`
	WebURL      string        `yaml:"web_url"`
	WorkspaceID int64         `yaml:"workspace_id"`
	Timezone    string        `yaml:"timezone"`
	TimeFormat  string        `yaml:"time_format"`
	Timeout     string        `yaml:"timeout"`
	ListDays    int           `yaml:"list_days"`
	Cache       cacheTemplate `yaml:"cache"`
	Watch       watchTemplate `yaml:"watch"`
}

type cacheTemplate struct {
	Enabled bool   `yaml:"enabled"`
	TTL     string `yaml:"ttl"`
	Path    string `yaml:"path"`
}

type watchTemplate struct {
	Interval string `yaml:"interval"`
	Listen   string `yaml:"listen"`
}

// WriteDefault writes a configuration file holding the defaults and an empty API token.
func WriteDefault(path string) error {
	cfg := NewConfig()
	tmpl := fileTemplate{
		BaseURL:    cfg.BaseURL,
		WebURL:     cfg.WebURL,
		TimeFormat: cfg.TimeFormat,
		Timeout:    cfg.Timeout.String(),
		ListDays:   cfg.ListDays,
		Cache: cacheTemplate{
			Enabled: cfg.Cache.Enabled,
			TTL:     cfg.Cache.TTL.String(),
			Path:    cfg.Cache.Path,
		},
		Watch: watchTemplate{
			Interval: cfg.Watch.Interval.String(),
			Listen:   cfg.Watch.Listen,
		},
	}

	data, err := yaml.Marshal(&tmpl)
	if err != nil {
		return fmt.Errorf("encoding default configuration: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating configuration directory: %w", err)
	}
	// the file will hold an API token
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}
