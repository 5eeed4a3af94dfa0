package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Defaults for a fresh installation.
const (
	DefaultBaseURL       = "https://api.track.toggl.com/api/v9"
	DefaultWebURL        = "https://track.toggl.com/timer"
	DefaultTimeFormat    = "2006-01-02 15:04:05"
	DefaultTimeout       = 30 * time.Second
	DefaultListDays      = 9
	DefaultWatchInterval = time.Minute
	DefaultFileName      = ".togglrc.yaml"
)

// Config holds all configuration options for the toggl client
type Config struct {
	APIToken    string        `mapstructure:"api_token"`
	BaseURL     string        `mapstructure:"base_url"`
	WebURL      string        `mapstructure:"web_url"`
	WorkspaceID int64         `mapstructure:"workspace_id"`
	Timezone    string        `mapstructure:"timezone"`
	TimeFormat  string        `mapstructure:"time_format"`
	Timeout     time.Duration `mapstructure:"timeout"`
	ListDays    int           `mapstructure:"list_days"`
	Cache       CacheConfig   `mapstructure:"cache"`
	Watch       WatchConfig   `mapstructure:"watch"`
	Limits      LimitsConfig  `mapstructure:"limits"`
}

// CacheConfig controls the on-disk snapshot of projects, clients and users.
// A zero TTL disables it.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
	Path    string        `mapstructure:"path"`
}

// WatchConfig holds settings for the watch command
type WatchConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Listen   string        `mapstructure:"listen"`
}

// LimitsConfig bounds the entries accepted before anything is sent.
// Zero fields keep the built-in limits.
type LimitsConfig struct {
	DescriptionMaxLength int           `mapstructure:"description_max_length"`
	MaxEntryDuration     time.Duration `mapstructure:"max_entry_duration"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		BaseURL:    DefaultBaseURL,
		WebURL:     DefaultWebURL,
		TimeFormat: DefaultTimeFormat,
		Timeout:    DefaultTimeout,
		ListDays:   DefaultListDays,
		Cache: CacheConfig{
			Enabled: false,
			TTL:     0,
			Path:    filepath.Join(homeDir, ".cache", "indicator-toggl", "reference.db"),
		},
		Watch: WatchConfig{
			Interval: DefaultWatchInterval,
		},
	}
}

// DefaultPath returns ~/.togglrc.yaml, or TOGGL_CONFIG when set.
func DefaultPath() string {
	if p := os.Getenv("TOGGL_CONFIG"); p != "" {
		return p
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, DefaultFileName)
}

// Location resolves Timezone, falling back to the local zone when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// CacheEnabled reports whether reference lists should be persisted between runs.
func (c *Config) CacheEnabled() bool {
	return c.Cache.Enabled && c.Cache.TTL > 0 && c.Cache.Path != ""
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	if token := os.Getenv("TOGGL_API_TOKEN"); token != "" {
		c.APIToken = token
	}
	if u := os.Getenv("TOGGL_BASE_URL"); u != "" {
		c.BaseURL = u
	}
	if u := os.Getenv("TOGGL_WEB_URL"); u != "" {
		c.WebURL = u
	}
	if wid := os.Getenv("TOGGL_WORKSPACE_ID"); wid != "" {
		if n, err := strconv.ParseInt(wid, 10, 64); err == nil {
			c.WorkspaceID = n
		}
	}
	if tz := os.Getenv("TOGGL_TIMEZONE"); tz != "" {
		c.Timezone = tz
	}
	if format := os.Getenv("TOGGL_TIME_FORMAT"); format != "" {
		c.TimeFormat = format
	}
	if timeout := os.Getenv("TOGGL_TIMEOUT"); timeout != "" {
		c.Timeout = ParseDurationWithFallback(timeout, c.Timeout)
	}
	if days := os.Getenv("TOGGL_LIST_DAYS"); days != "" {
		c.ListDays = ParseIntWithFallback(days, c.ListDays)
	}

	if enabled := os.Getenv("TOGGL_CACHE_ENABLED"); enabled != "" {
		c.Cache.Enabled = ParseBoolWithFallback(enabled, c.Cache.Enabled)
	}
	if ttl := os.Getenv("TOGGL_CACHE_TTL"); ttl != "" {
		c.Cache.TTL = ParseDurationWithFallback(ttl, c.Cache.TTL)
	}
	if path := os.Getenv("TOGGL_CACHE_PATH"); path != "" {
		c.Cache.Path = path
	}

	if interval := os.Getenv("TOGGL_WATCH_INTERVAL"); interval != "" {
		c.Watch.Interval = ParseDurationWithFallback(interval, c.Watch.Interval)
	}
	if listen := os.Getenv("TOGGL_WATCH_LISTEN"); listen != "" {
		c.Watch.Listen = listen
	}

	if n := os.Getenv("TOGGL_DESCRIPTION_MAX_LENGTH"); n != "" {
		c.Limits.DescriptionMaxLength = ParseIntWithFallback(n, c.Limits.DescriptionMaxLength)
	}
	if d := os.Getenv("TOGGL_MAX_ENTRY_DURATION"); d != "" {
		c.Limits.MaxEntryDuration = ParseDurationWithFallback(d, c.Limits.MaxEntryDuration)
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	if c.APIToken == "" {
		return &ConfigError{Field: "api_token", Message: "API token is missing; copy it from your Toggl profile page"}
	}
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return &ConfigError{Field: "base_url", Message: "base URL is not a valid URL"}
	}
	if c.WorkspaceID < 0 {
		return &ConfigError{Field: "workspace_id", Message: "workspace id cannot be negative"}
	}
	if _, err := c.Location(); err != nil {
		return &ConfigError{Field: "timezone", Message: "unknown time zone " + strconv.Quote(c.Timezone)}
	}
	if c.TimeFormat == "" {
		return &ConfigError{Field: "time_format", Message: "time format cannot be empty"}
	}
	if c.Timeout <= 0 {
		return &ConfigError{Field: "timeout", Message: "timeout must be positive"}
	}
	if c.ListDays < 0 {
		return &ConfigError{Field: "list_days", Message: "list days cannot be negative"}
	}
	if c.Cache.TTL < 0 {
		return &ConfigError{Field: "cache.ttl", Message: "cache TTL cannot be negative"}
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		return &ConfigError{Field: "cache.path", Message: "cache path cannot be empty when the cache is enabled"}
	}
	if c.Watch.Interval < time.Second {
		return &ConfigError{Field: "watch.interval", Message: "watch interval must be at least one second"}
	}
	if c.Limits.DescriptionMaxLength < 0 {
		return &ConfigError{Field: "limits.description_max_length", Message: "description length limit cannot be negative"}
	}
	if c.Limits.MaxEntryDuration < 0 {
		return &ConfigError{Field: "limits.max_entry_duration", Message: "entry duration limit cannot be negative"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
