package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".togglrc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoader_LoadFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
api_token: from-file
workspace_id: 7
timezone: UTC
timeout: 12s
list_days: 2
cache:
  enabled: true
  ttl: 30m
  path: /tmp/cache.db
watch:
  interval: 2m
  listen: 127.0.0.1:9999
`)

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.APIToken)
	assert.Equal(t, int64(7), cfg.WorkspaceID)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 12*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.ListDays)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, 2*time.Minute, cfg.Watch.Interval)
	assert.Equal(t, "127.0.0.1:9999", cfg.Watch.Listen)
	// keys absent from the file keep their defaults
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultTimeFormat, cfg.TimeFormat)
}

func TestLoader_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "api_token: from-file\nlist_days: 2\n")
	t.Setenv("TOGGL_API_TOKEN", "from-env")

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.APIToken)
	assert.Equal(t, 2, cfg.ListDays)
}

func TestLoader_WritesDefaultWhenMissing(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", ".togglrc.yaml")

	_, err := NewLoader(path).Load()

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "api_token", cfgErr.Field)
	assert.Contains(t, err.Error(), "created "+path)

	// the second run reads the file it wrote and no longer says so
	_, err = NewLoader(path).Load()
	require.ErrorAs(t, err, &cfgErr)
	assert.NotContains(t, err.Error(), "created")
	assert.Contains(t, err.Error(), path)

	info, statErr := os.Stat(path)
	require.NoError(t, statErr)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	var raw map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Equal(t, "", raw["api_token"])
	assert.Equal(t, DefaultBaseURL, raw["base_url"])
	assert.Equal(t, "30s", raw["timeout"])
}

func TestLoader_DefaultFileRoundTrips(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".togglrc.yaml")
	require.NoError(t, WriteDefault(path))
	t.Setenv("TOGGL_API_TOKEN", "abc")

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)

	defaults := NewConfig()
	assert.Equal(t, defaults.Timeout, cfg.Timeout)
	assert.Equal(t, defaults.Watch.Interval, cfg.Watch.Interval)
	assert.Equal(t, defaults.Cache.Path, cfg.Cache.Path)
}

func TestLoader_MalformedFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "api_token: [unterminated\n")

	_, err := NewLoader(path).Load()
	assert.Error(t, err)
}

func TestLoader_LoadWithOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "api_token: abc\ncache:\n  enabled: true\n  ttl: 1h\n")

	format := "15:04"
	days := 1
	noCache := true
	wid := int64(99)
	cfg, err := NewLoader(path).LoadWithOverrides(&ConfigOverrides{
		TimeFormat:  &format,
		ListDays:    &days,
		NoCache:     &noCache,
		WorkspaceID: &wid,
	})
	require.NoError(t, err)

	assert.Equal(t, "15:04", cfg.TimeFormat)
	assert.Equal(t, 1, cfg.ListDays)
	assert.Equal(t, int64(99), cfg.WorkspaceID)
	assert.False(t, cfg.CacheEnabled())
}

func TestLoader_OverrideValidation(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "api_token: abc\n")

	zero := time.Duration(0)
	_, err := NewLoader(path).LoadWithOverrides(&ConfigOverrides{Timeout: &zero})
	assert.Error(t, err)
}

func TestLoader_OverridesCanRepairFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "api_token: abc\ntimeout: 0s\n")

	_, err := NewLoader(path).Load()
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "timeout", cfgErr.Field)

	timeout := 5 * time.Second
	cfg, err := NewLoader(path).LoadWithOverrides(&ConfigOverrides{Timeout: &timeout})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestParseWithFallback(t *testing.T) {
	assert.Equal(t, time.Minute, ParseDurationWithFallback("1m", time.Second))
	assert.Equal(t, time.Second, ParseDurationWithFallback("x", time.Second))
	assert.Equal(t, 4, ParseIntWithFallback("4", 1))
	assert.Equal(t, 1, ParseIntWithFallback("four", 1))
	assert.True(t, ParseBoolWithFallback("yes", true))
	assert.False(t, ParseBoolWithFallback("false", true))
}
