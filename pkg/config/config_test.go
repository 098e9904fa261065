package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "Top", config.Search.Mode)
	assert.Equal(t, 30, config.Search.MinimumItems)
	assert.Equal(t, 20, config.Search.PageSize)
	assert.Equal(t, 3, config.Retry.MaxRetries)
	assert.Equal(t, 5*time.Second, config.Retry.SessionRetryDelay)
	assert.Equal(t, 10*time.Second, config.Retry.ErrorRetryDelay)
	assert.Equal(t, 5*time.Second, config.Pagination.JitterMin)
	assert.Equal(t, 10*time.Second, config.Pagination.JitterMax)
	assert.Equal(t, 120*time.Second, config.Pagination.RateLimitDefaultWait)
	assert.Equal(t, 60*time.Second, config.Pagination.RateLimitMinWait)
	assert.Equal(t, 5*time.Second, config.Pagination.RateLimitPadding)
	assert.Zero(t, config.Pagination.MaxPageRetries, "page retries are unbounded unless configured")
	assert.NoError(t, config.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TWEETSEARCH_USERNAME", "satoshi")
	t.Setenv("TWEETSEARCH_EMAIL", "satoshi@example.com")
	t.Setenv("TWEETSEARCH_PASSWORD", "hunter2")
	t.Setenv("TWEETSEARCH_MODE", "Latest")
	t.Setenv("TWEETSEARCH_MINIMUM_ITEMS", "50")
	t.Setenv("TWEETSEARCH_MAX_RETRY", "5")
	t.Setenv("TWEETSEARCH_LOG_LEVEL", "debug")

	config := DefaultConfig()
	require.NoError(t, config.LoadFromEnv())

	assert.Equal(t, "satoshi", config.Credentials.Username)
	assert.Equal(t, "satoshi@example.com", config.Credentials.Email)
	assert.Equal(t, "hunter2", config.Credentials.Password)
	assert.Equal(t, "Latest", config.Search.Mode)
	assert.Equal(t, 50, config.Search.MinimumItems)
	assert.Equal(t, 5, config.Retry.MaxRetries)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadFromEnvRejectsBadNumbers(t *testing.T) {
	t.Setenv("TWEETSEARCH_MAX_RETRY", "three")

	config := DefaultConfig()
	err := config.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TWEETSEARCH_MAX_RETRY")
	assert.Equal(t, 3, config.Retry.MaxRetries)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"media mode lowercase", func(c *Config) { c.Search.Mode = "media" }, false},
		{"unknown mode", func(c *Config) { c.Search.Mode = "Trending" }, true},
		{"negative minimum", func(c *Config) { c.Search.MinimumItems = -1 }, true},
		{"zero minimum", func(c *Config) { c.Search.MinimumItems = 0 }, false},
		{"zero page size", func(c *Config) { c.Search.PageSize = 0 }, true},
		{"negative retries", func(c *Config) { c.Retry.MaxRetries = -1 }, true},
		{"inverted jitter", func(c *Config) { c.Pagination.JitterMax = time.Second }, true},
		{"negative page retries", func(c *Config) { c.Pagination.MaxPageRetries = -2 }, true},
		{"empty backend", func(c *Config) { c.Backend.Kind = "" }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()
	config.MergeCommandLineFlags(map[string]interface{}{
		"mode":        "Media",
		"min":         0,
		"concurrency": 4,
		"max-retries": 7,
		"backend":     "mock",
		"log-level":   "warn",
	})

	assert.Equal(t, "Media", config.Search.Mode)
	assert.Equal(t, 0, config.Search.MinimumItems)
	assert.Equal(t, 4, config.Search.Concurrency)
	assert.Equal(t, 7, config.Retry.MaxRetries)
	assert.Equal(t, "warn", config.Logging.Level)
}

func TestSaveAndLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	original := DefaultConfig()
	original.Search.Mode = "Latest"
	original.Pagination.MaxPageRetries = 4
	original.Pagination.JitterMin = 2 * time.Second
	require.NoError(t, original.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, "Latest", loaded.Search.Mode)
	assert.Equal(t, 4, loaded.Pagination.MaxPageRetries)
	assert.Equal(t, 2*time.Second, loaded.Pagination.JitterMin)
}

func TestLoadFromFileParsesDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
retry:
  max_retries: 2
  error_retry_delay: 3s
pagination:
  jitter_min: 1s
  jitter_max: 2s
`)
	require.NoError(t, os.WriteFile(path, content, 0600))

	config := DefaultConfig()
	require.NoError(t, config.LoadFromFile(path))
	assert.Equal(t, 2, config.Retry.MaxRetries)
	assert.Equal(t, 3*time.Second, config.Retry.ErrorRetryDelay)
	assert.Equal(t, time.Second, config.Pagination.JitterMin)
	assert.Equal(t, 2*time.Second, config.Pagination.JitterMax)
	assert.Equal(t, 5*time.Second, config.Retry.SessionRetryDelay, "unset keys keep defaults")
}

func TestLoadFromMissingFile(t *testing.T) {
	config := DefaultConfig()
	err := config.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  mode: Latest\n  minimum_items: 10\n"), 0600))
	t.Setenv("TWEETSEARCH_MINIMUM_ITEMS", "15")

	config, err := Load(path, map[string]interface{}{"max-retries": 1})
	require.NoError(t, err)

	assert.Equal(t, "Latest", config.Search.Mode)
	assert.Equal(t, 15, config.Search.MinimumItems, "environment overrides file")
	assert.Equal(t, 1, config.Retry.MaxRetries, "flags override everything")
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  mode: Everything\n"), 0600))

	_, err := Load(path, nil)
	assert.Error(t, err)
}
