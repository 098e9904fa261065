package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for tweetsearch
type Config struct {
	// Account used when no session cookies are cached
	Credentials CredentialsConfig `yaml:"credentials" json:"credentials"`

	// Session cookie cache
	Session SessionConfig `yaml:"session" json:"session"`

	// Defaults applied to search requests
	Search SearchConfig `yaml:"search" json:"search"`

	// Outer attempt loop
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Page accumulation pacing and rate limit handling
	Pagination PaginationConfig `yaml:"pagination" json:"pagination"`

	// Client side request pacing
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Which collaborator backs the search session
	Backend BackendConfig `yaml:"backend" json:"backend"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// CredentialsConfig identifies the account to log in with
type CredentialsConfig struct {
	Username string `yaml:"username" json:"username"`
	Email    string `yaml:"email" json:"email"`
	Password string `yaml:"password" json:"-"`
}

// SessionConfig holds cookie cache settings
type SessionConfig struct {
	CookiesFile string `yaml:"cookies_file" json:"cookies_file"`
}

// SearchConfig holds request defaults
type SearchConfig struct {
	Mode         string `yaml:"mode" json:"mode"`
	MinimumItems int    `yaml:"minimum_items" json:"minimum_items"`
	PageSize     int    `yaml:"page_size" json:"page_size"`
	Concurrency  int    `yaml:"concurrency" json:"concurrency"`
}

// RetryConfig holds outer retry loop settings
type RetryConfig struct {
	MaxRetries        int           `yaml:"max_retries" json:"max_retries"`
	SessionRetryDelay time.Duration `yaml:"session_retry_delay" json:"session_retry_delay"`
	ErrorRetryDelay   time.Duration `yaml:"error_retry_delay" json:"error_retry_delay"`
}

// PaginationConfig holds page accumulation settings
type PaginationConfig struct {
	JitterMin time.Duration `yaml:"jitter_min" json:"jitter_min"`
	JitterMax time.Duration `yaml:"jitter_max" json:"jitter_max"`
	// ErrorRetryDelay is the pause after a failed next-page fetch
	ErrorRetryDelay time.Duration `yaml:"error_retry_delay" json:"error_retry_delay"`
	// MaxPageRetries caps the retries of one page after its first failed fetch
	// (0 means unlimited)
	MaxPageRetries int `yaml:"max_page_retries" json:"max_page_retries"`
	// Rate limit wait: max(reset - now + Padding, MinWait), or DefaultWait without a reset time
	RateLimitDefaultWait time.Duration `yaml:"rate_limit_default_wait" json:"rate_limit_default_wait"`
	RateLimitMinWait     time.Duration `yaml:"rate_limit_min_wait" json:"rate_limit_min_wait"`
	RateLimitPadding     time.Duration `yaml:"rate_limit_padding" json:"rate_limit_padding"`
}

// RateLimitConfig holds client side pacing configuration
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
	BurstSize         int `yaml:"burst_size" json:"burst_size"`
}

// BackendConfig selects the session collaborator
type BackendConfig struct {
	Kind string `yaml:"kind" json:"kind"`
	// Pages and FailEvery shape the mock backend
	Pages     int   `yaml:"pages" json:"pages"`
	FailEvery int   `yaml:"fail_every" json:"fail_every"`
	Seed      int64 `yaml:"seed" json:"seed"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with the stock timings
func DefaultConfig() *Config {
	return &Config{
		Session: SessionConfig{
			CookiesFile: defaultCookiesFile(),
		},
		Search: SearchConfig{
			Mode:         "Top",
			MinimumItems: 30,
			PageSize:     20,
			Concurrency:  1,
		},
		Retry: RetryConfig{
			MaxRetries:        3,
			SessionRetryDelay: 5 * time.Second,
			ErrorRetryDelay:   10 * time.Second,
		},
		Pagination: PaginationConfig{
			JitterMin:            5 * time.Second,
			JitterMax:            10 * time.Second,
			ErrorRetryDelay:      10 * time.Second,
			MaxPageRetries:       0,
			RateLimitDefaultWait: 120 * time.Second,
			RateLimitMinWait:     60 * time.Second,
			RateLimitPadding:     5 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 0,
			BurstSize:         1,
		},
		Backend: BackendConfig{
			Kind:  "mock",
			Pages: 5,
			Seed:  1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from TWEETSEARCH_* environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}

	setString("TWEETSEARCH_USERNAME", &c.Credentials.Username)
	setString("TWEETSEARCH_EMAIL", &c.Credentials.Email)
	setString("TWEETSEARCH_PASSWORD", &c.Credentials.Password)
	setString("TWEETSEARCH_COOKIES_FILE", &c.Session.CookiesFile)
	setString("TWEETSEARCH_MODE", &c.Search.Mode)
	setInt("TWEETSEARCH_MINIMUM_ITEMS", &c.Search.MinimumItems)
	setInt("TWEETSEARCH_MAX_RETRY", &c.Retry.MaxRetries)
	setInt("TWEETSEARCH_MAX_PAGE_RETRIES", &c.Pagination.MaxPageRetries)
	setInt("TWEETSEARCH_REQUESTS_PER_MINUTE", &c.RateLimit.RequestsPerMinute)
	setString("TWEETSEARCH_BACKEND", &c.Backend.Kind)
	setString("TWEETSEARCH_LOG_LEVEL", &c.Logging.Level)
	setString("TWEETSEARCH_LOG_FILE", &c.Logging.File)

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".tweetsearch.yaml",
		".tweetsearch.yml",
		filepath.Join(home, ".config", "tweetsearch", "config.yaml"),
		filepath.Join(home, ".tweetsearch.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	validModes := map[string]bool{"top": true, "latest": true, "media": true}
	if !validModes[strings.ToLower(c.Search.Mode)] {
		errs = append(errs, fmt.Errorf("invalid search mode %q", c.Search.Mode))
	}
	if c.Search.MinimumItems < 0 {
		errs = append(errs, errors.New("minimum items cannot be negative"))
	}
	if c.Search.PageSize <= 0 {
		errs = append(errs, errors.New("page size must be positive"))
	}
	if c.Search.Concurrency <= 0 {
		errs = append(errs, errors.New("concurrency must be positive"))
	}

	if c.Retry.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}
	if c.Retry.SessionRetryDelay < 0 || c.Retry.ErrorRetryDelay < 0 {
		errs = append(errs, errors.New("retry delays cannot be negative"))
	}

	if c.Pagination.JitterMin < 0 || c.Pagination.JitterMax < c.Pagination.JitterMin {
		errs = append(errs, errors.New("pagination jitter range is invalid"))
	}
	if c.Pagination.MaxPageRetries < 0 {
		errs = append(errs, errors.New("max page retries cannot be negative"))
	}
	if c.Pagination.RateLimitDefaultWait < 0 || c.Pagination.RateLimitMinWait < 0 {
		errs = append(errs, errors.New("rate limit waits cannot be negative"))
	}

	if c.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("requests per minute cannot be negative"))
	}

	if c.Backend.Kind == "" {
		errs = append(errs, errors.New("backend kind is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if mode, ok := flags["mode"].(string); ok && mode != "" {
		c.Search.Mode = mode
	}
	if minimum, ok := flags["min"].(int); ok && minimum >= 0 {
		c.Search.MinimumItems = minimum
	}
	if concurrency, ok := flags["concurrency"].(int); ok && concurrency > 0 {
		c.Search.Concurrency = concurrency
	}
	if retries, ok := flags["max-retries"].(int); ok && retries >= 0 {
		c.Retry.MaxRetries = retries
	}
	if backend, ok := flags["backend"].(string); ok && backend != "" {
		c.Backend.Kind = backend
	}
	if cookies, ok := flags["cookies"].(string); ok && cookies != "" {
		c.Session.CookiesFile = cookies
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".tweetsearch.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// defaultCookiesFile returns cookies.json under the user config directory
func defaultCookiesFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "cookies.json"
	}
	return filepath.Join(dir, "tweetsearch", "cookies.json")
}
