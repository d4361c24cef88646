// Package config provides configuration loading and management for ontodoc.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/c360studio/ontodoc/fetch"
	"github.com/c360studio/ontodoc/prefix"
	"github.com/c360studio/ontodoc/render"
	"github.com/c360studio/ontodoc/weburl"
	ssconfig "github.com/c360studio/semstreams/config"
	"github.com/c360studio/semstreams/pkg/retry"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config represents the complete ontodoc configuration
type Config struct {
	Fetch    FetchConfig    `yaml:"fetch"`
	Prefixes PrefixesConfig `yaml:"prefixes"`
	Output   OutputConfig   `yaml:"output"`
}

// FetchConfig configures how ontologies, vocabularies and prefixes are
// downloaded
type FetchConfig struct {
	Timeout        time.Duration `yaml:"timeout"`
	UserAgent      string        `yaml:"user_agent"`
	MaxContentSize int64         `yaml:"max_content_size"`
	MaxRedirects   int           `yaml:"max_redirects"`
	// InsecureSkipVerify accepts invalid TLS certificates (default: true,
	// many vocabulary hosts are misconfigured)
	InsecureSkipVerify *bool `yaml:"insecure_skip_verify"`
	// BlockPrivateNetworks refuses to connect to private addresses
	BlockPrivateNetworks *bool       `yaml:"block_private_networks"`
	Retry                RetryConfig `yaml:"retry"`
}

// RetryConfig configures retries of transient fetch failures
type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
	Multiplier   float64       `yaml:"multiplier"`
}

// PrefixesConfig configures the prefix registry source
type PrefixesConfig struct {
	// URL of a JSON prefix → base URI document
	URL string `yaml:"url"`
	// File is a local alternative to URL
	File string `yaml:"file"`
}

// OutputConfig configures rendering
type OutputConfig struct {
	// Format is html, text, markdown or handlebars
	Format string `yaml:"format"`
	// Locale selects the collation used to sort labels
	Locale string `yaml:"locale"`
	// Concurrency bounds parallel label lookups per element
	Concurrency int    `yaml:"concurrency"`
	Partials    string `yaml:"partials"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	defaults := fetch.DefaultConfig()
	return &Config{
		Fetch: FetchConfig{
			Timeout:              defaults.Timeout,
			UserAgent:            defaults.UserAgent,
			MaxContentSize:       defaults.MaxContentSize,
			MaxRedirects:         defaults.MaxRedirects,
			InsecureSkipVerify:   boolPtr(defaults.InsecureSkipVerify),
			BlockPrivateNetworks: boolPtr(defaults.BlockPrivateNetworks),
			Retry: RetryConfig{
				MaxAttempts:  defaults.Retry.MaxAttempts,
				InitialDelay: defaults.Retry.InitialDelay,
				MaxDelay:     defaults.Retry.MaxDelay,
				Multiplier:   defaults.Retry.Multiplier,
			},
		},
		Prefixes: PrefixesConfig{
			URL: prefix.DefaultSourceURL,
		},
		Output: OutputConfig{
			Format:      string(render.FormatHTML),
			Locale:      "en",
			Concurrency: 4,
		},
	}
}

func boolPtr(b bool) *bool {
	return &b
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive")
	}
	if c.Fetch.MaxContentSize <= 0 {
		return fmt.Errorf("fetch.max_content_size must be positive")
	}
	if c.Fetch.MaxRedirects < 0 {
		return fmt.Errorf("fetch.max_redirects must not be negative")
	}
	if c.Fetch.Retry.MaxAttempts < 1 {
		return fmt.Errorf("fetch.retry.max_attempts must be at least 1")
	}
	if c.Fetch.Retry.InitialDelay < time.Millisecond {
		return fmt.Errorf("fetch.retry.initial_delay must be at least 1ms")
	}
	if c.Fetch.Retry.MaxDelay < c.Fetch.Retry.InitialDelay {
		return fmt.Errorf("fetch.retry.max_delay must not be less than initial_delay")
	}
	if c.Fetch.Retry.Multiplier < 1 {
		return fmt.Errorf("fetch.retry.multiplier must be at least 1")
	}
	if c.Prefixes.URL != "" {
		if err := weburl.ValidateURL(c.Prefixes.URL); err != nil {
			return fmt.Errorf("prefixes.url: %w", err)
		}
	}
	if _, err := render.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if c.Output.Locale != "" {
		if _, err := language.Parse(c.Output.Locale); err != nil {
			return fmt.Errorf("output.locale: %w", err)
		}
	}
	if c.Output.Concurrency < 0 {
		return fmt.Errorf("output.concurrency must not be negative")
	}
	return nil
}

// FetchOptions converts the fetch section for the fetch client
func (c *Config) FetchOptions() fetch.Config {
	return fetch.Config{
		Timeout:              c.Fetch.Timeout,
		UserAgent:            c.Fetch.UserAgent,
		MaxContentSize:       c.Fetch.MaxContentSize,
		MaxRedirects:         c.Fetch.MaxRedirects,
		InsecureSkipVerify:   c.Fetch.InsecureSkipVerify != nil && *c.Fetch.InsecureSkipVerify,
		BlockPrivateNetworks: c.Fetch.BlockPrivateNetworks != nil && *c.Fetch.BlockPrivateNetworks,
		Retry: retry.Config{
			MaxAttempts:  c.Fetch.Retry.MaxAttempts,
			InitialDelay: c.Fetch.Retry.InitialDelay,
			MaxDelay:     c.Fetch.Retry.MaxDelay,
			Multiplier:   c.Fetch.Retry.Multiplier,
			AddJitter:    true,
		},
	}
}

// LoadFromFile loads configuration from a YAML file. ${VAR} and
// ${VAR:-default} references are expanded before parsing.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := ssconfig.ExpandEnvWithDefaults(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Fetch
	if other.Fetch.Timeout != 0 {
		c.Fetch.Timeout = other.Fetch.Timeout
	}
	if other.Fetch.UserAgent != "" {
		c.Fetch.UserAgent = other.Fetch.UserAgent
	}
	if other.Fetch.MaxContentSize != 0 {
		c.Fetch.MaxContentSize = other.Fetch.MaxContentSize
	}
	if other.Fetch.MaxRedirects != 0 {
		c.Fetch.MaxRedirects = other.Fetch.MaxRedirects
	}
	if other.Fetch.InsecureSkipVerify != nil {
		c.Fetch.InsecureSkipVerify = boolPtr(*other.Fetch.InsecureSkipVerify)
	}
	if other.Fetch.BlockPrivateNetworks != nil {
		c.Fetch.BlockPrivateNetworks = boolPtr(*other.Fetch.BlockPrivateNetworks)
	}
	if other.Fetch.Retry.MaxAttempts != 0 {
		c.Fetch.Retry.MaxAttempts = other.Fetch.Retry.MaxAttempts
	}
	if other.Fetch.Retry.InitialDelay != 0 {
		c.Fetch.Retry.InitialDelay = other.Fetch.Retry.InitialDelay
	}
	if other.Fetch.Retry.MaxDelay != 0 {
		c.Fetch.Retry.MaxDelay = other.Fetch.Retry.MaxDelay
	}
	if other.Fetch.Retry.Multiplier != 0 {
		c.Fetch.Retry.Multiplier = other.Fetch.Retry.Multiplier
	}

	// Prefixes: a file replaces the URL and the other way round
	if other.Prefixes.URL != "" {
		c.Prefixes.URL = other.Prefixes.URL
		c.Prefixes.File = ""
	}
	if other.Prefixes.File != "" {
		c.Prefixes.File = other.Prefixes.File
	}

	// Output
	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.Locale != "" {
		c.Output.Locale = other.Output.Locale
	}
	if other.Output.Concurrency != 0 {
		c.Output.Concurrency = other.Output.Concurrency
	}
	if other.Output.Partials != "" {
		c.Output.Partials = other.Output.Partials
	}
}
