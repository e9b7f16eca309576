// Package config provides configuration management for the export service.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"ezexport/internal/normalizer"
)

// Configuration validation errors.
var (
	ErrMissingSheetURL          = errors.New("manifest.sheet_url is required (DATA_SHEET)")
	ErrMissingContentURL        = errors.New("cms.content_url is required (EZ_CONTENT_URL)")
	ErrInvalidBatchSize         = errors.New("cms.batch_size must be at least 1")
	ErrInvalidConcurrency       = errors.New("cms.max_concurrent_batches must be at least 1")
	ErrInvalidMaxAttempts       = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("retry.timeout_sec must be at least 1")
	ErrInvalidDescriptionWidth  = errors.New("meta.description_width must be non-negative")
	ErrMissingPort              = errors.New("server.port is required")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat         = errors.New("logging.format must be 'text' or 'json'")
)

// Environment variables that override the file configuration.
const (
	EnvDataSheet     = "DATA_SHEET"
	EnvContentURL    = "EZ_CONTENT_URL"
	EnvContentSecret = "EZ_CONTENT_SECRET"
	EnvContentDomain = "EZ_CONTENT_DOMAIN"
	EnvPort          = "PORT"
	EnvLogLevel      = "LOG_LEVEL"
	EnvLogFormat     = "LOG_FORMAT"
)

// Config represents the complete export service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Manifest ManifestConfig `yaml:"manifest"`
	CMS      CMSConfig      `yaml:"cms"`
	Meta     MetaConfig     `yaml:"meta"`
	Logging  LoggingConfig  `yaml:"logging"`
	Retry    RetryPolicy    `yaml:"retry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string `yaml:"port"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	IdleTimeoutSec  int    `yaml:"idle_timeout_sec"`
}

// ManifestConfig locates the spreadsheet export listing pages to migrate.
type ManifestConfig struct {
	SheetURL string `yaml:"sheet_url"`
}

// CMSConfig holds legacy CMS API settings.
type CMSConfig struct {
	ContentURL           string `yaml:"content_url"`
	Secret               string `yaml:"secret"`
	Domain               string `yaml:"domain"`
	BatchSize            int    `yaml:"batch_size"`
	MaxConcurrentBatches int    `yaml:"max_concurrent_batches"`
}

// MetaConfig holds the constant parts of exported meta tags.
type MetaConfig struct {
	ContentLanguage  string `yaml:"content_language"`
	Author           string `yaml:"author"`
	Copyright        string `yaml:"copyright"`
	OpenGraphType    string `yaml:"open_graph_type"`
	DescriptionWidth int    `yaml:"description_width"`
}

// RetryPolicy defines retry behavior for outbound requests.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	meta := normalizer.DefaultMetaDefaults()

	return &Config{
		Server: ServerConfig{
			Port:            "3000",
			ReadTimeoutSec:  15,
			WriteTimeoutSec: 120,
			IdleTimeoutSec:  60,
		},
		CMS: CMSConfig{
			BatchSize:            10,
			MaxConcurrentBatches: 4,
		},
		Meta: MetaConfig{
			ContentLanguage:  meta.ContentLanguage,
			Author:           meta.Author,
			Copyright:        meta.Copyright,
			OpenGraphType:    meta.OpenGraphType,
			DescriptionWidth: meta.DescriptionWidth,
		},
		Retry: RetryPolicy{
			MaxAttempts:       3,
			InitialDelayMs:    500,
			MaxDelayMs:        10000,
			BackoffMultiplier: 2.0,
			TimeoutSec:        30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file,
// an optional .env file and the process environment, in increasing precedence.
func LoadConfig(filepath, envFile string) (*Config, error) {
	cfg := Default()

	if filepath != "" {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := LoadDotEnv(envFile); err != nil {
		return nil, err
	}

	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads a .env file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}

	return nil
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	override := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	override(&c.Manifest.SheetURL, EnvDataSheet)
	override(&c.CMS.ContentURL, EnvContentURL)
	override(&c.CMS.Secret, EnvContentSecret)
	override(&c.CMS.Domain, EnvContentDomain)
	override(&c.Server.Port, EnvPort)
	override(&c.Logging.Level, EnvLogLevel)
	override(&c.Logging.Format, EnvLogFormat)
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates settings every command needs.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return ErrMissingPort
	}

	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server.port %q is not a number: %w", c.Server.Port, err)
	}

	if c.CMS.BatchSize < 1 {
		return ErrInvalidBatchSize
	}

	if c.CMS.MaxConcurrentBatches < 1 {
		return ErrInvalidConcurrency
	}

	// Validate retry policy
	if c.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if c.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if c.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Meta.DescriptionWidth < 0 {
		return ErrInvalidDescriptionWidth
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// ValidateSources checks the remote endpoints needed to fetch pages.
func (c *Config) ValidateSources() error {
	if c.Manifest.SheetURL == "" {
		return ErrMissingSheetURL
	}

	if c.CMS.ContentURL == "" {
		return ErrMissingContentURL
	}

	return nil
}

// MetaDefaults converts the meta settings for the normalizer.
func (c *Config) MetaDefaults() normalizer.MetaDefaults {
	return normalizer.MetaDefaults{
		ContentLanguage:  c.Meta.ContentLanguage,
		Author:           c.Meta.Author,
		Copyright:        c.Meta.Copyright,
		OpenGraphType:    c.Meta.OpenGraphType,
		DescriptionWidth: c.Meta.DescriptionWidth,
	}
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	// Cap at max delay
	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// Timeouts returns the server read, write and idle timeouts.
func (s *ServerConfig) Timeouts() (read, write, idle time.Duration) {
	return time.Duration(s.ReadTimeoutSec) * time.Second,
		time.Duration(s.WriteTimeoutSec) * time.Second,
		time.Duration(s.IdleTimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %s, Sheet: %t, CMS: %s, Batch: %dx%d, MaxAttempts: %d}",
		c.Server.Port,
		c.Manifest.SheetURL != "",
		c.CMS.ContentURL,
		c.CMS.BatchSize,
		c.CMS.MaxConcurrentBatches,
		c.Retry.MaxAttempts,
	)
}
