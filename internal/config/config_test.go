package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to create a temp config file.
func createTempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	return path
}

const validConfigYAML = `
server:
  port: "8080"
manifest:
  sheet_url: "https://sheets.example.no/export.csv"
cms:
  content_url: "https://ez.example.no/api/content"
  secret: "file-secret"
  domain: "https://www.example.no"
  batch_size: 5
  max_concurrent_batches: 2
meta:
  author: "Forlaget"
  description_width: 120
retry:
  max_attempts: 2
  initial_delay_ms: 100
  max_delay_ms: 1000
  backoff_multiplier: 2.0
  timeout_sec: 10
logging:
  level: "debug"
  format: "json"
`

// clearEnv blanks every override so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{EnvDataSheet, EnvContentURL, EnvContentSecret, EnvContentDomain, EnvPort, EnvLogLevel, EnvLogFormat} {
		t.Setenv(key, "")
	}
}

func noEnv(string) (string, bool) {
	return "", false
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.CMS.BatchSize)
	assert.Equal(t, "no-bokmaal", cfg.Meta.ContentLanguage)
	assert.True(t, errors.Is(cfg.ValidateSources(), ErrMissingSheetURL))
}

func TestLoadConfig_File(t *testing.T) {
	clearEnv(t)

	path := createTempFile(t, "config.yaml", validConfigYAML)

	cfg, err := LoadConfig(path, "")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5, cfg.CMS.BatchSize)
	assert.Equal(t, 2, cfg.CMS.MaxConcurrentBatches)
	assert.Equal(t, "file-secret", cfg.CMS.Secret)
	assert.Equal(t, "Forlaget", cfg.Meta.Author)
	// Unset keys keep their defaults.
	assert.Equal(t, "Gyldendal Norsk Forlag", cfg.Meta.Copyright)
	assert.Equal(t, 15, cfg.Server.ReadTimeoutSec)
	require.NoError(t, cfg.ValidateSources())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvContentSecret, "env-secret")
	t.Setenv(EnvPort, "9090")

	path := createTempFile(t, "config.yaml", validConfigYAML)

	cfg, err := LoadConfig(path, "")
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.CMS.Secret)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.Unsetenv(EnvDataSheet))

	envFile := createTempFile(t, ".env", "DATA_SHEET=https://sheets.example.no/dotenv.csv\n")

	cfg, err := LoadConfig("", envFile)
	require.NoError(t, err)

	assert.Equal(t, "https://sheets.example.no/dotenv.csv", cfg.Manifest.SheetURL)
}

func TestLoadConfig_MissingEnvFileIgnored(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), "")
	require.Error(t, err)

	path := createTempFile(t, "bad.yaml", "server: [unclosed")
	_, err = LoadConfig(path, "")
	require.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		EnvDataSheet:     "https://sheet",
		EnvContentURL:    "https://ez",
		EnvContentSecret: "secret",
		EnvContentDomain: "https://www.example.no",
		EnvLogLevel:      "warn",
		EnvLogFormat:     "",
	}

	cfg.ApplyEnv(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})

	assert.Equal(t, "https://sheet", cfg.Manifest.SheetURL)
	assert.Equal(t, "https://ez", cfg.CMS.ContentURL)
	assert.Equal(t, "secret", cfg.CMS.Secret)
	assert.Equal(t, "https://www.example.no", cfg.CMS.Domain)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)

	untouched := Default()
	untouched.ApplyEnv(noEnv)
	assert.Equal(t, Default(), untouched)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"missing port", func(c *Config) { c.Server.Port = "" }, ErrMissingPort},
		{"batch size", func(c *Config) { c.CMS.BatchSize = 0 }, ErrInvalidBatchSize},
		{"concurrency", func(c *Config) { c.CMS.MaxConcurrentBatches = 0 }, ErrInvalidConcurrency},
		{"max attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }, ErrInvalidMaxAttempts},
		{"initial delay", func(c *Config) { c.Retry.InitialDelayMs = -1 }, ErrInvalidInitialDelay},
		{"backoff", func(c *Config) { c.Retry.BackoffMultiplier = 0.5 }, ErrInvalidBackoffMultiplier},
		{"timeout", func(c *Config) { c.Retry.TimeoutSec = 0 }, ErrInvalidTimeout},
		{"description width", func(c *Config) { c.Meta.DescriptionWidth = -1 }, ErrInvalidDescriptionWidth},
		{"log level", func(c *Config) { c.Logging.Level = "verbose" }, ErrInvalidLogLevel},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	cfg := Default()
	cfg.Server.Port = "http"
	require.Error(t, cfg.Validate())
}

func TestValidateSources(t *testing.T) {
	cfg := Default()
	cfg.Manifest.SheetURL = "https://sheet"

	assert.True(t, errors.Is(cfg.ValidateSources(), ErrMissingContentURL))

	cfg.CMS.ContentURL = "https://ez"
	assert.NoError(t, cfg.ValidateSources())
}

func TestRetryPolicy_GetRetryDelay(t *testing.T) {
	rp := &RetryPolicy{InitialDelayMs: 100, MaxDelayMs: 300, BackoffMultiplier: 2.0}

	assert.Equal(t, time.Duration(0), rp.GetRetryDelay(1))
	assert.Equal(t, 200*time.Millisecond, rp.GetRetryDelay(2))
	assert.Equal(t, 300*time.Millisecond, rp.GetRetryDelay(3))
	assert.Equal(t, 300*time.Millisecond, rp.GetRetryDelay(10))
}

func TestRetryPolicy_GetTimeout(t *testing.T) {
	rp := &RetryPolicy{TimeoutSec: 7}
	assert.Equal(t, 7*time.Second, rp.GetTimeout())
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	clearEnv(t)

	cfg := Default()
	cfg.Manifest.SheetURL = "https://sheet"

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path, "")
	require.NoError(t, err)
	assert.Equal(t, "https://sheet", loaded.Manifest.SheetURL)
}

func TestConfig_MetaDefaults(t *testing.T) {
	cfg := Default()
	cfg.Meta.Author = "Noen"

	defaults := cfg.MetaDefaults()
	assert.Equal(t, "Noen", defaults.Author)
	assert.Equal(t, 160, defaults.DescriptionWidth)
}
