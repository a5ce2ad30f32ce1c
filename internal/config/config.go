// Package config loads runtime settings from a .env file and the
// environment. Command-line flags override what is loaded here.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/logger"
)

// Environment variable names.
const (
	EnvLogLevel  = "OTTOPLAN_LOG_LEVEL"
	EnvLogFile   = "OTTOPLAN_LOG_FILE"
	EnvMode      = "OTTOPLAN_MODE"
	EnvCacheDir  = "OTTOPLAN_CACHE_DIR"
	EnvKeywords  = "OTTOPLAN_KEYWORDS"
	EnvAPIKey    = "OPENAI_API_KEY"
	EnvAPIBase   = "OPENAI_API_BASE"
	EnvModel     = "OPENAI_MODEL"
	defaultModel = "gpt-4o-mini"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel logger.Level
	LogFile  string // empty means stderr
	Mode     domain.Mode

	// CacheDir enables the on-disk schedule cache when set.
	CacheDir string
	// KeywordsPath points at a YAML file merged over the built-in rules.
	KeywordsPath string

	OpenAIAPIKey  string
	OpenAIAPIBase string
	OpenAIModel   string
}

// Load reads the given .env files (".env" when none are named) and then the
// environment. A missing default .env is not an error; a missing file that
// was named explicitly is.
func Load(files ...string) (*Config, error) {
	explicit := len(files) > 0
	if err := godotenv.Load(files...); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load env file: %w", err)
		}
	}

	cfg := &Config{
		LogFile:       os.Getenv(EnvLogFile),
		CacheDir:      os.Getenv(EnvCacheDir),
		KeywordsPath:  os.Getenv(EnvKeywords),
		OpenAIAPIKey:  os.Getenv(EnvAPIKey),
		OpenAIAPIBase: os.Getenv(EnvAPIBase),
		OpenAIModel:   getEnvWithDefault(EnvModel, defaultModel),
	}

	level, err := logger.ParseLevel(os.Getenv(EnvLogLevel))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", EnvLogLevel, err)
	}
	cfg.LogLevel = level

	mode, err := domain.ParseMode(os.Getenv(EnvMode))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", EnvMode, err)
	}
	cfg.Mode = mode

	return cfg, nil
}

// StructurerEnabled reports whether an LLM key is configured.
func (c *Config) StructurerEnabled() bool { return c.OpenAIAPIKey != "" }

// String renders the configuration with secrets redacted.
func (c Config) String() string {
	key := c.OpenAIAPIKey
	switch {
	case key == "":
		key = "(unset)"
	case len(key) > 8:
		key = key[:8] + "...REDACTED..."
	default:
		key = "...REDACTED..."
	}
	return fmt.Sprintf("log=%s mode=%s cache=%q keywords=%q openai_base=%q openai_model=%s openai_key=%s",
		c.LogLevel, c.Mode, c.CacheDir, c.KeywordsPath, c.OpenAIAPIBase, c.OpenAIModel, key)
}

// getEnvWithDefault returns the value of the environment variable or the default value.
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
