// Package config loads olive's runtime configuration from the environment
// and builds the process logger.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is the environment-derived configuration. Command-line flags
// override these values.
type Config struct {
	DBPath          string `env:"OLIVE_DB"                envDefault:"olive.db"`
	SettingsPath    string `env:"OLIVE_SETTINGS"          envDefault:"olive-settings.yaml"`
	LogLevel        string `env:"OLIVE_LOG_LEVEL"         envDefault:"info"`
	LogFile         string `env:"OLIVE_LOG_FILE"`
	LogMaxSizeMB    int    `env:"OLIVE_LOG_MAX_SIZE_MB"   envDefault:"10"`
	SuggestionLimit int    `env:"OLIVE_SUGGESTION_LIMIT"  envDefault:"8"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the environment configuration.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env.Parse cannot.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("OLIVE_DB must not be empty"))
	}
	if strings.TrimSpace(c.SettingsPath) == "" {
		errs = append(errs, errors.New("OLIVE_SETTINGS must not be empty"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("OLIVE_LOG_LEVEL: %w", err))
	}
	if c.LogMaxSizeMB <= 0 {
		errs = append(errs, fmt.Errorf("OLIVE_LOG_MAX_SIZE_MB must be positive, got %d", c.LogMaxSizeMB))
	}
	if c.SuggestionLimit <= 0 {
		errs = append(errs, fmt.Errorf("OLIVE_SUGGESTION_LIMIT must be positive, got %d", c.SuggestionLimit))
	}
	return errors.Join(errs...)
}
