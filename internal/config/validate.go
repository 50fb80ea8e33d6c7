package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"annunciator/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBackend(); err != nil {
		return err
	}
	if err := c.validateStation(); err != nil {
		return err
	}
	if err := c.validateLanguages(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateBackend() error {
	parsed, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("backend.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("backend.base_url must use http or https, got %q", c.Backend.BaseURL)
	}
	if parsed.Host == "" {
		return errors.New("backend.base_url must include a host")
	}
	if c.Backend.RequestTimeout <= 0 {
		return errors.New("backend.request_timeout must be positive")
	}
	if c.Backend.MediaTimeout <= 0 {
		return errors.New("backend.media_timeout must be positive")
	}
	if c.Backend.RetryAttempts < 1 || c.Backend.RetryAttempts > 10 {
		return errors.New("backend.retry_attempts must be between 1 and 10")
	}
	return nil
}

func (c *Config) validateStation() error {
	for _, r := range c.Station.Code {
		if r == ' ' || r == '\t' {
			return fmt.Errorf("station.code must not contain whitespace, got %q", c.Station.Code)
		}
	}
	return nil
}

func (c *Config) validateLanguages() error {
	for _, name := range c.Languages.TranslationSupported {
		if _, ok := language.Lookup(name); !ok {
			return fmt.Errorf("languages.translation_supported: unknown language %q", name)
		}
	}
	for state, lang := range c.Languages.StateOverrides {
		if lang == "" {
			return fmt.Errorf("languages.state_overrides[%q] must name a language", state)
		}
		if _, ok := language.Lookup(lang); !ok {
			return fmt.Errorf("languages.state_overrides[%q]: unknown language %q", state, lang)
		}
	}
	return nil
}

func (c *Config) validateMedia() error {
	if strings.ContainsAny(c.Media.PlayerCommand, "\n\r") {
		return errors.New("media.player_command must be a single command")
	}
	if c.Media.SweepDebounceMS < 0 || c.Media.SweepDebounceMS > 60_000 {
		return errors.New("media.sweep_debounce_ms must be between 0 and 60000")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
