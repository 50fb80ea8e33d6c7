package config

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var languageTitle = cases.Title(language.Und)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBackend()
	c.normalizeStation()
	c.normalizeLanguages()
	c.normalizeMedia()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.MediaCacheDir) == "" {
		c.Paths.MediaCacheDir = defaultMediaCacheDir
	}
	if c.Paths.MediaCacheDir, err = expandPath(c.Paths.MediaCacheDir); err != nil {
		return fmt.Errorf("paths.media_cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeBackend() {
	c.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(c.Backend.BaseURL), "/")
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = defaultBaseURL
	}
	if value, ok := os.LookupEnv("ANNUNCIATOR_BASE_URL"); ok && strings.TrimSpace(value) != "" {
		c.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(value), "/")
	}
	c.Backend.APIToken = strings.TrimSpace(c.Backend.APIToken)
	if c.Backend.APIToken == "" {
		if value, ok := os.LookupEnv("ANNUNCIATOR_API_TOKEN"); ok {
			c.Backend.APIToken = strings.TrimSpace(value)
		}
	}
	if c.Backend.RetryAttempts == 0 {
		c.Backend.RetryAttempts = defaultRetryAttempts
	}
}

func (c *Config) normalizeStation() {
	c.Station.Code = strings.ToUpper(strings.TrimSpace(c.Station.Code))
	c.Station.State = strings.TrimSpace(c.Station.State)
	c.Station.AllCode = strings.ToUpper(strings.TrimSpace(c.Station.AllCode))
	if c.Station.AllCode == "" {
		c.Station.AllCode = defaultAllStationCode
	}
}

func (c *Config) normalizeLanguages() {
	if c.Languages.TranslationSupported == nil {
		c.Languages.TranslationSupported = defaultTranslationSupported()
	}
	supported := make([]string, 0, len(c.Languages.TranslationSupported))
	seen := make(map[string]struct{}, len(c.Languages.TranslationSupported))
	for _, name := range c.Languages.TranslationSupported {
		name = languageTitle.String(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		supported = append(supported, name)
	}
	c.Languages.TranslationSupported = supported

	if len(c.Languages.StateOverrides) == 0 {
		return
	}
	overrides := make(map[string]string, len(c.Languages.StateOverrides))
	for state, lang := range c.Languages.StateOverrides {
		state = strings.TrimSpace(state)
		if state == "" {
			continue
		}
		overrides[state] = languageTitle.String(strings.TrimSpace(lang))
	}
	c.Languages.StateOverrides = overrides
}

func (c *Config) normalizeMedia() {
	c.Media.PlayerCommand = strings.TrimSpace(c.Media.PlayerCommand)
	if c.Media.PlayerCommand == "" {
		c.Media.PlayerCommand = defaultPlayerCommand
		if len(c.Media.PlayerArgs) == 0 {
			c.Media.PlayerArgs = defaultPlayerArgs()
		}
	}
	c.Media.ProbeCommand = strings.TrimSpace(c.Media.ProbeCommand)
	c.Media.VideoPlayerCommand = strings.TrimSpace(c.Media.VideoPlayerCommand)
	if c.Media.VideoPlayerCommand == "" {
		c.Media.VideoPlayerCommand = defaultVideoPlayerCommand
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
