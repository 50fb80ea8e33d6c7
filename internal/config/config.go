package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir      string `toml:"state_dir"`
	LogDir        string `toml:"log_dir"`
	MediaCacheDir string `toml:"media_cache_dir"`
}

// Backend contains connection settings for the announcement backend that
// hosts the translation, speech, and sign-language video collaborators.
type Backend struct {
	BaseURL        string `toml:"base_url"`
	APIToken       string `toml:"api_token"`
	RequestTimeout int    `toml:"request_timeout"`
	MediaTimeout   int    `toml:"media_timeout"`
	RetryAttempts  int    `toml:"retry_attempts"`
}

// Station identifies the operator's station. A code equal to AllCode selects
// the four-language ALL mode.
type Station struct {
	Code    string `toml:"code"`
	State   string `toml:"state"`
	AllCode string `toml:"all_code"`
}

// Languages contains the translation policy.
type Languages struct {
	// TranslationSupported lists the local languages the translation
	// collaborator accepts. Other local languages use static fallbacks.
	TranslationSupported []string `toml:"translation_supported"`
	// StateOverrides maps a state name to its local language and is merged
	// over the built-in mapping.
	StateOverrides map[string]string `toml:"state_overrides"`
}

// Media contains playback and cleanup settings.
type Media struct {
	PlayerCommand      string   `toml:"player_command"`
	PlayerArgs         []string `toml:"player_args"`
	VideoPlayerCommand string   `toml:"video_player_command"`
	// ProbeCommand, when set, is an ffprobe binary used to reject downloaded
	// media without a playable stream.
	ProbeCommand       string   `toml:"probe_command"`
	SweepDebounceMS    int      `toml:"sweep_debounce_ms"`
	SweepOnClose       bool     `toml:"sweep_on_close"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for annunciator.
//
// Configuration sections by subsystem:
//   - Paths: ledger/state, log, and media cache directories
//   - Backend: collaborator base URL, bearer token, timeouts, retries
//   - Station: operator station code and state
//   - Languages: translation support and state to language overrides
//   - Media: local player and sweep behaviour
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Backend   Backend   `toml:"backend"`
	Station   Station   `toml:"station"`
	Languages Languages `toml:"languages"`
	Media     Media     `toml:"media"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/annunciator/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("annunciator.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state, log, and media cache directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir, c.Paths.MediaCacheDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LedgerPath returns the SQLite ledger location.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Paths.StateDir, "assets.db")
}

// SweepLockPath returns the base lock path for sweeps; the sweeper derives
// one lock file per asset kind from it.
func (c *Config) SweepLockPath() string {
	return filepath.Join(c.Paths.StateDir, "sweep.lock")
}

// RequestTimeout returns the collaborator request timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Backend.RequestTimeout) * time.Second
}

// MediaTimeout returns the timeout for synthesis calls that render media.
func (c *Config) MediaTimeout() time.Duration {
	return time.Duration(c.Backend.MediaTimeout) * time.Second
}

// SweepDebounce returns the delay applied before a scheduled sweep runs.
func (c *Config) SweepDebounce() time.Duration {
	return time.Duration(c.Media.SweepDebounceMS) * time.Millisecond
}

// IsAllStation reports whether the configured station selects ALL mode.
func (c *Config) IsAllStation() bool {
	return strings.EqualFold(strings.TrimSpace(c.Station.Code), c.Station.AllCode)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
