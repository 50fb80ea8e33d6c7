package config

const (
	defaultStateDir           = "~/.local/share/annunciator"
	defaultLogDir             = "~/.local/share/annunciator/logs"
	defaultMediaCacheDir      = "~/.cache/annunciator/media"
	defaultBaseURL            = "http://localhost:8000"
	defaultRequestTimeout     = 30
	defaultMediaTimeout       = 300
	defaultRetryAttempts      = 3
	defaultAllStationCode     = "ALL"
	defaultPlayerCommand      = "ffplay"
	defaultVideoPlayerCommand = "xdg-open"
	defaultSweepDebounceMS    = 1500
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

func defaultPlayerArgs() []string {
	return []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}
}

func defaultTranslationSupported() []string {
	return []string{"Gujarati", "Marathi"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:      defaultStateDir,
			LogDir:        defaultLogDir,
			MediaCacheDir: defaultMediaCacheDir,
		},
		Backend: Backend{
			BaseURL:        defaultBaseURL,
			RequestTimeout: defaultRequestTimeout,
			MediaTimeout:   defaultMediaTimeout,
			RetryAttempts:  defaultRetryAttempts,
		},
		Station: Station{
			AllCode: defaultAllStationCode,
		},
		Languages: Languages{
			TranslationSupported: defaultTranslationSupported(),
		},
		Media: Media{
			PlayerCommand:      defaultPlayerCommand,
			PlayerArgs:         defaultPlayerArgs(),
			VideoPlayerCommand: defaultVideoPlayerCommand,
			SweepDebounceMS:    defaultSweepDebounceMS,
			SweepOnClose:       true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
