package session

import (
	"log/slog"

	"annunciator/internal/config"
	"annunciator/internal/language"
	"annunciator/internal/media"
	"annunciator/internal/media/ffprobe"
)

// PlanFor resolves the configured station into a language plan.
func PlanFor(cfg *config.Config) language.Plan {
	mapping := language.NewStateMapping(cfg.Languages.StateOverrides)
	return language.ResolvePlan(cfg.Station.Code, cfg.Station.State, mapping, cfg.Station.AllCode)
}

// ConfigOptions translates configuration into session options. Callers
// append a ledger and any overrides.
func ConfigOptions(cfg *config.Config, logger *slog.Logger) []Option {
	supported := make([]language.Language, 0, len(cfg.Languages.TranslationSupported))
	for _, name := range cfg.Languages.TranslationSupported {
		if lang, ok := language.Lookup(name); ok {
			supported = append(supported, lang)
		}
	}
	opts := []Option{
		WithLogger(logger),
		WithHandleStore(media.NewHandleStore(cfg.Paths.MediaCacheDir)),
		WithPlayer(media.NewExecPlayer(cfg.Media.PlayerCommand, cfg.Media.PlayerArgs)),
		WithOpener(media.ExecOpener{Command: cfg.Media.VideoPlayerCommand}),
		WithSweepLock(cfg.SweepLockPath()),
		WithSweepDebounce(cfg.SweepDebounce()),
		WithSweepOnClose(cfg.Media.SweepOnClose),
		WithTranslationSupported(supported...),
	}
	if cfg.Media.ProbeCommand != "" {
		opts = append(opts, WithProber(ffprobe.Checker{Binary: cfg.Media.ProbeCommand}))
	}
	return opts
}
