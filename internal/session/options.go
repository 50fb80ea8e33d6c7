package session

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"annunciator/internal/language"
	"annunciator/internal/media"
)

type options struct {
	id                   string
	ledger               media.SweepLedger
	handles              *media.HandleStore
	player               media.Player
	opener               media.Opener
	prober               media.Prober
	observer             media.Observer
	logger               *slog.Logger
	sweepLock            string
	debounce             time.Duration
	sweepOnClose         bool
	skipReclaim          bool
	noTranslation        bool
	translationSupported []language.Language
}

// Option customizes a session.
type Option func(*options)

// WithID overrides the generated session identifier.
func WithID(id string) Option {
	return func(o *options) {
		if id != "" {
			o.id = id
		}
	}
}

// WithLedger records and reclaims server files through l.
func WithLedger(l media.SweepLedger) Option {
	return func(o *options) {
		o.ledger = l
	}
}

// WithHandleStore sets where client-side media handles live.
func WithHandleStore(store *media.HandleStore) Option {
	return func(o *options) {
		o.handles = store
	}
}

// WithPlayer sets the audio player.
func WithPlayer(p media.Player) Option {
	return func(o *options) {
		o.player = p
	}
}

// WithOpener sets the sign-video viewer.
func WithOpener(op media.Opener) Option {
	return func(o *options) {
		o.opener = op
	}
}

// WithProber checks every downloaded file before it is used.
func WithProber(p media.Prober) Option {
	return func(o *options) {
		o.prober = p
	}
}

// WithObserver receives every media transition.
func WithObserver(observer media.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithLogger sets the logger shared by the session's components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSweepLock serializes sweeps across processes through a lock file.
func WithSweepLock(path string) Option {
	return func(o *options) {
		o.sweepLock = path
	}
}

// WithSweepDebounce sets the delay before a scheduled sweep runs.
func WithSweepDebounce(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.debounce = d
		}
	}
}

// WithSweepOnClose controls the closing sweep.
func WithSweepOnClose(enabled bool) Option {
	return func(o *options) {
		o.sweepOnClose = enabled
	}
}

// WithoutReclaim skips reclaiming earlier sessions' files on open.
func WithoutReclaim() Option {
	return func(o *options) {
		o.skipReclaim = true
	}
}

// WithoutTranslation composes from the built-in sentences only.
func WithoutTranslation() Option {
	return func(o *options) {
		o.noTranslation = true
	}
}

// WithTranslationSupported sets the local languages the translator accepts.
func WithTranslationSupported(langs ...language.Language) Option {
	return func(o *options) {
		o.translationSupported = append([]language.Language(nil), langs...)
	}
}

func defaultHandleDir() string {
	return filepath.Join(os.TempDir(), "annunciator-media")
}
