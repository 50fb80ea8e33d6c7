package media

import (
	"context"
	"time"

	"annunciator/internal/announcement"
	"annunciator/internal/backend"
	"annunciator/internal/ledger"
)

// Fetcher downloads asset bytes.
type Fetcher interface {
	Fetch(ctx context.Context, link string) (backend.Payload, error)
}

// Deleter removes one server-side asset. Missing assets are not an error.
type Deleter interface {
	Delete(ctx context.Context, kind backend.AssetKind, filename string) error
}

// AudioBackend is what AudioManager needs from the backend.
type AudioBackend interface {
	Fetcher
	Deleter
	SynthesizeSpeech(ctx context.Context, script announcement.SpeechScript) (backend.SpeechResult, error)
}

// VideoBackend is what VideoManager needs from the backend.
type VideoBackend interface {
	Fetcher
	Deleter
	SynthesizeSignVideo(ctx context.Context, english string) (backend.SignVideoResult, error)
}

// SweepBackend is what Sweeper needs from the backend.
type SweepBackend interface {
	Deleter
	Sweep(ctx context.Context, kind backend.AssetKind) (backend.SweepResult, error)
}

// Ledger tracks issued server files.
type Ledger interface {
	Record(ctx context.Context, sessionID string, kind backend.AssetKind, filename, url string) (*ledger.Asset, error)
	MarkDeleted(ctx context.Context, kind backend.AssetKind, filename string) (int64, error)
	MarkFailed(ctx context.Context, kind backend.AssetKind, filename string, cause error) (int64, error)
}

// SweepLedger adds the queries Sweeper needs.
type SweepLedger interface {
	Ledger
	MarkSwept(ctx context.Context, kind backend.AssetKind, cutoff time.Time) (int64, error)
	Pending(ctx context.Context, excludeSession string) ([]*ledger.Asset, error)
}

// Scheduler queues a debounced sweep.
type Scheduler interface {
	Schedule(kind backend.AssetKind)
}

// Prober confirms a stored file holds a stream of codecType ("audio" or
// "video") and reports its duration.
type Prober interface {
	Check(ctx context.Context, path, codecType string) (time.Duration, error)
}
