package media

import (
	"context"
	"errors"
	"strings"

	"annunciator/internal/backend"
	"annunciator/internal/logging"
	"annunciator/internal/services"
)

// VideoManager drives sign-language video from request to a Ready handle.
// Playback is delegated to a native viewer, so a finished viewing does not
// delete anything; the asset is deleted when regenerated or closed.
type VideoManager struct {
	*machine
	backend VideoBackend
	opener  Opener
}

// NewVideoManager constructs a video manager.
func NewVideoManager(client VideoBackend, opts ...Option) *VideoManager {
	cfg := buildConfig(opts)
	return &VideoManager{
		machine: newMachine(backend.AssetVideo, client, cfg),
		backend: client,
		opener:  cfg.opener,
	}
}

// Snapshot returns the current state.
func (m *VideoManager) Snapshot() State {
	return m.snapshot()
}

// Generate discards any previous video, then synthesizes and fetches a new
// one from English text. It returns in Ready, or with ErrSuperseded.
func (m *VideoManager) Generate(ctx context.Context, english string) (State, error) {
	if strings.TrimSpace(english) == "" {
		return m.snapshot(), services.Wrap(services.KindValidation, "generate sign video", "english text is empty", nil)
	}
	m.enter()
	defer m.exit()
	ctx = m.requestContext(ctx)
	logger := logging.WithContext(ctx, m.logger)

	gen, old := m.begin()
	if old != nil {
		_ = m.cleanup(ctx, old, "replaced")
	}

	result, err := m.backend.SynthesizeSignVideo(ctx, english)
	if err != nil {
		return m.failWith(ctx, gen, nil, err)
	}
	a := &asset{gen: gen, kind: backend.AssetVideo, filename: result.Filename, url: result.URL}
	m.record(ctx, a)
	logger.Debug("sign video synthesized", logging.String("filename", a.filename), logging.Int64("size", result.Size))
	if !m.advance(gen, PhaseFetching, a) {
		return m.abandon(ctx, a)
	}

	if err := m.fetch(ctx, m.backend, a); err != nil {
		return m.failWith(ctx, gen, a, err)
	}
	if !m.advance(gen, PhaseReady, a) {
		return m.abandon(ctx, a)
	}
	return m.snapshot(), nil
}

// Open shows the ready video in the native viewer. The asset stays Ready so
// the operator can watch it again. A concurrent Close waits for the viewer to
// start before it releases the local copy.
func (m *VideoManager) Open(ctx context.Context) (State, error) {
	if m.opener == nil {
		if m.snapshot().Phase != PhaseReady {
			return m.snapshot(), services.Wrap(services.KindValidation, "open sign video", "no sign video is ready", nil)
		}
		return m.snapshot(), services.Wrap(services.KindPlayback, "open sign video", "local playback failed", errors.New("no video player configured"))
	}
	a, ok := m.pin(PhaseReady)
	if !ok {
		return m.snapshot(), services.Wrap(services.KindValidation, "open sign video", "no sign video is ready", nil)
	}
	err := m.opener.Open(ctx, a.handle.Path)
	a.unpin()
	if err != nil {
		return m.snapshot(), services.Wrap(services.KindPlayback, "open sign video", "local playback failed", err)
	}
	return m.snapshot(), nil
}

// Close deletes the live video and waits for in-flight requests. It is safe
// to call repeatedly.
func (m *VideoManager) Close(ctx context.Context) error {
	a := m.detach()
	_ = m.cleanup(ctx, a, "closed")
	return m.drain(ctx)
}
