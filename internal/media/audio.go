package media

import (
	"context"
	"errors"

	"annunciator/internal/announcement"
	"annunciator/internal/backend"
	"annunciator/internal/logging"
	"annunciator/internal/services"
)

// AudioManager drives synthesized announcement audio from request through
// playback to deletion. At most one asset is playing at any time.
type AudioManager struct {
	*machine
	backend AudioBackend
	player  Player
	sweeper Scheduler
}

// NewAudioManager constructs an audio manager. A player is required for
// Generate to reach Playing; without one Generate fails with a playback
// error after fetching.
func NewAudioManager(client AudioBackend, opts ...Option) *AudioManager {
	cfg := buildConfig(opts)
	return &AudioManager{
		machine: newMachine(backend.AssetAudio, client, cfg),
		backend: client,
		player:  cfg.player,
		sweeper: cfg.sweeper,
	}
}

// Snapshot returns the current state.
func (m *AudioManager) Snapshot() State {
	return m.snapshot()
}

// Generate synthesizes script, fetches the audio, and starts playback. Any
// previous asset is closed first. It returns once playback has started, or
// with ErrSuperseded when a newer Generate or Close overtook it.
func (m *AudioManager) Generate(ctx context.Context, script announcement.SpeechScript) (State, error) {
	if err := script.Validate(); err != nil {
		return m.snapshot(), err
	}
	m.enter()
	defer m.exit()
	ctx = m.requestContext(ctx)
	logger := logging.WithContext(ctx, m.logger)

	gen, old := m.begin()
	if old != nil {
		_ = m.cleanup(ctx, old, "replaced")
	}

	result, err := m.backend.SynthesizeSpeech(ctx, script)
	if err != nil {
		return m.failWith(ctx, gen, nil, err)
	}
	a := &asset{gen: gen, kind: backend.AssetAudio, filename: result.Filename, url: result.URL}
	m.record(ctx, a)
	logger.Debug("audio synthesized", logging.String("filename", a.filename))
	if !m.advance(gen, PhaseFetching, a) {
		return m.abandon(ctx, a)
	}

	if err := m.fetch(ctx, m.backend, a); err != nil {
		return m.failWith(ctx, gen, a, err)
	}
	if !m.advance(gen, PhaseReady, a) {
		return m.abandon(ctx, a)
	}
	return m.autoplay(ctx, gen, a)
}

// autoplay starts playback under the lock so that no other generation can
// reach Playing at the same time.
func (m *AudioManager) autoplay(ctx context.Context, gen uint64, a *asset) (State, error) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return m.abandon(ctx, a)
	}
	var (
		playback Playback
		err      error
	)
	if m.player == nil {
		err = errors.New("no audio player configured")
	} else {
		playback, err = m.player.Play(context.WithoutCancel(ctx), a.handle.Path)
	}
	if err != nil {
		m.mu.Unlock()
		return m.failWith(ctx, gen, a, services.Wrap(services.KindPlayback, "play audio", "local playback failed", err))
	}
	a.playback = playback
	m.setLocked(PhasePlaying, a, nil)
	m.active++
	m.mu.Unlock()

	go m.watch(a, playback)
	return m.snapshot(), nil
}

// watch maps the player's end event to Ended or Error. Stop, Close, and
// supersession move the state away from Playing first, so a finished
// playback that is no longer current is ignored here.
func (m *AudioManager) watch(a *asset, playback Playback) {
	defer m.exit()
	err := <-playback.Done()

	m.mu.Lock()
	if m.current != a || m.state.Phase != PhasePlaying {
		m.mu.Unlock()
		return
	}
	natural := err == nil
	if natural {
		m.setLocked(PhaseEnded, a, nil)
	} else {
		err = services.Wrap(services.KindPlayback, "play audio", "local playback failed", err)
		m.current = nil
		m.setLocked(PhaseError, nil, err)
	}
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()
	if natural {
		_ = m.cleanup(ctx, a, "ended")
		m.settle(a)
		m.scheduleSweep()
		return
	}
	m.logger.Warn("audio playback failed", logging.ErrorArgs(err)...)
	_ = m.cleanup(ctx, a, "playback failed")
}

// Stop ends playback and cleans up synchronously, then schedules the same
// debounced sweep as a natural end. It is a no-op unless audio is playing.
func (m *AudioManager) Stop(ctx context.Context) (State, error) {
	m.mu.Lock()
	a := m.current
	if a == nil || m.state.Phase != PhasePlaying {
		m.mu.Unlock()
		return m.snapshot(), nil
	}
	m.setLocked(PhaseStopped, a, nil)
	m.mu.Unlock()

	_ = m.cleanup(ctx, a, "stopped")
	m.settle(a)
	m.scheduleSweep()
	return m.snapshot(), nil
}

func (m *AudioManager) scheduleSweep() {
	if m.sweeper != nil {
		m.sweeper.Schedule(backend.AssetAudio)
	}
}

// Close force-stops playback, cleans up the live asset, and waits for
// in-flight requests to resolve and clean up after themselves. It is safe
// to call repeatedly.
func (m *AudioManager) Close(ctx context.Context) error {
	a := m.detach()
	_ = m.cleanup(ctx, a, "closed")
	return m.drain(ctx)
}

// Wait blocks until no request or playback is outstanding.
func (m *AudioManager) Wait(ctx context.Context) error {
	return m.drain(ctx)
}
