package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"annunciator/internal/backend"
	"annunciator/internal/logging"
	"annunciator/internal/services"
)

// cleanupTimeout bounds deletions started from background paths such as a
// natural playback end, which have no caller context.
const cleanupTimeout = 30 * time.Second

// asset is one synthesis result. cleanup runs at most once per asset.
type asset struct {
	gen      uint64
	kind     backend.AssetKind
	filename string
	url      string
	handle   *Handle
	duration time.Duration
	playback Playback

	// users counts callers reading handle outside the lock; cleanup waits
	// for them before releasing it.
	users sync.WaitGroup
	once  sync.Once
}

// machine is the lifecycle core shared by the audio and video managers. All
// state changes happen under mu; network calls happen outside it.
type machine struct {
	kind      backend.AssetKind
	deleter   Deleter
	ledger    Ledger
	handles   *HandleStore
	prober    Prober
	sessionID string
	logger    *slog.Logger
	observer  Observer
	now       func() time.Time

	mu      sync.Mutex
	gen     uint64
	state   State
	current *asset
	active  int
	drained chan struct{}
}

type machineConfig struct {
	ledger    Ledger
	handles   *HandleStore
	sessionID string
	logger    *slog.Logger
	observer  Observer
	sweeper   Scheduler
	player    Player
	opener    Opener
	prober    Prober
}

// Option customizes a manager.
type Option func(*machineConfig)

// WithLedger records issued server files in l.
func WithLedger(l Ledger) Option {
	return func(c *machineConfig) {
		c.ledger = l
	}
}

// WithHandleStore sets where client-side handles are written.
func WithHandleStore(store *HandleStore) Option {
	return func(c *machineConfig) {
		if store != nil {
			c.handles = store
		}
	}
}

// WithSessionID tags ledger rows with the composition session.
func WithSessionID(id string) Option {
	return func(c *machineConfig) {
		c.sessionID = id
	}
}

// WithLogger sets the manager logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *machineConfig) {
		c.logger = logger
	}
}

// WithObserver registers a transition observer.
func WithObserver(observer Observer) Option {
	return func(c *machineConfig) {
		c.observer = observer
	}
}

// WithSweeper schedules a sweep after audio playback ends naturally.
func WithSweeper(s Scheduler) Option {
	return func(c *machineConfig) {
		c.sweeper = s
	}
}

// WithPlayer sets the audio player.
func WithPlayer(p Player) Option {
	return func(c *machineConfig) {
		c.player = p
	}
}

// WithProber inspects every stored file before it becomes Ready.
func WithProber(p Prober) Option {
	return func(c *machineConfig) {
		c.prober = p
	}
}

// WithOpener sets the video viewer.
func WithOpener(o Opener) Option {
	return func(c *machineConfig) {
		c.opener = o
	}
}

func buildConfig(opts []Option) machineConfig {
	cfg := machineConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.handles == nil {
		cfg.handles = NewHandleStore(defaultHandleDir())
	}
	return cfg
}

func defaultHandleDir() string {
	return filepath.Join(os.TempDir(), "annunciator-media")
}

func newMachine(kind backend.AssetKind, deleter Deleter, cfg machineConfig) *machine {
	m := &machine{
		kind:      kind,
		deleter:   deleter,
		ledger:    cfg.ledger,
		handles:   cfg.handles,
		prober:    cfg.prober,
		sessionID: cfg.sessionID,
		logger:    logging.NewComponentLogger(cfg.logger, "media").With(logging.String(logging.FieldAssetKind, string(kind))),
		observer:  cfg.observer,
		now:       time.Now,
	}
	m.state = State{Kind: kind, Phase: PhaseIdle, Since: m.now()}
	return m
}

// requestContext tags ctx with the machine's kind and a fresh correlation id
// shared by every backend call made for one Generate.
func (m *machine) requestContext(ctx context.Context) context.Context {
	ctx = services.WithAssetKind(ctx, string(m.kind))
	return services.WithRequestID(ctx, uuid.NewString())
}

func (m *machine) snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// setLocked moves to phase. a supplies the live asset fields, nil clears them.
func (m *machine) setLocked(phase Phase, a *asset, err error) {
	from := m.state.Phase
	next := State{Kind: m.kind, Phase: phase, Generation: m.gen, Err: err, Since: m.now()}
	if a != nil {
		next.Filename = a.filename
		next.URL = a.url
		if a.handle != nil {
			next.Handle = a.handle.Path
		}
		next.Duration = a.duration
	}
	m.state = next
	if m.observer != nil {
		m.observer(Transition{Kind: m.kind, From: from, To: phase, Generation: m.gen, Filename: next.Filename, Err: err})
	}
}

// begin supersedes whatever is current and enters Requesting. The caller
// owns the returned old asset and must clean it up.
func (m *machine) begin() (uint64, *asset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	old := m.current
	m.current = nil
	m.setLocked(PhaseRequesting, nil, nil)
	return m.gen, old
}

// advance moves the current generation to phase with a as the live asset.
// It reports false when gen has been superseded.
func (m *machine) advance(gen uint64, phase Phase, a *asset) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return false
	}
	m.current = a
	m.setLocked(phase, a, nil)
	return true
}

// fail moves the current generation to Error. It reports false when gen has
// been superseded, in which case the state is left alone.
func (m *machine) fail(gen uint64, err error) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return false
	}
	m.current = nil
	m.setLocked(PhaseError, nil, err)
	return true
}

// settle returns to Idle after a's cleanup unless something newer happened.
func (m *machine) settle(a *asset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != a {
		return
	}
	m.current = nil
	m.setLocked(PhaseIdle, nil, nil)
}

// pin returns the live asset when the machine is in phase with a client
// handle, and holds it so cleanup cannot release the handle until unpin.
func (m *machine) pin(phase Phase) (*asset, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.current
	if a == nil || a.handle == nil || m.state.Phase != phase {
		return nil, false
	}
	a.users.Add(1)
	return a, true
}

func (a *asset) unpin() {
	a.users.Done()
}

// detach supersedes in-flight work and returns the live asset, leaving the
// machine Idle. Calling it when already Idle changes nothing.
func (m *machine) detach() *asset {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	a := m.current
	m.current = nil
	if m.state.Phase != PhaseIdle || a != nil {
		m.setLocked(PhaseIdle, nil, nil)
	}
	return a
}

func (m *machine) enter() {
	m.mu.Lock()
	m.active++
	m.mu.Unlock()
}

func (m *machine) exit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active--
	if m.active == 0 && m.drained != nil {
		close(m.drained)
		m.drained = nil
	}
}

// drain waits for in-flight requests and playback watchers to finish.
func (m *machine) drain(ctx context.Context) error {
	m.mu.Lock()
	if m.active == 0 {
		m.mu.Unlock()
		return nil
	}
	if m.drained == nil {
		m.drained = make(chan struct{})
	}
	ch := m.drained
	m.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for in-flight %s work: %w", m.kind, ctx.Err())
	}
}

// record adds a to the ledger. Ledger failures are logged only.
func (m *machine) record(ctx context.Context, a *asset) {
	if m.ledger == nil {
		return
	}
	if _, err := m.ledger.Record(ctx, m.sessionID, a.kind, a.filename, a.url); err != nil {
		m.logger.Warn("ledger record failed",
			logging.String("filename", a.filename),
			logging.Error(err),
		)
	}
}

// cleanup stops playback, releases the handle, and deletes the server file.
// It runs at most once per asset; later calls return nil.
func (m *machine) cleanup(ctx context.Context, a *asset, reason string) error {
	if a == nil {
		return nil
	}
	var result error
	a.once.Do(func() {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
		defer cancel()

		var errs []error
		if a.playback != nil {
			if err := a.playback.Stop(); err != nil {
				errs = append(errs, err)
			}
		}
		a.users.Wait()
		if err := a.handle.Release(); err != nil {
			errs = append(errs, err)
		}
		if a.filename != "" {
			if err := m.deleter.Delete(cctx, a.kind, a.filename); err != nil {
				errs = append(errs, err)
				m.markFailed(cctx, a, err)
			} else {
				m.markDeleted(cctx, a)
			}
		}
		result = errors.Join(errs...)
		if result != nil {
			m.logger.WarnContext(cctx, "media cleanup incomplete",
				append([]any{
					logging.String("filename", a.filename),
					logging.String("reason", reason),
				}, logging.ErrorArgs(result)...)...,
			)
			return
		}
		m.logger.DebugContext(cctx, "media cleaned up",
			logging.String("filename", a.filename),
			logging.String("reason", reason),
		)
	})
	return result
}

func (m *machine) markDeleted(ctx context.Context, a *asset) {
	if m.ledger == nil {
		return
	}
	if _, err := m.ledger.MarkDeleted(ctx, a.kind, a.filename); err != nil {
		m.logger.Warn("ledger update failed", logging.String("filename", a.filename), logging.Error(err))
	}
}

func (m *machine) markFailed(ctx context.Context, a *asset, cause error) {
	if m.ledger == nil {
		return
	}
	if _, err := m.ledger.MarkFailed(ctx, a.kind, a.filename, cause); err != nil {
		m.logger.Warn("ledger update failed", logging.String("filename", a.filename), logging.Error(err))
	}
}

// fetch downloads and validates a's bytes into a new client-side handle.
func (m *machine) fetch(ctx context.Context, fetcher Fetcher, a *asset) error {
	payload, err := fetcher.Fetch(ctx, a.url)
	if err != nil {
		return err
	}
	if err := validatePayload(a.kind, payload); err != nil {
		return err
	}
	handle, err := m.handles.Create(a.kind, a.filename, payload.Data)
	if err != nil {
		return services.Wrap(services.KindPlayback, fmt.Sprintf("store %s", a.kind), "the media could not be stored locally", err)
	}
	a.handle = handle
	if m.prober == nil {
		return nil
	}
	duration, err := m.prober.Check(ctx, handle.Path, string(a.kind))
	if err != nil {
		return services.Wrap(services.KindEmptyPayload, fmt.Sprintf("probe %s", a.kind), "the downloaded media is not playable", err)
	}
	a.duration = duration
	return nil
}

// abandon handles a generation that lost to a newer one: its asset, if
// any, is cleaned up and ErrSuperseded is returned.
func (m *machine) abandon(ctx context.Context, a *asset) (State, error) {
	_ = m.cleanup(ctx, a, "superseded")
	m.logger.DebugContext(ctx, "discarded superseded media result")
	return m.snapshot(), ErrSuperseded
}

// failWith cleans up a and reports err for gen.
func (m *machine) failWith(ctx context.Context, gen uint64, a *asset, err error) (State, error) {
	_ = m.cleanup(ctx, a, "failed")
	if !m.fail(gen, err) {
		return m.snapshot(), ErrSuperseded
	}
	m.logger.WarnContext(ctx, "media generation failed", logging.ErrorArgs(err)...)
	return m.snapshot(), err
}
