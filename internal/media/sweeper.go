package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"annunciator/internal/backend"
	"annunciator/internal/logging"
)

// Sweeper deletes orphaned server files in bulk. Sweeps of one kind are
// serialized across processes by a lock file per kind; a sweep that finds
// its lock held waits for the holder and then sweeps anyway, so files the
// holder listed too early are still removed.
type Sweeper struct {
	backend  SweepBackend
	ledger   SweepLedger
	lockPath string
	debounce time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	timers  map[backend.AssetKind]*time.Timer
	running sync.WaitGroup
	closed  bool
}

// SweeperOption customizes a Sweeper.
type SweeperOption func(*Sweeper)

// WithSweepLedger marks swept rows in l.
func WithSweepLedger(l SweepLedger) SweeperOption {
	return func(s *Sweeper) {
		s.ledger = l
	}
}

// WithSweepLock serializes sweeps through lock files derived from path, one
// per asset kind (sweep.lock becomes sweep-audio.lock and sweep-video.lock).
func WithSweepLock(path string) SweeperOption {
	return func(s *Sweeper) {
		s.lockPath = path
	}
}

// WithDebounce sets the delay between Schedule and the sweep.
func WithDebounce(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d >= 0 {
			s.debounce = d
		}
	}
}

// WithSweepLogger sets the sweeper logger.
func WithSweepLogger(logger *slog.Logger) SweeperOption {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

// lockRetryDelay is how often a waiting sweep retries the lock.
const lockRetryDelay = 25 * time.Millisecond

// NewSweeper constructs a sweeper.
func NewSweeper(client SweepBackend, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		backend:  client,
		debounce: 1500 * time.Millisecond,
		now:      time.Now,
		timers:   make(map[backend.AssetKind]*time.Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "sweeper")
	return s
}

// Sweep asks the backend to delete every file of kind and returns how many
// it removed. It blocks while another sweep of the same kind holds the lock.
func (s *Sweeper) Sweep(ctx context.Context, kind backend.AssetKind) (int, error) {
	unlock, err := s.lock(ctx, kind)
	if err != nil {
		return 0, err
	}
	defer unlock()

	cutoff := s.now()
	result, err := s.backend.Sweep(ctx, kind)
	if err != nil {
		s.logger.WarnContext(ctx, "sweep failed", append([]any{logging.String(logging.FieldAssetKind, string(kind))}, logging.ErrorArgs(err)...)...)
		return 0, err
	}
	s.markSwept(ctx, kind, result, cutoff)
	s.logger.InfoContext(ctx, "sweep complete",
		logging.String(logging.FieldAssetKind, string(kind)),
		logging.Int("cleaned_count", result.Count),
	)
	return result.Count, nil
}

func (s *Sweeper) markSwept(ctx context.Context, kind backend.AssetKind, result backend.SweepResult, cutoff time.Time) {
	if s.ledger == nil {
		return
	}
	if len(result.Files) > 0 {
		for _, name := range result.Files {
			if _, err := s.ledger.MarkDeleted(ctx, kind, name); err != nil {
				s.logger.Warn("ledger update failed", logging.String("filename", name), logging.Error(err))
			}
		}
		return
	}
	if _, err := s.ledger.MarkSwept(ctx, kind, cutoff); err != nil {
		s.logger.Warn("ledger update failed", logging.String(logging.FieldAssetKind, string(kind)), logging.Error(err))
	}
}

func (s *Sweeper) lock(ctx context.Context, kind backend.AssetKind) (func(), error) {
	if s.lockPath == "" {
		return func() {}, nil
	}
	path := kindLockPath(s.lockPath, kind)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sweep lock dir: %w", err)
	}
	fileLock := flock.New(path)
	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire sweep lock: %w", err)
	}
	if !locked {
		s.logger.Debug("waiting for sweep lock", logging.String(logging.FieldAssetKind, string(kind)))
		locked, err = fileLock.TryLockContext(ctx, lockRetryDelay)
		if err != nil {
			return nil, fmt.Errorf("acquire sweep lock: %w", err)
		}
		if !locked {
			return nil, fmt.Errorf("acquire sweep lock: %s is held", path)
		}
	}
	return func() {
		if err := fileLock.Unlock(); err != nil {
			s.logger.Warn("release sweep lock failed", logging.Error(err))
		}
	}, nil
}

// kindLockPath returns the lock file for kind next to base.
func kindLockPath(base string, kind backend.AssetKind) string {
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "-" + string(kind) + ext
}

// Schedule queues a sweep of kind after the debounce delay. Scheduling again
// before it fires restarts the delay, so bursts collapse into one sweep.
func (s *Sweeper) Schedule(kind backend.AssetKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if timer, ok := s.timers[kind]; ok {
		if timer.Stop() {
			s.running.Done()
		}
	}
	s.running.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(s.debounce, func() {
		defer s.running.Done()
		s.mu.Lock()
		if s.timers[kind] == timer {
			delete(s.timers, kind)
		}
		s.mu.Unlock()
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()
		_, _ = s.Sweep(ctx, kind)
	})
	s.timers[kind] = timer
}

// Pending lists kinds with a scheduled sweep that has not fired yet.
func (s *Sweeper) Pending() []backend.AssetKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	kinds := make([]backend.AssetKind, 0, len(s.timers))
	for _, kind := range []backend.AssetKind{backend.AssetAudio, backend.AssetVideo} {
		if _, ok := s.timers[kind]; ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// Flush runs every scheduled sweep now, waits for sweeps already running,
// and stops accepting new schedules.
func (s *Sweeper) Flush(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	var due []backend.AssetKind
	for _, kind := range []backend.AssetKind{backend.AssetAudio, backend.AssetVideo} {
		timer, ok := s.timers[kind]
		if !ok {
			continue
		}
		if timer.Stop() {
			s.running.Done()
			due = append(due, kind)
		}
		delete(s.timers, kind)
	}
	s.mu.Unlock()

	var errs []error
	for _, kind := range due {
		if _, err := s.Sweep(ctx, kind); err != nil {
			errs = append(errs, err)
		}
	}

	if err := s.waitRunning(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Wait lets scheduled sweeps fire after their debounce, waits for them,
// and stops accepting new schedules.
func (s *Sweeper) Wait(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.waitRunning(ctx)
}

func (s *Sweeper) waitRunning(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.running.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for running sweeps: %w", ctx.Err())
	}
}

// Reclaim deletes the ledger's pending assets that belong to other sessions,
// one by one. It returns how many were confirmed deleted.
func (s *Sweeper) Reclaim(ctx context.Context, excludeSession string) (int, error) {
	if s.ledger == nil {
		return 0, nil
	}
	pending, err := s.ledger.Pending(ctx, excludeSession)
	if err != nil {
		return 0, err
	}
	reclaimed := 0
	var errs []error
	for _, a := range pending {
		if err := s.backend.Delete(ctx, a.Kind, a.Filename); err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", a.Kind, a.Filename, err))
			if _, markErr := s.ledger.MarkFailed(ctx, a.Kind, a.Filename, err); markErr != nil {
				s.logger.Warn("ledger update failed", logging.String("filename", a.Filename), logging.Error(markErr))
			}
			continue
		}
		if _, err := s.ledger.MarkDeleted(ctx, a.Kind, a.Filename); err != nil {
			s.logger.Warn("ledger update failed", logging.String("filename", a.Filename), logging.Error(err))
		}
		reclaimed++
	}
	if reclaimed > 0 || len(errs) > 0 {
		s.logger.Info("reclaimed orphaned media",
			logging.Int("reclaimed", reclaimed),
			logging.Int("failed", len(errs)),
		)
	}
	return reclaimed, errors.Join(errs...)
}
