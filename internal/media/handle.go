package media

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"annunciator/internal/backend"
	"annunciator/internal/textutil"
)

// HandleStore keeps client-side playable copies of fetched media under one
// directory.
type HandleStore struct {
	dir string
}

// NewHandleStore returns a store rooted at dir.
func NewHandleStore(dir string) *HandleStore {
	return &HandleStore{dir: dir}
}

// Dir returns the store directory.
func (s *HandleStore) Dir() string {
	return s.dir
}

// Handle is one client-side playable file. Release is idempotent.
type Handle struct {
	Path string
	Size int64

	once sync.Once
	err  error
}

// Create writes data to a new uniquely named file. The server name is kept
// as a suffix so the handle is recognizable.
func (s *HandleStore) Create(kind backend.AssetKind, serverName string, data []byte) (*Handle, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media cache dir: %w", err)
	}
	name := textutil.SanitizeFileName(serverName)
	if name == "" {
		name = "media"
	}
	base := fmt.Sprintf("%s-%s-%s", textutil.SanitizeToken(string(kind)), uuid.NewString(), name)
	tmp, err := os.CreateTemp(s.dir, ".partial-*")
	if err != nil {
		return nil, fmt.Errorf("create media handle: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("write media handle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("close media handle: %w", err)
	}
	target := filepath.Join(s.dir, base)
	if err := os.Rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("finalize media handle: %w", err)
	}
	return &Handle{Path: target, Size: int64(len(data))}, nil
}

// Release removes the handle's file.
func (h *Handle) Release() error {
	if h == nil {
		return nil
	}
	h.once.Do(func() {
		if err := os.Remove(h.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			h.err = fmt.Errorf("release media handle: %w", err)
		}
	})
	return h.err
}

// Purge removes handles and partial writes older than olderThan, left
// behind by processes that exited without releasing them.
func (s *HandleStore) Purge(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read media cache dir: %w", err)
	}
	cutoff := time.Now().Add(-olderThan)
	removed := 0
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
