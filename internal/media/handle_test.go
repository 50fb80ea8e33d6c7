package media

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"annunciator/internal/backend"
)

func TestHandleCreateAndRelease(t *testing.T) {
	store := NewHandleStore(filepath.Join(t.TempDir(), "cache"))

	h, err := store.Create(backend.AssetAudio, "../announcement_1.mp3", []byte("ID3abc"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if filepath.Dir(h.Path) != store.Dir() {
		t.Fatalf("handle escaped cache dir: %s", h.Path)
	}
	if !strings.HasPrefix(filepath.Base(h.Path), "audio-") || !strings.HasSuffix(h.Path, "announcement_1.mp3") {
		t.Fatalf("unexpected handle name %s", h.Path)
	}
	data, err := os.ReadFile(h.Path)
	if err != nil || string(data) != "ID3abc" || h.Size != 6 {
		t.Fatalf("unexpected handle content %q %v", data, err)
	}

	if err := h.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := h.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}
	if _, err := os.Stat(h.Path); !os.IsNotExist(err) {
		t.Fatalf("handle still on disk")
	}
}

func TestHandlePurgeRemovesOldFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewHandleStore(dir)

	old, err := store.Create(backend.AssetVideo, "old.mp4", []byte("x"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(old.Path, past, past); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
	fresh, err := store.Create(backend.AssetVideo, "fresh.mp4", []byte("y"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	removed, err := store.Purge(time.Hour)
	if err != nil || removed != 1 {
		t.Fatalf("Purge got %d, %v", removed, err)
	}
	if _, err := os.Stat(fresh.Path); err != nil {
		t.Fatalf("fresh handle removed: %v", err)
	}

	missing := NewHandleStore(filepath.Join(dir, "absent"))
	if n, err := missing.Purge(time.Hour); err != nil || n != 0 {
		t.Fatalf("Purge of missing dir got %d, %v", n, err)
	}
}
