package testsupport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"annunciator/internal/backend"
)

// FakeBackend is an in-process announcement backend. Translation echoes the
// English text and tags the local rendering with the requested language;
// synthesized files are numbered per kind.
type FakeBackend struct {
	URL   string
	Token string

	mu            sync.Mutex
	failTranslate bool
	audio         int
	video         int
	deleted       []string
	sweeps        []backend.AssetKind
	speech        []backend.SpeechRequest
}

// NewFakeBackend starts a fake backend that accepts token and stops it when
// the test ends.
func NewFakeBackend(t testing.TB, token string) *FakeBackend {
	t.Helper()
	fb := &FakeBackend{Token: token}
	srv := httptest.NewServer(fb.routes())
	t.Cleanup(srv.Close)
	fb.URL = srv.URL
	return fb
}

// FailTranslation makes the translation endpoint return 500.
func (fb *FakeBackend) FailTranslation(fail bool) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.failTranslate = fail
}

// Deleted returns the filenames deleted so far, in order.
func (fb *FakeBackend) Deleted() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.deleted...)
}

// Sweeps returns the kinds swept so far, in order.
func (fb *FakeBackend) Sweeps() []backend.AssetKind {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]backend.AssetKind(nil), fb.sweeps...)
}

// SpeechRequests returns every speech synthesis request received.
func (fb *FakeBackend) SpeechRequests() []backend.SpeechRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]backend.SpeechRequest(nil), fb.speech...)
}

func (fb *FakeBackend) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"message": "Railway Announcement API", "version": "test", "docs": "/docs"})
	})
	mux.HandleFunc("POST /translate/announcement", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fail := fb.failTranslate
		fb.mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			writeJSON(w, map[string]string{"detail": "Translation service unavailable or failed"})
			return
		}
		var req struct {
			EnglishText   string `json:"english_text"`
			LocalLanguage string `json:"local_language"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, map[string]string{
			"english":        req.EnglishText,
			"hindi":          "हिंदी: " + req.EnglishText,
			"local":          req.LocalLanguage + ": " + req.EnglishText,
			"local_language": req.LocalLanguage,
		})
	})
	mux.HandleFunc("POST /generate-audio", func(w http.ResponseWriter, r *http.Request) {
		var req backend.SpeechRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		fb.mu.Lock()
		fb.audio++
		name := fmt.Sprintf("announcement_%d.mp3", fb.audio)
		fb.speech = append(fb.speech, req)
		fb.mu.Unlock()
		writeJSON(w, map[string]any{"success": true, "audio_url": "/audio/" + name, "message": "ok"})
	})
	mux.HandleFunc("POST /generate-isl-video", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.video++
		name := fmt.Sprintf("isl_%d.mp4", fb.video)
		fb.mu.Unlock()
		writeJSON(w, map[string]any{"success": true, "filename": name, "video_url": "/isl-videos/" + name})
	})
	mux.HandleFunc("GET /audio/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(MP3Bytes(256))
	})
	mux.HandleFunc("GET /isl-videos/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		_, _ = w.Write(MP4Bytes())
	})
	mux.HandleFunc("DELETE /audio/{name}", fb.recordDelete)
	mux.HandleFunc("DELETE /isl-videos/{name}", fb.recordDelete)
	mux.HandleFunc("POST /audio/cleanup", func(w http.ResponseWriter, r *http.Request) {
		fb.recordSweep(backend.AssetAudio)
		writeJSON(w, map[string]any{"message": "ok", "cleaned_count": 2})
	})
	mux.HandleFunc("POST /isl-videos/cleanup", func(w http.ResponseWriter, r *http.Request) {
		fb.recordSweep(backend.AssetVideo)
		writeJSON(w, map[string]any{"message": "ok", "cleaned_files": []string{"isl_old.mp4"}})
	})
	return fb.authorize(mux)
}

func (fb *FakeBackend) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+fb.Token {
			w.WriteHeader(http.StatusUnauthorized)
			writeJSON(w, map[string]string{"detail": "Invalid or missing token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (fb *FakeBackend) recordDelete(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	fb.deleted = append(fb.deleted, r.PathValue("name"))
	fb.mu.Unlock()
	writeJSON(w, map[string]string{"message": "deleted"})
}

func (fb *FakeBackend) recordSweep(kind backend.AssetKind) {
	fb.mu.Lock()
	fb.sweeps = append(fb.sweeps, kind)
	fb.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, payload any) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	_ = json.NewEncoder(w).Encode(payload)
}
