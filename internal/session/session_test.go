package session_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"annunciator/internal/announcement"
	"annunciator/internal/backend"
	"annunciator/internal/language"
	"annunciator/internal/ledger"
	"annunciator/internal/media"
	"annunciator/internal/services"
	"annunciator/internal/session"
	"annunciator/internal/testsupport"
)

type idlePlayer struct{}

type idlePlayback struct {
	once sync.Once
	done chan error
}

func (idlePlayer) Play(ctx context.Context, path string) (media.Playback, error) {
	return &idlePlayback{done: make(chan error, 1)}, nil
}

func (p *idlePlayback) Done() <-chan error { return p.done }

func (p *idlePlayback) Stop() error {
	p.once.Do(func() {
		p.done <- nil
		close(p.done)
	})
	return nil
}

type fixture struct {
	backend *testsupport.FakeBackend
	client  *backend.Client
	store   *ledger.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fb := testsupport.NewFakeBackend(t, "secret")
	cfg := testsupport.NewConfig(t, testsupport.WithBackendURL(fb.URL))
	client, err := backend.NewClient(backend.Config{BaseURL: fb.URL, RetryAttempts: 1}, backend.StaticToken("secret"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return &fixture{
		backend: fb,
		client:  client,
		store:   testsupport.MustOpenLedger(t, cfg),
	}
}

func (f *fixture) open(t *testing.T, plan language.Plan, opts ...session.Option) *session.Session {
	t.Helper()
	base := []session.Option{
		session.WithLedger(f.store),
		session.WithPlayer(idlePlayer{}),
		session.WithHandleStore(media.NewHandleStore(t.TempDir())),
		session.WithSweepDebounce(0),
		session.WithSweepLock(filepath.Join(t.TempDir(), "sweep.lock")),
	}
	s, err := session.Open(context.Background(), plan, f.client, append(base, opts...)...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func gujaratPlan() language.Plan {
	return language.ResolvePlan("ADI", "Gujarat", language.NewStateMapping(nil), "ALL")
}

func arrival() announcement.TrainEvent {
	return announcement.TrainEvent{
		Category:    announcement.CategoryArrival,
		TrainNumber: "12951",
		TrainName:   "Mumbai Rajdhani",
		Origin:      "Mumbai Central",
		Destination: "New Delhi",
		Platform:    "1",
	}
}

func TestComposeUsesTranslation(t *testing.T) {
	f := newFixture(t)
	s := f.open(t, gujaratPlan())

	res, err := s.Compose(context.Background(), arrival())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if got := strings.Join(res.Document.Tags(), ","); got != "GUJARATI,ENGLISH,HINDI" {
		t.Fatalf("tags got %q", got)
	}
	if got := res.Document.Text("GUJARATI"); got != "Gujarati: "+res.English {
		t.Fatalf("GUJARATI got %q", got)
	}
	if !res.Translated {
		t.Fatalf("expected translated result")
	}
}

func TestComposeFallsBackWhenTranslationFails(t *testing.T) {
	f := newFixture(t)
	f.backend.FailTranslation(true)
	s := f.open(t, gujaratPlan())

	res, err := s.Compose(context.Background(), arrival())
	if err != nil {
		t.Fatalf("Compose must not fail on translation errors: %v", err)
	}
	if res.Translated || !errors.Is(res.Fallback, services.ErrTranslationUnavailable) {
		t.Fatalf("expected fallback, got translated=%v fallback=%v", res.Translated, res.Fallback)
	}
	for _, tag := range []string{"GUJARATI", "ENGLISH", "HINDI"} {
		if res.Document.Text(tag) == "" {
			t.Fatalf("%s section empty after fallback", tag)
		}
	}
}

func TestEditSectionNormalizesAndPreservesOthers(t *testing.T) {
	f := newFixture(t)
	s := f.open(t, gujaratPlan())
	before, err := s.Compose(context.Background(), arrival())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	after, err := s.EditSection("english", "Cafe\u0301 special arriving")
	if err != nil {
		t.Fatalf("EditSection: %v", err)
	}
	if got := after.Text("ENGLISH"); got != "Caf\u00e9 special arriving" {
		t.Fatalf("ENGLISH got %q", got)
	}
	for _, tag := range []string{"GUJARATI", "HINDI"} {
		if after.Text(tag) != before.Document.Text(tag) {
			t.Fatalf("%s changed by unrelated edit", tag)
		}
	}

	if _, err := s.EditSection("TAMIL", "x"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for missing tag, got %v", err)
	}
}

func TestPreviewAudioSendsSpokenNumerals(t *testing.T) {
	f := newFixture(t)
	s := f.open(t, gujaratPlan())
	if _, err := s.Compose(context.Background(), arrival()); err != nil {
		t.Fatalf("Compose: %v", err)
	}

	state, err := s.PreviewAudio(context.Background())
	if err != nil {
		t.Fatalf("PreviewAudio: %v", err)
	}
	if state.Phase != media.PhasePlaying {
		t.Fatalf("expected playing, got %s", state.Phase)
	}
	speech := f.backend.SpeechRequests()
	if len(speech) != 1 {
		t.Fatalf("expected one synthesis request, got %d", len(speech))
	}
	req := speech[0]
	if strings.Contains(req.EnglishText, "1 2 9 5 1") || !strings.Contains(req.EnglishText, "nine") {
		t.Fatalf("train number not spoken: %q", req.EnglishText)
	}
	if req.LocalLanguage != "Gujarati" || req.IsAllStation {
		t.Fatalf("unexpected request shape %+v", req)
	}
}

func TestPreviewRequiresComposedDocument(t *testing.T) {
	f := newFixture(t)
	s := f.open(t, gujaratPlan())
	if _, err := s.PreviewAudio(context.Background()); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCloseCleansUpAndSweeps(t *testing.T) {
	f := newFixture(t)
	s := f.open(t, gujaratPlan())
	ctx := context.Background()
	if _, err := s.Compose(ctx, arrival()); err != nil {
		t.Fatalf("Compose: %v", err)
	}
	audio, err := s.PreviewAudio(ctx)
	if err != nil {
		t.Fatalf("PreviewAudio: %v", err)
	}
	video, err := s.GenerateSignVideo(ctx)
	if err != nil {
		t.Fatalf("GenerateSignVideo: %v", err)
	}
	if video.Phase != media.PhaseReady {
		t.Fatalf("expected ready video, got %s", video.Phase)
	}

	closeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Close(closeCtx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(closeCtx); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	deleted, sweeps := f.backend.Deleted(), f.backend.Sweeps()
	if strings.Join(deleted, ",") != audio.Filename+","+video.Filename {
		t.Fatalf("deleted got %v", deleted)
	}
	if len(sweeps) != 2 {
		t.Fatalf("expected audio and video sweeps, got %v", sweeps)
	}
	if s.AudioState().Phase != media.PhaseIdle || s.VideoState().Phase != media.PhaseIdle {
		t.Fatalf("media not idle after close")
	}
	pending, _ := f.store.Pending(ctx, "")
	if len(pending) != 0 {
		t.Fatalf("ledger still has pending rows %#v", pending)
	}

	if _, err := s.Compose(ctx, arrival()); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("compose after close should fail validation, got %v", err)
	}
}

func TestOpenReclaimsEarlierSessions(t *testing.T) {
	f := newFixture(t)
	testsupport.RecordAsset(t, f.store, "crashed-session", backend.AssetAudio, "left_behind.mp3")

	s := f.open(t, gujaratPlan())
	deleted := f.backend.Deleted()
	if len(deleted) != 1 || deleted[0] != "left_behind.mp3" {
		t.Fatalf("expected orphan deletion, got %v", deleted)
	}
	pending, _ := f.store.Pending(context.Background(), s.ID())
	if len(pending) != 0 {
		t.Fatalf("orphan still pending: %#v", pending)
	}
}

func TestAllModeSendsFourLanguages(t *testing.T) {
	f := newFixture(t)
	plan := language.ResolvePlan("all", "", language.NewStateMapping(nil), "ALL")
	s := f.open(t, plan)
	res, err := s.Compose(context.Background(), arrival())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if got := strings.Join(res.Document.Tags(), ","); got != "MARATHI,GUJARATI,ENGLISH,HINDI" {
		t.Fatalf("tags got %q", got)
	}
	if _, err := s.PreviewAudio(context.Background()); err != nil {
		t.Fatalf("PreviewAudio: %v", err)
	}
	req := f.backend.SpeechRequests()[0]
	if !req.IsAllStation || req.MarathiText == "" || req.GujaratiText == "" {
		t.Fatalf("unexpected ALL request %+v", req)
	}
}
