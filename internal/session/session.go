package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"annunciator/internal/announcement"
	"annunciator/internal/backend"
	"annunciator/internal/language"
	"annunciator/internal/logging"
	"annunciator/internal/media"
	"annunciator/internal/sections"
	"annunciator/internal/services"
)

// staleHandleAge is how old a client-side handle must be before a new
// session treats it as abandoned.
const staleHandleAge = time.Hour

// Backend is everything a session needs from the announcement backend.
type Backend interface {
	media.AudioBackend
	media.VideoBackend
	media.SweepBackend
	Translate(ctx context.Context, english string, local language.Language) (backend.Translation, error)
}

// Session is one open composition.
type Session struct {
	id           string
	plan         language.Plan
	composer     *announcement.Composer
	audio        *media.AudioManager
	video        *media.VideoManager
	sweeper      *media.Sweeper
	handles      *media.HandleStore
	sweepOnClose bool
	logger       *slog.Logger

	mu     sync.Mutex
	doc    sections.Document
	event  *announcement.TrainEvent
	closed bool
}

// Open starts a session for plan. Pending assets from earlier sessions are
// reclaimed first; reclamation failures are logged, not returned.
func Open(ctx context.Context, plan language.Plan, client Backend, opts ...Option) (*Session, error) {
	if client == nil {
		return nil, errors.New("session: backend is required")
	}
	o := options{
		id:           uuid.NewString(),
		sweepOnClose: true,
		debounce:     1500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&o)
	}
	logger := logging.NewComponentLogger(o.logger, "session").With(logging.String(logging.FieldSessionID, o.id))

	sweeperOpts := []media.SweeperOption{
		media.WithDebounce(o.debounce),
		media.WithSweepLogger(o.logger),
		media.WithSweepLock(o.sweepLock),
	}
	var mediaLedger media.Ledger
	if o.ledger != nil {
		sweeperOpts = append(sweeperOpts, media.WithSweepLedger(o.ledger))
		mediaLedger = o.ledger
	}
	sweeper := media.NewSweeper(client, sweeperOpts...)

	handles := o.handles
	if handles == nil {
		handles = media.NewHandleStore(defaultHandleDir())
	}
	common := []media.Option{
		media.WithHandleStore(handles),
		media.WithSessionID(o.id),
		media.WithLogger(o.logger),
		media.WithSweeper(sweeper),
		media.WithObserver(o.observer),
	}
	if mediaLedger != nil {
		common = append(common, media.WithLedger(mediaLedger))
	}
	if o.prober != nil {
		common = append(common, media.WithProber(o.prober))
	}
	audioOpts := append(append([]media.Option(nil), common...), media.WithPlayer(o.player))
	videoOpts := append(append([]media.Option(nil), common...), media.WithOpener(o.opener))

	var translator announcement.Translator
	if !o.noTranslation {
		translator = announcement.TranslatorFunc(func(ctx context.Context, english string, local language.Language) (announcement.Translation, error) {
			t, err := client.Translate(ctx, english, local)
			if err != nil {
				return announcement.Translation{}, err
			}
			return announcement.Translation{English: t.English, Hindi: t.Hindi, Local: t.Local}, nil
		})
	}
	composerOpts := []announcement.Option{announcement.WithLogger(o.logger)}
	if len(o.translationSupported) > 0 {
		composerOpts = append(composerOpts, announcement.WithTranslationSupported(o.translationSupported...))
	}

	s := &Session{
		id:           o.id,
		plan:         plan,
		composer:     announcement.NewComposer(translator, composerOpts...),
		audio:        media.NewAudioManager(client, audioOpts...),
		video:        media.NewVideoManager(client, videoOpts...),
		sweeper:      sweeper,
		handles:      handles,
		sweepOnClose: o.sweepOnClose,
		logger:       logger,
	}

	if removed, err := handles.Purge(staleHandleAge); err != nil {
		logger.Warn("purge stale media handles failed", logging.Error(err))
	} else if removed > 0 {
		logger.Debug("purged stale media handles", logging.Int("removed", removed))
	}
	if !o.skipReclaim {
		if _, err := sweeper.Reclaim(s.context(ctx), s.id); err != nil {
			logger.Warn("reclaim orphaned media failed", logging.ErrorArgs(err)...)
		}
	}
	logger.Info("session opened",
		logging.String("mode", plan.Mode.String()),
		logging.String("station", plan.StationCode),
		logging.String("local_language", string(plan.Local)),
	)
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Plan returns the session's language plan.
func (s *Session) Plan() language.Plan { return s.plan }

func (s *Session) context(ctx context.Context) context.Context {
	return services.WithSessionID(ctx, s.id)
}

func (s *Session) checkOpen(op string) error {
	if s.closed {
		return services.Wrap(services.KindValidation, op, "the composition session is closed", nil)
	}
	return nil
}

// Compose renders event into a new document, replacing any previous one.
func (s *Session) Compose(ctx context.Context, event announcement.TrainEvent) (announcement.Result, error) {
	s.mu.Lock()
	if err := s.checkOpen("compose"); err != nil {
		s.mu.Unlock()
		return announcement.Result{}, err
	}
	s.mu.Unlock()

	res, err := s.composer.ComposeResult(s.context(ctx), event, s.plan)
	if err != nil {
		return announcement.Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen("compose"); err != nil {
		return announcement.Result{}, err
	}
	s.doc = res.Document
	ev := res.Event
	s.event = &ev
	return res, nil
}

// Document returns the current document.
func (s *Session) Document() sections.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Event returns the event the document was composed from.
func (s *Session) Event() (announcement.TrainEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.event == nil {
		return announcement.TrainEvent{}, false
	}
	return *s.event, true
}

// Replace installs an operator-edited serialized document. The event used
// for numeral normalization is kept.
func (s *Session) Replace(raw string) (sections.Document, error) {
	doc, err := sections.Parse(norm.NFC.String(raw))
	if err != nil {
		return sections.Document{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen("replace document"); err != nil {
		return sections.Document{}, err
	}
	s.doc = doc
	return doc, nil
}

// EditSection replaces one section's text, leaving every other section
// byte-identical.
func (s *Session) EditSection(tag, text string) (sections.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen("edit section"); err != nil {
		return sections.Document{}, err
	}
	doc, err := s.doc.Patch(strings.ToUpper(strings.TrimSpace(tag)), norm.NFC.String(strings.TrimSpace(text)))
	if err != nil {
		return sections.Document{}, err
	}
	s.doc = doc
	return doc, nil
}

// SpeechScript returns the synthesizer input for the current document.
func (s *Session) SpeechScript() (announcement.SpeechScript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.event == nil {
		return announcement.SpeechScript{}, services.Wrap(services.KindValidation, "speech script", "compose an announcement first", nil)
	}
	return announcement.SpeechTexts(s.doc, s.plan, *s.event)
}

// PreviewAudio synthesizes the current document and starts playback.
func (s *Session) PreviewAudio(ctx context.Context) (media.State, error) {
	s.mu.Lock()
	err := s.checkOpen("preview audio")
	s.mu.Unlock()
	if err != nil {
		return s.audio.Snapshot(), err
	}
	script, err := s.SpeechScript()
	if err != nil {
		return s.audio.Snapshot(), err
	}
	return s.audio.Generate(s.context(ctx), script)
}

// StopAudio stops playback and deletes the audio.
func (s *Session) StopAudio(ctx context.Context) (media.State, error) {
	return s.audio.Stop(s.context(ctx))
}

// WaitAudio blocks until audio playback and cleanup finish.
func (s *Session) WaitAudio(ctx context.Context) error {
	return s.audio.Wait(ctx)
}

// AudioState returns the audio lifecycle state.
func (s *Session) AudioState() media.State { return s.audio.Snapshot() }

// GenerateSignVideo synthesizes a sign-language video from the English
// section.
func (s *Session) GenerateSignVideo(ctx context.Context) (media.State, error) {
	s.mu.Lock()
	err := s.checkOpen("generate sign video")
	english := s.doc.Text(language.English.Tag())
	s.mu.Unlock()
	if err != nil {
		return s.video.Snapshot(), err
	}
	if english == "" {
		return s.video.Snapshot(), services.Wrap(services.KindValidation, "generate sign video", "the ENGLISH section is empty", nil)
	}
	return s.video.Generate(s.context(ctx), english)
}

// OpenSignVideo shows the ready sign-language video.
func (s *Session) OpenSignVideo(ctx context.Context) (media.State, error) {
	return s.video.Open(s.context(ctx))
}

// VideoState returns the video lifecycle state.
func (s *Session) VideoState() media.State { return s.video.Snapshot() }

// Close stops and deletes live media, waits for in-flight requests, and
// runs the closing sweep. Later calls return nil.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	ctx = s.context(ctx)
	var errs []error
	if err := s.audio.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.video.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if s.sweepOnClose {
		s.sweeper.Schedule(backend.AssetAudio)
		s.sweeper.Schedule(backend.AssetVideo)
	}
	if err := s.sweeper.Wait(ctx); err != nil {
		errs = append(errs, err)
	}
	err := errors.Join(errs...)
	if err != nil {
		s.logger.Warn("session closed with errors", logging.Error(err))
	} else {
		s.logger.Info("session closed")
	}
	return err
}
