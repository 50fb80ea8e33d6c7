package media

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"annunciator/internal/announcement"
	"annunciator/internal/backend"
	"annunciator/internal/language"
	"annunciator/internal/services"
	"annunciator/internal/testsupport"
)

// fakeBackend issues sequentially numbered files. A test may install a gate
// for one synthesis call to hold it in flight.
type fakeBackend struct {
	mu          sync.Mutex
	calls       int
	gates       map[int]chan struct{}
	entered     map[int]chan struct{}
	synthErr    error
	fetchErr    error
	payload     *backend.Payload
	deleteErr   error
	deleted     []string
	sweepResult backend.SweepResult
	sweepErr    error
	sweepDelay  time.Duration
	sweeps      []backend.AssetKind
	events      []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{gates: map[int]chan struct{}{}, entered: map[int]chan struct{}{}}
}

// hold makes synthesis call n block until the returned release is called.
// The returned entered channel closes when call n starts.
func (f *fakeBackend) hold(n int) (entered <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	in := make(chan struct{})
	f.gates[n] = gate
	f.entered[n] = in
	return in, func() { close(gate) }
}

func (f *fakeBackend) next(prefix, ext string) (string, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	gate := f.gates[n]
	in := f.entered[n]
	err := f.synthErr
	f.events = append(f.events, fmt.Sprintf("synthesize %d", n))
	f.mu.Unlock()
	if in != nil {
		close(in)
	}
	if gate != nil {
		<-gate
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%d.%s", prefix, n, ext), nil
}

func (f *fakeBackend) SynthesizeSpeech(ctx context.Context, script announcement.SpeechScript) (backend.SpeechResult, error) {
	name, err := f.next("announcement", "mp3")
	if err != nil {
		return backend.SpeechResult{}, err
	}
	return backend.SpeechResult{Filename: name, URL: "/audio/" + name}, nil
}

func (f *fakeBackend) SynthesizeSignVideo(ctx context.Context, english string) (backend.SignVideoResult, error) {
	name, err := f.next("isl", "mp4")
	if err != nil {
		return backend.SignVideoResult{}, err
	}
	return backend.SignVideoResult{Filename: name, URL: "/isl-videos/" + name}, nil
}

func (f *fakeBackend) Fetch(ctx context.Context, link string) (backend.Payload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, "fetch "+link)
	if f.fetchErr != nil {
		return backend.Payload{}, f.fetchErr
	}
	if f.payload != nil {
		return *f.payload, nil
	}
	if len(link) > 4 && link[len(link)-4:] == ".mp4" {
		return backend.Payload{Data: mp4Bytes(), ContentType: "video/mp4"}, nil
	}
	return backend.Payload{Data: testsupport.MP3Bytes(64), ContentType: "audio/mpeg"}, nil
}

func (f *fakeBackend) Delete(ctx context.Context, kind backend.AssetKind, filename string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, "delete "+filename)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, filename)
	return nil
}

func (f *fakeBackend) Sweep(ctx context.Context, kind backend.AssetKind) (backend.SweepResult, error) {
	f.mu.Lock()
	delay := f.sweepDelay
	f.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sweeps = append(f.sweeps, kind)
	return f.sweepResult, f.sweepErr
}

func (f *fakeBackend) deletedFiles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func (f *fakeBackend) sweptKinds() []backend.AssetKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]backend.AssetKind(nil), f.sweeps...)
}

func (f *fakeBackend) sweepCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sweeps)
}

func (f *fakeBackend) eventLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

func mp4Bytes() []byte {
	// ftyp box: size, "ftyp", major brand "isom".
	return []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm', 0x00, 0x00, 0x02, 0x00, 'i', 's', 'o', 'm', 'm', 'p', '4', '1'}
}

// fakePlayer tracks how many playbacks run at once.
type fakePlayer struct {
	mu         sync.Mutex
	playErr    error
	playing    int
	maxPlaying int
	started    []*fakePlayback
}

type fakePlayback struct {
	player *fakePlayer
	path   string
	done   chan error
	once   sync.Once
}

func (p *fakePlayer) Play(ctx context.Context, path string) (Playback, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playErr != nil {
		return nil, p.playErr
	}
	p.playing++
	if p.playing > p.maxPlaying {
		p.maxPlaying = p.playing
	}
	pb := &fakePlayback{player: p, path: path, done: make(chan error, 1)}
	p.started = append(p.started, pb)
	return pb, nil
}

func (p *fakePlayer) last() *fakePlayback {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.started) == 0 {
		return nil
	}
	return p.started[len(p.started)-1]
}

func (p *fakePlayer) peak() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maxPlaying
}

func (pb *fakePlayback) Done() <-chan error { return pb.done }

func (pb *fakePlayback) finish(err error) {
	pb.once.Do(func() {
		pb.player.mu.Lock()
		pb.player.playing--
		pb.player.mu.Unlock()
		pb.done <- err
		close(pb.done)
	})
}

func (pb *fakePlayback) Stop() error {
	pb.finish(nil)
	return nil
}

type fakeScheduler struct {
	mu    sync.Mutex
	kinds []backend.AssetKind
}

func (s *fakeScheduler) Schedule(kind backend.AssetKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kinds = append(s.kinds, kind)
}

func (s *fakeScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.kinds)
}

type transitionLog struct {
	mu    sync.Mutex
	items []Transition
}

func (l *transitionLog) observe(t Transition) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, t)
}

func (l *transitionLog) phases() []Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Phase, 0, len(l.items))
	for _, t := range l.items {
		out = append(out, t.To)
	}
	return out
}

func script() announcement.SpeechScript {
	return announcement.SpeechScript{Texts: []announcement.SpeechText{
		{Language: language.Gujarati, Text: "ગાડી"},
		{Language: language.English, Text: "Train one two"},
		{Language: language.Hindi, Text: "गाड़ी"},
	}}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func isKind(err error, kind services.Kind) bool {
	return errors.Is(err, kind.Marker())
}
