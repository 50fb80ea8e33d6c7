package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
)

var commandContext = exec.CommandContext

// Player starts local playback of a media file.
type Player interface {
	Play(ctx context.Context, path string) (Playback, error)
}

// Playback is one running playback. Done yields exactly one value when
// playback finishes: nil for a natural end or a Stop, an error otherwise.
type Playback interface {
	Done() <-chan error
	Stop() error
}

// Opener hands a media file to a native viewer and returns without waiting.
type Opener interface {
	Open(ctx context.Context, path string) error
}

// ExecPlayer plays files with an external command such as ffplay.
type ExecPlayer struct {
	Command string
	Args    []string
}

// NewExecPlayer returns a player running command with args followed by the
// file path.
func NewExecPlayer(command string, args []string) *ExecPlayer {
	return &ExecPlayer{Command: command, Args: append([]string(nil), args...)}
}

// Play starts the player process.
func (p *ExecPlayer) Play(ctx context.Context, path string) (Playback, error) {
	if strings.TrimSpace(p.Command) == "" {
		return nil, errors.New("no player command configured")
	}
	args := append(append([]string(nil), p.Args...), path)
	cmd := commandContext(ctx, p.Command, args...) //nolint:gosec
	stderr := &limitedBuffer{limit: 2048}
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", p.Command, err)
	}

	pb := &execPlayback{cmd: cmd, done: make(chan error, 1)}
	go func() {
		err := cmd.Wait()
		if pb.stopped.Load() {
			err = nil
		}
		if err != nil {
			if detail := strings.TrimSpace(stderr.String()); detail != "" {
				err = fmt.Errorf("%s: %w: %s", p.Command, err, detail)
			} else {
				err = fmt.Errorf("%s: %w", p.Command, err)
			}
		}
		pb.done <- err
		close(pb.done)
	}()
	return pb, nil
}

type execPlayback struct {
	cmd     *exec.Cmd
	done    chan error
	stopped atomic.Bool
}

func (p *execPlayback) Done() <-chan error { return p.done }

func (p *execPlayback) Stop() error {
	if !p.stopped.CompareAndSwap(false, true) {
		return nil
	}
	if p.cmd.Process == nil {
		return nil
	}
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("stop player: %w", err)
	}
	return nil
}

// ExecOpener launches a viewer command and leaves it running.
type ExecOpener struct {
	Command string
	Args    []string
}

// Open starts the viewer on path.
func (o ExecOpener) Open(_ context.Context, path string) error {
	if strings.TrimSpace(o.Command) == "" {
		return errors.New("no video player command configured")
	}
	args := append(append([]string(nil), o.Args...), path)
	cmd := exec.Command(o.Command, args...) //nolint:gosec
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", o.Command, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// limitedBuffer keeps the first limit bytes written to it.
type limitedBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if room := b.limit - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
