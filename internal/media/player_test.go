package media

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func awaitDone(t *testing.T, pb Playback) error {
	t.Helper()
	select {
	case err := <-pb.Done():
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("playback did not finish")
		return nil
	}
}

func TestExecPlayerNaturalEnd(t *testing.T) {
	requireShell(t)
	player := NewExecPlayer("sh", []string{"-c", "exit 0"})

	pb, err := player.Play(context.Background(), "/tmp/ignored.mp3")
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if err := awaitDone(t, pb); err != nil {
		t.Fatalf("expected natural end, got %v", err)
	}
}

func TestExecPlayerFailureCarriesStderr(t *testing.T) {
	requireShell(t)
	player := NewExecPlayer("sh", []string{"-c", "echo 'bad file' >&2; exit 3"})

	pb, err := player.Play(context.Background(), "/tmp/ignored.mp3")
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	err = awaitDone(t, pb)
	if err == nil {
		t.Fatal("expected playback error")
	}
	if got := err.Error(); !strings.Contains(got, "bad file") {
		t.Fatalf("error %q lacks stderr detail", got)
	}
}

func TestExecPlayerStopIsNotAnError(t *testing.T) {
	requireShell(t)
	player := NewExecPlayer("sh", []string{"-c", "exec sleep 30"})

	pb, err := player.Play(context.Background(), "/tmp/ignored.mp3")
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if err := pb.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := pb.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	if err := awaitDone(t, pb); err != nil {
		t.Fatalf("stopped playback reported %v", err)
	}
}

func TestExecPlayerMissingBinary(t *testing.T) {
	player := NewExecPlayer("annunciator-no-such-player", nil)
	if _, err := player.Play(context.Background(), "x.mp3"); err == nil {
		t.Fatal("expected start failure")
	}
}

