package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"annunciator/internal/backend"
	"annunciator/internal/ledger"
	"annunciator/internal/media"
	"annunciator/internal/preflight"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Backend", statusError, "unreachable", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Backend:", "[ERROR] unreachable")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Backend", statusOK, "Reachable", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestResultLineKinds(t *testing.T) {
	tests := []struct {
		result preflight.Result
		want   string
	}{
		{preflight.Result{Name: "Backend", Passed: true, Detail: "Reachable"}, "[OK] Reachable"},
		{preflight.Result{Name: "Video opener", Optional: true, Detail: "missing"}, "[WARN] missing"},
		{preflight.Result{Name: "Audio player", Detail: "missing"}, "[ERROR] missing"},
	}
	for _, tt := range tests {
		if got := resultLine(tt.result, false); !strings.Contains(got, tt.want) {
			t.Fatalf("resultLine(%s) = %q, want %q", tt.result.Name, got, tt.want)
		}
	}
}

func TestLedgerLinesHintWhenPending(t *testing.T) {
	lines := ledgerLines(map[ledger.Status]int{ledger.StatusFailed: 2}, false)
	if len(lines) != len(ledger.Statuses())+1 {
		t.Fatalf("expected hint line, got %v", lines)
	}
	if !strings.Contains(lines[1], "[WARN] 2 file(s)") {
		t.Fatalf("expected failed warning, got %q", lines[1])
	}

	lines = ledgerLines(map[ledger.Status]int{ledger.StatusDeleted: 4}, false)
	if len(lines) != len(ledger.Statuses()) {
		t.Fatalf("unexpected hint without pending rows: %v", lines)
	}
}

func TestRenderTransition(t *testing.T) {
	ready := media.Transition{Kind: backend.AssetAudio, From: media.PhaseFetching, To: media.PhaseReady, Filename: "a1.mp3"}
	if got := renderTransition(ready, false); got != "audio: fetching -> ready (a1.mp3)" {
		t.Fatalf("unexpected line %q", got)
	}
	if got := renderTransition(ready, true); !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected ready transition in green, got %q", got)
	}

	failed := media.Transition{Kind: backend.AssetVideo, From: media.PhaseRequesting, To: media.PhaseError, Err: errors.New("backend down")}
	got := renderTransition(failed, true)
	if !strings.HasPrefix(got, ansiRed) || !strings.Contains(got, "video: requesting -> error: backend down") {
		t.Fatalf("unexpected failed transition %q", got)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}
