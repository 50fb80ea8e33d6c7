package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"annunciator/internal/config"
	"annunciator/internal/logging"
	"annunciator/internal/services"
)

func TestNewFromConfigWritesJSONLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Level = "error"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Error("sweep failed", logging.String("kind", "audio"))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "annunciator.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(content))), &entry); err != nil {
		t.Fatalf("decode log entry %q: %v", content, err)
	}
	if entry["msg"] != "sweep failed" || entry["level"] != "error" || entry["kind"] != "audio" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerRendersSubjectAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithSessionID(context.Background(), "0123456789abcdef")
	ctx = services.WithAssetKind(ctx, "audio")
	logger = logging.NewComponentLogger(logger, "media")
	logging.WithContext(ctx, logger).Info("asset ready", logging.String("filename", "announcement_1.mp3"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	for _, fragment := range []string{"INFO [media]", "Session 01234567 (audio)", "asset ready", "filename=announcement_1.mp3"} {
		if !strings.Contains(line, fragment) {
			t.Fatalf("expected %q in %q", fragment, line)
		}
	}
	if strings.Contains(line, "session_id=") {
		t.Fatalf("session id should be folded into the subject: %q", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestErrorArgsIncludesKind(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "errors.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	failure := services.Wrap(services.KindPlayback, "play", "player exited", errors.New("exit status 1"))
	logger.Warn("playback failed", logging.ErrorArgs(failure)...)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), `"error_kind":"playback"`) {
		t.Fatalf("expected error kind in %q", content)
	}
	if !strings.Contains(string(content), `exit status 1`) {
		t.Fatalf("expected error text in %q", content)
	}
}

func TestContextFields(t *testing.T) {
	ctx := services.WithRequestID(context.Background(), "req-xyz")
	ctx = services.WithSessionID(ctx, "sess")
	fields := logging.ContextFields(ctx)
	got := map[string]string{}
	for _, f := range fields {
		got[f.Key] = f.Value.String()
	}
	if got[logging.FieldCorrelationID] != "req-xyz" || got[logging.FieldSessionID] != "sess" {
		t.Fatalf("unexpected fields: %v", got)
	}
	if _, ok := got[logging.FieldAssetKind]; ok {
		t.Fatal("asset kind should be absent")
	}
}

func TestJSONLogStampsContextFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "annunciator.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithSessionID(context.Background(), "from-context")
	ctx = services.WithAssetKind(ctx, "video")
	ctx = services.WithRequestID(ctx, "req-7")

	logger.With(logging.String(logging.FieldSessionID, "bound")).InfoContext(ctx, "media cleaned up")
	logger.Info("no context")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two entries, got %q", content)
	}
	if strings.Count(lines[0], `"session_id"`) != 1 || !strings.Contains(lines[0], `"session_id":"bound"`) {
		t.Fatalf("expected the bound session id only, got %s", lines[0])
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry[logging.FieldAssetKind] != "video" || entry[logging.FieldCorrelationID] != "req-7" {
		t.Fatalf("expected context fields, got %v", entry)
	}
	if strings.Contains(lines[1], "correlation_id") {
		t.Fatalf("record without context gained fields: %s", lines[1])
	}
}
