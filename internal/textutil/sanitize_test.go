package textutil

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "announcement_1.mp3", want: "announcement_1.mp3"},
		{in: "../etc/passwd", want: "-etc-passwd"},
		{in: "a:b*c?.mp4", want: "a-b-c.mp4"},
		{in: "  .hidden.mp3 ", want: "hidden.mp3"},
		{in: "bad\x00name.mp3", want: "badname.mp3"},
		{in: "   ", want: ""},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Fatalf("SanitizeFileName(%q) got %q want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeFileNameTruncatesKeepingExtension(t *testing.T) {
	long := strings.Repeat("अ", 100) + ".mp3"
	got := SanitizeFileName(long)
	if len(got) > maxFileNameBytes {
		t.Fatalf("length %d exceeds %d", len(got), maxFileNameBytes)
	}
	if !strings.HasSuffix(got, ".mp3") || !utf8.ValidString(got) {
		t.Fatalf("unexpected truncation %q", got)
	}
}

func TestSanitizeToken(t *testing.T) {
	if got := SanitizeToken("Audio Kind!"); got != "audio_kind" {
		t.Fatalf("got %q want %q", got, "audio_kind")
	}
	if got := SanitizeToken("***"); got != "unknown" {
		t.Fatalf("got %q want %q", got, "unknown")
	}
}
