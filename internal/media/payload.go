package media

import (
	"fmt"
	"mime"
	"net/http"
	"strings"

	"annunciator/internal/backend"
	"annunciator/internal/services"
)

// validatePayload rejects empty bodies and bodies that are not media of the
// expected kind. A declared media type is trusted unless the bytes are
// plainly text; a generic or missing type falls back to sniffing.
func validatePayload(kind backend.AssetKind, payload backend.Payload) error {
	op := fmt.Sprintf("validate %s payload", kind)
	if len(payload.Data) == 0 {
		return services.Wrap(services.KindEmptyPayload, op, "the synthesized media was empty", nil)
	}
	want := "audio/"
	if kind == backend.AssetVideo {
		want = "video/"
	}
	sniffed := baseMediaType(http.DetectContentType(payload.Data))
	declared := payload.MediaType()

	if strings.HasPrefix(sniffed, "text/") {
		return services.Wrap(services.KindEmptyPayload, op, fmt.Sprintf("expected %s* but received %s", want, sniffed), nil)
	}
	if strings.HasPrefix(declared, want) || strings.HasPrefix(sniffed, want) {
		return nil
	}
	if kind == backend.AssetAudio && looksLikeMPEGAudio(payload.Data) {
		return nil
	}
	got := declared
	if got == "" {
		got = sniffed
	}
	return services.Wrap(services.KindEmptyPayload, op, fmt.Sprintf("expected %s* but received %s", want, got), nil)
}

func baseMediaType(value string) string {
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(value))
	}
	return mediaType
}

// looksLikeMPEGAudio checks for an MPEG audio frame sync, which the standard
// sniffer does not recognize when no ID3 tag precedes it.
func looksLikeMPEGAudio(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	return data[0] == 0xFF && data[1]&0xE0 == 0xE0
}
