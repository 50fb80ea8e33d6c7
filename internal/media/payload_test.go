package media

import (
	"testing"

	"annunciator/internal/backend"
	"annunciator/internal/services"
	"annunciator/internal/testsupport"
)

func TestValidatePayload(t *testing.T) {
	frameSync := append([]byte{0xFF, 0xFB, 0x90, 0x64}, make([]byte, 60)...)
	tests := []struct {
		name    string
		kind    backend.AssetKind
		payload backend.Payload
		ok      bool
	}{
		{name: "id3 declared", kind: backend.AssetAudio, payload: backend.Payload{Data: testsupport.MP3Bytes(32), ContentType: "audio/mpeg"}, ok: true},
		{name: "id3 undeclared", kind: backend.AssetAudio, payload: backend.Payload{Data: testsupport.MP3Bytes(32)}, ok: true},
		{name: "frame sync octet stream", kind: backend.AssetAudio, payload: backend.Payload{Data: frameSync, ContentType: "application/octet-stream"}, ok: true},
		{name: "declared audio opaque bytes", kind: backend.AssetAudio, payload: backend.Payload{Data: []byte{0x00, 0x01, 0x02}, ContentType: "audio/mpeg; charset=binary"}, ok: true},
		{name: "empty", kind: backend.AssetAudio, payload: backend.Payload{ContentType: "audio/mpeg"}},
		{name: "text", kind: backend.AssetAudio, payload: backend.Payload{Data: []byte("Internal Server Error"), ContentType: "audio/mpeg"}},
		{name: "opaque octet stream", kind: backend.AssetAudio, payload: backend.Payload{Data: []byte{0x00, 0x01, 0x02}, ContentType: "application/octet-stream"}},
		{name: "mp4", kind: backend.AssetVideo, payload: backend.Payload{Data: mp4Bytes()}, ok: true},
		{name: "audio as video", kind: backend.AssetVideo, payload: backend.Payload{Data: testsupport.MP3Bytes(32), ContentType: "audio/mpeg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePayload(tt.kind, tt.payload)
			if tt.ok && err != nil {
				t.Fatalf("expected valid payload, got %v", err)
			}
			if !tt.ok && !isKind(err, services.KindEmptyPayload) {
				t.Fatalf("expected empty payload error, got %v", err)
			}
		})
	}
}
