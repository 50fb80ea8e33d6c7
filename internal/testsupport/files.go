package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// mp3Header is an ID3v2 tag header, enough for content sniffing.
var mp3Header = []byte{'I', 'D', '3', 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

// MP3Bytes returns a payload that sniffs as audio of roughly size bytes.
func MP3Bytes(size int) []byte {
	if size < len(mp3Header) {
		size = len(mp3Header)
	}
	data := make([]byte, size)
	copy(data, mp3Header)
	for i := len(mp3Header); i < size; i++ {
		data[i] = 0x42
	}
	return data
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// MP4Bytes returns a minimal ISO base media header that sniffs as video/mp4.
func MP4Bytes() []byte {
	return []byte{
		0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
		'm', 'p', '4', '2', 0x00, 0x00, 0x00, 0x00,
		'm', 'p', '4', '2', 'i', 's', 'o', 'm',
	}
}
