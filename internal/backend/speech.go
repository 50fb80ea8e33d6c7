package backend

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"strings"

	"annunciator/internal/announcement"
	"annunciator/internal/language"
	"annunciator/internal/services"
)

// SpeechRequest is the wire form of one synthesis call. The all-station form
// carries the four fixed languages; the station form carries English, Hindi,
// and an optional local language.
type SpeechRequest struct {
	IsAllStation  bool   `json:"is_all_station,omitempty"`
	MarathiText   string `json:"marathi_text,omitempty"`
	GujaratiText  string `json:"gujarati_text,omitempty"`
	EnglishText   string `json:"english_text"`
	HindiText     string `json:"hindi_text"`
	LocalText     string `json:"local_text,omitempty"`
	LocalLanguage string `json:"local_language,omitempty"`
}

// NewSpeechRequest builds the request for script.
func NewSpeechRequest(script announcement.SpeechScript) SpeechRequest {
	req := SpeechRequest{
		IsAllStation: script.AllStation,
		EnglishText:  script.Text(language.English),
		HindiText:    script.Text(language.Hindi),
	}
	if script.AllStation {
		req.MarathiText = script.Text(language.Marathi)
		req.GujaratiText = script.Text(language.Gujarati)
		return req
	}
	if local, ok := script.Local(); ok {
		req.LocalText = local.Text
		req.LocalLanguage = string(local.Language)
	}
	return req
}

type speechResponse struct {
	Success   bool   `json:"success"`
	AudioPath string `json:"audio_path"`
	AudioURL  string `json:"audio_url"`
	Message   string `json:"message"`
}

// SpeechResult identifies a synthesized audio file on the backend.
type SpeechResult struct {
	Filename string
	URL      string
	Message  string
}

// SynthesizeSpeech asks the backend to render script as one audio file. The call
// is not retried because every attempt may leave a file on the backend.
func (c *Client) SynthesizeSpeech(ctx context.Context, script announcement.SpeechScript) (SpeechResult, error) {
	const op = "generate audio"
	if err := script.Validate(); err != nil {
		return SpeechResult{}, err
	}
	resp, err := c.do(ctx, call{
		op:      op,
		method:  http.MethodPost,
		target:  "generate-audio",
		body:    NewSpeechRequest(script),
		kind:    services.KindSynthesis,
		timeout: c.cfg.MediaTimeout,
	})
	if err != nil {
		return SpeechResult{}, err
	}
	var payload speechResponse
	if err := decodeJSON(op, services.KindSynthesis, resp.body, &payload); err != nil {
		return SpeechResult{}, err
	}
	if !payload.Success {
		msg := strings.TrimSpace(payload.Message)
		if msg == "" {
			msg = "backend reported failure"
		}
		return SpeechResult{}, services.Wrap(services.KindSynthesis, op, msg, nil)
	}
	name := lastSegment(payload.AudioURL)
	if name == "" {
		name = path.Base(strings.ReplaceAll(strings.TrimSpace(payload.AudioPath), "\\", "/"))
	}
	if name == "" || name == "." || name == "/" || strings.TrimSpace(payload.AudioURL) == "" {
		return SpeechResult{}, services.Wrap(services.KindSynthesis, op, "response carries no audio location", nil)
	}
	return SpeechResult{
		Filename: name,
		URL:      strings.TrimSpace(payload.AudioURL),
		Message:  strings.TrimSpace(payload.Message),
	}, nil
}

// lastSegment returns the final path element of a URL or path, ignoring any
// query string.
func lastSegment(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if parsed, err := url.Parse(ref); err == nil {
		ref = parsed.Path
	}
	ref = strings.TrimRight(ref, "/")
	if idx := strings.LastIndex(ref, "/"); idx >= 0 {
		ref = ref[idx+1:]
	}
	return ref
}
