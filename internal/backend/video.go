package backend

import (
	"context"
	"net/http"
	"strings"

	"annunciator/internal/services"
)

type signVideoRequest struct {
	EnglishText string `json:"english_text"`
}

type signVideoResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	FilePath string `json:"file_path"`
	FileSize int64  `json:"file_size"`
	VideoURL string `json:"video_url"`
	Message  string `json:"message"`
}

// SignVideoResult identifies a sign-language video on the backend.
type SignVideoResult struct {
	Filename string
	URL      string
	Size     int64
}

// SynthesizeSignVideo asks the backend to compose a sign-language video from English
// text. Like SynthesizeSpeech it is never retried.
func (c *Client) SynthesizeSignVideo(ctx context.Context, english string) (SignVideoResult, error) {
	const op = "generate sign video"
	english = strings.TrimSpace(english)
	if english == "" {
		return SignVideoResult{}, services.Wrap(services.KindValidation, op, "english text is empty", nil)
	}
	resp, err := c.do(ctx, call{
		op:      op,
		method:  http.MethodPost,
		target:  "generate-isl-video",
		body:    signVideoRequest{EnglishText: english},
		kind:    services.KindSynthesis,
		timeout: c.cfg.MediaTimeout,
	})
	if err != nil {
		return SignVideoResult{}, err
	}
	var payload signVideoResponse
	if err := decodeJSON(op, services.KindSynthesis, resp.body, &payload); err != nil {
		return SignVideoResult{}, err
	}
	if !payload.Success {
		msg := strings.TrimSpace(payload.Message)
		if msg == "" {
			msg = "backend reported failure"
		}
		return SignVideoResult{}, services.Wrap(services.KindSynthesis, op, msg, nil)
	}
	name := strings.TrimSpace(payload.Filename)
	if name == "" {
		name = lastSegment(payload.VideoURL)
	}
	link := strings.TrimSpace(payload.VideoURL)
	if name == "" || link == "" {
		return SignVideoResult{}, services.Wrap(services.KindSynthesis, op, "response carries no video location", nil)
	}
	return SignVideoResult{Filename: name, URL: link, Size: payload.FileSize}, nil
}
