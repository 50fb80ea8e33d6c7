package backend

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"annunciator/internal/services"
)

// AssetKind distinguishes synthesized audio from sign-language video.
type AssetKind string

const (
	AssetAudio AssetKind = "audio"
	AssetVideo AssetKind = "video"
)

// ParseAssetKind accepts "audio" or "video" in any case.
func ParseAssetKind(raw string) (AssetKind, error) {
	switch AssetKind(strings.ToLower(strings.TrimSpace(raw))) {
	case AssetAudio:
		return AssetAudio, nil
	case AssetVideo:
		return AssetVideo, nil
	default:
		return "", services.Wrap(services.KindValidation, "parse asset kind", fmt.Sprintf("unknown asset kind %q", raw), nil)
	}
}

func (k AssetKind) collection() string {
	if k == AssetVideo {
		return "isl-videos"
	}
	return "audio"
}

// Payload is the fetched bytes of a backend asset.
type Payload struct {
	Data        []byte
	ContentType string
}

// MediaType returns the payload's media type without parameters.
func (p Payload) MediaType() string {
	mediaType, _, err := mime.ParseMediaType(p.ContentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(p.ContentType))
	}
	return mediaType
}

// Fetch downloads the bytes at link, which may be relative to the base URL.
func (c *Client) Fetch(ctx context.Context, link string) (Payload, error) {
	const op = "fetch media"
	if strings.TrimSpace(link) == "" {
		return Payload{}, services.Wrap(services.KindValidation, op, "media url is empty", nil)
	}
	resp, err := c.do(ctx, call{
		op:      op,
		method:  http.MethodGet,
		target:  link,
		kind:    services.KindTransport,
		retry:   true,
		timeout: c.cfg.MediaTimeout,
	})
	if err != nil {
		if services.IsKind(err, services.KindNotFound) {
			return Payload{}, services.Wrap(services.KindTransport, op, "media is no longer on the backend", err)
		}
		return Payload{}, err
	}
	return Payload{Data: resp.body, ContentType: resp.header.Get("Content-Type")}, nil
}

// Delete removes one asset from the backend. An asset that is already gone
// counts as deleted.
func (c *Client) Delete(ctx context.Context, kind AssetKind, filename string) error {
	op := fmt.Sprintf("delete %s", kind)
	filename = strings.TrimSpace(filename)
	if filename == "" || strings.ContainsAny(filename, "/\\") || filename == "." || filename == ".." {
		return services.Wrap(services.KindValidation, op, fmt.Sprintf("invalid asset name %q", filename), nil)
	}
	_, err := c.do(ctx, call{
		op:     op,
		method: http.MethodDelete,
		target: kind.collection() + "/" + url.PathEscape(filename),
		kind:   services.KindTransport,
		retry:  true,
	})
	if err == nil || alreadyGone(err) {
		return nil
	}
	return err
}

// alreadyGone also recognizes servers that wrap their own 404 in a 500.
func alreadyGone(err error) bool {
	if services.IsKind(err, services.KindNotFound) {
		return true
	}
	if StatusCode(err) >= http.StatusInternalServerError {
		msg := strings.ToLower(err.Error())
		return strings.Contains(msg, "404") && strings.Contains(msg, "not found")
	}
	return false
}

type sweepResponse struct {
	Message      string   `json:"message"`
	CleanedCount *int     `json:"cleaned_count"`
	CleanedFiles []string `json:"cleaned_files"`
}

// SweepResult reports what a backend-side sweep removed. Files is empty when
// the backend only reports a count.
type SweepResult struct {
	Count   int
	Files   []string
	Message string
}

// Sweep asks the backend to delete every stored asset of kind.
func (c *Client) Sweep(ctx context.Context, kind AssetKind) (SweepResult, error) {
	op := fmt.Sprintf("sweep %s", kind)
	resp, err := c.do(ctx, call{
		op:     op,
		method: http.MethodPost,
		target: kind.collection() + "/cleanup",
		kind:   services.KindTransport,
		retry:  true,
	})
	if err != nil {
		return SweepResult{}, err
	}
	var payload sweepResponse
	if len(strings.TrimSpace(string(resp.body))) > 0 {
		if err := decodeJSON(op, services.KindTransport, resp.body, &payload); err != nil {
			return SweepResult{}, err
		}
	}
	result := SweepResult{Files: payload.CleanedFiles, Message: strings.TrimSpace(payload.Message)}
	if payload.CleanedCount != nil {
		result.Count = *payload.CleanedCount
	} else {
		result.Count = len(payload.CleanedFiles)
	}
	return result, nil
}

// DeleteAudio removes one synthesized audio file.
func (c *Client) DeleteAudio(ctx context.Context, filename string) error {
	return c.Delete(ctx, AssetAudio, filename)
}

// DeleteVideo removes one sign-language video.
func (c *Client) DeleteVideo(ctx context.Context, filename string) error {
	return c.Delete(ctx, AssetVideo, filename)
}

// SweepAudio deletes every audio file the backend holds.
func (c *Client) SweepAudio(ctx context.Context) (SweepResult, error) {
	return c.Sweep(ctx, AssetAudio)
}

// SweepVideo deletes every sign-language video the backend holds.
func (c *Client) SweepVideo(ctx context.Context) (SweepResult, error) {
	return c.Sweep(ctx, AssetVideo)
}
