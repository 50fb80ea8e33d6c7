package backend

import (
	"context"
	"net/http"
	"strings"

	"annunciator/internal/language"
	"annunciator/internal/services"
)

type translateRequest struct {
	EnglishText   string `json:"english_text"`
	LocalLanguage string `json:"local_language"`
}

type translateResponse struct {
	English       string `json:"english"`
	Hindi         string `json:"hindi"`
	Local         string `json:"local"`
	LocalLanguage string `json:"local_language"`
}

// Translation is one translation answer. Local is in the requested local
// language.
type Translation struct {
	English string
	Hindi   string
	Local   string
}

// Translate asks the backend for Hindi and local-language renderings of an
// English announcement. An answer with neither rendering is treated as
// unavailable.
func (c *Client) Translate(ctx context.Context, english string, local language.Language) (Translation, error) {
	const op = "translate announcement"
	english = strings.TrimSpace(english)
	if english == "" {
		return Translation{}, services.Wrap(services.KindValidation, op, "english text is empty", nil)
	}
	resp, err := c.do(ctx, call{
		op:     op,
		method: http.MethodPost,
		target: "translate/announcement",
		body:   translateRequest{EnglishText: english, LocalLanguage: string(local)},
		kind:   services.KindTranslationUnavailable,
		retry:  true,
	})
	if err != nil {
		return Translation{}, err
	}
	var payload translateResponse
	if err := decodeJSON(op, services.KindTranslationUnavailable, resp.body, &payload); err != nil {
		return Translation{}, err
	}
	out := Translation{
		English: strings.TrimSpace(payload.English),
		Hindi:   strings.TrimSpace(payload.Hindi),
		Local:   strings.TrimSpace(payload.Local),
	}
	if out.Hindi == "" && out.Local == "" {
		return Translation{}, services.Wrap(services.KindTranslationUnavailable, op, "empty translation", nil)
	}
	if out.English == "" {
		out.English = english
	}
	return out, nil
}
