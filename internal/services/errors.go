package services

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names one class of failure. The set is closed.
type Kind string

const (
	KindValidation             Kind = "validation"
	KindTranslationUnavailable Kind = "translation_unavailable"
	KindSynthesis              Kind = "synthesis"
	KindTransport              Kind = "transport"
	KindEmptyPayload           Kind = "empty_payload"
	KindPlayback               Kind = "playback"
	KindAuth                   Kind = "auth"
	KindNotFound               Kind = "not_found"
)

var (
	ErrValidation             = errors.New("validation error")
	ErrTranslationUnavailable = errors.New("translation unavailable")
	ErrSynthesis              = errors.New("synthesis error")
	ErrTransport              = errors.New("transport error")
	ErrEmptyPayload           = errors.New("empty payload")
	ErrPlayback               = errors.New("playback error")
	ErrAuth                   = errors.New("auth error")
	ErrNotFound               = errors.New("not found")
)

var markers = map[Kind]error{
	KindValidation:             ErrValidation,
	KindTranslationUnavailable: ErrTranslationUnavailable,
	KindSynthesis:              ErrSynthesis,
	KindTransport:              ErrTransport,
	KindEmptyPayload:           ErrEmptyPayload,
	KindPlayback:               ErrPlayback,
	KindAuth:                   ErrAuth,
	KindNotFound:               ErrNotFound,
}

// Marker returns the sentinel error for kind, or nil for an unknown kind.
func (k Kind) Marker() error {
	return markers[k]
}

// Error is a failure tagged with its kind.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	detail := buildDetail(e.Op, e.Message)
	label := string(e.Kind)
	if marker := e.Kind.Marker(); marker != nil {
		label = marker.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", label, detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", label, detail)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel marker for the error's kind.
func (e *Error) Is(target error) bool {
	marker := e.Kind.Marker()
	return marker != nil && target == marker
}

// ErrorKind exposes the kind to classifiers that only see an error value.
func (e *Error) ErrorKind() Kind { return e.Kind }

// Wrap tags err with kind and an operation description. A nil err is allowed;
// the result still carries the kind.
func Wrap(kind Kind, op, message string, err error) error {
	if kind == "" {
		kind = KindTransport
	}
	return &Error{
		Kind:    kind,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Err:     err,
	}
}

// KindOf extracts the kind of the first tagged error in err's chain.
func KindOf(err error) (Kind, bool) {
	if err == nil {
		return "", false
	}
	var classified interface{ ErrorKind() Kind }
	if errors.As(err, &classified) {
		return classified.ErrorKind(), true
	}
	for kind, marker := range markers {
		if errors.Is(err, marker) {
			return kind, true
		}
	}
	return "", false
}

// IsKind reports whether err carries kind.
func IsKind(err error, kind Kind) bool {
	got, ok := KindOf(err)
	return ok && got == kind
}

// UserMessage renders the single operator-facing message for a media or
// backend failure. The kind is always the leading token.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	kind, ok := KindOf(err)
	if !ok {
		return "error: " + err.Error()
	}
	var tagged *Error
	if errors.As(err, &tagged) && tagged.Message != "" {
		return fmt.Sprintf("%s: %s", kind, tagged.Message)
	}
	return fmt.Sprintf("%s: %s", kind, describe(kind))
}

func describe(kind Kind) string {
	switch kind {
	case KindValidation:
		return "input is incomplete"
	case KindTranslationUnavailable:
		return "translation unavailable, using built-in text"
	case KindSynthesis:
		return "the synthesis service could not generate media"
	case KindTransport:
		return "the media could not be downloaded"
	case KindEmptyPayload:
		return "the synthesized media was empty or not playable"
	case KindPlayback:
		return "local playback failed"
	case KindAuth:
		return "no valid credential is available"
	case KindNotFound:
		return "the asset no longer exists"
	default:
		return "operation failed"
	}
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
