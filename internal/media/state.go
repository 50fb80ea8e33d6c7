package media

import (
	"errors"
	"time"

	"annunciator/internal/backend"
	"annunciator/internal/services"
)

// Phase is one state of the media lifecycle.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseRequesting Phase = "requesting"
	PhaseFetching   Phase = "fetching"
	PhaseReady      Phase = "ready"
	PhasePlaying    Phase = "playing"
	PhaseEnded      Phase = "ended"
	PhaseStopped    Phase = "stopped"
	PhaseError      Phase = "error"
)

// Busy reports whether a request or fetch is outstanding.
func (p Phase) Busy() bool {
	return p == PhaseRequesting || p == PhaseFetching
}

// ErrSuperseded is returned by a Generate whose result was discarded because a
// newer Generate or a Close happened while it was in flight.
var ErrSuperseded = errors.New("media request superseded")

// State is the single source of truth for one asset kind. Filename and
// Handle are set only while an asset is live.
type State struct {
	Kind       backend.AssetKind
	Phase      Phase
	Generation uint64
	Filename   string
	URL        string
	Handle     string
	Duration   time.Duration
	Err        error
	Since      time.Time
}

// Live reports whether the state references an asset not yet destroyed.
func (s State) Live() bool {
	return s.Filename != ""
}

// Message is the operator-facing description of the last failure, or "".
func (s State) Message() string {
	if s.Err == nil {
		return ""
	}
	return services.UserMessage(s.Err)
}

// Transition describes one state change.
type Transition struct {
	Kind       backend.AssetKind
	From       Phase
	To         Phase
	Generation uint64
	Filename   string
	Err        error
}

// Observer receives every transition in order. It runs while the manager's
// lock is held and must not call back into the manager.
type Observer func(Transition)
