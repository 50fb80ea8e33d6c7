package language

import "strings"

// DefaultAllCode is the station code that selects ALL mode.
const DefaultAllCode = "ALL"

// Mode selects how a plan derives its languages.
type Mode int

const (
	// ModeStation uses the station's local language plus English and Hindi.
	ModeStation Mode = iota
	// ModeAll uses the fixed Marathi, Gujarati, English, Hindi quadruple.
	ModeAll
)

func (m Mode) String() string {
	if m == ModeAll {
		return "all"
	}
	return "station"
}

// Plan is the set of languages an announcement carries.
type Plan struct {
	Mode        Mode
	StationCode string
	State       string
	// Local is the resolved local language. In ALL mode it is Marathi.
	Local Language
}

// ResolvePlan derives the plan for a station. A station code equal to allCode
// (case-insensitive) selects ALL mode regardless of state.
func ResolvePlan(stationCode, state string, mapping *StateMapping, allCode string) Plan {
	if strings.TrimSpace(allCode) == "" {
		allCode = DefaultAllCode
	}
	code := strings.TrimSpace(stationCode)
	if code != "" && strings.EqualFold(code, strings.TrimSpace(allCode)) {
		return Plan{Mode: ModeAll, StationCode: code, State: state, Local: Marathi}
	}
	return Plan{
		Mode:        ModeStation,
		StationCode: code,
		State:       strings.TrimSpace(state),
		Local:       mapping.Resolve(state),
	}
}

// IsAll reports whether the plan is in ALL mode.
func (p Plan) IsAll() bool { return p.Mode == ModeAll }

// HasLocalSection reports whether the local language gets its own section.
// Hindi and English locals are never duplicated.
func (p Plan) HasLocalSection() bool {
	if p.IsAll() {
		return true
	}
	return p.Local != "" && p.Local != Hindi && p.Local != English
}

// Languages returns the plan's languages in canonical section order: local
// (or Marathi then Gujarati in ALL mode) first, English, then Hindi last.
func (p Plan) Languages() []Language {
	if p.IsAll() {
		return []Language{Marathi, Gujarati, English, Hindi}
	}
	out := make([]Language, 0, 3)
	if p.HasLocalSection() {
		out = append(out, p.Local)
	}
	return append(out, English, Hindi)
}

// Tags returns the section tags in canonical order.
func (p Plan) Tags() []string {
	langs := p.Languages()
	out := make([]string, len(langs))
	for i, lang := range langs {
		out[i] = lang.Tag()
	}
	return out
}

// Contains reports whether lang is part of the plan.
func (p Plan) Contains(lang Language) bool {
	for _, candidate := range p.Languages() {
		if candidate == lang {
			return true
		}
	}
	return false
}
