package language

import (
	"sort"
	"strings"
)

var defaultStates = map[string]Language{
	"Maharashtra":                 Marathi,
	"Gujarat":                     Gujarati,
	"Delhi":                       Hindi,
	"Karnataka":                   Kannada,
	"Tamil Nadu":                  Tamil,
	"Kerala":                      Malayalam,
	"Andhra Pradesh":              Telugu,
	"Telangana":                   Telugu,
	"West Bengal":                 Bengali,
	"Odisha":                      Odia,
	"Assam":                       Assamese,
	"Punjab":                      Punjabi,
	"Haryana":                     Hindi,
	"Uttar Pradesh":               Hindi,
	"Madhya Pradesh":              Hindi,
	"Rajasthan":                   Hindi,
	"Bihar":                       Hindi,
	"Jharkhand":                   Hindi,
	"Chhattisgarh":                Hindi,
	"Uttarakhand":                 Hindi,
	"Himachal Pradesh":            Hindi,
	"Jammu and Kashmir":           Kashmiri,
	"Goa":                         Konkani,
	"Mizoram":                     Mizo,
	"Manipur":                     Manipuri,
	"Meghalaya":                   Khasi,
	"Nagaland":                    Naga,
	"Tripura":                     Bengali,
	"Sikkim":                      Nepali,
	"Arunachal Pradesh":           English,
	"Andaman and Nicobar Islands": Hindi,
	"Chandigarh":                  Hindi,
	"Dadra and Nagar Haveli":      Gujarati,
	"Daman and Diu":               Gujarati,
	"Lakshadweep":                 Malayalam,
	"Puducherry":                  Tamil,
}

// StateMapping resolves a station's state to its local language. Lookups
// ignore case and surrounding whitespace.
type StateMapping struct {
	states map[string]Language
	names  map[string]string
}

// NewStateMapping returns the built-in mapping with overrides merged over it.
// Override values that do not name a known language are ignored.
func NewStateMapping(overrides map[string]string) *StateMapping {
	m := &StateMapping{
		states: make(map[string]Language, len(defaultStates)+len(overrides)),
		names:  make(map[string]string, len(defaultStates)+len(overrides)),
	}
	for state, lang := range defaultStates {
		m.set(state, lang)
	}
	for state, name := range overrides {
		if lang, ok := Lookup(name); ok {
			m.set(state, lang)
		}
	}
	return m
}

func (m *StateMapping) set(state string, lang Language) {
	key := strings.ToLower(strings.TrimSpace(state))
	if key == "" {
		return
	}
	m.states[key] = lang
	m.names[key] = strings.TrimSpace(state)
}

// Resolve returns the local language for state. Empty or unknown states
// resolve to Hindi.
func (m *StateMapping) Resolve(state string) Language {
	if m == nil {
		m = NewStateMapping(nil)
	}
	if lang, ok := m.states[strings.ToLower(strings.TrimSpace(state))]; ok {
		return lang
	}
	return Hindi
}

// StateEntry is one row of the mapping.
type StateEntry struct {
	State    string
	Language Language
}

// Entries returns the mapping sorted by state name.
func (m *StateMapping) Entries() []StateEntry {
	out := make([]StateEntry, 0, len(m.states))
	for key, lang := range m.states {
		out = append(out, StateEntry{State: m.names[key], Language: lang})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].State < out[j].State })
	return out
}
