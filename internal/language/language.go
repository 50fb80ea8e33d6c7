package language

import (
	"strings"

	xlanguage "golang.org/x/text/language"
)

// Language is the display name of an announcement language.
type Language string

const (
	English   Language = "English"
	Hindi     Language = "Hindi"
	Marathi   Language = "Marathi"
	Gujarati  Language = "Gujarati"
	Kannada   Language = "Kannada"
	Tamil     Language = "Tamil"
	Telugu    Language = "Telugu"
	Malayalam Language = "Malayalam"
	Bengali   Language = "Bengali"
	Odia      Language = "Odia"
	Assamese  Language = "Assamese"
	Punjabi   Language = "Punjabi"
	Kashmiri  Language = "Kashmiri"
	Konkani   Language = "Konkani"
	Mizo      Language = "Mizo"
	Manipuri  Language = "Manipuri"
	Khasi     Language = "Khasi"
	Naga      Language = "Naga"
	Nepali    Language = "Nepali"
)

type entry struct {
	name   Language
	code   string // ISO 639-1, or 639-3 when no two-letter code exists
	code3  string // ISO 639-2/3
	speech bool   // the speech synthesizer has a voice for it
	words  []string
}

var languages = []entry{
	{English, "en", "eng", true, nil},
	{Hindi, "hi", "hin", true, nil},
	{Marathi, "mr", "mar", true, nil},
	{Gujarati, "gu", "guj", true, nil},
	{Kannada, "kn", "kan", true, nil},
	{Tamil, "ta", "tam", true, nil},
	{Telugu, "te", "tel", true, nil},
	{Malayalam, "ml", "mal", true, nil},
	{Bengali, "bn", "ben", true, []string{"bangla"}},
	{Odia, "or", "ori", true, []string{"oriya"}},
	{Assamese, "as", "asm", true, nil},
	{Punjabi, "pa", "pan", true, nil},
	{Kashmiri, "ks", "kas", false, nil},
	{Konkani, "kok", "kok", false, nil},
	{Mizo, "lus", "lus", false, []string{"lushai"}},
	{Manipuri, "mni", "mni", false, []string{"meitei"}},
	{Khasi, "kha", "kha", false, nil},
	{Naga, "nag", "nag", false, []string{"nagamese"}},
	{Nepali, "ne", "nep", false, nil},
}

var (
	byKey map[string]*entry
	byTag map[string]*entry
)

func init() {
	byKey = make(map[string]*entry, len(languages)*3)
	byTag = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byKey[strings.ToLower(string(e.name))] = e
		byKey[e.code] = e
		byKey[e.code3] = e
		for _, w := range e.words {
			byKey[w] = e
		}
		byTag[e.name.Tag()] = e
	}
}

// Lookup resolves a display name, ISO code, or alias to a Language.
func Lookup(name string) (Language, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return "", false
	}
	if e, ok := byKey[key]; ok {
		return e.name, true
	}
	return "", false
}

// FromTag resolves an uppercase section tag ("GUJARATI") to its Language.
func FromTag(tag string) (Language, bool) {
	if e, ok := byTag[strings.ToUpper(strings.TrimSpace(tag))]; ok {
		return e.name, true
	}
	return "", false
}

// All returns every known language in table order.
func All() []Language {
	out := make([]Language, 0, len(languages))
	for _, e := range languages {
		out = append(out, e.name)
	}
	return out
}

// Tag returns the section tag used in announcement documents.
func (l Language) Tag() string {
	return strings.ToUpper(string(l))
}

// Code returns the ISO 639 code, or "" for an unknown language.
func (l Language) Code() string {
	if e := l.entry(); e != nil {
		return e.code
	}
	return ""
}

// BCP47 returns the Indian regional tag (for example mr-IN).
func (l Language) BCP47() xlanguage.Tag {
	code := l.Code()
	if code == "" {
		return xlanguage.Und
	}
	tag, err := xlanguage.Parse(code + "-IN")
	if err != nil {
		return xlanguage.Und
	}
	return tag
}

// SpeechCode returns the synthesizer voice code, or "" when no voice exists.
func (l Language) SpeechCode() string {
	e := l.entry()
	if e == nil || !e.speech {
		return ""
	}
	return l.BCP47().String()
}

// Known reports whether l is in the language table.
func (l Language) Known() bool {
	return l.entry() != nil
}

func (l Language) entry() *entry {
	if e, ok := byKey[strings.ToLower(string(l))]; ok {
		return e
	}
	return nil
}
