package announcement

import (
	"strings"

	"annunciator/internal/language"
	"annunciator/internal/numerals"
	"annunciator/internal/sections"
	"annunciator/internal/services"
)

// SpeechText is the synthesizer input for one language.
type SpeechText struct {
	Language language.Language
	Text     string
}

// SpeechScript is the per-language input for one speech synthesis call.
type SpeechScript struct {
	AllStation bool
	Texts      []SpeechText
}

// Text returns the text for lang, or "".
func (s SpeechScript) Text(lang language.Language) string {
	for _, t := range s.Texts {
		if t.Language == lang {
			return t.Text
		}
	}
	return ""
}

// Local returns the first text that is neither English nor Hindi.
func (s SpeechScript) Local() (SpeechText, bool) {
	for _, t := range s.Texts {
		if t.Language != language.English && t.Language != language.Hindi {
			return t, true
		}
	}
	return SpeechText{}, false
}

// Validate rejects a script with no texts or any blank text.
func (s SpeechScript) Validate() error {
	if len(s.Texts) == 0 {
		return services.Wrap(services.KindValidation, "speech script", "no text to synthesize", nil)
	}
	for _, t := range s.Texts {
		if strings.TrimSpace(t.Text) == "" {
			return services.Wrap(services.KindValidation, "speech script", string(t.Language)+" text is empty", nil)
		}
	}
	return nil
}

// SpeechTexts reads each plan language from doc and spells out the train
// number and platform numbers for the synthesizer. The train number is
// rewritten first so a platform number that is also a digit of the train
// number cannot match inside it.
func SpeechTexts(doc sections.Document, plan language.Plan, event TrainEvent) (SpeechScript, error) {
	targets := []string{event.TrainNumber, event.CurrentPlatform(), event.PreviousPlatform, event.NewPlatform}
	script := SpeechScript{AllStation: plan.IsAll()}
	for _, lang := range plan.Languages() {
		text := doc.Text(lang.Tag())
		for _, target := range targets {
			text = numerals.Normalize(text, target, lang)
		}
		script.Texts = append(script.Texts, SpeechText{Language: lang, Text: text})
	}
	if err := script.Validate(); err != nil {
		return SpeechScript{}, err
	}
	return script, nil
}
