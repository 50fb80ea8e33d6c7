package announcement

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"annunciator/internal/language"
	"annunciator/internal/services"
)

type fakeTranslator struct {
	mu      sync.Mutex
	calls   []language.Language
	answers map[language.Language]Translation
	fail    map[language.Language]error
}

func (f *fakeTranslator) Translate(_ context.Context, english string, local language.Language) (Translation, error) {
	f.mu.Lock()
	f.calls = append(f.calls, local)
	f.mu.Unlock()
	if err := f.fail[local]; err != nil {
		return Translation{}, err
	}
	if answer, ok := f.answers[local]; ok {
		return answer, nil
	}
	return Translation{English: english, Hindi: "hindi for " + string(local), Local: "local " + string(local)}, nil
}

func rajdhani() TrainEvent {
	return TrainEvent{
		Category:    CategoryArrival,
		TrainNumber: "12951",
		TrainName:   "Mumbai Rajdhani",
		Origin:      "Mumbai Central",
		Destination: "New Delhi",
		Platform:    "1",
	}
}

func stationPlan(state string) language.Plan {
	return language.ResolvePlan("BCT", state, language.NewStateMapping(nil), "ALL")
}

func TestComposeArrivalEnglishSentence(t *testing.T) {
	composer := NewComposer(nil)
	doc, err := composer.Compose(context.Background(), rajdhani(), stationPlan("Delhi"))
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	want := "Attention please! Train number 1 2 9 5 1 Mumbai Rajdhani from Mumbai Central to New Delhi will arrive at platform number 1. Thank you."
	if got := doc.Text("ENGLISH"); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if got := doc.Tags(); !reflect.DeepEqual(got, []string{"ENGLISH", "HINDI"}) {
		t.Fatalf("unexpected tags: %v", got)
	}
}

func TestComposePlatformChangeStatesNewPlatformFirst(t *testing.T) {
	event := rajdhani()
	event.Category = CategoryPlatformChange
	event.Platform = ""
	event.PreviousPlatform = "3"
	event.NewPlatform = "5"

	doc, err := NewComposer(nil).Compose(context.Background(), event, stationPlan("Delhi"))
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	english := doc.Text("ENGLISH")
	newIdx := strings.Index(english, "platform number 5")
	oldIdx := strings.Index(english, "platform number 3")
	if newIdx < 0 || oldIdx < 0 {
		t.Fatalf("expected both platforms in %q", english)
	}
	if newIdx > oldIdx {
		t.Fatalf("expected new platform first in %q", english)
	}
}

func TestComposeAcceptsLooseCategorySpelling(t *testing.T) {
	composer := NewComposer(nil)

	event := rajdhani()
	event.Category = "Arrival"
	res, err := composer.ComposeResult(context.Background(), event, stationPlan("Delhi"))
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !strings.HasSuffix(res.English, "will arrive at platform number 1. Thank you.") {
		t.Fatalf("expected the arrival sentence, got %q", res.English)
	}
	if res.Event.Category != CategoryArrival {
		t.Fatalf("event category got %q want %q", res.Event.Category, CategoryArrival)
	}

	event = rajdhani()
	event.Category = "platform_change"
	event.Platform = ""
	event.PreviousPlatform = "3"
	event.NewPlatform = "5"
	res, err = composer.ComposeResult(context.Background(), event, stationPlan("Delhi"))
	if err != nil {
		t.Fatalf("Compose platform_change: %v", err)
	}
	if !strings.Contains(res.English, "platform number 5") || !strings.Contains(res.English, "platform number 3") {
		t.Fatalf("expected the platform-change sentence, got %q", res.English)
	}
	if res.Event.CurrentPlatform() != "5" {
		t.Fatalf("current platform got %q want 5", res.Event.CurrentPlatform())
	}
}

func TestValidateRequiresCanonicalCategory(t *testing.T) {
	event := rajdhani()
	event.Category = "Arrival"
	if err := event.Validate(); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	canonical, err := event.Canonical()
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	if err := canonical.Validate(); err != nil {
		t.Fatalf("Validate canonical: %v", err)
	}
}

func TestComposeStationModeUsesTranslation(t *testing.T) {
	translator := &fakeTranslator{answers: map[language.Language]Translation{
		language.Gujarati: {English: "translated english", Hindi: "अनुवाद", Local: "ગુજરાતી અનુવાદ"},
	}}
	res, err := NewComposer(translator).ComposeResult(context.Background(), rajdhani(), stationPlan("Gujarat"))
	if err != nil {
		t.Fatalf("ComposeResult: %v", err)
	}
	if !res.Translated || res.Fallback != nil {
		t.Fatalf("expected translated result, got %+v", res)
	}
	doc := res.Document
	if got := doc.Tags(); !reflect.DeepEqual(got, []string{"GUJARATI", "ENGLISH", "HINDI"}) {
		t.Fatalf("unexpected tags: %v", got)
	}
	if doc.Text("GUJARATI") != "ગુજરાતી અનુવાદ" || doc.Text("HINDI") != "अनुवाद" || doc.Text("ENGLISH") != "translated english" {
		t.Fatalf("unexpected sections: %#v", doc.Sections())
	}
}

func TestComposeTranslationFailureFallsBack(t *testing.T) {
	translator := &fakeTranslator{fail: map[language.Language]error{language.Gujarati: errors.New("503")}}
	res, err := NewComposer(translator).ComposeResult(context.Background(), rajdhani(), stationPlan("Gujarat"))
	if err != nil {
		t.Fatalf("translation failure must not fail composition: %v", err)
	}
	if !errors.Is(res.Fallback, services.ErrTranslationUnavailable) {
		t.Fatalf("expected translation unavailable fallback, got %v", res.Fallback)
	}
	doc := res.Document
	for _, tag := range []string{"GUJARATI", "ENGLISH", "HINDI"} {
		if doc.Text(tag) == "" {
			t.Fatalf("expected non-empty %s section", tag)
		}
	}
	if !strings.HasPrefix(doc.Text("GUJARATI"), "કૃપા કરીને ધ્યાન આપો!") {
		t.Fatalf("expected built-in Gujarati text, got %q", doc.Text("GUJARATI"))
	}
	if !strings.Contains(doc.Text("HINDI"), "1 2 9 5 1") {
		t.Fatalf("expected display digits in Hindi text, got %q", doc.Text("HINDI"))
	}
}

func TestComposeEmptyTranslationFallsBack(t *testing.T) {
	translator := &fakeTranslator{answers: map[language.Language]Translation{language.Marathi: {}}}
	res, err := NewComposer(translator).ComposeResult(context.Background(), rajdhani(), stationPlan("Maharashtra"))
	if err != nil {
		t.Fatalf("ComposeResult: %v", err)
	}
	if res.Fallback == nil {
		t.Fatal("expected fallback for empty translation")
	}
	if !strings.HasPrefix(res.Document.Text("MARATHI"), "कृपया लक्ष द्या!") {
		t.Fatalf("expected built-in Marathi text, got %q", res.Document.Text("MARATHI"))
	}
}

func TestComposeUnsupportedLocalSkipsTranslator(t *testing.T) {
	translator := &fakeTranslator{}
	doc, err := NewComposer(translator).Compose(context.Background(), rajdhani(), stationPlan("Tamil Nadu"))
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(translator.calls) != 0 {
		t.Fatalf("expected no translator calls, got %v", translator.calls)
	}
	if got := doc.Tags(); !reflect.DeepEqual(got, []string{"TAMIL", "ENGLISH", "HINDI"}) {
		t.Fatalf("unexpected tags: %v", got)
	}
	if doc.Text("TAMIL") != doc.Text("ENGLISH") {
		t.Fatalf("expected English text for language without built-in sentence, got %q", doc.Text("TAMIL"))
	}
}

func TestComposeAllModeTranslatesBothLocals(t *testing.T) {
	translator := &fakeTranslator{answers: map[language.Language]Translation{
		language.Marathi:  {Hindi: "", Local: "मराठी"},
		language.Gujarati: {Hindi: "हिंदी", Local: "ગુજરાતી"},
	}}
	plan := language.ResolvePlan("ALL", "", nil, "ALL")
	doc, err := NewComposer(translator).Compose(context.Background(), rajdhani(), plan)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if got := doc.Tags(); !reflect.DeepEqual(got, []string{"MARATHI", "GUJARATI", "ENGLISH", "HINDI"}) {
		t.Fatalf("unexpected tags: %v", got)
	}
	if doc.Text("MARATHI") != "मराठी" || doc.Text("GUJARATI") != "ગુજરાતી" || doc.Text("HINDI") != "हिंदी" {
		t.Fatalf("unexpected sections: %#v", doc.Sections())
	}
	if !strings.HasPrefix(doc.Text("ENGLISH"), "Attention please!") {
		t.Fatalf("expected rendered English, got %q", doc.Text("ENGLISH"))
	}
	if len(translator.calls) != 2 {
		t.Fatalf("expected two translator calls, got %v", translator.calls)
	}
}

func TestComposeAllModeAnyFailureUsesBuiltInText(t *testing.T) {
	translator := &fakeTranslator{fail: map[language.Language]error{language.Gujarati: errors.New("timeout")}}
	plan := language.ResolvePlan("ALL", "", nil, "ALL")
	res, err := NewComposer(translator).ComposeResult(context.Background(), rajdhani(), plan)
	if err != nil {
		t.Fatalf("ComposeResult: %v", err)
	}
	if res.Translated {
		t.Fatal("expected built-in result")
	}
	if res.Document.Text("MARATHI") != Sentence(rajdhani(), language.Marathi) {
		t.Fatalf("expected built-in Marathi even though its call succeeded, got %q", res.Document.Text("MARATHI"))
	}
}

func TestComposeFlattensTranslatedBlankLines(t *testing.T) {
	translator := &fakeTranslator{answers: map[language.Language]Translation{
		language.Marathi: {Hindi: "h", Local: "line one\n\nHINDI:\ninjected"},
	}}
	doc, err := NewComposer(translator).Compose(context.Background(), rajdhani(), stationPlan("Maharashtra"))
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if doc.Text("MARATHI") != "line one\nHINDI:\ninjected" {
		t.Fatalf("unexpected Marathi body: %q", doc.Text("MARATHI"))
	}
	if doc.Text("HINDI") != "h" {
		t.Fatalf("unexpected Hindi body: %q", doc.Text("HINDI"))
	}
}

func TestComposeRejectsIncompleteEvent(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TrainEvent)
	}{
		{"train number", func(e *TrainEvent) { e.TrainNumber = "" }},
		{"non numeric train", func(e *TrainEvent) { e.TrainNumber = "12A51" }},
		{"name", func(e *TrainEvent) { e.TrainName = " " }},
		{"platform", func(e *TrainEvent) { e.Platform = "" }},
		{"category", func(e *TrainEvent) { e.Category = "boarding" }},
		{"platform change", func(e *TrainEvent) { e.Category = CategoryPlatformChange; e.NewPlatform = "4" }},
	}
	translator := &fakeTranslator{}
	composer := NewComposer(translator)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			event := rajdhani()
			tc.mutate(&event)
			_, err := composer.Compose(context.Background(), event, stationPlan("Gujarat"))
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if len(translator.calls) != 0 {
		t.Fatal("invalid events must not reach the translator")
	}
}

func TestEveryCategoryHasBuiltInSentences(t *testing.T) {
	for _, category := range Categories() {
		event := rajdhani()
		event.Category = category
		event.PreviousPlatform = "2"
		event.NewPlatform = "4"
		for _, lang := range []language.Language{language.English, language.Hindi, language.Marathi, language.Gujarati} {
			text := Sentence(event, lang)
			if strings.Contains(text, "{") {
				t.Fatalf("%s/%s left a placeholder: %q", category, lang, text)
			}
			if !strings.Contains(text, "1 2 9 5 1") {
				t.Fatalf("%s/%s missing train number: %q", category, lang, text)
			}
		}
	}
}
