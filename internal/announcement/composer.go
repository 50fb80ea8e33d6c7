package announcement

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"annunciator/internal/language"
	"annunciator/internal/logging"
	"annunciator/internal/sections"
	"annunciator/internal/services"
)

// Translation is the collaborator's answer for one local language.
type Translation struct {
	English string
	Hindi   string
	Local   string
}

// Translator asks the translation collaborator to render english in local
// plus Hindi.
type Translator interface {
	Translate(ctx context.Context, english string, local language.Language) (Translation, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(ctx context.Context, english string, local language.Language) (Translation, error)

// Translate calls f.
func (f TranslatorFunc) Translate(ctx context.Context, english string, local language.Language) (Translation, error) {
	return f(ctx, english, local)
}

// Option configures a Composer.
type Option func(*Composer)

// WithTranslationSupported sets the local languages the translator accepts.
func WithTranslationSupported(langs ...language.Language) Option {
	return func(c *Composer) {
		c.supported = make(map[language.Language]struct{}, len(langs))
		for _, lang := range langs {
			c.supported[lang] = struct{}{}
		}
	}
}

// WithLogger sets the logger used to report translation fallbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Composer builds announcement documents.
type Composer struct {
	translator Translator
	supported  map[language.Language]struct{}
	logger     *slog.Logger
}

// NewComposer returns a composer. A nil translator always uses built-in text.
func NewComposer(translator Translator, opts ...Option) *Composer {
	c := &Composer{
		translator: translator,
		logger:     logging.NewNop(),
	}
	WithTranslationSupported(language.Gujarati, language.Marathi)(c)
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "composer")
	return c
}

// Result is a composed document plus how it was produced.
type Result struct {
	Document sections.Document
	// Event is the composed event with its category in canonical form.
	Event   TrainEvent
	English string
	// Translated is true when every local section came from the translator.
	Translated bool
	// Fallback holds the translation failure that forced built-in text. It
	// is informational and never a composition failure.
	Fallback error
}

// Compose renders event into a document in plan's canonical order. Only an
// invalid event returns an error.
func (c *Composer) Compose(ctx context.Context, event TrainEvent, plan language.Plan) (sections.Document, error) {
	res, err := c.ComposeResult(ctx, event, plan)
	if err != nil {
		return sections.Document{}, err
	}
	return res.Document, nil
}

// ComposeResult is Compose with fallback details.
func (c *Composer) ComposeResult(ctx context.Context, event TrainEvent, plan language.Plan) (Result, error) {
	event, err := event.Canonical()
	if err != nil {
		return Result{}, err
	}
	english := Sentence(event, language.English)

	var (
		texts    map[language.Language]string
		fallback error
	)
	if plan.IsAll() {
		texts, fallback = c.translateAll(ctx, english)
	} else {
		texts, fallback = c.translateLocal(ctx, english, plan)
	}
	if fallback != nil {
		logging.WithContext(ctx, c.logger).Warn("translation unavailable, using built-in text",
			logging.ErrorArgs(fallback)...)
	}

	res := Result{Event: event, English: english, Translated: fallback == nil && texts != nil, Fallback: fallback}
	langs := plan.Languages()
	secs := make([]sections.Section, 0, len(langs))
	for _, lang := range langs {
		text := strings.TrimSpace(texts[lang])
		if lang == language.English && text == "" {
			text = english
		}
		if text == "" {
			text = Sentence(event, lang)
		}
		secs = append(secs, sections.Section{Tag: lang.Tag(), Body: text})
	}
	doc, err := sections.New(secs...)
	if err != nil {
		return Result{}, err
	}
	res.Document = doc
	return res, nil
}

// translateAll requests Marathi and Gujarati concurrently. Any failure
// discards both answers so the document is uniformly built-in.
func (c *Composer) translateAll(ctx context.Context, english string) (map[language.Language]string, error) {
	if c.translator == nil {
		return nil, nil
	}
	locals := []language.Language{language.Marathi, language.Gujarati}
	answers := make([]Translation, len(locals))
	errs := make([]error, len(locals))

	var wg sync.WaitGroup
	for i, lang := range locals {
		wg.Add(1)
		go func(i int, lang language.Language) {
			defer wg.Done()
			answers[i], errs[i] = c.translate(ctx, english, lang)
		}(i, lang)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	hindi := answers[0].Hindi
	if strings.TrimSpace(hindi) == "" {
		hindi = answers[1].Hindi
	}
	return map[language.Language]string{
		language.Marathi:  answers[0].Local,
		language.Gujarati: answers[1].Local,
		language.English:  english,
		language.Hindi:    hindi,
	}, nil
}

func (c *Composer) translateLocal(ctx context.Context, english string, plan language.Plan) (map[language.Language]string, error) {
	if c.translator == nil || !plan.HasLocalSection() {
		return nil, nil
	}
	if _, ok := c.supported[plan.Local]; !ok {
		return nil, nil
	}
	answer, err := c.translate(ctx, english, plan.Local)
	if err != nil {
		return nil, err
	}
	return map[language.Language]string{
		plan.Local:       answer.Local,
		language.English: answer.English,
		language.Hindi:   answer.Hindi,
	}, nil
}

func (c *Composer) translate(ctx context.Context, english string, local language.Language) (Translation, error) {
	answer, err := c.translator.Translate(ctx, english, local)
	if err != nil {
		return Translation{}, services.Wrap(services.KindTranslationUnavailable, "translate", string(local), err)
	}
	if strings.TrimSpace(answer.Local) == "" && strings.TrimSpace(answer.Hindi) == "" {
		return Translation{}, services.Wrap(services.KindTranslationUnavailable, "translate", string(local)+": empty translation", nil)
	}
	answer.English = singleParagraph(answer.English)
	answer.Hindi = singleParagraph(answer.Hindi)
	answer.Local = singleParagraph(answer.Local)
	return answer, nil
}

// singleParagraph drops blank lines so collaborator text cannot open a new
// document section.
func singleParagraph(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, strings.TrimRight(line, " \t\r"))
		}
	}
	return strings.Join(kept, "\n")
}
