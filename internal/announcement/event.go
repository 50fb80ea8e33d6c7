package announcement

import (
	"fmt"
	"slices"
	"strings"

	"annunciator/internal/numerals"
	"annunciator/internal/services"
)

// Category is the kind of event being announced.
type Category string

const (
	CategoryArrival        Category = "arrival"
	CategoryDeparture      Category = "departure"
	CategoryDelay          Category = "delay"
	CategoryPlatformChange Category = "platform-change"
	CategoryGeneral        Category = "general"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategoryArrival, CategoryDeparture, CategoryDelay, CategoryPlatformChange, CategoryGeneral}
}

// ParseCategory accepts the canonical names plus underscore and space variants.
func ParseCategory(value string) (Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer("_", "-", " ", "-").Replace(normalized)
	for _, c := range Categories() {
		if string(c) == normalized {
			return c, nil
		}
	}
	return "", services.Wrap(services.KindValidation, "parse category", fmt.Sprintf("unknown category %q", value), nil)
}

// TrainEvent describes one announcement. Numbers are kept as strings so
// leading zeros survive.
type TrainEvent struct {
	Category         Category
	TrainNumber      string
	TrainName        string
	Origin           string
	Destination      string
	Platform         string
	PreviousPlatform string
	NewPlatform      string
}

// CurrentPlatform is the platform the train will use. For a platform change
// it is the new platform when Platform is blank.
func (e TrainEvent) CurrentPlatform() string {
	if e.Category == CategoryPlatformChange && strings.TrimSpace(e.NewPlatform) != "" {
		return strings.TrimSpace(e.NewPlatform)
	}
	return strings.TrimSpace(e.Platform)
}

// Canonical returns e with its category in canonical form ("Arrival" and
// "platform_change" become "arrival" and "platform-change"), after
// validating it.
func (e TrainEvent) Canonical() (TrainEvent, error) {
	category, err := ParseCategory(string(e.Category))
	if err != nil {
		return TrainEvent{}, err
	}
	e.Category = category
	if err := e.Validate(); err != nil {
		return TrainEvent{}, err
	}
	return e, nil
}

// Validate reports the first missing or malformed field as a validation
// error. The category must already be canonical; see Canonical.
func (e TrainEvent) Validate() error {
	if !slices.Contains(Categories(), e.Category) {
		return services.Wrap(services.KindValidation, "validate event", fmt.Sprintf("category %q is not canonical", e.Category), nil)
	}
	required := []struct {
		name  string
		value string
	}{
		{"train number", e.TrainNumber},
		{"train name", e.TrainName},
		{"origin", e.Origin},
		{"destination", e.Destination},
	}
	if e.Category == CategoryPlatformChange {
		required = append(required,
			struct{ name, value string }{"previous platform", e.PreviousPlatform},
			struct{ name, value string }{"new platform", e.NewPlatform},
		)
	} else {
		required = append(required, struct{ name, value string }{"platform", e.Platform})
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return services.Wrap(services.KindValidation, "validate event", field.name+" is required", nil)
		}
	}
	numeric := []struct{ name, value string }{
		{"train number", e.TrainNumber},
		{"platform", e.Platform},
		{"previous platform", e.PreviousPlatform},
		{"new platform", e.NewPlatform},
	}
	for _, field := range numeric {
		if strings.TrimSpace(field.value) == "" {
			continue
		}
		if _, ok := numerals.Canonical(field.value); !ok {
			return services.Wrap(services.KindValidation, "validate event", fmt.Sprintf("%s must be numeric, got %q", field.name, field.value), nil)
		}
	}
	return nil
}

// Values returns the placeholder values for the event with numbers in their
// display form.
func (e TrainEvent) Values() map[string]string {
	values := map[string]string{
		"train_number":      numerals.Separate(e.TrainNumber),
		"train_name":        strings.TrimSpace(e.TrainName),
		"origin":            strings.TrimSpace(e.Origin),
		"destination":       strings.TrimSpace(e.Destination),
		"platform_number":   numerals.Separate(e.CurrentPlatform()),
		"previous_platform": numerals.Separate(e.PreviousPlatform),
		"new_platform":      numerals.Separate(e.NewPlatform),
		"category":          string(e.Category),
	}
	values["platform"] = values["platform_number"]
	values["from_station"] = values["origin"]
	values["to_station"] = values["destination"]
	values["start_station"] = values["origin"]
	values["end_station"] = values["destination"]
	return values
}
