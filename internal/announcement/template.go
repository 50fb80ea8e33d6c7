package announcement

import "strings"

// RenderTemplate replaces {name} placeholders in text with values[name].
// Unknown placeholders and unmatched braces are left as written.
func RenderTemplate(text string, values map[string]string) string {
	if !strings.Contains(text, "{") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for {
		open := strings.IndexByte(text, '{')
		if open < 0 {
			b.WriteString(text)
			break
		}
		closing := strings.IndexByte(text[open+1:], '}')
		if closing < 0 {
			b.WriteString(text)
			break
		}
		closing += open + 1
		name := text[open+1 : closing]
		value, ok := values[name]
		if !ok || !validPlaceholder(name) {
			b.WriteString(text[:open+1])
			text = text[open+1:]
			continue
		}
		b.WriteString(text[:open])
		b.WriteString(value)
		text = text[closing+1:]
	}
	return b.String()
}

// Placeholders returns the distinct placeholder names used by text in order
// of first appearance.
func Placeholders(text string) []string {
	var names []string
	seen := map[string]struct{}{}
	for {
		open := strings.IndexByte(text, '{')
		if open < 0 {
			return names
		}
		closing := strings.IndexByte(text[open+1:], '}')
		if closing < 0 {
			return names
		}
		name := text[open+1 : open+1+closing]
		if !validPlaceholder(name) {
			text = text[open+1:]
			continue
		}
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
		text = text[open+1+closing+1:]
	}
}

func validPlaceholder(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}
