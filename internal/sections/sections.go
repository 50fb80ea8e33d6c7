package sections

import (
	"fmt"
	"strings"

	"annunciator/internal/services"
)

const separator = "\n\n"

// Section is one tagged block. An empty Tag marks untagged leading text.
type Section struct {
	Tag  string
	Body string
}

// Document is an ordered set of sections with unique tags. The zero value is
// an empty document.
type Document struct {
	sections []Section
}

// New builds a document from sections in the given order.
func New(sections ...Section) (Document, error) {
	seen := make(map[string]struct{}, len(sections))
	out := make([]Section, 0, len(sections))
	for i, sec := range sections {
		if sec.Tag == "" {
			if i != 0 {
				return Document{}, services.Wrap(services.KindValidation, "build document", "untagged text must come first", nil)
			}
			if headerFollows(sec.Body) {
				return Document{}, services.Wrap(services.KindValidation, "build document", "untagged text must not start with a header", nil)
			}
			if err := checkBody(sec.Body); err != nil {
				return Document{}, err
			}
			out = append(out, sec)
			continue
		}
		if !validTag(sec.Tag) {
			return Document{}, services.Wrap(services.KindValidation, "build document", fmt.Sprintf("invalid tag %q", sec.Tag), nil)
		}
		if _, dup := seen[sec.Tag]; dup {
			return Document{}, services.Wrap(services.KindValidation, "build document", fmt.Sprintf("duplicate tag %q", sec.Tag), nil)
		}
		if err := checkBody(sec.Body); err != nil {
			return Document{}, err
		}
		seen[sec.Tag] = struct{}{}
		out = append(out, sec)
	}
	return Document{sections: out}, nil
}

// Parse splits raw into sections. A header is a line of the form "TAG:" at
// the start of raw or directly after a blank line. Duplicate tags are a
// validation error.
func Parse(raw string) (Document, error) {
	if raw == "" {
		return Document{}, nil
	}
	var out []Section
	seen := map[string]struct{}{}

	pos := 0
	tag, bodyStart, ok := headerAt(raw, 0)
	if !ok {
		next := nextHeader(raw, 0)
		if next < 0 {
			return Document{sections: []Section{{Body: raw}}}, nil
		}
		out = append(out, Section{Body: raw[:next]})
		pos = next + len(separator)
		tag, bodyStart, _ = headerAt(raw, pos)
	}

	for {
		if _, dup := seen[tag]; dup {
			return Document{}, services.Wrap(services.KindValidation, "parse document", fmt.Sprintf("duplicate tag %q", tag), nil)
		}
		seen[tag] = struct{}{}

		next := nextHeader(raw, bodyStart)
		if next < 0 {
			out = append(out, Section{Tag: tag, Body: raw[bodyStart:]})
			break
		}
		out = append(out, Section{Tag: tag, Body: raw[bodyStart:next]})
		pos = next + len(separator)
		tag, bodyStart, _ = headerAt(raw, pos)
	}
	return Document{sections: out}, nil
}

// Serialize renders the document. Serialize(Parse(s)) == s for any s that
// Serialize produced.
func (d Document) Serialize() string {
	var b strings.Builder
	for i, sec := range d.sections {
		if i > 0 {
			b.WriteString(separator)
		}
		if sec.Tag != "" {
			b.WriteString(sec.Tag)
			b.WriteString(":\n")
		}
		b.WriteString(sec.Body)
	}
	return b.String()
}

// Patch returns a copy of the document with tag's body replaced. Every other
// section is carried over unchanged. Patching a tag that is not present is a
// not-found error.
func (d Document) Patch(tag, body string) (Document, error) {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	if err := checkBody(body); err != nil {
		return Document{}, err
	}
	idx := d.index(tag)
	if idx < 0 {
		return Document{}, services.Wrap(services.KindNotFound, "patch document", fmt.Sprintf("no section %q", tag), nil)
	}
	out := d.Sections()
	out[idx].Body = body
	return Document{sections: out}, nil
}

// Body returns tag's body exactly as stored.
func (d Document) Body(tag string) (string, bool) {
	idx := d.index(strings.ToUpper(strings.TrimSpace(tag)))
	if idx < 0 {
		return "", false
	}
	return d.sections[idx].Body, true
}

// Text returns tag's body with surrounding whitespace removed, or "" when
// the tag is absent.
func (d Document) Text(tag string) string {
	body, _ := d.Body(tag)
	return strings.TrimSpace(body)
}

// Has reports whether the document contains tag.
func (d Document) Has(tag string) bool {
	return d.index(strings.ToUpper(strings.TrimSpace(tag))) >= 0
}

// Tags returns the section tags in order, skipping untagged leading text.
func (d Document) Tags() []string {
	tags := make([]string, 0, len(d.sections))
	for _, sec := range d.sections {
		if sec.Tag != "" {
			tags = append(tags, sec.Tag)
		}
	}
	return tags
}

// Sections returns a copy of the sections in order.
func (d Document) Sections() []Section {
	out := make([]Section, len(d.sections))
	copy(out, d.sections)
	return out
}

// Len returns the number of sections.
func (d Document) Len() int { return len(d.sections) }

// Equal reports whether both documents hold the same sections in the same order.
func (d Document) Equal(other Document) bool {
	if len(d.sections) != len(other.sections) {
		return false
	}
	for i := range d.sections {
		if d.sections[i] != other.sections[i] {
			return false
		}
	}
	return true
}

func (d Document) index(tag string) int {
	if tag == "" {
		return -1
	}
	for i, sec := range d.sections {
		if sec.Tag == tag {
			return i
		}
	}
	return -1
}

// headerAt reports whether a "TAG:" line starts at pos and returns the tag
// and the offset where its body begins.
func headerAt(raw string, pos int) (string, int, bool) {
	rest := raw[pos:]
	end := strings.IndexByte(rest, '\n')
	line := rest
	bodyStart := len(raw)
	if end >= 0 {
		line = rest[:end]
		bodyStart = pos + end + 1
	}
	if !strings.HasSuffix(line, ":") {
		return "", 0, false
	}
	tag := line[:len(line)-1]
	if !validTag(tag) {
		return "", 0, false
	}
	return tag, bodyStart, true
}

// nextHeader returns the offset of the separator preceding the next header
// at or after from, or -1.
func nextHeader(raw string, from int) int {
	for i := from; i+len(separator) <= len(raw); {
		j := strings.Index(raw[i:], separator)
		if j < 0 {
			return -1
		}
		at := i + j
		if _, _, ok := headerAt(raw, at+len(separator)); ok {
			return at
		}
		i = at + 1
	}
	return -1
}

// checkBody rejects bodies that would parse back as more than one section.
func checkBody(body string) error {
	if nextHeader(body, 0) >= 0 {
		return services.Wrap(services.KindValidation, "section body", "body must not contain a section header after a blank line", nil)
	}
	return nil
}

func headerFollows(s string) bool {
	if s == "" {
		return false
	}
	_, _, ok := headerAt(s, 0)
	return ok
}

func validTag(tag string) bool {
	if tag == "" {
		return false
	}
	for i, r := range tag {
		switch {
		case r >= 'A' && r <= 'Z':
		case i > 0 && (r == '_' || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}
