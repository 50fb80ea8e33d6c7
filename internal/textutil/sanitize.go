package textutil

import (
	"strings"
	"unicode"
)

// maxFileNameBytes keeps handle names well under common filesystem limits.
const maxFileNameBytes = 120

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters and control characters are removed. Leading dots are dropped so
// the result is never hidden or a parent reference, and long names are cut
// at a rune boundary while keeping the extension.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = fileNameReplacer.Replace(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimLeft(strings.TrimSpace(name), ".")
	return truncateKeepingExt(name, maxFileNameBytes)
}

// SanitizeToken converts a string to a lowercase filesystem-safe token.
// Letters are lowercased, digits and hyphens/underscores are kept, everything
// else becomes an underscore. Returns "unknown" for empty input.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}

func truncateKeepingExt(name string, limit int) string {
	if len(name) <= limit {
		return name
	}
	ext := ""
	if idx := strings.LastIndex(name, "."); idx > 0 && len(name)-idx <= 8 {
		ext = name[idx:]
		name = name[:idx]
	}
	budget := limit - len(ext)
	cut := 0
	for i := range name {
		if i > budget {
			break
		}
		cut = i
	}
	if len(name) <= budget {
		cut = len(name)
	}
	return name[:cut] + ext
}
