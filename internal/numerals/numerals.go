// Package numerals renders train and platform numbers so that speech
// synthesizers read them digit by digit.
package numerals

import (
	"strings"
	"unicode"

	"annunciator/internal/language"
)

var englishDigits = [10]string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine"}

var hindiDigits = [10]string{"शून्य", "एक", "दो", "तीन", "चार", "पांच", "छह", "सात", "आठ", "नौ"}

// Words returns the per-digit word table for lang. Languages without a
// table use the English words.
func Words(lang language.Language) [10]string {
	if lang == language.Hindi {
		return hindiDigits
	}
	return englishDigits
}

// Separate returns the display form of a numeral: its digits joined by
// single spaces ("12951" becomes "1 2 9 5 1"). Non-digit characters other
// than whitespace are kept as their own tokens.
func Separate(n string) string {
	var parts []string
	for _, r := range n {
		if unicode.IsSpace(r) {
			continue
		}
		parts = append(parts, string(r))
	}
	return strings.Join(parts, " ")
}

// Canonical strips whitespace from a numeral and reports whether the rest is
// made only of ASCII digits.
func Canonical(n string) (string, bool) {
	var b strings.Builder
	for _, r := range n {
		if unicode.IsSpace(r) {
			continue
		}
		if r < '0' || r > '9' {
			return "", false
		}
		b.WriteRune(r)
	}
	return b.String(), b.Len() > 0
}

// Speak converts a numeral to space-joined digit words for lang.
func Speak(n string, lang language.Language) string {
	digits, ok := Canonical(n)
	if !ok {
		return n
	}
	words := Words(lang)
	parts := make([]string, 0, len(digits))
	for i := 0; i < len(digits); i++ {
		parts = append(parts, words[digits[i]-'0'])
	}
	return strings.Join(parts, " ")
}

// Normalize rewrites every standalone occurrence of target in text as digit
// words for lang. An occurrence is a run of digits, optionally separated by
// single spaces, whose digits equal target and which is not adjacent to a
// letter, mark, digit, or underscore. Numerals inside other words and longer
// or shorter digit runs are left alone. An empty or non-numeric target
// returns text unchanged. The output of a rewrite contains no digits from the
// run, so normalizing twice is the same as normalizing once.
//
// Display numbers put single spaces between digits, so separate numbers
// joined by one space read as a single run: with target "1", the text
// "platform 1 10 minutes" is left as written. The built-in sentences never
// place two numbers side by side; two spaces or any punctuation keeps them
// apart.
func Normalize(text, target string, lang language.Language) string {
	want, ok := Canonical(target)
	if !ok || text == "" {
		return text
	}
	spoken := Speak(want, lang)

	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text) + len(spoken))
	for i := 0; i < len(runes); {
		if !isDigit(runes[i]) || (i > 0 && isWordRune(runes[i-1])) {
			b.WriteRune(runes[i])
			i++
			continue
		}
		end, digits := scanRun(runes, i)
		if digits == want && (end == len(runes) || !isWordRune(runes[end])) {
			b.WriteString(spoken)
		} else {
			b.WriteString(string(runes[i:end]))
		}
		i = end
	}
	return b.String()
}

// scanRun returns the end of the digit run starting at start and its digits.
func scanRun(runes []rune, start int) (int, string) {
	var digits strings.Builder
	i := start
	for i < len(runes) {
		if isDigit(runes[i]) {
			digits.WriteRune(runes[i])
			i++
			continue
		}
		if runes[i] == ' ' && i+1 < len(runes) && isDigit(runes[i+1]) {
			i++
			continue
		}
		break
	}
	return i, digits.String()
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r)
}
