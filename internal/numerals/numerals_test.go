package numerals

import (
	"testing"

	"annunciator/internal/language"
)

func TestSeparate(t *testing.T) {
	tests := []struct{ in, want string }{
		{"12951", "1 2 9 5 1"},
		{"1", "1"},
		{" 1 2 ", "1 2"},
		{"", ""},
		{"12A", "1 2 A"},
	}
	for _, tc := range tests {
		if got := Separate(tc.in); got != tc.want {
			t.Errorf("Separate(%q) = %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeRewritesTargetOnly(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		target string
		lang   language.Language
		want   string
	}{
		{
			name:   "separated train number",
			text:   "Train number 1 2 9 5 1 Mumbai Rajdhani",
			target: "12951",
			lang:   language.English,
			want:   "Train number one two nine five one Mumbai Rajdhani",
		},
		{
			name:   "contiguous number",
			text:   "Train 12951 arrives",
			target: "12951",
			lang:   language.English,
			want:   "Train one two nine five one arrives",
		},
		{
			name:   "hindi words",
			text:   "प्लेटफॉर्म नंबर 1 0 पर",
			target: "10",
			lang:   language.Hindi,
			want:   "प्लेटफॉर्म नंबर एक शून्य पर",
		},
		{
			name:   "embedded in word untouched",
			text:   "Coach B1 at platform 1.",
			target: "1",
			lang:   language.English,
			want:   "Coach B1 at platform one.",
		},
		{
			name:   "longer run untouched",
			text:   "Train 1 2 9 5 1 at platform 1",
			target: "1",
			lang:   language.English,
			want:   "Train 1 2 9 5 1 at platform one",
		},
		{
			name:   "zero elsewhere untouched",
			text:   "Express 2022 at platform 10",
			target: "10",
			lang:   language.English,
			want:   "Express 2022 at platform one zero",
		},
		{
			name:   "digit followed by letter untouched",
			text:   "platform 5A and 5",
			target: "5",
			lang:   language.English,
			want:   "platform 5A and five",
		},
		{
			name:   "marathi uses english words",
			text:   "प्लॅटफॉर्म क्रमांक 3 वर",
			target: "3",
			lang:   language.Marathi,
			want:   "प्लॅटफॉर्म क्रमांक three वर",
		},
		{
			name:   "adjacent number joins the run",
			text:   "platform 1 10 minutes",
			target: "1",
			lang:   language.English,
			want:   "platform 1 10 minutes",
		},
		{
			name:   "double space separates numbers",
			text:   "platform 1  10 minutes",
			target: "1",
			lang:   language.English,
			want:   "platform one  10 minutes",
		},
		{
			name:   "punctuation separates numbers",
			text:   "platform 1, 10 minutes",
			target: "1",
			lang:   language.English,
			want:   "platform one, 10 minutes",
		},
		{
			name:   "empty target",
			text:   "platform 1",
			target: "",
			lang:   language.English,
			want:   "platform 1",
		},
		{
			name:   "non numeric target",
			text:   "platform 1A",
			target: "1A",
			lang:   language.English,
			want:   "platform 1A",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.text, tc.target, tc.lang); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	sentences := []struct {
		text   string
		target string
	}{
		{"Attention please! Train number 1 2 9 5 1 Mumbai Rajdhani will arrive at platform number 1. Thank you.", "12951"},
		{"Train 0 0 7 at platform 0", "007"},
		{"कृपया ध्यान दें! ट्रेन नंबर 2 2 2 2 1 प्लेटफॉर्म नंबर 4 पर", "22221"},
	}
	for _, lang := range []language.Language{language.English, language.Hindi, language.Gujarati} {
		for _, s := range sentences {
			once := Normalize(s.text, s.target, lang)
			twice := Normalize(once, s.target, lang)
			if once != twice {
				t.Fatalf("not idempotent for %s: %q then %q", lang, once, twice)
			}
			if once == s.text {
				t.Fatalf("expected a rewrite for %q", s.text)
			}
		}
	}
}

func TestSpeak(t *testing.T) {
	if got := Speak("205", language.Hindi); got != "दो शून्य पांच" {
		t.Fatalf("unexpected hindi words: %q", got)
	}
	if got := Speak("x", language.English); got != "x" {
		t.Fatalf("non numeric input should pass through, got %q", got)
	}
}
