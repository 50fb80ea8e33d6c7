package sections

import (
	"errors"
	"reflect"
	"testing"

	"annunciator/internal/services"
)

func mustNew(t *testing.T, secs ...Section) Document {
	t.Helper()
	doc, err := New(secs...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return doc
}

func TestSerializeFormat(t *testing.T) {
	doc := mustNew(t,
		Section{Tag: "MARATHI", Body: "मराठी"},
		Section{Tag: "ENGLISH", Body: "English text"},
		Section{Tag: "HINDI", Body: "हिंदी"},
	)
	want := "MARATHI:\nमराठी\n\nENGLISH:\nEnglish text\n\nHINDI:\nहिंदी"
	if got := doc.Serialize(); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	docs := [][]Section{
		{{Tag: "ENGLISH", Body: "a"}, {Tag: "HINDI", Body: "b"}},
		{{Tag: "GUJARATI", Body: ""}, {Tag: "ENGLISH", Body: ""}, {Tag: "HINDI", Body: ""}},
		{{Tag: "ENGLISH", Body: "line one\nline two\n"}, {Tag: "HINDI", Body: "\n"}},
		{{Tag: "ENGLISH", Body: "first\n\nsecond paragraph"}, {Tag: "HINDI", Body: "x"}},
		{{Tag: "ENGLISH", Body: "NOTE:\ncolon line"}, {Tag: "HINDI", Body: "\nTAMIL:\nnot a header"}},
		{{Body: "operator note"}, {Tag: "ENGLISH", Body: "text"}},
		{{Body: ""}, {Tag: "ENGLISH", Body: "text"}},
		{{Tag: "ENGLISH", Body: "only"}},
		{{Tag: "FUTURE_LANG2", Body: "kept"}, {Tag: "HINDI", Body: "h"}},
	}
	for i, secs := range docs {
		doc := mustNew(t, secs...)
		raw := doc.Serialize()
		parsed, err := Parse(raw)
		if err != nil {
			t.Fatalf("case %d: Parse(%q): %v", i, raw, err)
		}
		if !parsed.Equal(doc) {
			t.Fatalf("case %d: round trip mismatch\nraw: %q\ngot: %#v\nwant: %#v", i, raw, parsed.Sections(), doc.Sections())
		}
		if parsed.Serialize() != raw {
			t.Fatalf("case %d: serialize(parse(raw)) != raw", i)
		}
	}
}

func TestParseBlankSections(t *testing.T) {
	raw := "MARATHI:\n\n\nGUJARATI:\n\n\nENGLISH:\nhello\n\nHINDI:\n"
	doc, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := doc.Tags(); !reflect.DeepEqual(got, []string{"MARATHI", "GUJARATI", "ENGLISH", "HINDI"}) {
		t.Fatalf("unexpected tags: %v", got)
	}
	if doc.Text("ENGLISH") != "hello" || doc.Text("MARATHI") != "" || doc.Text("HINDI") != "" {
		t.Fatalf("unexpected bodies: %#v", doc.Sections())
	}
}

func TestParseWithoutHeaders(t *testing.T) {
	doc, err := Parse("free text only")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Len() != 1 || len(doc.Tags()) != 0 {
		t.Fatalf("expected one untagged section, got %#v", doc.Sections())
	}
	if doc.Serialize() != "free text only" {
		t.Fatalf("unexpected serialize: %q", doc.Serialize())
	}
}

func TestParseRejectsDuplicateTags(t *testing.T) {
	_, err := Parse("ENGLISH:\na\n\nENGLISH:\nb")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPatchTouchesOnlyTarget(t *testing.T) {
	doc := mustNew(t,
		Section{Tag: "GUJARATI", Body: "ગુજરાતી  \n"},
		Section{Tag: "ENGLISH", Body: "old english"},
		Section{Tag: "KLINGON", Body: "unknown tag body"},
		Section{Tag: "HINDI", Body: "हिंदी\n"},
	)
	patched, err := doc.Patch("english", "new english\nsecond line")
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	before := doc.Sections()
	after := patched.Sections()
	for i := range before {
		if before[i].Tag == "ENGLISH" {
			if after[i].Body != "new english\nsecond line" {
				t.Fatalf("unexpected patched body: %q", after[i].Body)
			}
			continue
		}
		if after[i] != before[i] {
			t.Fatalf("section %s changed: %q -> %q", before[i].Tag, before[i].Body, after[i].Body)
		}
	}
	if doc.Text("ENGLISH") != "old english" {
		t.Fatal("patch must not mutate the original document")
	}

	reparsed, err := Parse(patched.Serialize())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reparsed.Equal(patched) {
		t.Fatal("patched document does not round trip")
	}
}

func TestPatchErrors(t *testing.T) {
	doc := mustNew(t, Section{Tag: "ENGLISH", Body: "a"}, Section{Tag: "HINDI", Body: "b"})
	if _, err := doc.Patch("TAMIL", "x"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := doc.Patch("ENGLISH", "x\n\nHINDI:\ny"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for embedded header, got %v", err)
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		secs []Section
	}{
		{"duplicate", []Section{{Tag: "ENGLISH"}, {Tag: "ENGLISH"}}},
		{"lowercase", []Section{{Tag: "english"}}},
		{"late untagged", []Section{{Tag: "ENGLISH"}, {Body: "x"}}},
		{"untagged header", []Section{{Body: "ENGLISH:\nx"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.secs...); !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
