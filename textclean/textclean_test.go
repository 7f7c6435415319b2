package textclean

import (
	"strings"
	"testing"
)

func TestClean_AllPassesDisabled(t *testing.T) {
	// WHAT: With every flag off, only whitespace normalization applies.
	// WHY: Cleaning must never be a silent no-op beyond the fixed normalization.
	input := "  Hello\n\n\n\n\nWorld  \n"
	res := Clean(input, Options{})

	if res.CleanedText != "Hello\n\nWorld" {
		t.Fatalf("cleaned = %q, want %q", res.CleanedText, "Hello\n\nWorld")
	}
	if res.OriginalText != input {
		t.Fatalf("original text not preserved verbatim: %q", res.OriginalText)
	}
	if res.Stats.Total() != 0 {
		t.Fatalf("expected zero removals, got %+v", res.Stats)
	}
}

func TestClean_PageNumbers(t *testing.T) {
	// "Page 3 of 10" and the bare "1" both count; "Hello" survives.
	res := Clean("Page 3 of 10\nHello\n1\n", Default())

	if res.Stats.PageNumbersRemoved != 2 {
		t.Fatalf("PageNumbersRemoved = %d, want 2", res.Stats.PageNumbersRemoved)
	}
	if res.CleanedText != "Hello" {
		t.Fatalf("cleaned = %q, want %q", res.CleanedText, "Hello")
	}
}

func TestClean_PageNumberForms(t *testing.T) {
	tests := []struct {
		line    string
		removed int
	}{
		{"42", 1},
		{"  7  ", 1},
		{"Page 3", 1},
		{"page 12 of 200", 1},
		{"Page 4 / 9", 1},
		{"페이지 3", 1},
		{"쪽 5 중 12", 1},
		{"- 4 -", 1},
		{"| 9 |", 1},
		{"Chapter 4", 0},
		{"4 apples", 0},
		{"- 4 |", 0},
	}

	for _, tt := range tests {
		res := Clean("intro\n"+tt.line+"\noutro\n", Default())
		if res.Stats.PageNumbersRemoved != tt.removed {
			t.Errorf("line %q: removed %d, want %d", tt.line, res.Stats.PageNumbersRemoved, tt.removed)
		}
	}
}

func TestClean_Watermarks(t *testing.T) {
	input := "CONFIDENTIAL\nreal content\nCONFIDENTIAL\n  draft  \n기밀\nnot CONFIDENTIAL data\n"
	res := Clean(input, Default())

	if res.Stats.WatermarksRemoved != 4 {
		t.Fatalf("WatermarksRemoved = %d, want 4", res.Stats.WatermarksRemoved)
	}
	for _, line := range strings.Split(res.CleanedText, "\n") {
		if strings.TrimSpace(line) == "CONFIDENTIAL" {
			t.Fatalf("watermark line survived: %q", res.CleanedText)
		}
	}
	if !strings.Contains(res.CleanedText, "not CONFIDENTIAL data") {
		t.Fatalf("content mentioning the keyword mid-line must survive: %q", res.CleanedText)
	}
}

func TestClean_CustomPatterns(t *testing.T) {
	opts := Options{CustomPatterns: []string{`(?m)^NOISE.*$`, `\[\[ad\]\]`}}
	res := Clean("NOISE one\nkeep [[ad]] this [[ad]]\nNOISE two\n", opts)

	if res.Stats.CustomPatternsRemoved != 4 {
		t.Fatalf("CustomPatternsRemoved = %d, want 4", res.Stats.CustomPatternsRemoved)
	}
	if res.CleanedText != "keep  this" {
		t.Fatalf("cleaned = %q", res.CleanedText)
	}
}

func TestClean_InvalidCustomPatternSkipped(t *testing.T) {
	opts := Options{CustomPatterns: []string{`([`, `drop`}}
	res := Clean("drop me", opts)

	if res.Stats.CustomPatternsRemoved != 1 {
		t.Fatalf("CustomPatternsRemoved = %d, want 1 (invalid entry skipped)", res.Stats.CustomPatternsRemoved)
	}
	if res.CleanedText != "me" {
		t.Fatalf("cleaned = %q", res.CleanedText)
	}
}

func TestClean_Idempotent(t *testing.T) {
	// WHAT: A second pass over cleaned output finds nothing left to remove.
	// WHY: Downstream consumers may re-clean without corrupting text or stats.
	input := "ACME Corp\nPage 1 of 3\nCONFIDENTIAL\nBody text here.\r\n\r\n\r\n\r\nMore body.\n42\n"

	for _, opts := range []Options{Default(), {}, {RemovePageNumbers: true}} {
		first := Clean(input, opts)
		second := Clean(first.CleanedText, opts)
		if second.CleanedText != first.CleanedText {
			t.Fatalf("not idempotent: %q != %q", second.CleanedText, first.CleanedText)
		}
		if second.Stats.Total() != 0 {
			t.Fatalf("second pass removed something: %+v", second.Stats)
		}
	}
}

func TestClean_CRLFNormalized(t *testing.T) {
	res := Clean("a\r\n\r\n\r\n\r\nb\r\n", Options{})
	if res.CleanedText != "a\n\nb" {
		t.Fatalf("cleaned = %q, want %q", res.CleanedText, "a\n\nb")
	}
}

func TestClean_StatsCountMatchesNotLines(t *testing.T) {
	// A multi-line custom pattern match counts once.
	opts := Options{CustomPatterns: []string{`(?s)BEGIN.*?END`}}
	res := Clean("keep\nBEGIN\nnoise\nnoise\nEND\nkeep\n", opts)

	if res.Stats.CustomPatternsRemoved != 1 {
		t.Fatalf("CustomPatternsRemoved = %d, want 1", res.Stats.CustomPatternsRemoved)
	}
	if res.CleanedText != "keep\n\nkeep" {
		t.Fatalf("cleaned = %q", res.CleanedText)
	}
}

func TestDefault(t *testing.T) {
	opts := Default()
	if !opts.RemovePageNumbers || !opts.RemoveHeadersFooters || !opts.RemoveWatermarks || !opts.RemoveRepeatingPatterns {
		t.Fatalf("Default must enable every pass: %+v", opts)
	}
	if opts.MinRepeatCount != 3 {
		t.Fatalf("MinRepeatCount = %d, want 3", opts.MinRepeatCount)
	}
	if len(opts.CustomPatterns) != 0 {
		t.Fatalf("Default must have no custom patterns")
	}
}
