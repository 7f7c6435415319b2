// Package textclean strips layout noise from raw document text.
//
// Extracted office-document text carries artifacts that are not content:
// page numbers, watermark overlays, headers and footers repeated on every
// page. Clean applies a fixed sequence of independent heuristic passes and
// reports how many matches each pass removed.
//
// Pass order (later passes see the output of earlier ones):
//
//  1. page-number lines
//  2. watermark keyword lines
//  3. repeating header/footer lines detected across page-like chunks
//  4. caller-supplied custom patterns
//  5. whitespace normalization (always runs)
//
// Usage:
//
//	res := textclean.Clean(raw, textclean.Default())
//	fmt.Println(res.CleanedText, res.Stats.PageNumbersRemoved)
package textclean

import (
	"regexp"
	"strings"
)

// defaultMinRepeat is the minimum number of page-like chunks a line must
// appear in before it is classified as a repeating header or footer.
const defaultMinRepeat = 3

// Options selects which cleaning passes run.
//
// The zero value disables every optional pass (only whitespace
// normalization applies). Use Default for the standard configuration.
type Options struct {
	// RemovePageNumbers strips lines that are only a page number
	// ("7", "Page 3 of 10", "- 4 -").
	RemovePageNumbers bool `json:"remove_page_numbers" yaml:"remove_page_numbers"`

	// RemoveHeadersFooters detects lines repeated at the top or bottom of
	// page-like chunks and removes every occurrence.
	RemoveHeadersFooters bool `json:"remove_headers_footers" yaml:"remove_headers_footers"`

	// RemoveWatermarks strips whole-line watermark keywords
	// (CONFIDENTIAL, DRAFT, 기밀, ...).
	RemoveWatermarks bool `json:"remove_watermarks" yaml:"remove_watermarks"`

	// RemoveRepeatingPatterns is informational: repetition detection is
	// driven by RemoveHeadersFooters. Kept so callers can round-trip the
	// full option set.
	RemoveRepeatingPatterns bool `json:"remove_repeating_patterns" yaml:"remove_repeating_patterns"`

	// CustomPatterns are caller-supplied regular expressions applied in
	// list order after the built-in passes. Entries that do not compile
	// are skipped.
	CustomPatterns []string `json:"custom_patterns,omitempty" yaml:"custom_patterns,omitempty"`

	// MinRepeatCount is the occurrence threshold for header/footer
	// detection. Values <= 0 fall back to the default of 3.
	MinRepeatCount int `json:"min_repeat_count" yaml:"min_repeat_count"`
}

// Default returns the standard cleaning configuration: all passes enabled,
// no custom patterns, repeat threshold 3.
func Default() Options {
	return Options{
		RemovePageNumbers:       true,
		RemoveHeadersFooters:    true,
		RemoveWatermarks:        true,
		RemoveRepeatingPatterns: true,
		MinRepeatCount:          defaultMinRepeat,
	}
}

// Stats counts regex matches removed per category during one Clean call.
// Each counter counts removals, not distinct patterns.
type Stats struct {
	PageNumbersRemoved    int `json:"page_numbers_removed"`
	HeadersFootersRemoved int `json:"headers_footers_removed"`
	WatermarksRemoved     int `json:"watermarks_removed"`
	CustomPatternsRemoved int `json:"custom_patterns_removed"`
}

// Total returns the sum of all removal counters.
func (s Stats) Total() int {
	return s.PageNumbersRemoved + s.HeadersFootersRemoved + s.WatermarksRemoved + s.CustomPatternsRemoved
}

// Result is the outcome of one cleaning invocation.
type Result struct {
	CleanedText  string `json:"cleaned_text"`
	OriginalText string `json:"original_text"`
	Stats        Stats  `json:"stats"`
}

var multiNewlineRe = regexp.MustCompile(`\n{3,}`)

// Clean applies the configured passes to text and returns the cleaned text
// together with the untouched original and per-category removal counts.
//
// Clean never fails: invalid custom patterns are skipped and the result is
// recomputed fresh on every call. Whitespace normalization always runs:
// line endings are unified to \n, leftover form feeds become newlines,
// runs of three or more newlines collapse to two, and the whole text is
// trimmed. Applying Clean to its own output with the same options is a
// no-op.
func Clean(text string, opts Options) Result {
	minRepeat := opts.MinRepeatCount
	if minRepeat <= 0 {
		minRepeat = defaultMinRepeat
	}

	cleaned := normalizeLineEndings(text)
	var stats Stats

	if opts.RemovePageNumbers {
		cleaned, stats.PageNumbersRemoved = removePageNumbers(cleaned)
	}
	if opts.RemoveWatermarks {
		cleaned, stats.WatermarksRemoved = removeWatermarks(cleaned)
	}
	if opts.RemoveHeadersFooters {
		cleaned, stats.HeadersFootersRemoved = removeHeadersFooters(cleaned, minRepeat)
	}
	if len(opts.CustomPatterns) > 0 {
		cleaned, stats.CustomPatternsRemoved = removeCustomPatterns(cleaned, opts.CustomPatterns)
	}

	// Page delimiters have served their purpose by now.
	cleaned = strings.ReplaceAll(cleaned, "\f", "\n")
	cleaned = multiNewlineRe.ReplaceAllString(cleaned, "\n\n")
	cleaned = strings.TrimSpace(cleaned)

	return Result{
		CleanedText:  cleaned,
		OriginalText: text,
		Stats:        stats,
	}
}

func normalizeLineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// sweep removes every match of re from text and returns the match count.
func sweep(text string, re *regexp.Regexp) (string, int) {
	matches := re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text, 0
	}
	return re.ReplaceAllString(text, ""), len(matches)
}
