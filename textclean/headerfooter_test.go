package textclean

import (
	"fmt"
	"strings"
	"testing"
)

// buildPagedText joins n page-like chunks with form feeds. Each chunk
// starts with header and carries enough unique body lines to qualify as a
// header/footer candidate (more than 2*checkLines non-blank lines).
func buildPagedText(header string, n int) string {
	chunks := make([]string, n)
	for i := range chunks {
		chunks[i] = fmt.Sprintf(
			"%s\nSection %d intro\nBody %d alpha\nBody %d beta\nBody %d gamma\nBody %d delta\nEnd of section %d",
			header, i, i, i, i, i, i,
		)
	}
	return strings.Join(chunks, "\n\f\n")
}

func TestRemoveHeadersFooters_RepeatingHeader(t *testing.T) {
	// WHAT: A line opening all 4 form-feed chunks is removed everywhere.
	// WHY: Repeated headers are boilerplate, not content.
	header := "Acme Corp — Internal"
	opts := Options{RemoveHeadersFooters: true, MinRepeatCount: 3}
	res := Clean(buildPagedText(header, 4), opts)

	if res.Stats.HeadersFootersRemoved != 4 {
		t.Fatalf("HeadersFootersRemoved = %d, want 4", res.Stats.HeadersFootersRemoved)
	}
	if strings.Contains(res.CleanedText, header) {
		t.Fatalf("header line survived:\n%s", res.CleanedText)
	}
	if !strings.Contains(res.CleanedText, "Body 2 gamma") {
		t.Fatalf("body content lost:\n%s", res.CleanedText)
	}
}

func TestRemoveHeadersFooters_BelowThreshold(t *testing.T) {
	// Two chunks with minRepeatCount=3: nothing may be removed.
	header := "Acme Corp — Internal"
	opts := Options{RemoveHeadersFooters: true, MinRepeatCount: 3}
	res := Clean(buildPagedText(header, 2), opts)

	if res.Stats.HeadersFootersRemoved != 0 {
		t.Fatalf("HeadersFootersRemoved = %d, want 0", res.Stats.HeadersFootersRemoved)
	}
	if !strings.Contains(res.CleanedText, header) {
		t.Fatalf("header removed below threshold:\n%s", res.CleanedText)
	}
}

func TestRemoveHeadersFooters_RepeatingFooter(t *testing.T) {
	footer := "© 2026 Acme Corp"
	chunks := make([]string, 3)
	for i := range chunks {
		chunks[i] = fmt.Sprintf(
			"Title %d\nIntro %d\nBody %d one\nBody %d two\nBody %d three\nClosing %d\n%s",
			i, i, i, i, i, i, footer,
		)
	}
	opts := Options{RemoveHeadersFooters: true, MinRepeatCount: 3}
	res := Clean(strings.Join(chunks, "\n\f\n"), opts)

	if res.Stats.HeadersFootersRemoved != 3 {
		t.Fatalf("HeadersFootersRemoved = %d, want 3", res.Stats.HeadersFootersRemoved)
	}
	if strings.Contains(res.CleanedText, footer) {
		t.Fatalf("footer survived:\n%s", res.CleanedText)
	}
}

func TestRemoveHeadersFooters_ShortTextSkipped(t *testing.T) {
	opts := Options{RemoveHeadersFooters: true, MinRepeatCount: 3}
	res := Clean("one\ntwo\nthree", opts)
	if res.Stats.HeadersFootersRemoved != 0 {
		t.Fatalf("short text must skip detection, got %+v", res.Stats)
	}
}

func TestRemoveHeadersFooters_ShortChunksIgnored(t *testing.T) {
	// Chunks with 2*checkLines non-blank lines or fewer contribute no
	// candidates, so nothing is ever detected.
	chunk := "Acme Corp\nBody one\nBody two\nBody three\nBody four\nBody five"
	text := strings.Join([]string{chunk, chunk, chunk, chunk}, "\n\f\n")

	opts := Options{RemoveHeadersFooters: true, MinRepeatCount: 3}
	res := Clean(text, opts)
	if res.Stats.HeadersFootersRemoved != 0 {
		t.Fatalf("six-line chunks must not produce candidates, got %d", res.Stats.HeadersFootersRemoved)
	}
}

func TestSegmentPages(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		chunks int
	}{
		{"form feed", "a\n\fb\n\fc", 3},
		{"hr dashes", "a\n---\nb\n===\nc", 3},
		{"hr too short", "a\n--\nb", 1},
		{"page marker", "intro\nPage 1\nbody\n페이지 2\nmore", 3},
		{"no delimiter", "just\nsome\ntext", 1},
	}

	for _, tt := range tests {
		got := segmentPages(tt.text)
		if len(got) != tt.chunks {
			t.Errorf("%s: got %d chunks, want %d", tt.name, len(got), tt.chunks)
		}
	}
}

func TestSegmentPages_FormFeedWins(t *testing.T) {
	// Form feed takes priority even when an hr separator is also present.
	got := segmentPages("a\n---\nb\fc")
	if len(got) != 2 {
		t.Fatalf("got %d chunks, want 2 (form feed has priority)", len(got))
	}
}

func TestDetectRepeatingLines_PositionIndependent(t *testing.T) {
	// The same value at different positions still accumulates per
	// position; only per-position counts reaching the threshold match.
	cands := [][]string{
		{"X", "a", "b"},
		{"X", "c", "d"},
		{"e", "X", "f"},
	}
	got := detectRepeatingLines(cands, 2)
	if len(got) != 1 || got[0] != "X" {
		t.Fatalf("got %v, want [X]", got)
	}
	if got := detectRepeatingLines(cands, 3); len(got) != 0 {
		t.Fatalf("threshold 3: got %v, want none", got)
	}
}
