package textclean

import (
	"regexp"
	"strings"
)

// checkLines is how many lines at the top and bottom of each page-like
// chunk are considered header/footer candidates.
const checkLines = 3

var (
	// Horizontal-rule style separator: 3+ repeated dashes or equals on
	// their own line.
	hrSeparatorRe = regexp.MustCompile(`(?m)^[ \t]*(?:-{3,}|={3,})[ \t]*$`)
	// Explicit page-marker line used as a segmentation fallback.
	pageMarkerRe = regexp.MustCompile(`(?mi)^[ \t]*(?:page|페이지)[ \t]*\d+[^\n]*$`)
)

// removeHeadersFooters finds lines that recur at the top or bottom of
// page-like chunks and deletes every line-exact occurrence.
//
// Detection counts each candidate line position independently and does not
// require consecutive-position alignment, so a short boilerplate line can
// be flagged even when it drifts between positions. Known limitation of
// the heuristic, kept deliberately.
func removeHeadersFooters(text string, minRepeat int) (string, int) {
	if len(strings.Split(text, "\n")) < 2*minRepeat {
		return text, 0
	}

	chunks := segmentPages(text)
	if len(chunks) < minRepeat {
		return text, 0
	}

	var headerCands, footerCands [][]string
	for _, chunk := range chunks {
		lines := trimmedNonBlankLines(chunk)
		if len(lines) > 2*checkLines {
			headerCands = append(headerCands, lines[:checkLines])
			footerCands = append(footerCands, lines[len(lines)-checkLines:])
		}
	}

	repeating := make(map[string]struct{})
	for _, line := range detectRepeatingLines(headerCands, minRepeat) {
		repeating[line] = struct{}{}
	}
	for _, line := range detectRepeatingLines(footerCands, minRepeat) {
		repeating[line] = struct{}{}
	}

	total := 0
	for line := range repeating {
		re := regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(line) + `[ \t]*$`)
		var n int
		text, n = sweep(text, re)
		total += n
	}
	return text, total
}

// segmentPages splits text into page-like chunks, trying delimiters in
// priority order: form feed, horizontal-rule separator, explicit page
// marker. Without any delimiter the whole text is a single chunk and
// detection naturally yields nothing.
func segmentPages(text string) []string {
	if strings.Contains(text, "\f") {
		return strings.Split(text, "\f")
	}
	if hrSeparatorRe.MatchString(text) {
		return hrSeparatorRe.Split(text, -1)
	}
	if pageMarkerRe.MatchString(text) {
		return pageMarkerRe.Split(text, -1)
	}
	return []string{text}
}

// detectRepeatingLines counts, per line position, how often each trimmed
// value occurs across candidates and returns the values reaching
// minRepeat, deduplicated across positions.
func detectRepeatingLines(candidates [][]string, minRepeat int) []string {
	seen := make(map[string]struct{})
	var out []string
	for pos := 0; pos < checkLines; pos++ {
		counts := make(map[string]int)
		for _, cand := range candidates {
			if pos < len(cand) {
				counts[cand[pos]]++
			}
		}
		for value, n := range counts {
			if n >= minRepeat {
				if _, dup := seen[value]; !dup {
					seen[value] = struct{}{}
					out = append(out, value)
				}
			}
		}
	}
	return out
}
