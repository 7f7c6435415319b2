package textclean

import (
	"regexp"
	"strings"
)

// pageNumberPatterns are swept in sequence; each sweep counts and removes
// its own matches, leaving an empty line where the match was.
var pageNumberPatterns = []*regexp.Regexp{
	// A line containing nothing but digits.
	regexp.MustCompile(`(?m)^[ \t]*\d+[ \t]*$`),
	// "Page 3", "페이지 3", "쪽 3", optionally "of/중//" a second number.
	regexp.MustCompile(`(?mi)^[ \t]*(?:page|페이지|쪽)[ \t]*\d+(?:[ \t]*(?:of|중|/)[ \t]*\d+)?[ \t]*$`),
	// Symmetric bracketing: "- 4 -" or "| 4 |".
	regexp.MustCompile(`(?m)^[ \t]*(?:[-–—][ \t]*\d+[ \t]*[-–—]|\|[ \t]*\d+[ \t]*\|)[ \t]*$`),
}

func removePageNumbers(text string) (string, int) {
	total := 0
	for _, re := range pageNumberPatterns {
		var n int
		text, n = sweep(text, re)
		total += n
	}
	return text, total
}

// watermarkKeywords are matched only when they constitute the entire
// (trimmed) line content.
var watermarkKeywords = []string{
	"CONFIDENTIAL",
	"DRAFT",
	"기밀",
	"초안",
	"사본",
	"COPY",
	"SAMPLE",
	"견본",
	"FOR INTERNAL USE ONLY",
	"내부용",
}

var watermarkPatterns = compileWholeLine(watermarkKeywords)

func compileWholeLine(keywords []string) []*regexp.Regexp {
	pats := make([]*regexp.Regexp, len(keywords))
	for i, kw := range keywords {
		pats[i] = regexp.MustCompile(`(?mi)^[ \t]*` + regexp.QuoteMeta(kw) + `[ \t]*$`)
	}
	return pats
}

func removeWatermarks(text string) (string, int) {
	total := 0
	for _, re := range watermarkPatterns {
		var n int
		text, n = sweep(text, re)
		total += n
	}
	return text, total
}

// removeCustomPatterns applies caller-supplied expressions in list order.
// Entries that fail to compile contribute zero removals; Go's RE2 engine
// guarantees linear-time matching, so a hostile pattern cannot hang the
// pass.
func removeCustomPatterns(text string, patterns []string) (string, int) {
	total := 0
	for _, pat := range patterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			continue
		}
		var n int
		text, n = sweep(text, re)
		total += n
	}
	return text, total
}

// trimmedNonBlankLines returns the trimmed non-blank lines of a chunk.
func trimmedNonBlankLines(chunk string) []string {
	var out []string
	for _, line := range strings.Split(chunk, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
