package docparse

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// extractPDF extracts text and metadata from PDF bytes using pdfcpu.
// All failures from the underlying library are captured in the RawResult;
// extraction failure is a normal outcome, never an escaping error.
func extractPDF(data []byte) *RawResult {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return &RawResult{Error: fmt.Sprintf("pdfcpu read: %v", err)}
	}

	var sb strings.Builder
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pageText := extractPageText(ctx, pageNr)
		if pageText == "" {
			continue
		}
		if sb.Len() > 0 {
			// Form feed marks page boundaries so downstream cleaning
			// can segment repeated headers/footers.
			sb.WriteString("\n\f\n")
		}
		sb.WriteString(pageText)
	}

	text := sb.String()
	if text == "" {
		return &RawResult{Error: "no text content found in PDF"}
	}

	meta := pdfMetadata(ctx)
	meta.PageCount = ctx.PageCount

	return &RawResult{
		Text:      text,
		PageCount: ctx.PageCount,
		Metadata:  meta,
		Success:   true,
	}
}

// extractPageText extracts text from a single page via the pdfcpu content
// stream. An unreadable page yields empty text, not an error.
func extractPageText(ctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return streamText(data)
}

// streamText parses PDF content-stream operators for text, preserving
// line breaks (T*, ') so the output keeps a line structure the cleaning
// passes can work with.
func streamText(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		// Tj / TJ: show text.
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			writeStringLiterals(&sb, line, false)

		// ': move to next line and show text.
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			writeStringLiterals(&sb, line, true)

		// Td / TD: text positioning.
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}

		// T*: move to start of next line.
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}

	return tidyPageText(sb.String())
}

// pdfLiteralRe matches PDF string literals in parentheses: (text here)
var pdfLiteralRe = regexp.MustCompile(`\(([^)]*)\)`)

func writeStringLiterals(sb *strings.Builder, line []byte, newline bool) {
	for _, m := range pdfLiteralRe.FindAllSubmatch(line, -1) {
		text := decodePDFString(m[1])
		if text == "" {
			continue
		}
		if newline {
			sb.WriteByte('\n')
		}
		sb.WriteString(text)
	}
}

// decodePDFString handles basic PDF escape sequences, including octal.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return sb.String()
}

// tidyPageText collapses runs of spaces and tabs within lines and drops
// unprintable garbage, keeping the line structure intact.
func tidyPageText(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		switch {
		case r == '\n':
			sb.WriteByte('\n')
			prevSpace = false
		case unicode.IsSpace(r):
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		case unicode.IsPrint(r):
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}

// pdfMetadata reads the document Info dictionary. Missing or malformed
// entries degrade to absent fields, never an error.
func pdfMetadata(ctx *model.Context) *Metadata {
	m := &Metadata{}
	if ctx.Info == nil {
		return m
	}
	d, err := ctx.DereferenceDict(*ctx.Info)
	if err != nil || d == nil {
		return m
	}
	m.Title = infoString(ctx, d, "Title")
	m.Author = infoString(ctx, d, "Author")
	m.Subject = infoString(ctx, d, "Subject")
	m.Creator = infoString(ctx, d, "Creator")
	m.Producer = infoString(ctx, d, "Producer")
	m.CreationDate = infoDate(ctx, d, "CreationDate")
	m.ModificationDate = infoDate(ctx, d, "ModDate")
	return m
}

func infoString(ctx *model.Context, d types.Dict, key string) string {
	obj, found := d.Find(key)
	if !found {
		return ""
	}
	obj, err := ctx.Dereference(obj)
	if err != nil {
		return ""
	}
	switch v := obj.(type) {
	case types.StringLiteral:
		s, err := types.StringLiteralToString(v)
		if err != nil {
			return ""
		}
		return s
	case types.HexLiteral:
		s, err := types.HexLiteralToString(v)
		if err != nil {
			return ""
		}
		return s
	default:
		return ""
	}
}

func infoDate(ctx *model.Context, d types.Dict, key string) *time.Time {
	return parsePDFDate(infoString(ctx, d, key))
}

// parsePDFDate parses a packed PDF date ("D:YYYYMMDDHHmmSS...")
// leniently. Missing or malformed strings yield nil, never an error.
func parsePDFDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, ok := types.DateTime(s, true)
	if !ok {
		return nil
	}
	return &t
}
