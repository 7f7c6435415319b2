package docparse

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
	"sync"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
)

// htmlConv is the DOCX HTML-conversion arm: a sanitizer plus markdown
// converter built once on first use and reused for the lifetime of the
// process. Read-only after initialization, safe for concurrent documents.
var htmlConv struct {
	once   sync.Once
	policy *bluemonday.Policy
	conv   *converter.Converter
}

func htmlConverter() (*bluemonday.Policy, *converter.Converter) {
	htmlConv.once.Do(func() {
		htmlConv.policy = bluemonday.UGCPolicy()
		htmlConv.conv = converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		)
	})
	return htmlConv.policy, htmlConv.conv
}

// docxPara is one paragraph pulled out of word/document.xml.
type docxPara struct {
	text  string
	level int // heading level 1-6, 0 for body
}

// extractDocx extracts text from DOCX bytes by walking word/document.xml.
// A Markdown rendering is derived from the same paragraph stream through
// the sanitized HTML arm. Failures (legacy binary .doc, truncated or
// encrypted archives) are captured in the RawResult.
func extractDocx(data []byte) *RawResult {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return &RawResult{Error: fmt.Sprintf("open docx archive: %v", err)}
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return &RawResult{Error: "word/document.xml not found in archive"}
	}

	rc, err := docFile.Open()
	if err != nil {
		return &RawResult{Error: fmt.Sprintf("open document.xml: %v", err)}
	}
	defer rc.Close()

	var warnings []string
	paras, err := walkDocumentXML(xml.NewDecoder(rc))
	if err != nil {
		// Nothing recovered: the document is unreadable. With partial
		// content the result stays usable and the truncation is a warning.
		if len(paras) == 0 {
			return &RawResult{Error: fmt.Sprintf("parse document.xml: %v", err)}
		}
		warnings = append(warnings, fmt.Sprintf("document.xml truncated: %v", err))
	}
	if len(paras) == 0 {
		warnings = append(warnings, "document contains no text")
	}

	texts := make([]string, len(paras))
	for i, p := range paras {
		texts[i] = p.text
	}

	markdown, warn := renderMarkdown(paras)
	if warn != "" {
		warnings = append(warnings, warn)
	}

	return &RawResult{
		Text:     strings.Join(texts, "\n\n"),
		Markdown: markdown,
		Success:  true,
		Warnings: warnings,
	}
}

// walkDocumentXML streams the WordprocessingML token stream, collecting
// one docxPara per non-empty w:p element. A decoder error other than EOF
// is returned alongside whatever paragraphs were collected before it.
func walkDocumentXML(decoder *xml.Decoder) ([]docxPara, error) {
	var paras []docxPara
	var current strings.Builder
	var inParagraph bool
	var style string

	for {
		tok, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return paras, nil
			}
			return paras, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "p":
				inParagraph = true
				current.Reset()
				style = ""
			case t.Name.Local == "pStyle" && inParagraph:
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" {
						style = attr.Value
					}
				}
			case t.Name.Local == "br" && inParagraph:
				current.WriteByte('\n')
			case t.Name.Local == "tab" && inParagraph:
				current.WriteByte('\t')
			}

		case xml.CharData:
			if inParagraph {
				current.Write(t)
			}

		case xml.EndElement:
			if t.Name.Local == "p" && inParagraph {
				inParagraph = false
				text := strings.TrimSpace(current.String())
				if text == "" {
					continue
				}
				paras = append(paras, docxPara{
					text:  text,
					level: headingLevel(style),
				})
			}
		}
	}
}

// headingLevel extracts the heading level from a paragraph style name:
// "Heading1" → 1, "Title" → 1, "Subtitle" → 2, localized prefixes too.
func headingLevel(style string) int {
	lower := strings.ToLower(style)

	if lower == "title" {
		return 1
	}
	if lower == "subtitle" {
		return 2
	}

	for _, prefix := range []string{"heading", "titre", "überschrift", "제목"} {
		if strings.HasPrefix(lower, prefix) {
			rest := lower[len(prefix):]
			if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
				return int(rest[0] - '0')
			}
		}
	}
	return 0
}

// renderMarkdown renders paragraphs to HTML, sanitizes the result and
// converts it to Markdown. A conversion failure degrades to an empty
// Markdown field plus a warning, never an extraction failure.
func renderMarkdown(paras []docxPara) (string, string) {
	if len(paras) == 0 {
		return "", ""
	}

	var hb strings.Builder
	for _, p := range paras {
		escaped := html.EscapeString(p.text)
		if p.level > 0 {
			fmt.Fprintf(&hb, "<h%d>%s</h%d>\n", p.level, escaped, p.level)
		} else {
			fmt.Fprintf(&hb, "<p>%s</p>\n", escaped)
		}
	}

	policy, conv := htmlConverter()
	markdown, err := conv.ConvertString(policy.Sanitize(hb.String()))
	if err != nil {
		return "", fmt.Sprintf("markdown conversion: %v", err)
	}
	return strings.TrimSpace(markdown), ""
}
