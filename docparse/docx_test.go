package docparse

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

const simpleDocumentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:pPr><w:pStyle w:val="Heading1"/></w:pPr>
      <w:r><w:t>Report Title</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>Hello from the body.</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>Second paragraph </w:t></w:r>
      <w:r><w:t>with two runs.</w:t></w:r>
    </w:p>
  </w:body>
</w:document>`

// buildDocx zips documentXML into a minimal .docx archive.
func buildDocx(documentXML string) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/document.xml")
	w.Write([]byte(documentXML))
	zw.Close()
	return buf.Bytes()
}

func TestExtractDocx(t *testing.T) {
	raw := extractDocx(buildDocx(simpleDocumentXML))

	if !raw.Success {
		t.Fatalf("extract failed: %s", raw.Error)
	}
	if !strings.Contains(raw.Text, "Report Title") {
		t.Fatalf("missing heading text: %q", raw.Text)
	}
	if !strings.Contains(raw.Text, "Second paragraph with two runs.") {
		t.Fatalf("runs not joined: %q", raw.Text)
	}
	if raw.Metadata != nil {
		t.Fatal("docx extraction must not produce metadata")
	}
}

func TestExtractDocx_Markdown(t *testing.T) {
	// WHAT: The HTML arm renders headings as markdown headings.
	// WHY: Downstream consumers rely on structure surviving conversion.
	raw := extractDocx(buildDocx(simpleDocumentXML))

	if !raw.Success {
		t.Fatalf("extract failed: %s", raw.Error)
	}
	if !strings.Contains(raw.Markdown, "# Report Title") {
		t.Fatalf("Markdown = %q, want heading", raw.Markdown)
	}
	if !strings.Contains(raw.Markdown, "Hello from the body.") {
		t.Fatalf("Markdown = %q, want body text", raw.Markdown)
	}
}

func TestExtractDocx_InvalidArchive(t *testing.T) {
	raw := extractDocx([]byte("this is not a zip file"))
	if raw.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(raw.Error, "open docx archive") {
		t.Fatalf("Error = %q", raw.Error)
	}
}

func TestExtractDocx_MissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/other.xml")
	w.Write([]byte("<x/>"))
	zw.Close()

	raw := extractDocx(buf.Bytes())
	if raw.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(raw.Error, "word/document.xml not found") {
		t.Fatalf("Error = %q", raw.Error)
	}
}

func TestExtractDocx_MalformedXML(t *testing.T) {
	// WHAT: An unreadable document.xml with no recoverable paragraphs fails.
	// WHY: A syntax error on the first token means nothing was extracted.
	raw := extractDocx(buildDocx("<<< not xml"))
	if raw.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(raw.Error, "parse document.xml") {
		t.Fatalf("Error = %q", raw.Error)
	}
}

func TestExtractDocx_TruncatedXMLKeepsPartialText(t *testing.T) {
	// WHAT: A document.xml cut off mid-stream still yields the paragraphs
	// read before the break, with the truncation surfaced as a warning.
	truncated := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Intact paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>cut off he`

	raw := extractDocx(buildDocx(truncated))
	if !raw.Success {
		t.Fatalf("partial content must still succeed: %s", raw.Error)
	}
	if !strings.Contains(raw.Text, "Intact paragraph.") {
		t.Fatalf("Text = %q, want intact paragraph", raw.Text)
	}
	found := false
	for _, w := range raw.Warnings {
		if strings.Contains(w, "truncated") {
			found = true
		}
	}
	if !found {
		t.Fatalf("Warnings = %v, want truncation warning", raw.Warnings)
	}
}

func TestExtractDocx_EmptyDocumentWarns(t *testing.T) {
	empty := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body></w:body>
</w:document>`

	raw := extractDocx(buildDocx(empty))
	if !raw.Success {
		t.Fatalf("empty document must still succeed: %s", raw.Error)
	}
	if raw.Text != "" {
		t.Fatalf("Text = %q, want empty", raw.Text)
	}
	if len(raw.Warnings) == 0 {
		t.Fatal("expected a warning for an empty document")
	}
}

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		style string
		level int
	}{
		{"Heading1", 1},
		{"heading3", 3},
		{"Heading6", 6},
		{"Heading7", 0},
		{"Title", 1},
		{"Subtitle", 2},
		{"Titre2", 2},
		{"제목1", 1},
		{"BodyText", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := headingLevel(tt.style); got != tt.level {
			t.Errorf("headingLevel(%q) = %d, want %d", tt.style, got, tt.level)
		}
	}
}
