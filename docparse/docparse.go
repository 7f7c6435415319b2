// Package docparse extracts and cleans text from office documents.
//
// Supported formats:
//   - .pdf          — PDF text extraction (pdfcpu, cross-reference + stream decoding)
//   - .doc / .docx  — Microsoft Word (archive/zip → word/document.xml)
//
// A Parser detects the format from the file name, dispatches to the
// matching extractor and optionally runs the textclean pipeline over the
// raw text. Failure is reported in-band on the ParseResult: extractors
// never let a library error or panic escape, so a ParseResult with
// Success=false and a populated Error is the only failure signal callers
// ever observe.
//
// Usage:
//
//	p := docparse.New(docparse.Config{})
//	opts := textclean.Default()
//	res := p.ParseFile(ctx, "/path/to/report.pdf", &opts)
//	fmt.Println(res.Success, res.CleanedText)
package docparse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hazyhaar/docparse/textclean"
)

// ErrUnsupportedFormat is reported when the file name extension is not
// recognized. No extraction is attempted in that case. Like every other
// failure it surfaces in-band, as the Error string of the ParseResult.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Parser is the document parsing engine. Concurrent calls for different
// documents are independent; a Parser holds no per-call mutable state.
type Parser struct {
	cfg    Config
	logger *slog.Logger

	// Extractor dispatch, overridable in tests.
	extractPDF  func(data []byte) *RawResult
	extractDocx func(data []byte) *RawResult
}

// New creates a Parser with the given configuration.
func New(cfg Config) *Parser {
	cfg.defaults()
	return &Parser{
		cfg:         cfg,
		logger:      cfg.Logger,
		extractPDF:  extractPDF,
		extractDocx: extractDocx,
	}
}

// ParseFile reads a document from disk and parses it. opts selects the
// cleaning configuration; nil means cleaning is skipped and CleanedText
// equals RawText verbatim.
func (p *Parser) ParseFile(ctx context.Context, path string, opts *textclean.Options) *ParseResult {
	p.logger.Debug("parsing document", "path", path, "bytes", fileSize(path))

	data, err := os.ReadFile(path)
	if err != nil {
		return failed(Detect(path), fmt.Sprintf("read %s: %v", path, err))
	}
	return p.ParseBytes(ctx, filepath.Base(path), data, opts)
}

// ParseBytes parses an in-memory document. fileName is used solely for
// extension-based format detection, since buffers carry no type marker.
func (p *Parser) ParseBytes(ctx context.Context, fileName string, data []byte, opts *textclean.Options) (res *ParseResult) {
	format := Detect(fileName)

	// Last line of defense: nothing below may escape as a panic.
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("parser panic recovered", "file", fileName, "panic", r)
			res = failed(format, fmt.Sprintf("unexpected error: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return failed(format, err.Error())
	}
	if format == FormatUnknown {
		return failed(FormatUnknown, ErrUnsupportedFormat.Error())
	}
	if int64(len(data)) > p.cfg.MaxFileSize {
		return failed(format, fmt.Sprintf("file too large: %d bytes (max %d)", len(data), p.cfg.MaxFileSize))
	}

	var raw *RawResult
	switch format {
	case FormatPDF:
		raw = p.extractPDF(data)
	case FormatDocx:
		raw = p.extractDocx(data)
	}

	if !raw.Success {
		p.logger.Debug("extraction failed", "file", fileName, "format", format, "error", raw.Error)
		return failed(format, raw.Error)
	}
	for _, w := range raw.Warnings {
		p.logger.Warn("extraction warning", "file", fileName, "warning", w)
	}

	res = &ParseResult{
		RawText:     raw.Text,
		CleanedText: raw.Text,
		Markdown:    raw.Markdown,
		FileType:    format,
		Success:     true,
	}
	if format == FormatPDF {
		// The DOCX walk reads word/document.xml only, so DOCX results
		// carry no metadata. Known asymmetry with the PDF path.
		res.Metadata = raw.Metadata
	}

	if opts != nil {
		cr := textclean.Clean(raw.Text, *opts)
		res.CleanedText = cr.CleanedText
		stats := cr.Stats
		res.CleaningStats = &stats
	}
	return res
}

func failed(format Format, msg string) *ParseResult {
	return &ParseResult{
		FileType: format,
		Success:  false,
		Error:    msg,
	}
}

// fileSize returns the byte size of path for diagnostics, or 0 when the
// file cannot be stat'ed. Never an error.
func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
