package docparse

import (
	"time"

	"github.com/hazyhaar/docparse/textclean"
)

// Format identifies a document type.
type Format string

const (
	FormatPDF     Format = "pdf"
	FormatDocx    Format = "docx"
	FormatUnknown Format = "unknown"
)

// Metadata carries document properties surfaced by an extractor.
type Metadata struct {
	Title            string     `json:"title,omitempty"`
	Author           string     `json:"author,omitempty"`
	Subject          string     `json:"subject,omitempty"`
	Creator          string     `json:"creator,omitempty"`
	Producer         string     `json:"producer,omitempty"`
	CreationDate     *time.Time `json:"creation_date,omitempty"`
	ModificationDate *time.Time `json:"modification_date,omitempty"`
	PageCount        int        `json:"page_count,omitempty"`
}

// RawResult is the outcome of a single raw-extraction attempt. It is
// produced once per attempt and never mutated afterwards.
type RawResult struct {
	Text      string    `json:"text"`
	PageCount int       `json:"page_count,omitempty"`
	Metadata  *Metadata `json:"metadata,omitempty"`
	// Markdown is a DOCX-only rendering of the document through the
	// HTML conversion arm.
	Markdown string   `json:"markdown,omitempty"`
	Success  bool     `json:"success"`
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ParseResult is the externally visible unit returned per invocation.
// Failure is in-band: Success=false with a populated Error is the only
// failure signal callers observe, and RawText/CleanedText are then empty.
type ParseResult struct {
	RawText       string           `json:"raw_text"`
	CleanedText   string           `json:"cleaned_text"`
	Markdown      string           `json:"markdown,omitempty"`
	FileType      Format           `json:"file_type"`
	Success       bool             `json:"success"`
	Error         string           `json:"error,omitempty"`
	Metadata      *Metadata        `json:"metadata,omitempty"`
	CleaningStats *textclean.Stats `json:"cleaning_stats,omitempty"`
}
