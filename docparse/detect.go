package docparse

import (
	"path/filepath"
	"strings"
)

// Detect returns the document format based on the file name's extension,
// case-insensitively. Pure function, no I/O.
func Detect(fileName string) Format {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return FormatPDF
	case ".doc", ".docx":
		return FormatDocx
	default:
		return FormatUnknown
	}
}

// IsSupportedFile reports whether fileName maps to a supported format.
func IsSupportedFile(fileName string) bool {
	return Detect(fileName) != FormatUnknown
}

// SupportedFormats returns all supported format names.
func SupportedFormats() []string {
	return []string{string(FormatPDF), string(FormatDocx)}
}
