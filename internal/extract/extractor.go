// Package extract provides plain-text extraction from uploaded document bytes.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// UnsupportedFormatError is returned when neither the content type nor the
// filename extension maps to a known document format. It is a caller error,
// not an infrastructure failure.
type UnsupportedFormatError struct {
	ContentType string
	Filename    string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format: content type %q, filename %q", e.ContentType, e.Filename)
}

// Extractor extracts UTF-8 text from document bytes.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Content types recognized alongside filename extensions.
const (
	contentTypePDF  = "application/pdf"
	contentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Extract returns the plain text of content. The format is resolved from the
// content type first, then from the filename extension. Returns
// *UnsupportedFormatError when the format cannot be resolved.
func (e *Extractor) Extract(content []byte, filename, contentType string) (string, error) {
	switch {
	case contentType == contentTypePDF:
		return extractPDF(content)
	case contentType == contentTypeDOCX:
		return extractDOCX(content)
	case contentType == contentTypeXLSX:
		return extractExcel(content)
	case strings.HasPrefix(contentType, "text/"):
		return extractPlain(content)
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractDOCX(content)
	case ".xlsx":
		return extractExcel(content)
	case ".txt", ".md", ".rst":
		return extractPlain(content)
	}
	return "", &UnsupportedFormatError{ContentType: contentType, Filename: filename}
}
