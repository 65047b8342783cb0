// Package extract turns uploaded document bytes into plain text. PDF input
// is parsed page by page; everything else is treated as UTF-8 text. A
// Tika-backed extractor is available for deployments that already run an
// extraction server for richer formats.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Sentinel errors surfaced to the ingestion pipeline.
var (
	// ErrNoTextExtracted means the document parsed cleanly but yielded no
	// usable text (e.g. an image-only PDF).
	ErrNoTextExtracted = errors.New("extract: no text extracted from document")

	// ErrUnsupportedFormat means the bytes are neither a parseable PDF nor
	// valid UTF-8 text.
	ErrUnsupportedFormat = errors.New("extract: unsupported document format")
)

// pdfMagic is the header every PDF file starts with. Checked in addition to
// the declared MIME type because browsers sometimes upload PDFs as
// application/octet-stream.
var pdfMagic = []byte("%PDF-")

// Extractor converts raw document bytes into plain text.
// Implementations must be safe to call from multiple goroutines.
type Extractor interface {
	// Extract returns the text content of data. mimeType is the declared
	// content type of the upload and may be empty.
	Extract(ctx context.Context, data []byte, mimeType string) (string, error)
}

// Local extracts text in-process: PDFs via page-text concatenation,
// anything else as UTF-8 plain text.
type Local struct{}

// NewLocal returns the in-process extractor.
func NewLocal() *Local {
	return &Local{}
}

// Extract implements Extractor.
func (l *Local) Extract(_ context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", ErrNoTextExtracted
	}

	if mimeType == "application/pdf" || bytes.HasPrefix(data, pdfMagic) {
		return extractPDF(data)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: binary content is not a PDF and not UTF-8 text", ErrUnsupportedFormat)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", ErrNoTextExtracted
	}
	return text, nil
}

// extractPDF concatenates the plain text of every page in document order.
func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	var b strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink a mostly-text
			// document; skip it.
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrNoTextExtracted
	}
	return text, nil
}
