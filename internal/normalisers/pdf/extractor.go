// Package pdf extracts per-page plain text from PDF documents.
package pdf

import (
	"context"
	"fmt"
	"strings"

	lpdf "github.com/ledongthuc/pdf"

	"github.com/claimsight/claimsight/internal/core/domain"
	"github.com/claimsight/claimsight/internal/core/ports/driven"
	"github.com/claimsight/claimsight/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.PageExtractor = (*Extractor)(nil)

// Extractor reads PDF files and returns per-page text.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the filename extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".pdf"}
}

// Extract returns the text of each page of the PDF at path. Pages with
// no extractable text are omitted. Failures wrap domain.ErrExtraction.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.Page, error) {
	f, reader, err := lpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrExtraction, path, err)
	}
	defer f.Close()

	total := reader.NumPage()
	pages := make([]domain.Page, 0, total)

	for num := 1; num <= total; num++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(num)
		if page.V.IsNull() {
			logger.Debug("Page %d of %s has no content object", num, path)
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page fails the whole document; the
			// ingestion pipeline isolates the failure to this document.
			return nil, fmt.Errorf("%w: page %d of %s: %w", domain.ErrExtraction, num, path, err)
		}

		if strings.TrimSpace(text) == "" {
			continue
		}

		pages = append(pages, domain.Page{Number: num, Text: text})
	}

	return pages, nil
}
