package driven

import (
	"context"

	"github.com/claimsight/claimsight/internal/core/domain"
)

// PageExtractor reads a document file and returns per-page plain text.
// Pages with no extractable text are omitted from the result.
type PageExtractor interface {
	// Extract returns the text of each page of the file at path.
	// Failures wrap domain.ErrExtraction.
	Extract(ctx context.Context, path string) ([]domain.Page, error)

	// SupportedExtensions returns the lower-case filename extensions
	// this extractor handles, including the leading dot.
	SupportedExtensions() []string
}
