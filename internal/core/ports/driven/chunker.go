package driven

import "github.com/claimsight/claimsight/internal/core/domain"

// Chunker splits extracted page text into overlapping, size-bounded
// segments. Splitting is deterministic: the same input and parameters
// always produce the same chunk boundaries.
type Chunker interface {
	// Name returns the chunker name for logging and configuration.
	Name() string

	// Split cuts the text of one page into ordered chunks. Empty or
	// whitespace-only input yields no chunks. ChunkIndex restarts at 0
	// for every page.
	Split(text string, page int) []domain.PageChunk
}
