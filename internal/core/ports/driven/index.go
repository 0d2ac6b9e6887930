package driven

import (
	"context"

	"github.com/claimsight/claimsight/internal/core/domain"
)

// VectorIndex stores embedded chunks and answers similarity queries.
//
// All implementations are append-only: chunks are never updated or
// deleted once stored. Backends share this contract and are selected by
// configuration (in-memory with flat-file persistence, or SQLite).
type VectorIndex interface {
	// Add appends the entries and persists the updated collection
	// synchronously before returning. Entries whose vector dimension
	// differs from the rest of the index fail with
	// domain.ErrDimensionMismatch. Deduplication is the caller's
	// responsibility (see ContainsSource).
	Add(ctx context.Context, entries []domain.EmbeddedChunk) error

	// Search returns up to k results ranked by descending cosine
	// similarity, ties broken by insertion order. An empty index
	// returns an empty slice, never an error.
	Search(ctx context.Context, query []float32, k int) ([]domain.SearchResult, error)

	// ContainsSource reports whether any stored chunk's source equals
	// the given filename exactly.
	ContainsSource(ctx context.Context, source string) (bool, error)

	// Stats returns chunk and distinct-document counts.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// ListSources returns the lexicographically sorted set of distinct
	// source filenames.
	ListSources(ctx context.Context) ([]string, error)

	// Close flushes any buffered state and releases resources.
	Close() error
}
