// Package memory provides an in-memory linear-scan vector index with
// flat-file persistence.
package memory

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"

	"github.com/claimsight/claimsight/internal/core/domain"
	"github.com/claimsight/claimsight/internal/core/ports/driven"
	"github.com/claimsight/claimsight/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Config holds configuration for the in-memory index.
type Config struct {
	// VectorsPath is the file holding the persisted embedding vectors.
	VectorsPath string

	// DocumentsPath is the file holding the persisted chunk metadata,
	// order-correlated 1:1 with the vectors file.
	DocumentsPath string

	// Model is the embedding model identifier. A persisted index
	// recorded under a different model is rejected at load.
	Model string
}

// vectorsEnvelope is the on-disk format of the vectors file. The model
// identifier and dimension travel with the vectors so a configuration
// change between runs cannot silently mix incompatible embeddings.
type vectorsEnvelope struct {
	Model     string
	Dimension int
	Vectors   [][]float32
}

// Index holds (vector, metadata) pairs in memory and answers cosine
// similarity queries with a dense linear scan. Both backing files are
// overwritten wholesale on every Add.
//
// Add and Search are guarded by a single lock; at most one mutation is
// in flight at a time.
type Index struct {
	mu sync.RWMutex

	vectors [][]float32
	chunks  []domain.Chunk

	model     string
	dimension int

	vectorsPath   string
	documentsPath string
}

// New creates an index, loading persisted state when both backing
// files exist. A persisted index recorded under a different embedding
// model or dimension fails with domain.ErrModelMismatch.
func New(cfg Config) (*Index, error) {
	idx := &Index{
		model:         cfg.Model,
		vectorsPath:   cfg.VectorsPath,
		documentsPath: cfg.DocumentsPath,
	}

	if err := idx.load(); err != nil {
		return nil, err
	}

	return idx, nil
}

// load restores persisted vectors and chunk metadata, if present.
func (idx *Index) load() error {
	vf, err := os.Open(idx.vectorsPath)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("No persisted index at %s, starting empty", idx.vectorsPath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("open vectors file: %w", err)
	}
	defer vf.Close()

	var envelope vectorsEnvelope
	if err := gob.NewDecoder(vf).Decode(&envelope); err != nil {
		return fmt.Errorf("decode vectors file: %w", err)
	}

	if idx.model != "" && envelope.Model != "" && envelope.Model != idx.model {
		return fmt.Errorf("%w: index persisted with %q, configured model is %q",
			domain.ErrModelMismatch, envelope.Model, idx.model)
	}

	df, err := os.Open(idx.documentsPath)
	if err != nil {
		return fmt.Errorf("open documents file: %w", err)
	}
	defer df.Close()

	var chunks []domain.Chunk
	if err := gob.NewDecoder(df).Decode(&chunks); err != nil {
		return fmt.Errorf("decode documents file: %w", err)
	}

	if len(chunks) != len(envelope.Vectors) {
		return fmt.Errorf("persisted index corrupt: %d vectors, %d chunks",
			len(envelope.Vectors), len(chunks))
	}

	idx.vectors = envelope.Vectors
	idx.chunks = chunks
	idx.dimension = envelope.Dimension

	logger.Info("Loaded %d chunks from persisted index", len(chunks))
	return nil
}

// Add appends the entries and persists the whole collection before
// returning. A crash before persistence loses the batch; a crash after
// is safe.
func (idx *Index) Add(_ context.Context, entries []domain.EmbeddedChunk) error {
	if len(entries) == 0 {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	dim := idx.dimension
	if dim == 0 {
		dim = len(entries[0].Embedding)
	}
	for _, entry := range entries {
		if len(entry.Embedding) != dim {
			return fmt.Errorf("%w: chunk %s has dimension %d, index has %d",
				domain.ErrDimensionMismatch, entry.ChunkID, len(entry.Embedding), dim)
		}
	}

	for _, entry := range entries {
		idx.vectors = append(idx.vectors, entry.Embedding)
		idx.chunks = append(idx.chunks, entry.Chunk)
	}
	idx.dimension = dim

	if err := idx.persistLocked(); err != nil {
		return fmt.Errorf("persist index: %w", err)
	}

	return nil
}

// persistLocked overwrites both backing files wholesale.
// Caller must hold the write lock.
func (idx *Index) persistLocked() error {
	vf, err := os.Create(idx.vectorsPath)
	if err != nil {
		return fmt.Errorf("create vectors file: %w", err)
	}
	defer vf.Close()

	envelope := vectorsEnvelope{
		Model:     idx.model,
		Dimension: idx.dimension,
		Vectors:   idx.vectors,
	}
	if err := gob.NewEncoder(vf).Encode(&envelope); err != nil {
		return fmt.Errorf("encode vectors file: %w", err)
	}

	df, err := os.Create(idx.documentsPath)
	if err != nil {
		return fmt.Errorf("create documents file: %w", err)
	}
	defer df.Close()

	if err := gob.NewEncoder(df).Encode(idx.chunks); err != nil {
		return fmt.Errorf("encode documents file: %w", err)
	}

	return nil
}

// Search returns up to k results ranked by descending cosine
// similarity, ties broken by insertion order.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]domain.SearchResult, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.vectors) == 0 || k <= 0 {
		return []domain.SearchResult{}, nil
	}

	results := make([]domain.SearchResult, 0, len(idx.vectors))
	for i, vec := range idx.vectors {
		similarity := cosineSimilarity(query, vec)
		results = append(results, domain.SearchResult{
			Chunk:      idx.chunks[i],
			Similarity: similarity,
			Distance:   1 - similarity,
		})
	}

	// Full stable sort keeps insertion order for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// ContainsSource reports whether any stored chunk's source equals the
// given filename exactly.
func (idx *Index) ContainsSource(_ context.Context, source string) (bool, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for i := range idx.chunks {
		if idx.chunks[i].Source == source {
			return true, nil
		}
	}
	return false, nil
}

// Stats returns chunk and distinct-document counts.
func (idx *Index) Stats(_ context.Context) (domain.IndexStats, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	sources := make(map[string]struct{})
	for i := range idx.chunks {
		sources[idx.chunks[i].Source] = struct{}{}
	}

	return domain.IndexStats{
		ChunkCount:    len(idx.chunks),
		DocumentCount: len(sources),
	}, nil
}

// ListSources returns the sorted set of distinct source filenames.
func (idx *Index) ListSources(_ context.Context) ([]string, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	seen := make(map[string]struct{})
	sources := make([]string, 0)
	for i := range idx.chunks {
		source := idx.chunks[i].Source
		if _, ok := seen[source]; ok {
			continue
		}
		seen[source] = struct{}{}
		sources = append(sources, source)
	}

	sort.Strings(sources)
	return sources, nil
}

// Close flushes the index to its backing files.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.persistLocked()
}

// cosineSimilarity computes dot(a, b) / (‖a‖·‖b‖). Mismatched or
// zero-norm vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
