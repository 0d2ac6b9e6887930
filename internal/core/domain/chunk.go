package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Page holds the extracted text of a single document page.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Text is the extracted plain text of the page.
	Text string
}

// PageChunk is the raw output of the chunker before provenance is attached.
type PageChunk struct {
	// Text is the chunk content.
	Text string

	// Page is the 1-based page number the chunk was cut from.
	Page int

	// ChunkIndex is the 0-based position within the page.
	ChunkIndex int
}

// Chunk is a bounded span of extracted document text stored with its
// page and source provenance. Chunks are immutable once created and are
// owned exclusively by the vector index after ingestion.
type Chunk struct {
	// Content is the chunk text.
	Content string `json:"content"`

	// Source is the filename of the originating document.
	Source string `json:"source"`

	// Page is the 1-based page number.
	Page int `json:"page"`

	// ChunkIndex is the 0-based chunk position within the page.
	ChunkIndex int `json:"chunk_index"`

	// ChunkID uniquely identifies the chunk, derived from
	// source, page and index.
	ChunkID string `json:"chunk_id"`
}

// NewChunk builds a Chunk from a PageChunk and its source filename.
func NewChunk(pc PageChunk, source string) Chunk {
	return Chunk{
		Content:    pc.Text,
		Source:     source,
		Page:       pc.Page,
		ChunkIndex: pc.ChunkIndex,
		ChunkID:    ChunkID(source, pc.Page, pc.ChunkIndex),
	}
}

// ChunkID derives the canonical chunk identifier from a filename,
// page number and chunk index: "<base name>-p<page>-c<index>".
func ChunkID(source string, page, index int) string {
	base := strings.TrimSuffix(source, filepath.Ext(source))
	return fmt.Sprintf("%s-p%d-c%d", base, page, index)
}

// EmbeddedChunk pairs a chunk with its embedding vector.
// The vector dimension must match the rest of the index.
type EmbeddedChunk struct {
	Chunk

	// Embedding is the fixed-dimension vector produced by the
	// embedding provider.
	Embedding []float32
}

// SearchResult is a single similarity hit. It is produced per query and
// never persisted.
type SearchResult struct {
	Chunk

	// Similarity is the cosine similarity to the query vector, in [-1, 1].
	Similarity float64 `json:"similarity"`

	// Distance is 1 - Similarity.
	Distance float64 `json:"distance"`
}

// IndexStats summarises the contents of a vector index.
type IndexStats struct {
	// ChunkCount is the total number of stored chunks.
	ChunkCount int `json:"chunks_count"`

	// DocumentCount is the number of distinct source documents.
	DocumentCount int `json:"documents_count"`
}
