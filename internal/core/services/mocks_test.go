package services

import (
	"context"
	"fmt"

	"github.com/claimsight/claimsight/internal/core/domain"
	"github.com/claimsight/claimsight/internal/core/ports/driven"
)

type stubEmbedder struct {
	embedFn      func(ctx context.Context, text string) ([]float32, error)
	embedBatchFn func(ctx context.Context, texts []string) ([][]float32, error)
}

var _ driven.EmbeddingService = (*stubEmbedder)(nil)

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.embedFn != nil {
		return s.embedFn(ctx, text)
	}
	return []float32{1, 0, 0}, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if s.embedBatchFn != nil {
		return s.embedBatchFn(ctx, texts)
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int   { return 3 }
func (s *stubEmbedder) ModelName() string { return "stub-embedder" }

func (s *stubEmbedder) Ping(ctx context.Context) error { return nil }
func (s *stubEmbedder) Close() error                   { return nil }

type stubLLM struct {
	generateFn func(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error)
}

var _ driven.LLMService = (*stubLLM)(nil)

func (s *stubLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if s.generateFn != nil {
		return s.generateFn(ctx, prompt, opts)
	}
	return "{}", nil
}

func (s *stubLLM) ModelName() string { return "stub-llm" }

func (s *stubLLM) Ping(ctx context.Context) error { return nil }
func (s *stubLLM) Close() error                   { return nil }

type stubIndex struct {
	results  []domain.SearchResult
	searchFn func(ctx context.Context, vector []float32, k int) ([]domain.SearchResult, error)

	added   []domain.EmbeddedChunk
	sources map[string]bool
	addErr  error
}

var _ driven.VectorIndex = (*stubIndex)(nil)

func (s *stubIndex) Add(ctx context.Context, chunks []domain.EmbeddedChunk) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.added = append(s.added, chunks...)
	if s.sources == nil {
		s.sources = make(map[string]bool)
	}
	for _, chunk := range chunks {
		s.sources[chunk.Source] = true
	}
	return nil
}

func (s *stubIndex) Search(ctx context.Context, vector []float32, k int) ([]domain.SearchResult, error) {
	if s.searchFn != nil {
		return s.searchFn(ctx, vector, k)
	}
	if k < len(s.results) {
		return s.results[:k], nil
	}
	return s.results, nil
}

func (s *stubIndex) ContainsSource(ctx context.Context, source string) (bool, error) {
	return s.sources[source], nil
}

func (s *stubIndex) Stats(ctx context.Context) (domain.IndexStats, error) {
	return domain.IndexStats{ChunkCount: len(s.added), DocumentCount: len(s.sources)}, nil
}

func (s *stubIndex) ListSources(ctx context.Context) ([]string, error) {
	out := make([]string, 0, len(s.sources))
	for source := range s.sources {
		out = append(out, source)
	}
	return out, nil
}

func (s *stubIndex) Close() error { return nil }

type stubExtractor struct {
	pages     map[string][]domain.Page
	extractFn func(ctx context.Context, path string) ([]domain.Page, error)
}

var _ driven.PageExtractor = (*stubExtractor)(nil)

func (s *stubExtractor) Extract(ctx context.Context, path string) ([]domain.Page, error) {
	if s.extractFn != nil {
		return s.extractFn(ctx, path)
	}
	if pages, ok := s.pages[path]; ok {
		return pages, nil
	}
	return nil, fmt.Errorf("open %s: %w", path, domain.ErrExtraction)
}

func (s *stubExtractor) SupportedExtensions() []string { return []string{".pdf"} }
