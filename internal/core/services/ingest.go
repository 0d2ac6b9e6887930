package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/claimsight/claimsight/internal/core/domain"
	"github.com/claimsight/claimsight/internal/core/ports/driven"
	"github.com/claimsight/claimsight/internal/core/ports/driving"
	"github.com/claimsight/claimsight/internal/logger"
)

// IngestService walks the documents folder and indexes every document
// the index has not seen yet. At most one run is active at a time.
type IngestService struct {
	folder    string
	index     driven.VectorIndex
	embedder  driven.EmbeddingService
	extractor driven.PageExtractor
	chunker   driven.Chunker

	mu      sync.Mutex
	running bool
}

var _ driving.IngestOrchestrator = (*IngestService)(nil)

// NewIngestService wires the ingestion pipeline over a documents folder.
func NewIngestService(folder string, index driven.VectorIndex, embedder driven.EmbeddingService, extractor driven.PageExtractor, chunker driven.Chunker) *IngestService {
	return &IngestService{
		folder:    folder,
		index:     index,
		embedder:  embedder,
		extractor: extractor,
		chunker:   chunker,
	}
}

// Running reports whether an ingestion run is in flight.
func (s *IngestService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// ProcessFolder ingests every unprocessed document in the folder.
// A failing document is recorded and skipped; it never aborts the run.
func (s *IngestService) ProcessFolder(ctx context.Context) (*driving.IngestReport, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, domain.ErrIngestInProgress
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	report := &driving.IngestReport{RunID: uuid.New().String()}
	logger.Section("Ingest")
	logger.Debug("run %s scanning %s", report.RunID, s.folder)

	entries, err := os.ReadDir(s.folder)
	if err != nil {
		return nil, fmt.Errorf("list documents folder %q: %w", s.folder, err)
	}

	supported := make(map[string]struct{})
	for _, ext := range s.extractor.SupportedExtensions() {
		supported[ext] = struct{}{}
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := supported[strings.ToLower(filepath.Ext(entry.Name()))]; !ok {
			continue
		}

		name := entry.Name()
		indexed, err := s.index.ContainsSource(ctx, name)
		if err != nil {
			logger.Error("check %s: %v", name, err)
			report.Failed++
			continue
		}
		if indexed {
			logger.Debug("skipping %s, already indexed", name)
			report.Skipped++
			continue
		}

		if err := s.processDocument(ctx, name); err != nil {
			logger.Error("ingest %s: %v", name, err)
			report.Failed++
			continue
		}
		report.Processed++
	}

	logger.Info("ingest %s done: %d processed, %d skipped, %d failed",
		report.RunID, report.Processed, report.Skipped, report.Failed)
	return report, nil
}

// processDocument extracts, chunks, embeds and indexes one document.
// The index is only touched once the whole document embedded cleanly.
func (s *IngestService) processDocument(ctx context.Context, name string) error {
	path := filepath.Join(s.folder, name)

	pages, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return err
	}

	var chunks []domain.Chunk
	for _, page := range pages {
		for _, pc := range s.chunker.Split(page.Text, page.Number) {
			chunks = append(chunks, domain.NewChunk(pc, name))
		}
	}
	if len(chunks) == 0 {
		logger.Warn("no text extracted from %s", name)
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed %d chunks: %w", len(chunks), err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding count %d does not match chunk count %d: %w",
			len(embeddings), len(chunks), domain.ErrProvider)
	}

	embedded := make([]domain.EmbeddedChunk, len(chunks))
	for i, chunk := range chunks {
		embedded[i] = domain.EmbeddedChunk{Chunk: chunk, Embedding: embeddings[i]}
	}

	if err := s.index.Add(ctx, embedded); err != nil {
		return fmt.Errorf("index %s: %w", name, err)
	}

	logger.Debug("indexed %s: %d pages, %d chunks", name, len(pages), len(chunks))
	return nil
}
