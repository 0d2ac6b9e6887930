package cli

import (
	"fmt"
	"time"

	fileconfig "github.com/claimsight/claimsight/internal/adapters/driven/config/file"
	ollamaembed "github.com/claimsight/claimsight/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/claimsight/claimsight/internal/adapters/driven/embedding/openai"
	memindex "github.com/claimsight/claimsight/internal/adapters/driven/index/memory"
	sqliteindex "github.com/claimsight/claimsight/internal/adapters/driven/index/sqlite"
	ollamallm "github.com/claimsight/claimsight/internal/adapters/driven/llm/ollama"
	openaillm "github.com/claimsight/claimsight/internal/adapters/driven/llm/openai"
	"github.com/claimsight/claimsight/internal/core/domain"
	"github.com/claimsight/claimsight/internal/core/ports/driven"
	"github.com/claimsight/claimsight/internal/core/ports/driving"
	"github.com/claimsight/claimsight/internal/core/services"
	"github.com/claimsight/claimsight/internal/logger"
	"github.com/claimsight/claimsight/internal/normalisers/pdf"
	"github.com/claimsight/claimsight/internal/postprocessors/chunker"
)

// Wired services. Tests may pre-populate these; bootstrap fills in
// whatever is still nil from the loaded configuration.
var (
	cfg *fileconfig.Config

	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
	llmService       driven.LLMService
	pageExtractor    driven.PageExtractor

	queryService  driving.QueryService
	ingestService driving.IngestOrchestrator
)

// bootstrap loads configuration and wires the full adapter graph.
// Safe to call from several commands; already-wired services are kept.
func bootstrap() error {
	if queryService != nil && ingestService != nil {
		return nil
	}

	loaded, err := fileconfig.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	if verboseFlag || cfg.Verbose {
		logger.SetVerbose(true)
	}

	if embeddingService == nil {
		embeddingService, err = buildEmbedder(cfg.Embedding)
		if err != nil {
			return err
		}
	}
	if llmService == nil {
		llmService, err = buildLLM(cfg.LLM)
		if err != nil {
			return err
		}
	}

	if vectorIndex == nil {
		vectorIndex, err = buildIndex(cfg.Index, embeddingService.ModelName())
		if err != nil {
			return err
		}
	}

	if pageExtractor == nil {
		pageExtractor = pdf.New()
	}

	split := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.Size),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)

	if queryService == nil {
		queryService = services.NewQueryService(vectorIndex, embeddingService, llmService,
			services.WithTopK(cfg.Query.TopK))
	}
	if ingestService == nil {
		ingestService = services.NewIngestService(cfg.Documents.Folder,
			vectorIndex, embeddingService, pageExtractor, split)
	}

	return nil
}

func buildEmbedder(pc fileconfig.ProviderConfig) (driven.EmbeddingService, error) {
	switch pc.Provider {
	case fileconfig.ProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:            pc.APIKey,
			BaseURL:           pc.BaseURL,
			Model:             pc.Model,
			Timeout:           time.Duration(pc.TimeoutSeconds) * time.Second,
			RequestsPerSecond: pc.RequestsPerSecond,
		})
	case fileconfig.ProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: pc.BaseURL,
			Model:   pc.Model,
			Timeout: time.Duration(pc.TimeoutSeconds) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("embedding provider %q: %w", pc.Provider, domain.ErrConfig)
	}
}

func buildLLM(pc fileconfig.ProviderConfig) (driven.LLMService, error) {
	switch pc.Provider {
	case fileconfig.ProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  pc.APIKey,
			BaseURL: pc.BaseURL,
			Model:   pc.Model,
			Timeout: time.Duration(pc.TimeoutSeconds) * time.Second,
		})
	case fileconfig.ProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: pc.BaseURL,
			Model:   pc.Model,
			Timeout: time.Duration(pc.TimeoutSeconds) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("llm provider %q: %w", pc.Provider, domain.ErrConfig)
	}
}

func buildIndex(ic fileconfig.IndexConfig, model string) (driven.VectorIndex, error) {
	switch ic.Backend {
	case fileconfig.BackendMemory:
		return memindex.New(memindex.Config{
			VectorsPath:   ic.VectorsPath,
			DocumentsPath: ic.DocumentsPath,
			Model:         model,
		})
	case fileconfig.BackendSQLite:
		return sqliteindex.New(sqliteindex.Config{
			Path:  ic.SQLitePath,
			Model: model,
		})
	default:
		return nil, fmt.Errorf("index backend %q: %w", ic.Backend, domain.ErrUnsupportedBackend)
	}
}

// closeServices flushes and releases everything bootstrap wired.
func closeServices() {
	if vectorIndex != nil {
		if err := vectorIndex.Close(); err != nil {
			logger.Error("close index: %v", err)
		}
	}
	if embeddingService != nil {
		_ = embeddingService.Close()
	}
	if llmService != nil {
		_ = llmService.Close()
	}
}
