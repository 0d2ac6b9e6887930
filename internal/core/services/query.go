package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/claimsight/claimsight/internal/core/domain"
	"github.com/claimsight/claimsight/internal/core/ports/driven"
	"github.com/claimsight/claimsight/internal/core/ports/driving"
	"github.com/claimsight/claimsight/internal/logger"
)

// DefaultTopK is the number of clauses retrieved per query.
const DefaultTopK = 5

// QueryService answers claim queries against the indexed policy corpus.
// Provider and parsing failures never escape as errors; they degrade
// into Uncertain results so callers always get an adjudication.
type QueryService struct {
	index    driven.VectorIndex
	embedder driven.EmbeddingService
	llm      driven.LLMService
	topK     int
}

var _ driving.QueryService = (*QueryService)(nil)

// QueryOption configures a QueryService.
type QueryOption func(*QueryService)

// WithTopK overrides the number of clauses retrieved per query.
func WithTopK(k int) QueryOption {
	return func(s *QueryService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// NewQueryService wires the query pipeline.
func NewQueryService(index driven.VectorIndex, embedder driven.EmbeddingService, llm driven.LLMService, opts ...QueryOption) *QueryService {
	s := &QueryService{
		index:    index,
		embedder: embedder,
		llm:      llm,
		topK:     DefaultTopK,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Answer runs the full pipeline: hint extraction, retrieval,
// adjudication, repair, fallback. The only error it returns is
// ErrEmptyQuery; everything downstream degrades into a result.
func (s *QueryService) Answer(ctx context.Context, query string) (*domain.DecisionResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	logger.Section("Query")
	logger.Debug("query: %s", query)

	hints := s.extractHints(ctx, query)

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		logger.Error("embed query: %v", err)
		return uncertainResult(fmt.Sprintf("Error processing query: %v", err)), nil
	}

	results, err := s.index.Search(ctx, vector, s.topK)
	if err != nil {
		logger.Error("search index: %v", err)
		return uncertainResult(fmt.Sprintf("Error processing query: %v", err)), nil
	}
	if len(results) == 0 {
		logger.Info("no relevant clauses found")
		return noDocumentsResult(), nil
	}
	logger.Debug("retrieved %d clauses, top similarity %.3f", len(results), results[0].Similarity)

	prompt := buildDecisionPrompt(query, hints, results)
	raw, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{})
	if err != nil {
		logger.Warn("decision generation failed, using heuristic: %v", err)
		return heuristicDecision(results), nil
	}

	result, err := parseDecision(raw)
	if err != nil {
		logger.Warn("decision output unusable, using heuristic: %v", err)
		return heuristicDecision(results), nil
	}

	normaliseDecision(result, results)
	logger.Info("decision: %s", result.Decision)
	return result, nil
}

// extractHints asks the model for structured query hints. Failures are
// swallowed; hints only enrich the adjudication prompt.
func (s *QueryService) extractHints(ctx context.Context, query string) domain.QueryHints {
	var hints domain.QueryHints

	raw, err := s.llm.Generate(ctx, buildHintPrompt(query), driven.GenerateOptions{})
	if err != nil {
		logger.Debug("hint extraction failed: %v", err)
		return hints
	}

	object, err := extractJSONObject(raw)
	if err != nil {
		logger.Debug("hint extraction returned no JSON")
		return hints
	}
	if err := json.Unmarshal([]byte(object), &hints); err != nil {
		logger.Debug("hint extraction JSON malformed: %v", err)
		return domain.QueryHints{}
	}
	return hints
}
