// Package api exposes the query and ingestion pipelines over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/claimsight/claimsight/internal/core/domain"
	"github.com/claimsight/claimsight/internal/core/ports/driven"
	"github.com/claimsight/claimsight/internal/core/ports/driving"
	"github.com/claimsight/claimsight/internal/logger"
)

// Server serves the claimsight HTTP API.
type Server struct {
	query  driving.QueryService
	ingest driving.IngestOrchestrator
	index  driven.VectorIndex

	httpServer *http.Server
}

// NewServer builds a Server listening on addr.
func NewServer(addr string, query driving.QueryService, ingest driving.IngestOrchestrator, index driven.VectorIndex) *Server {
	s := &Server{
		query:  query,
		ingest: ingest,
		index:  index,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("POST /query", s.handleQuery)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("POST /ingest", s.handleIngest)
	mux.HandleFunc("GET /documents", s.handleDocuments)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving requests until Shutdown is called.
func (s *Server) ListenAndServe() error {
	logger.Info("http api listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routing table, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

type queryRequest struct {
	Query string `json:"query"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type statusResponse struct {
	Status        string `json:"status"`
	DocumentCount int    `json:"documents_count"`
	ChunkCount    int    `json:"chunks_count"`
	IngestRunning bool   `json:"ingest_running"`
}

type ingestResponse struct {
	Status string `json:"status"`
}

type documentsResponse struct {
	Documents []string `json:"documents"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Service: "claimsight"})
}

// handleQuery adjudicates a claim query. Model and parsing failures are
// absorbed by the pipeline, so the only client errors here are shape
// errors on the request itself.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	result, err := s.query.Answer(r.Context(), req.Query)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyQuery):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query must not be empty"})
		case errors.Is(err, domain.ErrIndexUnavailable):
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "index not ready"})
		default:
			logger.Error("query failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := s.index.Stats(r.Context())
	if err != nil {
		logger.Error("index stats: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "index not ready"})
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Status:        "ready",
		DocumentCount: stats.DocumentCount,
		ChunkCount:    stats.ChunkCount,
		IngestRunning: s.ingest.Running(),
	})
}

// handleIngest kicks off a folder scan in the background and
// acknowledges immediately.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if s.ingest.Running() {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "ingestion already running"})
		return
	}

	go func() {
		if _, err := s.ingest.ProcessFolder(context.Background()); err != nil &&
			!errors.Is(err, domain.ErrIngestInProgress) {
			logger.Error("background ingest: %v", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, ingestResponse{Status: "started"})
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	sources, err := s.index.ListSources(r.Context())
	if err != nil {
		logger.Error("list sources: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "index not ready"})
		return
	}
	if sources == nil {
		sources = []string{}
	}

	writeJSON(w, http.StatusOK, documentsResponse{Documents: sources})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("encode response: %v", err)
	}
}
