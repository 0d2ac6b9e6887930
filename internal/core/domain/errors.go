package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrConfig indicates a missing or invalid required setting.
	// It is fatal at startup.
	ErrConfig = errors.New("invalid configuration")

	// ErrEmptyQuery indicates a blank query string. This is a client
	// error, never converted to a decision result.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrExtraction indicates a single document's text could not be
	// read. Ingestion isolates it to that document and continues.
	ErrExtraction = errors.New("text extraction failed")

	// ErrProvider indicates an embedding or generation call failed
	// (network, auth or quota). During ingestion it aborts the current
	// document; during query it triggers the heuristic fallback.
	ErrProvider = errors.New("provider request failed")

	// ErrResponseShape indicates generation output was not valid or
	// complete JSON. Always recovered locally via the heuristic
	// fallback, never surfaced to callers.
	ErrResponseShape = errors.New("malformed generation response")

	// ErrDimensionMismatch indicates a vector whose dimension differs
	// from the rest of the index. Ingestion must fail rather than
	// silently corrupt the index.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrModelMismatch indicates persisted vectors were produced by a
	// different embedding model than the one configured. Loading must
	// be rejected rather than mixing vectors.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrIngestInProgress indicates an ingestion run is already active.
	ErrIngestInProgress = errors.New("ingestion already in progress")

	// ErrIndexUnavailable indicates the vector index is not initialised.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrUnsupportedBackend indicates an unknown provider or index
	// backend name in configuration.
	ErrUnsupportedBackend = errors.New("unsupported backend")
)
