package driving

import "context"

// IngestReport summarises a single ingestion run.
type IngestReport struct {
	// RunID identifies the run in logs.
	RunID string

	// Processed is the number of documents chunked, embedded and added
	// to the index.
	Processed int

	// Skipped is the number of documents already present in the index.
	Skipped int

	// Failed is the number of documents that errored and were skipped.
	Failed int
}

// IngestOrchestrator drives document ingestion over the configured
// folder. At most one run executes at a time; starting a second run
// while one is active fails with domain.ErrIngestInProgress.
type IngestOrchestrator interface {
	// ProcessFolder ingests every unprocessed document in the folder.
	// Per-document failures are logged and counted, not returned; only
	// a folder listing failure or a concurrent run aborts the whole run.
	ProcessFolder(ctx context.Context) (*IngestReport, error)

	// Running reports whether an ingestion run is currently active.
	Running() bool
}
