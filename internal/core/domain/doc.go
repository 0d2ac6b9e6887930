// Package domain defines the core business entities for claimsight.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A bounded span of extracted document text with provenance
//   - EmbeddedChunk: A chunk paired with its embedding vector
//   - SearchResult: A ranked similarity hit produced per query
//   - DecisionResult: A structured adjudication answer with citations
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
