package driving

import (
	"context"

	"github.com/claimsight/claimsight/internal/core/domain"
)

// QueryService answers natural language queries against the ingested
// documents.
//
// The service is an error-absorbing boundary: internal failures
// (provider errors, malformed generation output) are converted into a
// well-formed Uncertain-flavoured DecisionResult rather than returned.
// The only errors Answer surfaces are client errors such as an empty
// query.
type QueryService interface {
	// Answer runs the full retrieval and decision pipeline for a query.
	Answer(ctx context.Context, query string) (*domain.DecisionResult, error)
}
