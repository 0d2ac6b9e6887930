package domain

// Decision is the adjudication outcome for a query.
type Decision string

// Decision values. Unknown is the terminal outcome when the index holds
// no relevant material at all; the generation contract only ever yields
// Approved, Rejected or Uncertain.
const (
	DecisionApproved  Decision = "Approved"
	DecisionRejected  Decision = "Rejected"
	DecisionUncertain Decision = "Uncertain"
	DecisionUnknown   Decision = "Unknown"
)

// Valid reports whether d is one of the decision values the generation
// contract may produce.
func (d Decision) Valid() bool {
	switch d {
	case DecisionApproved, DecisionRejected, DecisionUncertain:
		return true
	default:
		return false
	}
}

// Citation is a (source, location, quoted text) triple justifying part
// of a decision.
type Citation struct {
	// Clause locates the cited text, e.g. "Page 5, Section 2.1".
	Clause string `json:"clause"`

	// Text is the quoted supporting text, at most ~200 characters.
	Text string `json:"text"`

	// Source is the filename the citation was taken from.
	Source string `json:"source"`
}

// DecisionResult is the structured answer to a query. Every query path
// terminates with a well-formed DecisionResult: Decision is always set,
// Justification is never empty and Alternatives is never nil.
type DecisionResult struct {
	// Decision is the adjudication outcome.
	Decision Decision `json:"decision"`

	// Amount is the payout amount when one is explicitly specified,
	// e.g. "₹2,50,000". Empty when no amount applies.
	Amount string `json:"amount,omitempty"`

	// Justification cites the passages supporting the decision.
	Justification []Citation `json:"justification"`

	// Alternatives lists follow-up questions or missing information
	// when the decision is Uncertain. Always present, possibly empty.
	Alternatives []Citation `json:"alternatives"`
}

// QueryHints is auxiliary structured information extracted from a query
// on a best-effort basis. Absent hints never change the main retrieval
// or decision path; they only remove context from the prompt.
type QueryHints struct {
	Age             *int   `json:"age"`
	Procedure       string `json:"procedure,omitempty"`
	Location        string `json:"location,omitempty"`
	PolicyDuration  string `json:"policy_duration,omitempty"`
	Condition       string `json:"condition,omitempty"`
	AmountRequested string `json:"amount_requested,omitempty"`
}

// Empty reports whether no hint fields were extracted.
func (h QueryHints) Empty() bool {
	return h.Age == nil && h.Procedure == "" && h.Location == "" &&
		h.PolicyDuration == "" && h.Condition == "" && h.AmountRequested == ""
}
