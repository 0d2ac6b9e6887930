package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/claimsight/claimsight/internal/core/domain"
)

// hintExtractionPrompt asks the model for structured hints about the
// query. The output is best-effort; parse failures are ignored.
const hintExtractionPrompt = `Extract structured information from the user's query about insurance.
Return ONLY a valid JSON object with these fields:
{
    "age": number or null,
    "procedure": "string" or null,
    "location": "string" or null,
    "policy_duration": "string" or null,
    "condition": "string" or null,
    "amount_requested": "string" or null
}

Do not include any explanation, just the JSON.

Query: %s

JSON:`

// decisionInstructions is the fixed contract for the adjudication call.
// The provider guarantees nothing about output shape; the pipeline
// repairs whatever comes back.
const decisionInstructions = `You are an expert insurance claim processor. Analyze the query against all provided policy documents and extract every relevant piece of information you can find.

Rules:
1. Decision: Must be one of "Approved", "Rejected", or "Uncertain".
2. Amount: If a payout amount is explicitly specified, extract it as "₹XX,XXX"; otherwise use "".
3. Justification: An array of citation objects, each with:
   - source: filename (e.g. "policy.pdf");
   - clause: location (e.g. "Page 5, Section 2.1");
   - text: the quoted supporting text (max ~200 characters).
4. Alternatives: If decision is "Uncertain", list follow-up questions or missing data as citation-style objects (source and clause set to empty strings, text holding the question). Otherwise, use an empty array.
5. JSON Only: Return exactly one valid JSON object with no prose and no markdown.

Final JSON schema:
{
  "decision":   "Approved" | "Rejected" | "Uncertain",
  "amount":     "₹XX,XXX" | "",
  "justification": [
    {"source":"policy.pdf","clause":"Page X, Section Y.Z","text":"Quoted text supporting the decision."}
  ],
  "alternatives": [
    {"source":"","clause":"","text":"Is the insured's age below 60?"}
  ]
}

When you do not find an exact answer in the documents, summarise what the documents say about the query.`

// buildHintPrompt renders the hint extraction prompt for a query.
func buildHintPrompt(query string) string {
	return fmt.Sprintf(hintExtractionPrompt, query)
}

// buildDecisionPrompt composes the adjudication prompt from the query,
// the extracted hints and the retrieved context.
func buildDecisionPrompt(query string, hints domain.QueryHints, results []domain.SearchResult) string {
	var context strings.Builder
	for i, result := range results {
		fmt.Fprintf(&context,
			"Document %d:\nSource: %s\nPage: %d\nContent: %s\nSimilarity: %.3f\n\n",
			i+1, result.Source, result.Page, result.Content, result.Similarity)
	}

	hintsJSON := "{}"
	if !hints.Empty() {
		if data, err := json.Marshal(hints); err == nil {
			hintsJSON = string(data)
		}
	}

	var prompt strings.Builder
	prompt.WriteString(decisionInstructions)
	prompt.WriteString("\n\nQuery: ")
	prompt.WriteString(query)
	prompt.WriteString("\n\nExtracted Info: ")
	prompt.WriteString(hintsJSON)
	prompt.WriteString("\n\nPolicy Documents:\n")
	prompt.WriteString(context.String())
	prompt.WriteString("\nAnalyze and return JSON decision:")

	return prompt.String()
}
