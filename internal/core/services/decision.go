package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/claimsight/claimsight/internal/core/domain"
)

const citationExcerptLimit = 200

var currencyAmountPattern = regexp.MustCompile(`₹[\d,]+`)

// extractJSONObject pulls the first top-level JSON object out of raw
// model output. Markdown fences and surrounding prose are discarded.
func extractJSONObject(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.IndexByte(cleaned, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object in model output: %w", domain.ErrResponseShape)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(cleaned); i++ {
		c := cleaned[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return cleaned[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unterminated JSON object in model output: %w", domain.ErrResponseShape)
}

// parseDecision decodes model output into a DecisionResult. Any shape
// violation is reported as ErrResponseShape so callers can fall back.
func parseDecision(raw string) (*domain.DecisionResult, error) {
	object, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var result domain.DecisionResult
	if err := json.Unmarshal([]byte(object), &result); err != nil {
		return nil, fmt.Errorf("decode decision JSON: %v: %w", err, domain.ErrResponseShape)
	}

	return &result, nil
}

// normaliseDecision repairs a parsed decision in place so the contract
// holds: a valid decision value, at least one citation and a non-nil
// alternatives list.
func normaliseDecision(result *domain.DecisionResult, results []domain.SearchResult) {
	switch domain.Decision(canonicalDecision(string(result.Decision))) {
	case domain.DecisionApproved:
		result.Decision = domain.DecisionApproved
	case domain.DecisionRejected:
		result.Decision = domain.DecisionRejected
	default:
		result.Decision = domain.DecisionUncertain
	}

	if len(result.Justification) == 0 && len(results) > 0 {
		result.Justification = []domain.Citation{citationFromResult(results[0])}
	}
	if result.Justification == nil {
		result.Justification = []domain.Citation{}
	}
	if result.Alternatives == nil {
		result.Alternatives = []domain.Citation{}
	}
}

func canonicalDecision(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return string(domain.DecisionUncertain)
	}
	return strings.ToUpper(trimmed[:1]) + strings.ToLower(trimmed[1:])
}

// heuristicDecision derives a decision from the retrieved clauses alone,
// used when the model output cannot be repaired into valid JSON.
func heuristicDecision(results []domain.SearchResult) *domain.DecisionResult {
	top := results[0]
	content := strings.ToLower(top.Content)

	decision := domain.DecisionUncertain
	switch {
	case strings.Contains(content, "covered") ||
		strings.Contains(content, "approved") ||
		strings.Contains(content, "eligible"):
		decision = domain.DecisionApproved
		if strings.Contains(content, "waiting") ||
			strings.Contains(content, "period") ||
			strings.Contains(content, "days") {
			decision = domain.DecisionUncertain
		}
	case strings.Contains(content, "excluded") ||
		strings.Contains(content, "not covered") ||
		strings.Contains(content, "rejected"):
		decision = domain.DecisionRejected
	}

	return &domain.DecisionResult{
		Decision:      decision,
		Amount:        currencyAmountPattern.FindString(top.Content),
		Justification: []domain.Citation{citationFromResult(top)},
		Alternatives:  []domain.Citation{},
	}
}

// citationFromResult synthesises a citation from a retrieved chunk.
func citationFromResult(result domain.SearchResult) domain.Citation {
	return domain.Citation{
		Clause: fmt.Sprintf("Page %d", result.Page),
		Text:   truncateExcerpt(result.Content, citationExcerptLimit),
		Source: result.Source,
	}
}

func truncateExcerpt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

// noDocumentsResult is the terminal answer when the index holds nothing
// relevant to cite.
func noDocumentsResult() *domain.DecisionResult {
	return &domain.DecisionResult{
		Decision: domain.DecisionUnknown,
		Amount:   "",
		Justification: []domain.Citation{{
			Clause: "N/A",
			Text:   "No relevant clause found in provided documents.",
			Source: "N/A",
		}},
		Alternatives: []domain.Citation{},
	}
}

// uncertainResult is the terminal answer when the pipeline itself failed
// before any clause could be consulted.
func uncertainResult(reason string) *domain.DecisionResult {
	return &domain.DecisionResult{
		Decision: domain.DecisionUncertain,
		Amount:   "",
		Justification: []domain.Citation{{
			Clause: "N/A",
			Text:   reason,
			Source: "N/A",
		}},
		Alternatives: []domain.Citation{},
	}
}
