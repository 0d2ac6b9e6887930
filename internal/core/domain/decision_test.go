package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecisionValid(t *testing.T) {
	assert.True(t, DecisionApproved.Valid())
	assert.True(t, DecisionRejected.Valid())
	assert.True(t, DecisionUncertain.Valid())

	// Unknown is a terminal outcome the pipeline produces itself;
	// the generation contract never yields it.
	assert.False(t, DecisionUnknown.Valid())
	assert.False(t, Decision("").Valid())
	assert.False(t, Decision("approved").Valid())
}

func TestDecisionResultJSON(t *testing.T) {
	result := DecisionResult{
		Decision: DecisionApproved,
		Amount:   "₹2,50,000",
		Justification: []Citation{
			{Clause: "Page 1", Text: "Knee surgery is covered.", Source: "policy.pdf"},
		},
		Alternatives: []Citation{},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"decision":"Approved"`)
	assert.Contains(t, string(data), `"amount":"₹2,50,000"`)
	assert.Contains(t, string(data), `"alternatives":[]`)
}

func TestDecisionResultJSONOmitsEmptyAmount(t *testing.T) {
	result := DecisionResult{
		Decision:      DecisionUncertain,
		Justification: []Citation{{Clause: "N/A", Text: "n/a", Source: "N/A"}},
		Alternatives:  []Citation{},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"amount"`)
}

func TestQueryHintsEmpty(t *testing.T) {
	assert.True(t, QueryHints{}.Empty())

	age := 46
	assert.False(t, QueryHints{Age: &age}.Empty())
	assert.False(t, QueryHints{Procedure: "knee surgery"}.Empty())
}
