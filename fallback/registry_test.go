package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/deskly/model"
	"github.com/viant/deskly/model/types"
)

func TestDefaultRegistry_Coverage(t *testing.T) {
	registry := DefaultRegistry(90)
	abilities := []string{
		model.AbilityParseRequest,
		model.AbilityExtractEntities,
		model.AbilityNormalizeFields,
		model.AbilityEnrichRecords,
		model.AbilityComputeFlags,
		model.AbilityClarifyQuestion,
		model.AbilityExtractAnswer,
		model.AbilityKnowledgeSearch,
		model.AbilitySolutionEvaluation,
		model.AbilityEscalationDecision,
		model.AbilityUpdateTicket,
		model.AbilityCloseTicket,
		model.AbilityGenerateResponse,
		model.AbilityExecuteAPICalls,
		model.AbilityNotify,
	}
	for _, ability := range abilities {
		assert.True(t, registry.Has(ability), ability)
	}
	_, ok := registry.Resolve("unknown_ability", nil)
	assert.False(t, ok)
}

func TestDefaultRegistry_EscalationDecision(t *testing.T) {
	registry := DefaultRegistry(90)

	testCases := []struct {
		description string
		score       interface{}
		escalate    bool
	}{
		{description: "below threshold escalates", score: 85, escalate: true},
		{description: "at threshold closes", score: 90, escalate: false},
		{description: "above threshold closes", score: 95, escalate: false},
		{description: "float score coerced", score: 89.0, escalate: true},
		{description: "missing score escalates", score: nil, escalate: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			args := types.Args{}
			if testCase.score != nil {
				args["solution_score"] = testCase.score
			}
			result, ok := registry.Resolve(model.AbilityEscalationDecision, args)
			assert.True(t, ok)
			escalate, _ := result.Bool("escalate")
			assert.EqualValues(t, testCase.escalate, escalate)
		})
	}
}

func TestDefaultRegistry_ResponseUsesName(t *testing.T) {
	registry := DefaultRegistry(90)
	result, ok := registry.Resolve(model.AbilityGenerateResponse, types.Args{"customer_name": "John Smith"})
	assert.True(t, ok)
	response, _ := result.String("response")
	assert.EqualValues(t, "Dear John Smith, inquiry resolved.", response)
}

func TestRegistry_ConstantIsolation(t *testing.T) {
	registry := DefaultRegistry(90)
	first, _ := registry.Resolve(model.AbilityParseRequest, nil)
	first["intent"] = "mutated"
	second, _ := registry.Resolve(model.AbilityParseRequest, nil)
	intent, _ := second.String("intent")
	assert.EqualValues(t, "billing_inquiry", intent, "fallback results are isolated per call")
}
