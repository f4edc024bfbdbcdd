package router

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/deskly/model"
	"github.com/viant/deskly/model/types"
)

func TestTable_Provider(t *testing.T) {
	table := DefaultTable()

	testCases := []struct {
		description string
		stage       model.Stage
		ability     string
		expected    string
		miss        bool
	}{
		{
			description: "internal parse",
			stage:       model.StageUnderstand,
			ability:     model.AbilityParseRequest,
			expected:    model.ProviderInternal,
		},
		{
			description: "external entities",
			stage:       model.StageUnderstand,
			ability:     model.AbilityExtractEntities,
			expected:    model.ProviderExternal,
		},
		{
			description: "external escalation",
			stage:       model.StageDecide,
			ability:     model.AbilityEscalationDecision,
			expected:    model.ProviderExternal,
		},
		{
			description: "ability not routed for stage",
			stage:       model.StageRetrieve,
			ability:     model.AbilityCloseTicket,
			miss:        true,
		},
		{
			description: "unknown ability",
			stage:       model.StageDecide,
			ability:     "summon_wizard",
			miss:        true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			provider, err := table.Provider(testCase.stage, testCase.ability)
			if testCase.miss {
				var confErr *types.ConfigurationError
				assert.True(t, errors.As(err, &confErr))
				assert.EqualValues(t, string(testCase.stage), confErr.Stage)
				return
			}
			assert.NoError(t, err)
			assert.EqualValues(t, testCase.expected, provider)
		})
	}
}

func TestDefaultTable_Shape(t *testing.T) {
	table := DefaultTable()
	assert.EqualValues(t, 15, table.Size())

	// DECIDE keeps its two abilities in declaration order
	decide := table.Routes(model.StageDecide)
	if assert.EqualValues(t, 2, len(decide)) {
		assert.EqualValues(t, model.AbilitySolutionEvaluation, decide[0].Ability)
		assert.EqualValues(t, model.AbilityEscalationDecision, decide[1].Ability)
	}

	// escalation decision pulls the solution score from the case state
	route, err := table.Route(model.StageDecide, model.AbilityEscalationDecision)
	assert.NoError(t, err)
	if assert.EqualValues(t, 1, len(route.Args)) {
		assert.EqualValues(t, "solution_score", route.Args[0].Name)
	}

	// INTAKE and COMPLETE call no abilities
	assert.Empty(t, table.Routes(model.StageIntake))
	assert.Empty(t, table.Routes(model.StageComplete))
}

func TestRoute_Binding(t *testing.T) {
	table := DefaultTable()

	route, err := table.Route(model.StageUnderstand, model.AbilityParseRequest)
	assert.NoError(t, err)
	assert.EqualValues(t, "parse_request_text(internal)", route.Binding())

	route, err = table.Route(model.StageDecide, model.AbilityEscalationDecision)
	assert.NoError(t, err)
	assert.EqualValues(t, "escalation_decision[solution_score](external)", route.Binding())
}
