package desk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/deskly/extension"
	"github.com/viant/deskly/model"
	"github.com/viant/deskly/model/types"
)

func TestService_Abilities(t *testing.T) {
	service := New()
	assert.EqualValues(t, model.ProviderExternal, service.Name())
	assert.EqualValues(t, 10, len(service.Abilities()))
	for _, signature := range service.Abilities() {
		executable, err := service.Ability(signature.Name)
		assert.Nil(t, err, signature.Name)
		assert.NotNil(t, executable, signature.Name)
	}
	_, err := service.Ability("parse_request_text")
	assert.NotNil(t, err, "internal ability is not hosted here")
}

func TestService_EscalationDecision(t *testing.T) {
	testCases := []struct {
		description string
		args        types.Args
		options     []Option
		escalate    bool
	}{
		{
			description: "below threshold escalates",
			args:        types.Args{"solution_score": 85},
			escalate:    true,
		},
		{
			description: "at threshold closes",
			args:        types.Args{"solution_score": 90},
			escalate:    false,
		},
		{
			description: "above threshold closes",
			args:        types.Args{"solution_score": 95},
			escalate:    false,
		},
		{
			description: "explicit threshold argument wins",
			args:        types.Args{"solution_score": 85, "threshold": 80},
			escalate:    false,
		},
		{
			description: "configured threshold applies without argument",
			args:        types.Args{"solution_score": 85},
			options:     []Option{WithThreshold(80)},
			escalate:    false,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			service := New(testCase.options...)
			decide, err := service.Ability(model.AbilityEscalationDecision)
			assert.Nil(t, err)
			result, err := decide(context.Background(), testCase.args)
			assert.Nil(t, err)
			escalate, ok := result.Bool("escalate")
			assert.True(t, ok)
			assert.EqualValues(t, testCase.escalate, escalate)
			reason, _ := result.String("reason")
			assert.EqualValues(t, "Score threshold", reason)
		})
	}
}

func TestService_TicketActions(t *testing.T) {
	service := New()

	update, err := service.Ability(model.AbilityUpdateTicket)
	assert.Nil(t, err)
	result, err := update(context.Background(), nil)
	assert.Nil(t, err)
	updated, _ := result.Bool("updated")
	assert.True(t, updated)
	status, _ := result.String("status")
	assert.EqualValues(t, "in_progress", status)

	closeTicket, err := service.Ability(model.AbilityCloseTicket)
	assert.Nil(t, err)
	result, err = closeTicket(context.Background(), nil)
	assert.Nil(t, err)
	closed, _ := result.Bool("closed")
	assert.True(t, closed)
	resolution, _ := result.String("resolution")
	assert.EqualValues(t, "Resolved", resolution)
}

func TestService_InitTypes(t *testing.T) {
	registry := extension.NewTypes()
	New().InitTypes(registry)
	assert.NotNil(t, registry.ViewFor(model.AbilityKnowledgeSearch))
	assert.NotNil(t, registry.ViewFor(model.AbilityEscalationDecision))
	assert.Nil(t, registry.ViewFor(model.AbilityParseRequest))
}
