package mcp

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/deskly/model"
	"github.com/viant/deskly/model/types"
	"github.com/viant/deskly/service/provider/desk"
)

func TestService_Loopback(t *testing.T) {
	ctx := context.Background()
	client, err := NewLoopback(ctx, desk.New())
	assert.Nil(t, err)

	provider, err := New(ctx, model.ProviderExternal, client)
	assert.Nil(t, err)
	assert.EqualValues(t, model.ProviderExternal, provider.Name())
	assert.EqualValues(t, 10, len(provider.Abilities()))

	decide, err := provider.Ability(model.AbilityEscalationDecision)
	assert.Nil(t, err)
	result, err := decide(ctx, types.Args{"solution_score": 85})
	assert.Nil(t, err)
	escalate, ok := result.Bool("escalate")
	assert.True(t, ok)
	assert.True(t, escalate)
	reason, _ := result.String("reason")
	assert.EqualValues(t, "Score threshold", reason)

	search, err := provider.Ability(model.AbilityKnowledgeSearch)
	assert.Nil(t, err)
	result, err = search(ctx, nil)
	assert.Nil(t, err)
	_, ok = result["results"]
	assert.True(t, ok)

	_, err = provider.Ability("unknown_tool")
	assert.NotNil(t, err)
}

func TestOutputSchema(t *testing.T) {
	schema := outputSchema(reflect.TypeOf(&model.EscalationDecision{}))
	assert.NotNil(t, schema)
	assert.EqualValues(t, "object", schema.Type)
	assert.EqualValues(t, map[string]interface{}{"type": "boolean"}, schema.Properties["escalate"])
	assert.EqualValues(t, map[string]interface{}{"type": "string"}, schema.Properties["reason"])
	assert.Nil(t, outputSchema(nil))
	assert.Nil(t, outputSchema(reflect.TypeOf("")))
}
