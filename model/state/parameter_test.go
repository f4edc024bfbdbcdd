package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParameters_Resolve(t *testing.T) {
	var params Parameters
	params = append(params, NewStateParameter("solution_score"))
	params = append(params, NewStateParameter("account_id"))
	params.Add("channel", "email")
	params = append(params, &Parameter{Name: "locale", Default: "en-US"})

	values := map[string]interface{}{
		"solution_score": 85,
		"ticket_id":      "12345",
	}

	resolved := params.Resolve(values)
	assert.EqualValues(t, 85, resolved["solution_score"])
	assert.EqualValues(t, "email", resolved["channel"])
	assert.EqualValues(t, "en-US", resolved["locale"])
	_, ok := resolved["account_id"]
	assert.False(t, ok, "unresolved state parameter is omitted")

	param, ok := params.Get("channel")
	assert.True(t, ok)
	assert.EqualValues(t, "email", param.Value)
}
