package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	bstate "github.com/viant/bindly/state"
	"github.com/viant/deskly/model/state"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expected    *Binding
		shouldError bool
	}{
		{
			description: "ability with provider",
			input:       "parse_request_text(internal)",
			expected: &Binding{
				Ability:  "parse_request_text",
				Provider: "internal",
			},
		},
		{
			description: "ability with state argument",
			input:       "escalation_decision[solution_score](external)",
			expected: &Binding{
				Ability:  "escalation_decision",
				Provider: "external",
				Args: state.Parameters{
					{
						Name:     "solution_score",
						Location: &bstate.Location{Kind: state.KindState, In: "solution_score"},
					},
				},
			},
		},
		{
			description: "ability with multiple arguments and whitespace",
			input:       " knowledge_base_search[intent, urgency] (external) ",
			expected: &Binding{
				Ability:  "knowledge_base_search",
				Provider: "external",
				Args: state.Parameters{
					{
						Name:     "intent",
						Location: &bstate.Location{Kind: state.KindState, In: "intent"},
					},
					{
						Name:     "urgency",
						Location: &bstate.Location{Kind: state.KindState, In: "urgency"},
					},
				},
			},
		},
		{
			description: "missing provider",
			input:       "close_ticket",
			shouldError: true,
		},
		{
			description: "unterminated argument list",
			input:       "close_ticket[foo(external)",
			shouldError: true,
		},
		{
			description: "empty provider",
			input:       "close_ticket()",
			shouldError: true,
		},
		{
			description: "unterminated provider",
			input:       "close_ticket(external",
			shouldError: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			actual, err := Parse([]byte(testCase.input))
			if testCase.shouldError {
				assert.NotNil(t, err)
				return
			}
			if !assert.Nil(t, err) {
				return
			}
			assert.EqualValues(t, testCase.expected, actual)
		})
	}
}
