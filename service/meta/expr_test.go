package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnvExpr(t *testing.T) {
	t.Setenv("DESKLY_FOO", "bar")
	t.Setenv("DESKLY_A", "1")
	t.Setenv("DESKLY_B", "2")

	testCases := []struct {
		description string
		input       string
		expected    string
	}{
		{
			description: "no expressions",
			input:       "just a plain string",
			expected:    "just a plain string",
		},
		{
			description: "single expression",
			input:       "value is ${env.DESKLY_FOO}",
			expected:    "value is bar",
		},
		{
			description: "multiple expressions",
			input:       "${env.DESKLY_A}-${env.DESKLY_B}-${env.DESKLY_A}",
			expected:    "1-2-1",
		},
		{
			description: "unset variable becomes empty",
			input:       "unset=${env.DESKLY_NOTSET}-end",
			expected:    "unset=-end",
		},
		{
			description: "missing closing brace stays literal",
			input:       "start ${env.DESKLY_FOO and ${env.DESKLY_B} end",
			expected:    "start ${env.DESKLY_FOO and 2 end",
		},
		{
			description: "empty key expands to empty",
			input:       "oops ${env.} done",
			expected:    "oops  done",
		},
	}

	for _, testCase := range testCases {
		actual := expandEnvExpr(testCase.input)
		assert.EqualValues(t, testCase.expected, actual, testCase.description)
	}
}
