package binding

import (
	"github.com/viant/deskly/model/state"
	"github.com/viant/parsly"
)

// Binding is one parsed ability declaration of a route sheet
type Binding struct {
	Ability  string
	Provider string
	Args     state.Parameters
}

// Parse parses an ability binding in the format:
// abilityName[stateArg,...](provider), the bracketed argument list being
// optional, e.g. escalation_decision[solution_score](external).
func Parse(input []byte) (*Binding, error) {
	cursor := parsly.NewCursor("", input, 0)
	binding := &Binding{}

	// Match the ability name (identifier)
	matched := cursor.MatchAfterOptional(whitespaceToken, identifierToken)
	if matched.Code != identifierToken.Code {
		return nil, cursor.NewError(identifierToken)
	}
	binding.Ability = matched.Text(cursor)

	// Match either an extra argument list or the provider opening parenthesis
	matched = cursor.MatchAfterOptional(whitespaceToken, openSquareBracketToken, openParenToken)
	switch matched.Code {
	case openSquareBracketToken.Code:
		for {
			matched = cursor.MatchAfterOptional(whitespaceToken, identifierToken)
			if matched.Code != identifierToken.Code {
				return nil, cursor.NewError(identifierToken)
			}
			binding.Args = append(binding.Args, state.NewStateParameter(matched.Text(cursor)))

			matched = cursor.MatchAfterOptional(whitespaceToken, commaToken, closeSquareBracketToken)
			if matched.Code == commaToken.Code {
				continue
			}
			if matched.Code == closeSquareBracketToken.Code {
				break
			}
			return nil, cursor.NewError(closeSquareBracketToken)
		}
		matched = cursor.MatchAfterOptional(whitespaceToken, openParenToken)
		if matched.Code != openParenToken.Code {
			return nil, cursor.NewError(openParenToken)
		}
	case openParenToken.Code:
	default:
		return nil, cursor.NewError(openParenToken)
	}

	// Match the provider identifier
	matched = cursor.MatchAfterOptional(whitespaceToken, identifierToken)
	if matched.Code != identifierToken.Code {
		return nil, cursor.NewError(identifierToken)
	}
	binding.Provider = matched.Text(cursor)

	// Match the closing parenthesis
	matched = cursor.MatchAfterOptional(whitespaceToken, closeParenToken)
	if matched.Code != closeParenToken.Code {
		return nil, cursor.NewError(closeParenToken)
	}
	return binding, nil
}
