package state

import (
	"github.com/viant/bindly/state"
)

// KindState marks a parameter bound from the case state value mapping
const KindState = "state"

// Parameter declares one extra ability call argument and where its value
// comes from. A route binding such as escalation_decision[solution_score]
// yields a parameter named solution_score located at state/solution_score.
type Parameter struct {
	Name     string          `json:"name" yaml:"name"`
	Value    interface{}     `json:"value,omitempty" yaml:"value,omitempty"`
	Location *state.Location `json:"location,omitempty" yaml:"location,omitempty"`
	Default  interface{}     `json:"default,omitempty" yaml:"default,omitempty"`
}

// NewStateParameter returns a parameter bound from the given case state key
func NewStateParameter(name string) *Parameter {
	return &Parameter{
		Name:     name,
		Location: &state.Location{Kind: KindState, In: name},
	}
}

// Parameters is a collection of argument declarations
type Parameters []*Parameter

// Add appends a constant-valued parameter
func (p *Parameters) Add(name string, value interface{}) {
	*p = append(*p, &Parameter{Name: name, Value: value})
}

// Get retrieves a parameter by name
func (p Parameters) Get(name string) (*Parameter, bool) {
	for _, param := range p {
		if param.Name == name {
			return param, true
		}
	}
	return nil, false
}

// Resolve binds each parameter against the supplied case state values; a
// parameter with a state location takes the value at Location.In, otherwise
// its constant Value applies, then Default. Unresolvable parameters are
// omitted so a half-built state never injects nils into a call payload.
func (p Parameters) Resolve(values map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(p))
	for _, param := range p {
		if param.Location != nil && param.Location.Kind == KindState {
			key := param.Location.In
			if key == "" {
				key = param.Name
			}
			if value, ok := values[key]; ok {
				result[param.Name] = value
			} else if param.Default != nil {
				result[param.Name] = param.Default
			}
			continue
		}
		if param.Value != nil {
			result[param.Name] = param.Value
			continue
		}
		if param.Default != nil {
			result[param.Name] = param.Default
		}
	}
	return result
}
