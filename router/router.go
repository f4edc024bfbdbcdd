package router

import (
	"strings"

	"github.com/viant/deskly/model"
	"github.com/viant/deskly/model/state"
	"github.com/viant/deskly/model/types"
)

// Route binds one ability of a stage to a provider, with optional extra
// arguments sourced from the case state.
type Route struct {
	Stage    model.Stage      `json:"stage" yaml:"stage"`
	Ability  string           `json:"ability" yaml:"ability"`
	Provider string           `json:"provider" yaml:"provider"`
	Args     state.Parameters `json:"args,omitempty" yaml:"args,omitempty"`
}

// Binding renders the route in its declaration form,
// ability[stateArg,...](provider), the inverse of binding.Parse.
func (r *Route) Binding() string {
	builder := strings.Builder{}
	builder.WriteString(r.Ability)
	if len(r.Args) > 0 {
		names := make([]string, 0, len(r.Args))
		for _, parameter := range r.Args {
			names = append(names, parameter.Name)
		}
		builder.WriteString("[" + strings.Join(names, ",") + "]")
	}
	builder.WriteString("(" + r.Provider + ")")
	return builder.String()
}

// Table is the static stage and ability routing table. It is built once at
// engine construction and read-only afterwards; lookups are pure.
type Table struct {
	byStage map[model.Stage][]*Route
	index   map[model.Stage]map[string]*Route
}

// Provider returns the provider identifier for a stage ability pair; a miss
// yields a ConfigurationError.
func (t *Table) Provider(stage model.Stage, ability string) (string, error) {
	route, err := t.Route(stage, ability)
	if err != nil {
		return "", err
	}
	return route.Provider, nil
}

// Route returns the full binding for a stage ability pair
func (t *Table) Route(stage model.Stage, ability string) (*Route, error) {
	abilities, ok := t.index[stage]
	if ok {
		if route, ok := abilities[ability]; ok {
			return route, nil
		}
	}
	return nil, types.NewConfigurationError(string(stage), ability, "is not routed")
}

// Routes returns the stage bindings in declaration order
func (t *Table) Routes(stage model.Stage) []*Route {
	return t.byStage[stage]
}

// Size returns the number of bindings in the table
func (t *Table) Size() int {
	total := 0
	for _, routes := range t.byStage {
		total += len(routes)
	}
	return total
}

// All returns every binding in pipeline order
func (t *Table) All() []*Route {
	var result []*Route
	for _, stage := range model.Stages() {
		result = append(result, t.byStage[stage]...)
	}
	return result
}

// NewTable builds an immutable routing table from the given bindings
func NewTable(routes ...*Route) *Table {
	table := &Table{
		byStage: make(map[model.Stage][]*Route),
		index:   make(map[model.Stage]map[string]*Route),
	}
	for _, route := range routes {
		table.byStage[route.Stage] = append(table.byStage[route.Stage], route)
		abilities, ok := table.index[route.Stage]
		if !ok {
			abilities = make(map[string]*Route)
			table.index[route.Stage] = abilities
		}
		abilities[route.Ability] = route
	}
	return table
}

// DefaultTable returns the built-in stage ability provider mapping
func DefaultTable() *Table {
	return NewTable(
		&Route{Stage: model.StageUnderstand, Ability: model.AbilityParseRequest, Provider: model.ProviderInternal},
		&Route{Stage: model.StageUnderstand, Ability: model.AbilityExtractEntities, Provider: model.ProviderExternal},
		&Route{Stage: model.StagePrepare, Ability: model.AbilityNormalizeFields, Provider: model.ProviderInternal},
		&Route{Stage: model.StagePrepare, Ability: model.AbilityEnrichRecords, Provider: model.ProviderExternal},
		&Route{Stage: model.StagePrepare, Ability: model.AbilityComputeFlags, Provider: model.ProviderInternal},
		&Route{Stage: model.StageAsk, Ability: model.AbilityClarifyQuestion, Provider: model.ProviderExternal},
		&Route{Stage: model.StageWait, Ability: model.AbilityExtractAnswer, Provider: model.ProviderExternal},
		&Route{Stage: model.StageRetrieve, Ability: model.AbilityKnowledgeSearch, Provider: model.ProviderExternal},
		&Route{Stage: model.StageDecide, Ability: model.AbilitySolutionEvaluation, Provider: model.ProviderInternal},
		&Route{
			Stage:    model.StageDecide,
			Ability:  model.AbilityEscalationDecision,
			Provider: model.ProviderExternal,
			Args:     state.Parameters{state.NewStateParameter("solution_score")},
		},
		&Route{Stage: model.StageUpdate, Ability: model.AbilityUpdateTicket, Provider: model.ProviderExternal},
		&Route{Stage: model.StageUpdate, Ability: model.AbilityCloseTicket, Provider: model.ProviderExternal},
		&Route{Stage: model.StageCreate, Ability: model.AbilityGenerateResponse, Provider: model.ProviderInternal},
		&Route{Stage: model.StageDo, Ability: model.AbilityExecuteAPICalls, Provider: model.ProviderExternal},
		&Route{Stage: model.StageDo, Ability: model.AbilityNotify, Provider: model.ProviderExternal},
	)
}
