package fallback

import (
	"sync"

	"github.com/viant/deskly/model"
	"github.com/viant/deskly/model/types"
	"github.com/viant/toolbox"
)

// Func produces the deterministic substitute result for a failed ability
// call; it only ever derives from the call arguments, never from remote
// state, so a degraded run stays reproducible.
type Func func(args types.Args) types.Result

// Registry maps ability names to their registered fallback; read-only after
// setup apart from explicit Register calls.
type Registry struct {
	fallbacks map[string]Func
	mux       sync.RWMutex
}

// Register adds or replaces an ability fallback
func (r *Registry) Register(ability string, fn Func) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.fallbacks[ability] = fn
}

// Lookup returns the fallback for an ability, nil when absent
func (r *Registry) Lookup(ability string) Func {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return r.fallbacks[ability]
}

// Has reports whether an ability has a registered fallback
func (r *Registry) Has(ability string) bool {
	return r.Lookup(ability) != nil
}

// Resolve applies the ability fallback to the call arguments; the second
// return is false when no fallback is registered.
func (r *Registry) Resolve(ability string, args types.Args) (types.Result, bool) {
	fn := r.Lookup(ability)
	if fn == nil {
		return nil, false
	}
	return fn(args), true
}

// NewRegistry creates an empty fallback registry
func NewRegistry() *Registry {
	return &Registry{fallbacks: make(map[string]Func)}
}

// constant wraps a fixed result value as a fallback
func constant(result types.Result) Func {
	return func(types.Args) types.Result {
		cloned := make(types.Result, len(result))
		for k, v := range result {
			cloned[k] = v
		}
		return cloned
	}
}

// DefaultRegistry returns the registry with every ability of the fixed
// vocabulary covered, so a total provider outage still drives a run to its
// terminal stage.
func DefaultRegistry(threshold int) *Registry {
	registry := NewRegistry()
	registry.Register(model.AbilityParseRequest, constant(types.Result{
		"intent":  "billing_inquiry",
		"urgency": "medium",
	}))
	registry.Register(model.AbilityNormalizeFields, constant(types.Result{
		"priority":  "high",
		"ticket_id": "TKT-12345",
	}))
	registry.Register(model.AbilityComputeFlags, constant(types.Result{
		"sla_risk":       "low",
		"priority_score": 65,
	}))
	registry.Register(model.AbilitySolutionEvaluation, constant(types.Result{
		"score":      85,
		"confidence": "high",
	}))
	registry.Register(model.AbilityGenerateResponse, func(args types.Args) types.Result {
		name := "Customer"
		if value, ok := args["customer_name"]; ok && value != nil {
			name = toolbox.AsString(value)
		}
		return types.Result{"response": "Dear " + name + ", inquiry resolved."}
	})
	registry.Register(model.AbilityExtractEntities, constant(types.Result{
		"account_id": "ACC123456",
		"product":    "Premium Plan",
	}))
	registry.Register(model.AbilityEnrichRecords, constant(types.Result{
		"customer_tier":    "gold",
		"previous_tickets": 2,
	}))
	registry.Register(model.AbilityClarifyQuestion, constant(types.Result{
		"question": "Please provide account number?",
	}))
	registry.Register(model.AbilityExtractAnswer, constant(types.Result{
		"answer":     "ACC123456",
		"confidence": 0.95,
	}))
	registry.Register(model.AbilityKnowledgeSearch, constant(types.Result{
		"results": []interface{}{
			map[string]interface{}{"title": "Billing FAQ", "relevance": 0.9},
		},
	}))
	registry.Register(model.AbilityEscalationDecision, func(args types.Args) types.Result {
		score := 0
		if value, ok := args["solution_score"]; ok && value != nil {
			score = toolbox.AsInt(value)
		}
		limit := threshold
		if value, ok := args["threshold"]; ok && value != nil {
			limit = toolbox.AsInt(value)
		}
		return types.Result{
			"escalate": score < limit,
			"reason":   "Score threshold",
		}
	})
	registry.Register(model.AbilityUpdateTicket, constant(types.Result{
		"updated": true,
		"status":  "in_progress",
	}))
	registry.Register(model.AbilityCloseTicket, constant(types.Result{
		"closed":     true,
		"resolution": "Resolved",
	}))
	registry.Register(model.AbilityExecuteAPICalls, constant(types.Result{
		"api_calls": []interface{}{"billing_update"},
		"status":    "success",
	}))
	registry.Register(model.AbilityNotify, constant(types.Result{
		"notifications": []interface{}{"email_sent"},
		"status":        "success",
	}))
	return registry
}
