// Package desk hosts the helpdesk-side ability provider: record enrichment,
// customer interaction, knowledge retrieval, escalation decisions and ticket
// actions, all reached through the call boundary.
package desk

import (
	"context"
	"reflect"
	"strings"

	"github.com/viant/deskly/extension"
	"github.com/viant/deskly/model"
	"github.com/viant/deskly/model/types"
	"github.com/viant/toolbox"
)

const name = model.ProviderExternal

// Service implements the external provider of the call boundary
type Service struct {
	threshold int
}

// Option customizes the desk provider
type Option func(*Service)

// WithThreshold overrides the default escalation threshold applied when a
// call carries no explicit threshold argument.
func WithThreshold(threshold int) Option {
	return func(s *Service) {
		s.threshold = threshold
	}
}

// New creates the desk provider
func New(options ...Option) *Service {
	ret := &Service{
		threshold: model.DefaultThreshold,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Name returns the provider identifier
func (s *Service) Name() string {
	return name
}

// Abilities returns the provider ability signatures
func (s *Service) Abilities() types.Signatures {
	return []types.Signature{
		{
			Name:        model.AbilityExtractEntities,
			Description: "Extracts account and product identifiers from the query.",
			Output:      reflect.TypeOf(&model.Entities{}),
		},
		{
			Name:        model.AbilityEnrichRecords,
			Description: "Joins customer tier and history from systems of record.",
			Output:      reflect.TypeOf(&model.EnrichedData{}),
		},
		{
			Name:        model.AbilityClarifyQuestion,
			Description: "Produces the clarification question for the customer.",
			Output:      reflect.TypeOf(&model.Clarification{}),
		},
		{
			Name:        model.AbilityExtractAnswer,
			Description: "Extracts the answer from the customer reply.",
			Output:      reflect.TypeOf(&model.Answer{}),
		},
		{
			Name:        model.AbilityKnowledgeSearch,
			Description: "Searches the knowledge base for relevant articles.",
			Output:      reflect.TypeOf(&model.KBResults{}),
		},
		{
			Name:        model.AbilityEscalationDecision,
			Description: "Compares the solution score with the escalation threshold.",
			Output:      reflect.TypeOf(&model.EscalationDecision{}),
		},
		{
			Name:        model.AbilityUpdateTicket,
			Description: "Updates the ticket record in the helpdesk system.",
			Output:      reflect.TypeOf(&model.TicketUpdate{}),
		},
		{
			Name:        model.AbilityCloseTicket,
			Description: "Closes the ticket with a resolution note.",
			Output:      reflect.TypeOf(&model.TicketClose{}),
		},
		{
			Name:        model.AbilityExecuteAPICalls,
			Description: "Executes the downstream API calls for the case.",
			Output:      reflect.TypeOf(&model.APICalls{}),
		},
		{
			Name:        model.AbilityNotify,
			Description: "Sends the customer and team notifications.",
			Output:      reflect.TypeOf(&model.Notifications{}),
		},
	}
}

// Ability returns the named executable
func (s *Service) Ability(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case model.AbilityExtractEntities:
		return s.extractEntities, nil
	case model.AbilityEnrichRecords:
		return s.enrichRecords, nil
	case model.AbilityClarifyQuestion:
		return s.clarifyQuestion, nil
	case model.AbilityExtractAnswer:
		return s.extractAnswer, nil
	case model.AbilityKnowledgeSearch:
		return s.knowledgeSearch, nil
	case model.AbilityEscalationDecision:
		return s.escalationDecision, nil
	case model.AbilityUpdateTicket:
		return s.updateTicket, nil
	case model.AbilityCloseTicket:
		return s.closeTicket, nil
	case model.AbilityExecuteAPICalls:
		return s.executeAPICalls, nil
	case model.AbilityNotify:
		return s.notify, nil
	default:
		return nil, types.NewAbilityNotFoundError(name)
	}
}

// InitTypes registers the typed views of the provider ability results
func (s *Service) InitTypes(registry *extension.Types) {
	registry.RegisterView(model.AbilityExtractEntities, &model.Entities{})
	registry.RegisterView(model.AbilityEnrichRecords, &model.EnrichedData{})
	registry.RegisterView(model.AbilityClarifyQuestion, &model.Clarification{})
	registry.RegisterView(model.AbilityExtractAnswer, &model.Answer{})
	registry.RegisterView(model.AbilityKnowledgeSearch, &model.KBResults{})
	registry.RegisterView(model.AbilityEscalationDecision, &model.EscalationDecision{})
	registry.RegisterView(model.AbilityUpdateTicket, &model.TicketUpdate{})
	registry.RegisterView(model.AbilityCloseTicket, &model.TicketClose{})
	registry.RegisterView(model.AbilityExecuteAPICalls, &model.APICalls{})
	registry.RegisterView(model.AbilityNotify, &model.Notifications{})
}

func (s *Service) extractEntities(ctx context.Context, args types.Args) (types.Result, error) {
	return types.Result{
		"account_id": "ACC123456",
		"product":    "Premium Plan",
	}, nil
}

func (s *Service) enrichRecords(ctx context.Context, args types.Args) (types.Result, error) {
	return types.Result{
		"customer_tier":    "gold",
		"previous_tickets": 2,
	}, nil
}

func (s *Service) clarifyQuestion(ctx context.Context, args types.Args) (types.Result, error) {
	return types.Result{
		"question": "Please provide account number?",
	}, nil
}

func (s *Service) extractAnswer(ctx context.Context, args types.Args) (types.Result, error) {
	return types.Result{
		"answer":     "ACC123456",
		"confidence": 0.95,
	}, nil
}

func (s *Service) knowledgeSearch(ctx context.Context, args types.Args) (types.Result, error) {
	return types.Result{
		"results": []interface{}{
			map[string]interface{}{"title": "Billing FAQ", "relevance": 0.9},
		},
	}, nil
}

func (s *Service) escalationDecision(ctx context.Context, args types.Args) (types.Result, error) {
	score := 0
	if value, ok := args["solution_score"]; ok && value != nil {
		score = toolbox.AsInt(value)
	}
	limit := s.threshold
	if value, ok := args["threshold"]; ok && value != nil {
		limit = toolbox.AsInt(value)
	}
	return types.Result{
		"escalate": score < limit,
		"reason":   "Score threshold",
	}, nil
}

func (s *Service) updateTicket(ctx context.Context, args types.Args) (types.Result, error) {
	return types.Result{
		"updated": true,
		"status":  "in_progress",
	}, nil
}

func (s *Service) closeTicket(ctx context.Context, args types.Args) (types.Result, error) {
	return types.Result{
		"closed":     true,
		"resolution": "Resolved",
	}, nil
}

func (s *Service) executeAPICalls(ctx context.Context, args types.Args) (types.Result, error) {
	return types.Result{
		"api_calls": []interface{}{"billing_update"},
		"status":    "success",
	}, nil
}

func (s *Service) notify(ctx context.Context, args types.Args) (types.Result, error) {
	return types.Result{
		"notifications": []interface{}{"email_sent"},
		"status":        "success",
	}, nil
}
