// Package local hosts the in-process ability provider: query understanding,
// field normalization, flag computation, solution scoring and response
// drafting all run inside the engine process.
package local

import (
	"context"
	"reflect"
	"strings"

	"github.com/viant/deskly/extension"
	"github.com/viant/deskly/model"
	"github.com/viant/deskly/model/types"
	"github.com/viant/toolbox"
)

const name = model.ProviderInternal

// Service implements the internal provider of the call boundary
type Service struct {
	solutionScore int
	confidence    string
}

// Option customizes the local provider
type Option func(*Service)

// WithSolutionScore overrides the score solution evaluation reports
func WithSolutionScore(score int) Option {
	return func(s *Service) {
		s.solutionScore = score
	}
}

// WithConfidence overrides the confidence label solution evaluation reports
func WithConfidence(confidence string) Option {
	return func(s *Service) {
		s.confidence = confidence
	}
}

// New creates the local provider
func New(options ...Option) *Service {
	ret := &Service{
		solutionScore: 85,
		confidence:    "high",
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
			Name:        model.AbilityParseRequest,
			Description: "Classifies the customer query into an intent and urgency.",
			Output:      reflect.TypeOf(&model.ParsedRequest{}),
		},
		{
			Name:        model.AbilityNormalizeFields,
			Description: "Canonicalizes the priority and ticket identifier fields.",
			Output:      reflect.TypeOf(&model.NormalizedData{}),
		},
		{
			Name:        model.AbilityComputeFlags,
			Description: "Computes the SLA risk and priority score indicators.",
			Output:      reflect.TypeOf(&model.Flags{}),
		},
		{
			Name:        model.AbilitySolutionEvaluation,
			Description: "Scores the drafted solution and reports confidence.",
			Output:      reflect.TypeOf(&model.SolutionEvaluation{}),
		},
		{
			Name:        model.AbilityGenerateResponse,
			Description: "Drafts the customer response for the resolved case.",
			Output:      reflect.TypeOf(&model.ResponseDraft{}),
		},
	}
}

// Ability returns the named executable
func (s *Service) Ability(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case model.AbilityParseRequest:
		return s.parseRequest, nil
	case model.AbilityNormalizeFields:
		return s.normalizeFields, nil
	case model.AbilityComputeFlags:
		return s.computeFlags, nil
	case model.AbilitySolutionEvaluation:
		return s.solutionEvaluation, nil
	case model.AbilityGenerateResponse:
		return s.generateResponse, nil
	default:
		return nil, types.NewAbilityNotFoundError(name)
	}
}

// InitTypes registers the typed views of the provider ability results
func (s *Service) InitTypes(registry *extension.Types) {
	registry.RegisterView(model.AbilityParseRequest, &model.ParsedRequest{})
	registry.RegisterView(model.AbilityNormalizeFields, &model.NormalizedData{})
	registry.RegisterView(model.AbilityComputeFlags, &model.Flags{})
	registry.RegisterView(model.AbilitySolutionEvaluation, &model.SolutionEvaluation{})
	registry.RegisterView(model.AbilityGenerateResponse, &model.ResponseDraft{})
}

func (s *Service) parseRequest(ctx context.Context, args types.Args) (types.Result, error) {
	return types.Result{
		"intent":  "billing_inquiry",
		"urgency": "medium",
	}, nil
}

func (s *Service) normalizeFields(ctx context.Context, args types.Args) (types.Result, error) {
	return types.Result{
		"priority":  "high",
		"ticket_id": "TKT-12345",
	}, nil
}

func (s *Service) computeFlags(ctx context.Context, args types.Args) (types.Result, error) {
	return types.Result{
		"sla_risk":       "low",
		"priority_score": 65,
	}, nil
}

func (s *Service) solutionEvaluation(ctx context.Context, args types.Args) (types.Result, error) {
	return types.Result{
		"score":      s.solutionScore,
		"confidence": s.confidence,
	}, nil
}

func (s *Service) generateResponse(ctx context.Context, args types.Args) (types.Result, error) {
	customer := "Customer"
	if value, ok := args["customer_name"]; ok && value != nil {
		customer = toolbox.AsString(value)
	}
	return types.Result{
		"response": "Dear " + customer + ", inquiry resolved.",
	}, nil
}
