// Package engine drives a support case through the fixed eleven stage
// pipeline.  Each stage is a function over the shared case state; the engine
// starts stages strictly in pipeline order, checks for run cancellation on
// every stage boundary, and delegates all remote work to the invoker so that
// ability failures degrade instead of halting the run.
package engine

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/viant/deskly/extension"
	"github.com/viant/deskly/model"
	"github.com/viant/deskly/model/types"
	"github.com/viant/deskly/progress"
	"github.com/viant/deskly/router"
	"github.com/viant/deskly/runtime/run"
	"github.com/viant/deskly/service/event"
	"github.com/viant/deskly/service/interaction"
	"github.com/viant/deskly/service/invoker"
	"github.com/viant/deskly/tracing"
)

// Config holds the engine tunables.
type Config struct {
	// Threshold is the minimum solution score that keeps a case on the
	// automated path; scores below it escalate to a human agent.
	Threshold int

	// WaitTimeout bounds how long the wait stage holds for a customer answer
	// posted through the interaction service.  Zero skips the hold and lets
	// the extract answer ability supply the reply straight away.
	WaitTimeout time.Duration

	// Verbose prints a unified state diff after every completed stage.
	Verbose bool
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Threshold: model.DefaultThreshold,
	}
}

// Option customises the engine instance.
type Option func(*Service)

// WithConfig replaces the whole engine configuration.
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithThreshold overrides the escalation threshold.
func WithThreshold(threshold int) Option {
	return func(s *Service) {
		s.config.Threshold = threshold
	}
}

// WithWaitTimeout bounds the wait stage hold for a customer answer.
func WithWaitTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.config.WaitTimeout = timeout
	}
}

// WithVerbose toggles stage-over-stage diff printing.
func WithVerbose(verbose bool) Option {
	return func(s *Service) {
		s.config.Verbose = verbose
	}
}

// WithInteractions attaches the customer interaction service used by the ask
// and wait stages.
func WithInteractions(interactions interaction.Service) Option {
	return func(s *Service) {
		s.interactions = interactions
	}
}

// WithOutput redirects verbose diff output.
func WithOutput(output io.Writer) Option {
	return func(s *Service) {
		s.output = output
	}
}

// stageFunc mutates the case state for exactly one stage.
type stageFunc func(ctx context.Context, state *model.CaseState) error

// Service executes the stage pipeline.
type Service struct {
	config       Config
	invoker      invoker.Service
	routes       *router.Table
	providers    *extension.Providers
	interactions interaction.Service
	output       io.Writer
	stages       map[model.Stage]stageFunc
}

// New creates a stage engine.
func New(caller invoker.Service, routes *router.Table, providers *extension.Providers, options ...Option) (*Service, error) {
	s := &Service{
		config: DefaultConfig(),
		output: os.Stdout,
	}
	for _, option := range options {
		option(s)
	}
	s.invoker = caller
	s.routes = routes
	s.providers = providers
	if s.invoker == nil {
		return nil, fmt.Errorf("invoker is required")
	}
	if s.routes == nil {
		return nil, fmt.Errorf("routing table is required")
	}
	if s.providers == nil {
		return nil, fmt.Errorf("providers are required")
	}
	s.stages = map[model.Stage]stageFunc{
		model.StageIntake:     s.intake,
		model.StageUnderstand: s.understand,
		model.StagePrepare:    s.prepare,
		model.StageAsk:        s.ask,
		model.StageWait:       s.wait,
		model.StageRetrieve:   s.retrieve,
		model.StageDecide:     s.decide,
		model.StageUpdate:     s.update,
		model.StageCreate:     s.create,
		model.StageDo:         s.do,
		model.StageComplete:   s.complete,
	}
	return s, nil
}

// Preflight verifies that every planned ability call resolves to a routed,
// registered provider implementation.  It runs before the first stage so a
// misconfigured pipeline fails without mutating any case state.
func (s *Service) Preflight() error {
	for _, stage := range model.Stages() {
		for _, ability := range stagePlan[stage] {
			route, err := s.routes.Route(stage, ability)
			if err != nil {
				return err
			}
			provider := s.providers.Lookup(route.Provider)
			if provider == nil {
				return types.NewConfigurationError(string(stage), ability, fmt.Sprintf("is routed to unregistered provider %v", route.Provider))
			}
			if _, err = provider.Ability(ability); err != nil {
				return types.NewConfigurationError(string(stage), ability, fmt.Sprintf("is not implemented by provider %v", route.Provider))
			}
		}
	}
	return nil
}

// Execute drives the case state through all eleven stages and returns the
// final payload.  The returned error is always fatal: a configuration gap, a
// validation failure, an invariant violation or run cancellation.
func (s *Service) Execute(ctx context.Context, state *model.CaseState) (final *model.FinalPayload, err error) {
	if state == nil {
		return nil, fmt.Errorf("case state is required")
	}
	ctx, span := tracing.StartSpan(ctx, "engine.Execute", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"ticket": state.TicketID})

	if err = s.Preflight(); err != nil {
		return nil, err
	}
	for _, stage := range model.Stages() {
		if err = s.runStage(ctx, stage, state); err != nil {
			return nil, err
		}
	}
	if final, err = state.Finalize(); err != nil {
		return nil, err
	}
	return final, nil
}

// runStage starts, executes and completes a single stage.
func (s *Service) runStage(ctx context.Context, stage model.Stage, state *model.CaseState) (err error) {
	// A cancelled run stops cleanly on the stage boundary; the in-flight
	// state keeps every stage completed so far and nothing half-applied.
	if err = ctx.Err(); err != nil {
		return err
	}
	handler, ok := s.stages[stage]
	if !ok {
		return types.NewEngineFault(string(state.LastCompleted()), fmt.Sprintf("stage %v has no handler", stage))
	}

	before := ""
	if s.config.Verbose {
		before = state.Render()
	}
	if err = state.StartStage(stage); err != nil {
		return err
	}
	s.publishStage(ctx, state, stage, event.TypeStageStarted, 0)

	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("stage.%v", stage), "INTERNAL")
	started := time.Now()
	if err = handler(ctx, state); err != nil {
		tracing.EndSpan(span, err)
		return err
	}
	if err = state.CompleteStage(stage); err != nil {
		tracing.EndSpan(span, err)
		return err
	}
	tracing.EndSpan(span, nil)

	progress.UpdateCtx(ctx, progress.Delta{StagesCompleted: 1})
	s.publishStage(ctx, state, stage, event.TypeStageCompleted, time.Since(started))

	if s.config.Verbose {
		if diff, dErr := model.SnapshotDiff(stage, before, state.Render()); dErr == nil && diff != "" {
			fmt.Fprintln(s.output, diff)
		}
	}
	return nil
}

// publishStage emits a stage transition event when an event service rides the
// context; observers consume off a queue so the engine never blocks here.
func (s *Service) publishStage(ctx context.Context, state *model.CaseState, stage model.Stage, eventType string, elapsed time.Duration) {
	value := ctx.Value(run.EventKey)
	if value == nil {
		return
	}
	eventService, ok := value.(*event.Service)
	if !ok || eventService == nil {
		return
	}
	publisher, err := event.PublisherOf[*model.CaseState](eventService)
	if err != nil {
		return
	}
	eCtx := &event.Context{
		TicketID:    state.TicketID,
		Stage:       string(stage),
		EventType:   eventType,
		TimeTakenMs: int(elapsed.Milliseconds()),
	}
	if r := run.ContextValue[*run.Run](ctx); r != nil {
		eCtx.RunID = r.ID
	}
	if err = publisher.Publish(ctx, event.NewEvent(eCtx, state)); err != nil {
		log.Printf("failed to publish stage event: %v", err)
	}
}
