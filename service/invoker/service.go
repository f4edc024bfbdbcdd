// Package invoker performs single ability calls on behalf of the stage
// engine: it routes the call to a provider, gates it with the run policy,
// bounds it with a per-call timeout and a single retry, and degrades to the
// registered fallback when the provider cannot deliver.  Ability failures
// never surface to the caller; configuration gaps always do.
package invoker

import (
	"context"
	"fmt"
	"log"
	"reflect"
	"time"

	"github.com/viant/deskly/extension"
	"github.com/viant/deskly/fallback"
	"github.com/viant/deskly/model"
	"github.com/viant/deskly/model/types"
	"github.com/viant/deskly/policy"
	"github.com/viant/deskly/progress"
	"github.com/viant/deskly/router"
	"github.com/viant/deskly/runtime/run"
	"github.com/viant/deskly/service/event"
	"github.com/viant/deskly/tracing"
	"github.com/viant/structology/conv"
)

// Config bounds a single ability call.
type Config struct {
	CallTimeout time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
}

// DefaultConfig allows one retry after a short delay; a call that cannot
// complete twice degrades to its fallback.
func DefaultConfig() Config {
	return Config{
		CallTimeout: 30 * time.Second,
		MaxRetries:  1,
		RetryDelay:  200 * time.Millisecond,
	}
}

// Option is used to customise the invoker instance.
type Option func(*service)

// WithListener overrides the listener invoked after every ability call.
// Passing nil disables the callback entirely.
func WithListener(l Listener) Option {
	return func(s *service) {
		s.listener = l
	}
}

// WithConfig overrides the call bounds.
func WithConfig(config Config) Option {
	return func(s *service) {
		s.config = config
	}
}

// WithFallbacks overrides the fallback registry.
func WithFallbacks(registry *fallback.Registry) Option {
	return func(s *service) {
		s.fallbacks = registry
	}
}

// Service performs ability calls for the stage engine.
type Service interface {
	Invoke(ctx context.Context, stage model.Stage, ability string, state *model.CaseState, extra types.Args) (*Outcome, error)
}

// service is the concrete implementation of Service.
type service struct {
	providers *extension.Providers
	routes    *router.Table
	fallbacks *fallback.Registry
	converter *conv.Converter
	listener  Listener
	config    Config
}

// Invoke performs one ability call.  The returned error is always a
// configuration or cancellation problem; provider failures come back as a
// degraded Outcome instead.
func (s *service) Invoke(ctx context.Context, stage model.Stage, ability string, state *model.CaseState, extra types.Args) (*Outcome, error) {
	route, err := s.routes.Route(stage, ability)
	if err != nil {
		return nil, err
	}

	provider := s.providers.Lookup(route.Provider)
	if provider == nil {
		return nil, types.NewConfigurationError(string(stage), ability, fmt.Sprintf("is routed to unregistered provider %v", route.Provider))
	}
	executable, err := provider.Ability(ability)
	if err != nil {
		return nil, types.NewConfigurationError(string(stage), ability, fmt.Sprintf("is not implemented by provider %v", route.Provider))
	}

	args := s.assembleArgs(route, state, extra)
	outcome := &Outcome{Stage: stage, Ability: ability, Provider: route.Provider, Args: args}

	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("%v.%v", route.Provider, ability), "CLIENT")
	span.WithAttributes(map[string]string{"stage": string(stage)})
	started := time.Now()

	result, callErr := s.call(ctx, route, executable, args, outcome)
	if callErr != nil {
		if ctx.Err() != nil {
			// The run was cancelled; do not complete the call with a fallback.
			tracing.EndSpan(span, ctx.Err())
			return nil, ctx.Err()
		}
		fallbackResult, ok := s.fallbacks.Resolve(ability, args)
		if !ok {
			tracing.EndSpan(span, callErr)
			return nil, types.NewConfigurationError(string(stage), ability, "has no fallback registered")
		}
		result = fallbackResult
		outcome.Degraded = true
		outcome.Reason = callErr.Error()
		state.AppendLog(stage, "%v degraded, fallback applied: %v", ability, callErr)
	}

	outcome.Result = result
	outcome.Elapsed = time.Since(started)
	outcome.View = s.view(ability, result)

	if s.listener != nil {
		s.listener(stage, route, args, outcome)
	}
	s.publish(ctx, outcome)

	delta := progress.Delta{Calls: 1}
	if outcome.Degraded {
		delta.Degraded = 1
	}
	progress.UpdateCtx(ctx, delta)

	tracing.EndSpan(span, callErr)
	return outcome, nil
}

// call gates the ability with the run policy and executes it with a per-call
// timeout and bounded retry.
func (s *service) call(ctx context.Context, route *router.Route, executable types.Executable, args types.Args, outcome *Outcome) (types.Result, error) {
	if reason, denied := s.denied(ctx, route, args); denied {
		return nil, types.NewAbilityFailure(route.Ability, route.Provider, reason)
	}

	var result types.Result
	var err error
	for attempt := 0; attempt <= s.config.MaxRetries; attempt++ {
		if attempt > 0 {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if s.config.RetryDelay > 0 {
				time.Sleep(s.config.RetryDelay)
			}
		}
		outcome.Attempts++
		result, err = s.attempt(ctx, executable, args)
		if err == nil && result == nil {
			err = types.NewAbilityFailure(route.Ability, route.Provider, "returned no result")
		}
		if err == nil {
			return result, nil
		}
	}
	return nil, err
}

func (s *service) attempt(ctx context.Context, executable types.Executable, args types.Args) (types.Result, error) {
	callCtx := ctx
	if s.config.CallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.config.CallTimeout)
		defer cancel()
	}
	return executable(callCtx, args)
}

// denied consults the optional run policy; a denied call degrades to fallback
// rather than failing the stage.
func (s *service) denied(ctx context.Context, route *router.Route, args types.Args) (string, bool) {
	pol := policy.FromContext(ctx)
	if pol == nil {
		return "", false
	}
	if !pol.IsAllowed(route.Provider, route.Ability) {
		return "blocked by policy", true
	}
	switch pol.Mode {
	case policy.ModeDeny:
		return "remote calls disabled by policy", true
	case policy.ModeAsk:
		if pol.Ask != nil && !pol.Ask(ctx, route.Provider+"."+route.Ability, args, pol) {
			return "call rejected", true
		}
	}
	return "", false
}

// assembleArgs builds the call arguments: the case state snapshot, overlaid
// with the route's declared bindings, overlaid with per-call extras.
func (s *service) assembleArgs(route *router.Route, state *model.CaseState, extra types.Args) types.Args {
	values := state.Values()
	args := types.Args(values)
	for k, v := range route.Args.Resolve(values) {
		args[k] = v
	}
	for k, v := range extra {
		args[k] = v
	}
	return args
}

// view decodes the raw result into the ability's registered view type, nil
// when no view is registered or the result does not fit.
func (s *service) view(ability string, result types.Result) interface{} {
	viewType := s.providers.Types().ViewFor(ability)
	if viewType == nil || result == nil {
		return nil
	}
	view := reflect.New(viewType).Interface()
	if err := s.converter.Convert(map[string]interface{}(result), view); err != nil {
		return nil
	}
	return view
}

// publish emits the call outcome when an event service is attached to the
// context.
func (s *service) publish(ctx context.Context, outcome *Outcome) {
	value := ctx.Value(run.EventKey)
	if value == nil {
		return
	}
	eventService, ok := value.(*event.Service)
	if !ok || eventService == nil {
		return
	}
	publisher, err := event.PublisherOf[*Outcome](eventService)
	if err != nil {
		return
	}
	eventType := event.TypeAbilityInvoked
	if outcome.Degraded {
		eventType = event.TypeCallDegraded
	}
	eCtx := &event.Context{
		Stage:       string(outcome.Stage),
		Ability:     outcome.Ability,
		Provider:    outcome.Provider,
		EventType:   eventType,
		TimeTakenMs: int(outcome.Elapsed.Milliseconds()),
	}
	if r := run.ContextValue[*run.Run](ctx); r != nil {
		eCtx.RunID = r.ID
		eCtx.TicketID = r.TicketID
	}
	if err = publisher.Publish(ctx, event.NewEvent(eCtx, outcome)); err != nil {
		log.Printf("failed to publish ability outcome event: %v", err)
	}
}

// NewService creates a new invoker instance.
func NewService(providers *extension.Providers, routes *router.Table, opts ...Option) Service {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	options.AccessUnexported = true

	s := &service{
		providers: providers,
		routes:    routes,
		fallbacks: fallback.DefaultRegistry(model.DefaultThreshold),
		converter: conv.NewConverter(options),
		listener:  nil,
		config:    DefaultConfig(),
	}

	for _, o := range opts {
		o(s)
	}

	return s
}
