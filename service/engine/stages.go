package engine

import (
	"context"
	"sync"

	"github.com/viant/deskly/model"
	"github.com/viant/deskly/model/types"
	"github.com/viant/deskly/runtime/run"
	"github.com/viant/deskly/service/interaction"
	"github.com/viant/deskly/service/invoker"
)

// stagePlan lists the ability calls each stage makes, in call order.  Stages
// absent from the plan touch no provider.
var stagePlan = map[model.Stage][]string{
	model.StageUnderstand: {model.AbilityParseRequest, model.AbilityExtractEntities},
	model.StagePrepare:    {model.AbilityNormalizeFields, model.AbilityEnrichRecords, model.AbilityComputeFlags},
	model.StageAsk:        {model.AbilityClarifyQuestion},
	model.StageWait:       {model.AbilityExtractAnswer},
	model.StageRetrieve:   {model.AbilityKnowledgeSearch},
	model.StageDecide:     {model.AbilitySolutionEvaluation, model.AbilityEscalationDecision},
	model.StageUpdate:     {model.AbilityUpdateTicket, model.AbilityCloseTicket},
	model.StageCreate:     {model.AbilityGenerateResponse},
	model.StageDo:         {model.AbilityExecuteAPICalls, model.AbilityNotify},
}

// intake accepts the validated payload already carried by the case state.
func (s *Service) intake(ctx context.Context, state *model.CaseState) error {
	if state.TicketID == "" {
		return types.NewValidationError("ticket_id", "is required")
	}
	if state.CustomerName == "" {
		return types.NewValidationError("customer_name", "is required")
	}
	if state.Query == "" {
		return types.NewValidationError("query", "is required")
	}
	state.AppendLog(model.StageIntake, "accepting payload from %v", state.CustomerName)
	return nil
}

// understand parses the request and extracts entities.  The two calls run
// concurrently; the state is merged only after both return, so an abandoned
// call never leaks partial results.
func (s *Service) understand(ctx context.Context, state *model.CaseState) error {
	state.AppendLog(model.StageUnderstand, "parsing request and extracting entities")
	var parsed, entities *invoker.Outcome
	var parseErr, entitiesErr error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		parsed, parseErr = s.invoker.Invoke(ctx, model.StageUnderstand, model.AbilityParseRequest, state, nil)
	}()
	go func() {
		defer wg.Done()
		entities, entitiesErr = s.invoker.Invoke(ctx, model.StageUnderstand, model.AbilityExtractEntities, state, nil)
	}()
	wg.Wait()
	if parseErr != nil {
		return parseErr
	}
	if entitiesErr != nil {
		return entitiesErr
	}
	state.ParsedRequest = asParsedRequest(parsed)
	state.Entities = asEntities(entities)
	return nil
}

// prepare normalizes fields, enriches records and computes flags.
func (s *Service) prepare(ctx context.Context, state *model.CaseState) error {
	state.AppendLog(model.StagePrepare, "normalizing, enriching and calculating flags")
	normalized, err := s.invoker.Invoke(ctx, model.StagePrepare, model.AbilityNormalizeFields, state, nil)
	if err != nil {
		return err
	}
	state.Normalized = asNormalized(normalized)

	enriched, err := s.invoker.Invoke(ctx, model.StagePrepare, model.AbilityEnrichRecords, state, nil)
	if err != nil {
		return err
	}
	state.Enriched = asEnriched(enriched)

	flags, err := s.invoker.Invoke(ctx, model.StagePrepare, model.AbilityComputeFlags, state, nil)
	if err != nil {
		return err
	}
	state.Flags = asFlags(flags)
	return nil
}

// ask generates a clarification question and posts it to the interaction
// service when one is attached.
func (s *Service) ask(ctx context.Context, state *model.CaseState) error {
	state.AppendLog(model.StageAsk, "asking clarification question")
	outcome, err := s.invoker.Invoke(ctx, model.StageAsk, model.AbilityClarifyQuestion, state, nil)
	if err != nil {
		return err
	}
	state.ClarificationQuestion = asQuestion(outcome)
	state.ClarificationNeeded = true
	if s.interactions == nil {
		return nil
	}
	question := &interaction.Question{
		ID:       s.interactionID(ctx, state),
		RunID:    runID(ctx),
		TicketID: state.TicketID,
		Question: state.ClarificationQuestion,
	}
	if pErr := s.interactions.Post(ctx, question); pErr != nil {
		// The question stays on the case state; a broken interaction channel
		// must not abort the run.
		state.AppendLog(model.StageAsk, "question post failed: %v", pErr)
	}
	return nil
}

// wait collects the customer answer, preferring one posted through the
// interaction service over the extract answer ability.
func (s *Service) wait(ctx context.Context, state *model.CaseState) error {
	state.AppendLog(model.StageWait, "collecting customer answer")
	if s.interactions != nil && s.config.WaitTimeout > 0 {
		answer, err := s.interactions.Await(ctx, s.interactionID(ctx, state), s.config.WaitTimeout)
		if err == nil && answer != nil {
			state.CustomerResponse = answer.Answer
			state.ClarificationNeeded = false
			state.AppendLog(model.StageWait, "customer replied")
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// No reply arrived in time; fall through to the extract ability.
	}
	outcome, err := s.invoker.Invoke(ctx, model.StageWait, model.AbilityExtractAnswer, state, nil)
	if err != nil {
		return err
	}
	state.CustomerResponse = asAnswer(outcome)
	state.ClarificationNeeded = false
	return nil
}

// retrieve searches the knowledge base.
func (s *Service) retrieve(ctx context.Context, state *model.CaseState) error {
	state.AppendLog(model.StageRetrieve, "searching knowledge base")
	outcome, err := s.invoker.Invoke(ctx, model.StageRetrieve, model.AbilityKnowledgeSearch, state, nil)
	if err != nil {
		return err
	}
	state.KBResults = asKBResults(outcome)
	return nil
}

// decide scores the drafted solution and then takes the escalation decision.
// The second call strictly follows the first because it consumes the fresh
// score; the case escalates when the provider says so or the score falls
// below the threshold.
func (s *Service) decide(ctx context.Context, state *model.CaseState) error {
	state.AppendLog(model.StageDecide, "evaluating solution")
	evaluation, err := s.invoker.Invoke(ctx, model.StageDecide, model.AbilitySolutionEvaluation, state, nil)
	if err != nil {
		return err
	}
	score := asScore(evaluation)

	decision, err := s.invoker.Invoke(ctx, model.StageDecide, model.AbilityEscalationDecision, state, types.Args{
		"solution_score": score,
		"threshold":      s.config.Threshold,
	})
	if err != nil {
		return err
	}
	escalate, rationale := asDecision(decision)
	if score < s.config.Threshold {
		escalate = true
	}
	if err = state.SetDecision(score, escalate, rationale); err != nil {
		return err
	}
	state.AppendLog(model.StageDecide, "score %v, escalate %v", score, escalate)
	return nil
}

// update updates the ticket and, on the automated path, closes it.
func (s *Service) update(ctx context.Context, state *model.CaseState) error {
	state.AppendLog(model.StageUpdate, "updating ticket")
	outcome, err := s.invoker.Invoke(ctx, model.StageUpdate, model.AbilityUpdateTicket, state, nil)
	if err != nil {
		return err
	}
	state.TicketUpdated = asUpdated(outcome)
	if state.EscalationRequired {
		state.AppendLog(model.StageUpdate, "ticket stays open pending human review")
		return nil
	}
	closure, err := s.invoker.Invoke(ctx, model.StageUpdate, model.AbilityCloseTicket, state, nil)
	if err != nil {
		return err
	}
	if closed, resolution := asClosed(closure); closed {
		if err = state.SetTicketClosed(resolution); err != nil {
			return err
		}
		state.AppendLog(model.StageUpdate, "ticket closed")
	}
	return nil
}

// create generates the customer response; the generated text becomes the
// case resolution on both paths.
func (s *Service) create(ctx context.Context, state *model.CaseState) error {
	state.AppendLog(model.StageCreate, "generating customer response")
	outcome, err := s.invoker.Invoke(ctx, model.StageCreate, model.AbilityGenerateResponse, state, nil)
	if err != nil {
		return err
	}
	state.GeneratedResponse = asResponse(outcome)
	if state.GeneratedResponse != "" {
		state.Resolution = state.GeneratedResponse
	}
	return nil
}

// do executes downstream API calls and triggers notifications.
func (s *Service) do(ctx context.Context, state *model.CaseState) error {
	state.AppendLog(model.StageDo, "executing api calls and notifications")
	calls, err := s.invoker.Invoke(ctx, model.StageDo, model.AbilityExecuteAPICalls, state, nil)
	if err != nil {
		return err
	}
	state.APICallsExecuted = asCalls(calls)

	notifications, err := s.invoker.Invoke(ctx, model.StageDo, model.AbilityNotify, state, nil)
	if err != nil {
		return err
	}
	state.NotificationsSent = asNotifications(notifications)
	return nil
}

// complete closes the pipeline; the final payload is synthesized once this
// stage completes.
func (s *Service) complete(ctx context.Context, state *model.CaseState) error {
	state.AppendLog(model.StageComplete, "assembling final payload")
	return nil
}

// interactionID derives the identifier shared by the ask and wait stages for
// one clarification round.
func (s *Service) interactionID(ctx context.Context, state *model.CaseState) string {
	if id := runID(ctx); id != "" {
		return id
	}
	return state.TicketID
}

func runID(ctx context.Context) string {
	if r := run.ContextValue[*run.Run](ctx); r != nil {
		return r.ID
	}
	return ""
}
