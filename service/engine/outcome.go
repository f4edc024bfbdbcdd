package engine

import (
	"github.com/viant/deskly/model"
	"github.com/viant/deskly/model/types"
	"github.com/viant/deskly/service/invoker"
)

// Outcome decoding prefers the typed view when the provider registered one
// and falls back to the raw result mapping otherwise; remote providers only
// advertise ability names, so the raw path has to carry the same semantics.

func asParsedRequest(outcome *invoker.Outcome) *model.ParsedRequest {
	if view, ok := outcome.View.(*model.ParsedRequest); ok && view != nil {
		return view
	}
	intent, _ := outcome.Result.String("intent")
	urgency, _ := outcome.Result.String("urgency")
	return &model.ParsedRequest{Intent: intent, Urgency: urgency}
}

func asEntities(outcome *invoker.Outcome) map[string]string {
	entities := map[string]string{}
	if view, ok := outcome.View.(*model.Entities); ok && view != nil {
		if view.AccountID != "" {
			entities["account_id"] = view.AccountID
		}
		if view.Product != "" {
			entities["product"] = view.Product
		}
		return entities
	}
	if account, ok := outcome.Result.String("account_id"); ok {
		entities["account_id"] = account
	}
	if product, ok := outcome.Result.String("product"); ok {
		entities["product"] = product
	}
	return entities
}

func asNormalized(outcome *invoker.Outcome) *model.NormalizedData {
	if view, ok := outcome.View.(*model.NormalizedData); ok && view != nil {
		return view
	}
	priority, _ := outcome.Result.String("priority")
	ticketID, _ := outcome.Result.String("ticket_id")
	return &model.NormalizedData{Priority: priority, TicketID: ticketID}
}

func asEnriched(outcome *invoker.Outcome) *model.EnrichedData {
	if view, ok := outcome.View.(*model.EnrichedData); ok && view != nil {
		return view
	}
	tier, _ := outcome.Result.String("customer_tier")
	previous, _ := outcome.Result.Int("previous_tickets")
	deadline, _ := outcome.Result.String("sla_deadline")
	return &model.EnrichedData{CustomerTier: tier, PreviousTickets: previous, SLADeadline: deadline}
}

func asFlags(outcome *invoker.Outcome) *model.Flags {
	if view, ok := outcome.View.(*model.Flags); ok && view != nil {
		return view
	}
	risk, _ := outcome.Result.String("sla_risk")
	score, _ := outcome.Result.Int("priority_score")
	return &model.Flags{SLARisk: risk, PriorityScore: score}
}

func asQuestion(outcome *invoker.Outcome) string {
	if view, ok := outcome.View.(*model.Clarification); ok && view != nil {
		return view.Question
	}
	question, _ := outcome.Result.String("question")
	return question
}

func asAnswer(outcome *invoker.Outcome) string {
	if view, ok := outcome.View.(*model.Answer); ok && view != nil {
		return view.Answer
	}
	answer, _ := outcome.Result.String("answer")
	return answer
}

func asKBResults(outcome *invoker.Outcome) []model.KBResult {
	if view, ok := outcome.View.(*model.KBResults); ok && view != nil {
		return view.Results
	}
	raw, ok := outcome.Result["results"]
	if !ok {
		return nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	var results []model.KBResult
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		title, _ := types.Result(entry).String("title")
		relevance, _ := types.Result(entry).Float("relevance")
		results = append(results, model.KBResult{Title: title, Relevance: relevance})
	}
	return results
}

func asScore(outcome *invoker.Outcome) int {
	if view, ok := outcome.View.(*model.SolutionEvaluation); ok && view != nil {
		return view.Score
	}
	score, _ := outcome.Result.Int("score")
	return score
}

func asDecision(outcome *invoker.Outcome) (escalate bool, rationale string) {
	if view, ok := outcome.View.(*model.EscalationDecision); ok && view != nil {
		return view.Escalate, view.Reason
	}
	escalate, _ = outcome.Result.Bool("escalate")
	rationale, _ = outcome.Result.String("reason")
	return escalate, rationale
}

func asUpdated(outcome *invoker.Outcome) bool {
	if view, ok := outcome.View.(*model.TicketUpdate); ok && view != nil {
		return view.Updated
	}
	updated, _ := outcome.Result.Bool("updated")
	return updated
}

func asClosed(outcome *invoker.Outcome) (closed bool, resolution string) {
	if view, ok := outcome.View.(*model.TicketClose); ok && view != nil {
		return view.Closed, view.Resolution
	}
	closed, _ = outcome.Result.Bool("closed")
	resolution, _ = outcome.Result.String("resolution")
	return closed, resolution
}

func asResponse(outcome *invoker.Outcome) string {
	if view, ok := outcome.View.(*model.ResponseDraft); ok && view != nil {
		return view.Response
	}
	response, _ := outcome.Result.String("response")
	return response
}

func asCalls(outcome *invoker.Outcome) []string {
	if view, ok := outcome.View.(*model.APICalls); ok && view != nil {
		return view.Calls
	}
	return outcome.Result.Strings("api_calls")
}

func asNotifications(outcome *invoker.Outcome) []string {
	if view, ok := outcome.View.(*model.Notifications); ok && view != nil {
		return view.Sent
	}
	return outcome.Result.Strings("notifications")
}
