package model

// Typed views of ability results; the invoker decodes raw result mappings
// onto these when a route registers a view type.

// ParsedRequest holds the classified intent of the customer query
type ParsedRequest struct {
	Intent  string `json:"intent,omitempty" yaml:"intent,omitempty"`
	Urgency string `json:"urgency,omitempty" yaml:"urgency,omitempty"`
}

// Entities holds identifiers extracted from the customer query
type Entities struct {
	AccountID string `json:"account_id,omitempty" yaml:"account_id,omitempty"`
	Product   string `json:"product,omitempty" yaml:"product,omitempty"`
}

// NormalizedData holds canonical forms of the input fields
type NormalizedData struct {
	Priority string `json:"priority,omitempty" yaml:"priority,omitempty"`
	TicketID string `json:"ticket_id,omitempty" yaml:"ticket_id,omitempty"`
}

// EnrichedData holds record attributes joined from systems of record
type EnrichedData struct {
	CustomerTier    string `json:"customer_tier,omitempty" yaml:"customer_tier,omitempty"`
	PreviousTickets int    `json:"previous_tickets,omitempty" yaml:"previous_tickets,omitempty"`
	SLADeadline     string `json:"sla_deadline,omitempty" yaml:"sla_deadline,omitempty"`
}

// Flags holds computed risk and priority indicators
type Flags struct {
	SLARisk       string `json:"sla_risk,omitempty" yaml:"sla_risk,omitempty"`
	PriorityScore int    `json:"priority_score,omitempty" yaml:"priority_score,omitempty"`
}

// Clarification is the question produced for the customer
type Clarification struct {
	Question string `json:"question,omitempty" yaml:"question,omitempty"`
}

// Answer is the customer reply extracted for a clarification question
type Answer struct {
	Answer     string  `json:"answer,omitempty" yaml:"answer,omitempty"`
	Confidence float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// KBResult is a single knowledge base hit
type KBResult struct {
	Title     string  `json:"title,omitempty" yaml:"title,omitempty"`
	Relevance float64 `json:"relevance,omitempty" yaml:"relevance,omitempty"`
}

// KBResults is an ordered knowledge base result set
type KBResults struct {
	Results []KBResult `json:"results,omitempty" yaml:"results,omitempty"`
}

// SolutionEvaluation is the scored confidence in the drafted solution
type SolutionEvaluation struct {
	Score      int    `json:"score" yaml:"score"`
	Confidence string `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// EscalationDecision carries the branch outcome of the decision stage
type EscalationDecision struct {
	Escalate bool   `json:"escalate" yaml:"escalate"`
	Reason   string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// TicketUpdate is the outcome of the update-ticket action
type TicketUpdate struct {
	Updated bool   `json:"updated" yaml:"updated"`
	Status  string `json:"status,omitempty" yaml:"status,omitempty"`
}

// TicketClose is the outcome of the close-ticket action
type TicketClose struct {
	Closed     bool   `json:"closed" yaml:"closed"`
	Resolution string `json:"resolution,omitempty" yaml:"resolution,omitempty"`
}

// ResponseDraft is the generated customer response
type ResponseDraft struct {
	Response string `json:"response,omitempty" yaml:"response,omitempty"`
}

// APICalls lists downstream calls executed on behalf of the case
type APICalls struct {
	Calls  []string `json:"api_calls,omitempty" yaml:"api_calls,omitempty"`
	Status string   `json:"status,omitempty" yaml:"status,omitempty"`
}

// Notifications lists notifications sent on behalf of the case
type Notifications struct {
	Sent   []string `json:"notifications,omitempty" yaml:"notifications,omitempty"`
	Status string   `json:"status,omitempty" yaml:"status,omitempty"`
}
