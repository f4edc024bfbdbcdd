package model

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/viant/deskly/internal/clock"
	"github.com/viant/deskly/model/types"
)

// LogEntry is a single timestamped record of the case execution log
type LogEntry struct {
	At      time.Time `json:"at" yaml:"at"`
	Stage   Stage     `json:"stage" yaml:"stage"`
	Message string    `json:"message" yaml:"message"`
}

func (e *LogEntry) String() string {
	return fmt.Sprintf("%v [%v] %v", e.At.Format(time.RFC3339), e.Stage, e.Message)
}

// CaseState is the single mutable record threaded through every stage of one
// run. The engine owns it exclusively for the run's duration; it is never
// shared across concurrent runs, so access is single-writer by contract.
// AppendLog is the one exception: the understand stage issues its two ability
// calls concurrently and either call may log a degradation.
type CaseState struct {
	// Identity, immutable after INTAKE
	CustomerName string `json:"customerName" yaml:"customerName"`
	Email        string `json:"email" yaml:"email"`
	Query        string `json:"query" yaml:"query"`
	Priority     string `json:"priority" yaml:"priority"`
	TicketID     string `json:"ticketId" yaml:"ticketId"`

	// Progress
	CurrentStage    Stage      `json:"currentStage,omitempty" yaml:"currentStage,omitempty"`
	CompletedStages []Stage    `json:"completedStages,omitempty" yaml:"completedStages,omitempty"`
	Log             []LogEntry `json:"log,omitempty" yaml:"log,omitempty"`
	logMux          sync.Mutex

	// Derived by stage
	ParsedRequest *ParsedRequest    `json:"parsedRequest,omitempty" yaml:"parsedRequest,omitempty"`
	Entities      map[string]string `json:"entities,omitempty" yaml:"entities,omitempty"`
	Normalized    *NormalizedData   `json:"normalized,omitempty" yaml:"normalized,omitempty"`
	Enriched      *EnrichedData     `json:"enriched,omitempty" yaml:"enriched,omitempty"`
	Flags         *Flags            `json:"flags,omitempty" yaml:"flags,omitempty"`

	// Human interaction
	ClarificationQuestion string `json:"clarificationQuestion,omitempty" yaml:"clarificationQuestion,omitempty"`
	ClarificationNeeded   bool   `json:"clarificationNeeded,omitempty" yaml:"clarificationNeeded,omitempty"`
	CustomerResponse      string `json:"customerResponse,omitempty" yaml:"customerResponse,omitempty"`

	// Retrieval
	KBResults []KBResult `json:"kbResults,omitempty" yaml:"kbResults,omitempty"`

	// Decision
	SolutionScore      int    `json:"solutionScore,omitempty" yaml:"solutionScore,omitempty"`
	EscalationRequired bool   `json:"escalationRequired,omitempty" yaml:"escalationRequired,omitempty"`
	DecisionRationale  string `json:"decisionRationale,omitempty" yaml:"decisionRationale,omitempty"`
	decided            bool

	// Action outcomes
	TicketUpdated     bool     `json:"ticketUpdated,omitempty" yaml:"ticketUpdated,omitempty"`
	TicketClosed      bool     `json:"ticketClosed,omitempty" yaml:"ticketClosed,omitempty"`
	Resolution        string   `json:"resolution,omitempty" yaml:"resolution,omitempty"`
	GeneratedResponse string   `json:"generatedResponse,omitempty" yaml:"generatedResponse,omitempty"`
	APICallsExecuted  []string `json:"apiCallsExecuted,omitempty" yaml:"apiCallsExecuted,omitempty"`
	NotificationsSent []string `json:"notificationsSent,omitempty" yaml:"notificationsSent,omitempty"`

	// Output, populated exactly once at the terminal stage
	Final *FinalPayload `json:"final,omitempty" yaml:"final,omitempty"`
}

// NewCaseState builds the initial case state from a validated payload
func NewCaseState(payload *Payload) *CaseState {
	return &CaseState{
		CustomerName: payload.CustomerName,
		Email:        payload.Email,
		Query:        payload.Query,
		Priority:     payload.NormalizedPriority(),
		TicketID:     payload.TicketID,
	}
}

// StartStage marks the stage as current; stages have to start in pipeline
// order, each exactly once.
func (s *CaseState) StartStage(stage Stage) error {
	if !stage.IsValid() {
		return types.NewEngineFault(string(s.lastCompleted()), fmt.Sprintf("unknown stage %v", stage))
	}
	if stage.Index() != len(s.CompletedStages) {
		return types.NewEngineFault(string(s.lastCompleted()), fmt.Sprintf("stage %v started out of order", stage))
	}
	s.CurrentStage = stage
	return nil
}

// CompleteStage appends the current stage to the completed sequence
func (s *CaseState) CompleteStage(stage Stage) error {
	if s.CurrentStage != stage {
		return types.NewEngineFault(string(s.lastCompleted()), fmt.Sprintf("stage %v completed while %v is current", stage, s.CurrentStage))
	}
	for _, completed := range s.CompletedStages {
		if completed == stage {
			return types.NewEngineFault(string(s.lastCompleted()), fmt.Sprintf("stage %v completed twice", stage))
		}
	}
	s.CompletedStages = append(s.CompletedStages, stage)
	return nil
}

// AppendLog appends one timestamped entry; the log only ever grows and is
// safe for concurrent appends.
func (s *CaseState) AppendLog(stage Stage, format string, args ...interface{}) {
	s.logMux.Lock()
	defer s.logMux.Unlock()
	s.Log = append(s.Log, LogEntry{
		At:      clock.Now(),
		Stage:   stage,
		Message: fmt.Sprintf(format, args...),
	})
}

// SetDecision records the decision stage outcome; it may be applied at most
// once per run and is never reset.
func (s *CaseState) SetDecision(score int, escalate bool, rationale string) error {
	if s.decided {
		return types.NewEngineFault(string(s.lastCompleted()), "decision already recorded")
	}
	s.decided = true
	s.SolutionScore = score
	s.EscalationRequired = escalate
	s.DecisionRationale = rationale
	return nil
}

// Decided reports whether the decision stage outcome has been recorded
func (s *CaseState) Decided() bool {
	return s.decided
}

// SetTicketClosed records ticket closure; a ticket may close only when no
// escalation is required.
func (s *CaseState) SetTicketClosed(resolution string) error {
	if s.EscalationRequired {
		return types.NewEngineFault(string(s.lastCompleted()), "close requested on an escalated case")
	}
	s.TicketClosed = true
	if resolution != "" {
		s.Resolution = resolution
	}
	return nil
}

// Finalize populates the final payload exactly once
func (s *CaseState) Finalize() (*FinalPayload, error) {
	if s.Final != nil {
		return nil, types.NewEngineFault(string(s.lastCompleted()), "final payload already populated")
	}
	status := StatusEscalated
	if s.TicketClosed {
		status = StatusClosed
	}
	completed := make([]Stage, len(s.CompletedStages))
	copy(completed, s.CompletedStages)
	s.Final = &FinalPayload{
		TicketID:        s.TicketID,
		CustomerName:    s.CustomerName,
		Status:          status,
		Resolution:      s.Resolution,
		Escalated:       s.EscalationRequired,
		SolutionScore:   s.SolutionScore,
		CompletedStages: completed,
	}
	return s.Final, nil
}

func (s *CaseState) lastCompleted() Stage {
	if len(s.CompletedStages) == 0 {
		return ""
	}
	return s.CompletedStages[len(s.CompletedStages)-1]
}

// LastCompleted returns the most recently completed stage name, empty before
// INTAKE finishes.
func (s *CaseState) LastCompleted() Stage {
	return s.lastCompleted()
}

// Values exposes the argument source mapping used to assemble ability call
// payloads; keys follow the external snake_case contract.
func (s *CaseState) Values() map[string]interface{} {
	values := map[string]interface{}{
		"customer_name": s.CustomerName,
		"email":         s.Email,
		"query":         s.Query,
		"priority":      s.Priority,
		"ticket_id":     s.TicketID,
	}
	if s.decided || s.SolutionScore > 0 {
		values["solution_score"] = s.SolutionScore
	}
	if s.ParsedRequest != nil {
		values["intent"] = s.ParsedRequest.Intent
		values["urgency"] = s.ParsedRequest.Urgency
	}
	if s.CustomerResponse != "" {
		values["customer_response"] = s.CustomerResponse
	}
	if account, ok := s.Entities["account_id"]; ok {
		values["account_id"] = account
	}
	return values
}

// Render returns a line-oriented textual snapshot, used for verbose
// stage-over-stage diffs.
func (s *CaseState) Render() string {
	var b strings.Builder
	write := func(key string, value interface{}) {
		fmt.Fprintf(&b, "%v: %v\n", key, value)
	}
	write("ticket", s.TicketID)
	write("customer", s.CustomerName)
	write("priority", s.Priority)
	write("currentStage", s.CurrentStage)
	write("completed", s.CompletedStages)
	if s.ParsedRequest != nil {
		write("intent", s.ParsedRequest.Intent)
		write("urgency", s.ParsedRequest.Urgency)
	}
	if len(s.Entities) > 0 {
		keys := make([]string, 0, len(s.Entities))
		for k := range s.Entities {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			write("entity."+k, s.Entities[k])
		}
	}
	if s.Normalized != nil {
		write("normalized.priority", s.Normalized.Priority)
		write("normalized.ticket", s.Normalized.TicketID)
	}
	if s.Enriched != nil {
		write("enriched.tier", s.Enriched.CustomerTier)
		write("enriched.previousTickets", s.Enriched.PreviousTickets)
	}
	if s.Flags != nil {
		write("flags.slaRisk", s.Flags.SLARisk)
		write("flags.priorityScore", s.Flags.PriorityScore)
	}
	if s.ClarificationQuestion != "" {
		write("clarification.question", s.ClarificationQuestion)
		write("clarification.needed", s.ClarificationNeeded)
	}
	if s.CustomerResponse != "" {
		write("customerResponse", s.CustomerResponse)
	}
	for i, result := range s.KBResults {
		write(fmt.Sprintf("kb.%d", i), fmt.Sprintf("%v (%.2f)", result.Title, result.Relevance))
	}
	if s.decided {
		write("solutionScore", s.SolutionScore)
		write("escalationRequired", s.EscalationRequired)
		write("rationale", s.DecisionRationale)
	}
	write("ticketUpdated", s.TicketUpdated)
	write("ticketClosed", s.TicketClosed)
	if s.GeneratedResponse != "" {
		write("response", s.GeneratedResponse)
	}
	if len(s.APICallsExecuted) > 0 {
		write("apiCalls", s.APICallsExecuted)
	}
	if len(s.NotificationsSent) > 0 {
		write("notifications", s.NotificationsSent)
	}
	if s.Final != nil {
		write("final.status", s.Final.Status)
	}
	return b.String()
}
