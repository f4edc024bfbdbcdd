package model

// Status is the terminal disposition of a case
type Status string

const (
	StatusClosed    Status = "closed"
	StatusEscalated Status = "escalated"
)

// DefaultThreshold is the minimum solution score that closes a case without
// escalation; a score equal to the threshold does not escalate.
const DefaultThreshold = 90

// FinalPayload is produced exactly once, at the terminal stage, and is
// immutable afterwards. Field names follow the external output contract.
type FinalPayload struct {
	TicketID        string  `json:"ticket_id" yaml:"ticket_id"`
	CustomerName    string  `json:"customer_name" yaml:"customer_name"`
	Status          Status  `json:"status" yaml:"status"`
	Resolution      string  `json:"resolution" yaml:"resolution"`
	Escalated       bool    `json:"escalated" yaml:"escalated"`
	SolutionScore   int     `json:"solution_score" yaml:"solution_score"`
	CompletedStages []Stage `json:"completed_stages" yaml:"completed_stages"`
}
