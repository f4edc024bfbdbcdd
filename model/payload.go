package model

import (
	"net/mail"
	"strings"

	"github.com/viant/deskly/model/types"
)

// Priority levels accepted on an input payload
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Payload is the validated input that opens a case run
type Payload struct {
	CustomerName string `json:"customerName" yaml:"customerName"`
	Email        string `json:"email" yaml:"email"`
	Query        string `json:"query" yaml:"query"`
	Priority     string `json:"priority" yaml:"priority"`
	TicketID     string `json:"ticketId" yaml:"ticketId"`
}

// Validate checks the payload before any case state is created; it returns
// a ValidationError describing the first offending field.
func (p *Payload) Validate() error {
	if p == nil {
		return types.NewValidationError("payload", "is nil")
	}
	if strings.TrimSpace(p.CustomerName) == "" {
		return types.NewValidationError("customerName", "is required")
	}
	if strings.TrimSpace(p.Email) == "" {
		return types.NewValidationError("email", "is required")
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return types.NewValidationError("email", "is not a valid address")
	}
	if strings.TrimSpace(p.Query) == "" {
		return types.NewValidationError("query", "is required")
	}
	switch strings.ToLower(strings.TrimSpace(p.Priority)) {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return types.NewValidationError("priority", "must be one of low, medium, high")
	}
	if strings.TrimSpace(p.TicketID) == "" {
		return types.NewValidationError("ticketId", "is required")
	}
	return nil
}

// NormalizedPriority returns the priority lower-cased and trimmed
func (p *Payload) NormalizedPriority() string {
	return strings.ToLower(strings.TrimSpace(p.Priority))
}
