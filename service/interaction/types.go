package interaction

import (
	"time"
)

// Event envelope published on the interaction queue.
type Event struct {
	Topic   string            `json:"topic"`
	Data    interface{}       `json:"data"` // *Question | *Answer
	Headers map[string]string `json:"headers,omitempty"`
}

// Standard event topics
const (
	TopicQuestionPosted = "question.posted"
	TopicAnswerPosted   = "answer.posted"
)

// Question is a clarification posted to the customer while a run pauses
// between the ask and wait stages.
type Question struct {
	ID        string                 `json:"id"`       // defaults to RunID when empty
	RunID     string                 `json:"runId"`    // owning run
	TicketID  string                 `json:"ticketId,omitempty"`
	Question  string                 `json:"question"`
	CreatedAt time.Time              `json:"createdAt"`
	ExpiresAt *time.Time             `json:"expiresAt,omitempty"` // optional deadline
	Meta      map[string]interface{} `json:"meta,omitempty"`      // free-form: channel, locale etc.
}

// Answer is the customer reply resolving a posted question
type Answer struct {
	ID         string    `json:"id"` // same as question.ID
	Answer     string    `json:"answer"`
	Confidence float64   `json:"confidence,omitempty"`
	AnsweredAt time.Time `json:"answeredAt"`
}
