package event

import "time"

// Context describes where in a case run an event originated.
type Context struct {
	RunID       string `json:"runID"`
	TicketID    string `json:"ticketID"`
	Stage       string `json:"stage"`
	Ability     string `json:"ability,omitempty"`
	Provider    string `json:"provider,omitempty"`
	EventType   string `json:"eventType"`
	TimeTakenMs int    `json:"timeTakenMs"`
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: time.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
