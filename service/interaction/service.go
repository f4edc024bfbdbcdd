package interaction

import (
	"context"
	"time"

	"github.com/viant/deskly/service/messaging"
)

// Service defines the customer interaction interface.
type Service interface {
	Post(ctx context.Context, question *Question) error
	ListPending(ctx context.Context) ([]*Question, error)
	Answer(ctx context.Context, id string, answer string, confidence float64) (*Answer, error)
	Await(ctx context.Context, id string, timeout time.Duration) (*Answer, error)
	Queue() messaging.Queue[Event]
}
