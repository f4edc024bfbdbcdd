package interaction

import (
	"context"
	"time"
)

// ResponderFunc produces the customer answer for a pending question.
type ResponderFunc func(question *Question) (answer string, confidence float64)

// AutoResponder starts a goroutine that polls ListPending and answers every
// question with fn. It returns stop(); call it (or cancel ctx) to exit.
func AutoResponder(ctx context.Context,
	svc Service,
	fn ResponderFunc,
	interval time.Duration) (stop func()) {

	if interval <= 0 {
		interval = 20 * time.Millisecond
	}
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				pending, _ := svc.ListPending(ctx)
				for _, question := range pending {
					answer, confidence := fn(question)
					_, _ = svc.Answer(ctx, question.ID, answer, confidence)
				}
			}
		}
	}()
	return func() { close(done) }
}

// AutoAnswer answers every pending question with a fixed reply
func AutoAnswer(ctx context.Context,
	svc Service,
	answer string,
	interval time.Duration) func() {
	return AutoResponder(ctx, svc,
		func(*Question) (string, float64) { return answer, 1 }, interval)
}
