package interaction_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/deskly/service/interaction"
	"github.com/viant/deskly/service/interaction/memory"
)

// TestAwait verifies that Await blocks until an answer is recorded and
// returns a wrapped context error on timeout.
func TestAwait(t *testing.T) {
	type testCase struct {
		name        string
		answerDelay time.Duration
		timeout     time.Duration
		expectError bool
	}

	tests := []testCase{{
		name:        "answered before timeout",
		answerDelay: 10 * time.Millisecond,
		timeout:     500 * time.Millisecond,
	}, {
		name:        "timeout waiting for answer",
		answerDelay: 200 * time.Millisecond,
		timeout:     50 * time.Millisecond,
		expectError: true,
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			svc := memory.New(memory.WithPollInterval(5 * time.Millisecond))

			question := &interaction.Question{
				RunID:    "run-1",
				TicketID: "TKT-12345",
				Question: "Please provide account number?",
			}
			assert.Nil(t, svc.Post(ctx, question))
			assert.EqualValues(t, "run-1", question.ID)

			go func() {
				time.Sleep(tc.answerDelay)
				_, _ = svc.Answer(ctx, question.ID, "ACC123456", 0.95)
			}()

			answer, err := svc.Await(ctx, question.ID, tc.timeout)
			if tc.expectError {
				assert.NotNil(t, err)
				return
			}
			assert.Nil(t, err)
			if !assert.NotNil(t, answer) {
				return
			}
			assert.EqualValues(t, "ACC123456", answer.Answer)
			assert.EqualValues(t, 0.95, answer.Confidence)
		})
	}
}

func TestAutoResponder(t *testing.T) {
	ctx := context.Background()
	svc := memory.New(memory.WithPollInterval(5 * time.Millisecond))
	stop := interaction.AutoResponder(ctx, svc, func(question *interaction.Question) (string, float64) {
		return "ACC123456", 0.95
	}, 5*time.Millisecond)
	defer stop()

	assert.Nil(t, svc.Post(ctx, &interaction.Question{RunID: "run-2", Question: "Please provide account number?"}))
	answer, err := svc.Await(ctx, "run-2", time.Second)
	assert.Nil(t, err)
	assert.EqualValues(t, "ACC123456", answer.Answer)

	pending, _ := svc.ListPending(ctx)
	assert.EqualValues(t, 0, len(pending))
}
