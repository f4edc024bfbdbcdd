package run

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/deskly/model"
)

func newTestState() *model.CaseState {
	return model.NewCaseState(&model.Payload{
		CustomerName: "John Smith",
		Email:        "john.smith@email.com",
		Query:        "I was charged twice",
		Priority:     model.PriorityHigh,
		TicketID:     "12345",
	})
}

func TestRun_Lifecycle(t *testing.T) {
	r := NewRun("run-1", newTestState())
	assert.Equal(t, StatusPending, r.GetStatus())
	assert.Equal(t, "12345", r.TicketID)
	assert.False(t, r.IsFinished())

	r.SetStatus(StatusRunning)
	assert.Equal(t, StatusRunning, r.GetStatus())
	assert.Nil(t, r.FinishedAt)

	r.SetStatus(StatusCompleted)
	assert.True(t, r.IsFinished())
	assert.NotNil(t, r.FinishedAt)
}

func TestRun_Cancel(t *testing.T) {
	r := NewRun("run-2", newTestState())
	ctx, cancel := context.WithCancel(context.Background())
	r.SetCancel(cancel)

	r.Cancel()
	assert.Error(t, ctx.Err())

	// Second cancel is a no-op.
	r.Cancel()
}

func TestRun_CopyFrom(t *testing.T) {
	src := NewRun("run-3", newTestState())
	src.Fail(assert.AnError)

	dest := NewRun("run-3", newTestState())
	dest.CopyFrom(src)
	assert.Equal(t, StatusFailed, dest.GetStatus())
	assert.Equal(t, src.Error, dest.Error)
	assert.NotNil(t, dest.FinishedAt)
}

func TestContextValue(t *testing.T) {
	r := NewRun("run-4", newTestState())
	ctx := NewContext(context.Background(), nil, nil).RunContext(r)

	assert.Same(t, r, ContextValue[*Run](ctx))
	assert.Same(t, ctx, ContextValue[*Context](ctx))
}
