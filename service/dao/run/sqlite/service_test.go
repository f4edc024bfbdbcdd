package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/deskly/model"
	"github.com/viant/deskly/runtime/run"
	"github.com/viant/deskly/service/dao"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	srv, err := New(":memory:")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	return srv
}

func newRun(id string) *run.Run {
	return run.NewRun(id, model.NewCaseState(&model.Payload{
		CustomerName: "John Smith",
		Email:        "john.smith@email.com",
		Query:        "I was charged twice",
		Priority:     model.PriorityHigh,
		TicketID:     "TKT-" + id,
	}))
}

func TestService_SaveLoad(t *testing.T) {
	srv := newTestService(t)
	ctx := context.Background()

	err := srv.Save(ctx, nil)
	assert.ErrorIs(t, err, dao.ErrNilEntity)

	r := newRun("r1")
	r.State.AppendLog(model.StageIntake, "Processing new support request")
	assert.NoError(t, srv.Save(ctx, r))

	loaded, err := srv.Load(ctx, "r1")
	assert.NoError(t, err)
	assert.Equal(t, "r1", loaded.ID)
	assert.Equal(t, "TKT-r1", loaded.TicketID)
	assert.Equal(t, run.StatusPending, loaded.Status)
	assert.NotNil(t, loaded.State)
	assert.Len(t, loaded.State.Log, 1)
	assert.Equal(t, "John Smith", loaded.State.CustomerName)

	_, err = srv.Load(ctx, "missing")
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func TestService_Upsert(t *testing.T) {
	srv := newTestService(t)
	ctx := context.Background()

	r := newRun("r1")
	assert.NoError(t, srv.Save(ctx, r))

	r.Fail(assert.AnError)
	assert.NoError(t, srv.Save(ctx, r))

	loaded, err := srv.Load(ctx, "r1")
	assert.NoError(t, err)
	assert.Equal(t, run.StatusFailed, loaded.Status)
	assert.Equal(t, assert.AnError.Error(), loaded.Error)
	assert.NotNil(t, loaded.FinishedAt)
}

func TestService_Delete(t *testing.T) {
	srv := newTestService(t)
	ctx := context.Background()

	assert.NoError(t, srv.Save(ctx, newRun("r1")))
	assert.NoError(t, srv.Delete(ctx, "r1"))
	assert.ErrorIs(t, srv.Delete(ctx, "r1"), dao.ErrNotFound)
	assert.ErrorIs(t, srv.Delete(ctx, ""), dao.ErrInvalidID)
}

func TestService_List(t *testing.T) {
	srv := newTestService(t)
	ctx := context.Background()

	running := newRun("r1")
	running.SetStatus(run.StatusRunning)
	completed := newRun("r2")
	completed.SetStatus(run.StatusCompleted)
	failed := newRun("r3")
	failed.SetStatus(run.StatusFailed)

	for _, r := range []*run.Run{running, completed, failed} {
		assert.NoError(t, srv.Save(ctx, r))
	}

	all, err := srv.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := srv.List(ctx, dao.NewParameter("Status", run.StatusRunning))
	assert.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, "r1", active[0].ID)

	finished, err := srv.List(ctx, dao.NewParameter("Status", run.StatusCompleted, run.StatusFailed))
	assert.NoError(t, err)
	assert.Len(t, finished, 2)
}
