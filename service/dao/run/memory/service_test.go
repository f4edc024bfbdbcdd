package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/deskly/model"
	"github.com/viant/deskly/runtime/run"
	"github.com/viant/deskly/service/dao"
)

func newRun(id string) *run.Run {
	return run.NewRun(id, model.NewCaseState(&model.Payload{
		CustomerName: "John Smith",
		Email:        "john.smith@email.com",
		Query:        "I was charged twice",
		Priority:     model.PriorityHigh,
		TicketID:     "TKT-" + id,
	}))
}

func TestService_CRUD(t *testing.T) {
	srv := New()
	ctx := context.Background()

	err := srv.Save(ctx, nil)
	assert.ErrorIs(t, err, dao.ErrNilEntity)

	err = srv.Save(ctx, &run.Run{})
	assert.ErrorIs(t, err, dao.ErrInvalidID)

	r := newRun("r1")
	assert.NoError(t, srv.Save(ctx, r))

	loaded, err := srv.Load(ctx, "r1")
	assert.NoError(t, err)
	assert.Equal(t, "TKT-r1", loaded.TicketID)

	_, err = srv.Load(ctx, "missing")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	// Saving again updates the stored instance in place.
	update := r.Clone()
	update.SetStatus(run.StatusRunning)
	assert.NoError(t, srv.Save(ctx, update))

	loaded, err = srv.Load(ctx, "r1")
	assert.NoError(t, err)
	assert.Equal(t, run.StatusRunning, loaded.GetStatus())

	assert.NoError(t, srv.Delete(ctx, "r1"))
	assert.ErrorIs(t, srv.Delete(ctx, "r1"), dao.ErrNotFound)
}

func TestService_List(t *testing.T) {
	srv := New()
	ctx := context.Background()

	running := newRun("r1")
	running.SetStatus(run.StatusRunning)
	completed := newRun("r2")
	completed.SetStatus(run.StatusCompleted)

	assert.NoError(t, srv.Save(ctx, running))
	assert.NoError(t, srv.Save(ctx, completed))

	all, err := srv.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := srv.List(ctx, dao.NewParameter("Status", run.StatusRunning))
	assert.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, "r1", active[0].ID)

	finished, err := srv.List(ctx, dao.NewParameter("Status", run.StatusCompleted, run.StatusFailed))
	assert.NoError(t, err)
	assert.Len(t, finished, 1)
	assert.Equal(t, "r2", finished[0].ID)
}
