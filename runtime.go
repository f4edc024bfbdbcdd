package deskly

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/deskly/extension"
	"github.com/viant/deskly/internal/idgen"
	"github.com/viant/deskly/model"
	"github.com/viant/deskly/router"
	"github.com/viant/deskly/runtime/run"
	"github.com/viant/deskly/service/dao"
	"github.com/viant/deskly/service/engine"
	"github.com/viant/deskly/service/event"
	"github.com/viant/deskly/service/interaction"
	"github.com/viant/deskly/service/messaging"
	"github.com/viant/deskly/service/runner"
)

// Runtime exposes case execution on top of the assembled pipeline
type Runtime struct {
	engine       *engine.Service
	runner       *runner.Service
	runDAO       dao.Service[string, run.Run]
	queue        messaging.Queue[runner.Task]
	events       *event.Service
	interactions interaction.Service
	routes       *router.Table
	providers    *extension.Providers
}

// Start launches the queued run workers
func (r *Runtime) Start(ctx context.Context) error {
	return r.runner.Start(ctx)
}

// Shutdown stops the workers and waits for in-flight runs
func (r *Runtime) Shutdown(ctx context.Context) error {
	r.runner.Shutdown()
	return nil
}

// StartCase validates the payload and queues a new run; the returned wait
// function blocks until the run finishes or the timeout elapses.
func (r *Runtime) StartCase(ctx context.Context, payload *model.Payload) (*run.Run, run.Wait, error) {
	if err := payload.Validate(); err != nil {
		return nil, nil, err
	}
	aRun := run.NewRun(idgen.New(), model.NewCaseState(payload))
	if err := r.runner.Enqueue(ctx, aRun); err != nil {
		return nil, nil, err
	}
	wait := func(ctx context.Context, timeout time.Duration) (*run.Output, error) {
		return r.WaitForCase(ctx, aRun.ID, timeout)
	}
	return aRun, wait, nil
}

// RunCase validates the payload and drives the run synchronously on the
// calling goroutine.
func (r *Runtime) RunCase(ctx context.Context, payload *model.Payload) (*run.Output, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	aRun := run.NewRun(idgen.New(), model.NewCaseState(payload))
	return r.runner.Process(ctx, aRun)
}

// WaitForCase polls the run store until the run reaches a terminal status.
func (r *Runtime) WaitForCase(ctx context.Context, runID string, timeout time.Duration) (*run.Output, error) {
	deadline := time.Now().Add(timeout)
	for {
		aRun, err := r.runDAO.Load(ctx, runID)
		if err != nil {
			return nil, err
		}
		if aRun.IsFinished() {
			return r.outputOf(aRun), nil
		}
		if err := ctx.Err(); err != nil {
			return r.outputOf(aRun), err
		}
		if time.Now().After(deadline) {
			output := r.outputOf(aRun)
			output.Timeout = true
			return output, fmt.Errorf("timeout waiting for run %q", runID)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func (r *Runtime) outputOf(aRun *run.Run) *run.Output {
	output := &run.Output{
		RunID:  aRun.ID,
		Status: aRun.GetStatus(),
		State:  aRun.State,
		Error:  aRun.Error,
	}
	if aRun.State != nil {
		output.Final = aRun.State.Final
	}
	if aRun.FinishedAt != nil {
		output.TimeTaken = aRun.FinishedAt.Sub(aRun.CreatedAt)
	}
	return output
}

// Run returns a stored run
func (r *Runtime) Run(ctx context.Context, id string) (*run.Run, error) {
	return r.runDAO.Load(ctx, id)
}

// Runs lists stored runs, optionally filtered by status
func (r *Runtime) Runs(ctx context.Context, parameter ...*dao.Parameter) ([]*run.Run, error) {
	return r.runDAO.List(ctx, parameter...)
}

// Cancel aborts a queued or running case between stages.  The cancel handle
// lives on the in-process run instance, so only runs owned by this service
// instance can be cancelled.
func (r *Runtime) Cancel(ctx context.Context, id string) error {
	aRun, err := r.runDAO.Load(ctx, id)
	if err != nil {
		return err
	}
	aRun.Cancel()
	return nil
}

// Recover republishes unfinished runs after a restart
func (r *Runtime) Recover(ctx context.Context) (int, error) {
	return r.runner.Recover(ctx)
}

// Interactions returns the customer interaction service
func (r *Runtime) Interactions() interaction.Service {
	return r.interactions
}

// Events returns the event service
func (r *Runtime) Events() *event.Service {
	return r.events
}

// Routes returns the routing table
func (r *Runtime) Routes() *router.Table {
	return r.routes
}

// Providers returns the ability provider registry
func (r *Runtime) Providers() *extension.Providers {
	return r.providers
}
