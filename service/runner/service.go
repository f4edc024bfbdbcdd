// Package runner executes case runs.  It owns a worker pool consuming queued
// run tasks, drives each claimed run through the stage engine and keeps the
// run record in the store current; a synchronous path bypasses the queue for
// callers that want the outcome in hand.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/viant/deskly/model"
	"github.com/viant/deskly/policy"
	"github.com/viant/deskly/progress"
	"github.com/viant/deskly/runtime/run"
	"github.com/viant/deskly/service/dao"
	"github.com/viant/deskly/service/engine"
	"github.com/viant/deskly/service/event"
	"github.com/viant/deskly/service/messaging"
)

// Config represents runner configuration.
type Config struct {
	// WorkerCount is the number of workers consuming run tasks.
	WorkerCount int
}

// DefaultConfig returns the default runner configuration.
func DefaultConfig() Config {
	return Config{
		WorkerCount: 5,
	}
}

// Service drives case runs to completion.
type Service struct {
	config Config
	engine *engine.Service
	runDAO dao.Service[string, run.Run]
	queue  messaging.Queue[Task]
	events *event.Service

	workers    []*worker
	workerWg   sync.WaitGroup
	shutdownCh chan struct{}
}

type worker struct {
	id       int
	service  *Service
	ctx      context.Context
	cancelFn context.CancelFunc
}

// Option customises the runner.
type Option func(*Service)

// WithConfig replaces the runner configuration.
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithEvents attaches the event service propagated into every run context.
func WithEvents(events *event.Service) Option {
	return func(s *Service) {
		s.events = events
	}
}

// New creates a runner service.
func New(stageEngine *engine.Service, runDAO dao.Service[string, run.Run], queue messaging.Queue[Task], options ...Option) (*Service, error) {
	s := &Service{
		config:     DefaultConfig(),
		engine:     stageEngine,
		runDAO:     runDAO,
		queue:      queue,
		shutdownCh: make(chan struct{}),
	}
	for _, option := range options {
		option(s)
	}
	if s.engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if s.runDAO == nil {
		return nil, fmt.Errorf("run store is required")
	}
	if s.queue == nil {
		return nil, fmt.Errorf("task queue is required")
	}
	return s, nil
}

// Start launches the worker pool.
func (s *Service) Start(ctx context.Context) error {
	for i := 0; i < s.config.WorkerCount; i++ {
		workerCtx, cancel := context.WithCancel(ctx)
		worker := &worker{
			id:       i,
			service:  s,
			ctx:      workerCtx,
			cancelFn: cancel,
		}
		s.workers = append(s.workers, worker)
		s.workerWg.Add(1)
		go worker.run()
	}
	return nil
}

// Shutdown stops the workers and waits for in-flight runs to settle.
func (s *Service) Shutdown() {
	select {
	case <-s.shutdownCh:
	default:
		close(s.shutdownCh)
	}
	for _, worker := range s.workers {
		worker.cancelFn()
	}
	s.workerWg.Wait()
}

// run consumes tasks until the worker context is cancelled.
func (w *worker) run() {
	defer w.service.workerWg.Done()
	for {
		select {
		case <-w.service.shutdownCh:
			return
		default:
		}
		message, err := w.service.queue.Consume(w.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			// Transient queue error; back off a little.
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if message == nil {
			continue
		}
		if pErr := w.service.processMessage(w.ctx, message); pErr != nil {
			log.Printf("worker %d: failed to process run task: %v", w.id, pErr)
		}
	}
}

// Enqueue persists a pending run and schedules it for asynchronous execution.
func (s *Service) Enqueue(ctx context.Context, aRun *run.Run) error {
	if aRun == nil {
		return fmt.Errorf("run is required")
	}
	if err := s.runDAO.Save(ctx, aRun); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	task := NewTask(aRun.ID)
	if err := s.queue.Publish(ctx, task); err != nil {
		return fmt.Errorf("failed to queue run %v: %w", aRun.ID, err)
	}
	return nil
}

// Recover requeues runs left pending by a previous process, returning how
// many were scheduled.
func (s *Service) Recover(ctx context.Context) (int, error) {
	pending, err := s.runDAO.List(ctx, dao.NewParameter("Status", run.StatusPending))
	if err != nil {
		return 0, err
	}
	requeued := 0
	for _, aRun := range pending {
		if err = s.queue.Publish(ctx, NewTask(aRun.ID)); err != nil {
			return requeued, fmt.Errorf("failed to requeue run %v: %w", aRun.ID, err)
		}
		requeued++
	}
	return requeued, nil
}

// processMessage resolves one task to its run and drives it.
func (s *Service) processMessage(ctx context.Context, message messaging.Message[Task]) error {
	task := message.T()
	aRun, err := s.runDAO.Load(ctx, task.RunID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			// The run is gone; there is nothing to retry.
			return message.Ack()
		}
		return message.Nack(err)
	}
	if _, err = s.Process(ctx, aRun); err != nil {
		// The run record already carries the failure; the task is done.
		log.Printf("run %v failed: %v", aRun.ID, err)
	}
	return message.Ack()
}

// Process drives one run through the whole pipeline and returns its output.
// A run already claimed or finished comes back unchanged.
func (s *Service) Process(ctx context.Context, aRun *run.Run) (*run.Output, error) {
	if aRun == nil {
		return nil, fmt.Errorf("run is required")
	}
	if !aRun.Claim() {
		return s.output(aRun, 0), nil
	}
	started := time.Now()

	runCtx, cancel := context.WithCancel(ctx)
	aRun.SetCancel(cancel)
	defer cancel()

	runCtx = context.WithValue(runCtx, run.RunKey, aRun)
	if s.events != nil {
		runCtx = context.WithValue(runCtx, run.EventKey, s.events)
	}
	if aRun.Policy != nil {
		runCtx = policy.WithPolicy(runCtx, policy.FromConfig(aRun.Policy))
	}
	runCtx, _ = progress.WithNewTracker(runCtx, aRun.ID, aRun.TicketID, model.StageCount(), nil)

	if err := s.runDAO.Save(runCtx, aRun); err != nil {
		aRun.Fail(err)
		return nil, err
	}
	s.publishRun(runCtx, aRun, event.TypeRunStarted, 0)

	_, err := s.engine.Execute(runCtx, aRun.State)
	elapsed := time.Since(started)
	if err != nil {
		aRun.Fail(err)
		if sErr := s.runDAO.Save(ctx, aRun); sErr != nil {
			log.Printf("failed to save failed run %v: %v", aRun.ID, sErr)
		}
		s.publishRun(ctx, aRun, event.TypeRunFailed, elapsed)
		return s.output(aRun, elapsed), err
	}

	aRun.SetStatus(run.StatusCompleted)
	if err = s.runDAO.Save(ctx, aRun); err != nil {
		return nil, err
	}
	s.publishRun(ctx, aRun, event.TypeRunCompleted, elapsed)
	return s.output(aRun, elapsed), nil
}

// output assembles the read-only view of a run.
func (s *Service) output(aRun *run.Run, elapsed time.Duration) *run.Output {
	result := &run.Output{
		RunID:     aRun.ID,
		Status:    aRun.GetStatus(),
		State:     aRun.State,
		Error:     aRun.Error,
		TimeTaken: elapsed,
	}
	if aRun.State != nil {
		result.Final = aRun.State.Final
	}
	return result
}

// publishRun emits a run lifecycle event.
func (s *Service) publishRun(ctx context.Context, aRun *run.Run, eventType string, elapsed time.Duration) {
	if s.events == nil {
		return
	}
	publisher, err := event.PublisherOf[*run.Run](s.events)
	if err != nil {
		return
	}
	eCtx := &event.Context{
		RunID:       aRun.ID,
		TicketID:    aRun.TicketID,
		EventType:   eventType,
		TimeTakenMs: int(elapsed.Milliseconds()),
	}
	if err = publisher.Publish(ctx, event.NewEvent(eCtx, aRun)); err != nil {
		log.Printf("failed to publish run event: %v", err)
	}
}
