package run

import (
	"context"
	"github.com/viant/deskly/model"
	"github.com/viant/deskly/policy"
	"github.com/viant/deskly/tracing"
	"sync"
	"time"
)

// Run status constants
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run represents a single drive of a support case through the stage pipeline.
type Run struct {
	ID         string           `json:"id"`
	TicketID   string           `json:"ticketId"`
	Status     string           `json:"status"`
	State      *model.CaseState `json:"state"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
	FinishedAt *time.Time       `json:"finishedAt,omitempty"`
	Error      string           `json:"error,omitempty"`
	Policy     *policy.Config   `json:"policy,omitempty"`
	Span       *tracing.Span    `json:"-"`

	mu     sync.RWMutex
	cancel context.CancelFunc
}

// NewRun creates a pending run for the supplied case state.
func NewRun(id string, state *model.CaseState) *Run {
	now := time.Now()
	ticketID := ""
	if state != nil {
		ticketID = state.TicketID
	}
	return &Run{
		ID:        id,
		TicketID:  ticketID,
		Status:    StatusPending,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetStatus returns the run status
func (r *Run) GetStatus() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Status
}

// SetStatus updates the run status; terminal statuses also stamp FinishedAt.
func (r *Run) SetStatus(status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = status
	switch status {
	case StatusCompleted, StatusFailed:
		now := time.Now()
		r.FinishedAt = &now
	}
	r.UpdatedAt = time.Now()
}

// Claim atomically moves a pending run to running, reporting whether the
// caller won; a run can only be processed once even when queued twice.
func (r *Run) Claim() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Status != StatusPending {
		return false
	}
	r.Status = StatusRunning
	r.UpdatedAt = time.Now()
	return true
}

// Fail marks the run failed and records the error message.
func (r *Run) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = StatusFailed
	if err != nil {
		r.Error = err.Error()
	}
	now := time.Now()
	r.FinishedAt = &now
	r.UpdatedAt = now
}

// IsFinished reports whether the run reached a terminal status.
func (r *Run) IsFinished() bool {
	status := r.GetStatus()
	return status == StatusCompleted || status == StatusFailed
}

// SetCancel attaches the run-scoped cancel function.
func (r *Run) SetCancel(cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancel = cancel
}

// Cancel aborts the run between stages; it is safe to call more than once.
func (r *Run) Cancel() {
	r.mu.RLock()
	cancel := r.cancel
	r.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
}

// CopyFrom updates exported, mutex-independent fields from src.  It intentionally
// skips sync.Mutex as copying it would corrupt internal state.
func (r *Run) CopyFrom(src any) {
	other, ok := src.(*Run)
	if !ok || other == nil || r == other {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.Status = other.Status
	r.State = other.State
	r.UpdatedAt = other.UpdatedAt
	r.FinishedAt = other.FinishedAt
	r.Error = other.Error
}

// Clone creates a shallow copy safe for reads outside the owning store.  The
// mutex and cancel function are deliberately not carried over.
func (r *Run) Clone() *Run {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &Run{
		ID:         r.ID,
		TicketID:   r.TicketID,
		Status:     r.Status,
		State:      r.State,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		FinishedAt: r.FinishedAt,
		Error:      r.Error,
		Policy:     r.Policy,
		Span:       r.Span,
	}
}

// Wait blocks until a run finishes or the timeout elapses.
type Wait func(ctx context.Context, timeout time.Duration) (*Output, error)

// Output is the read-only result of a finished (or timed-out) run.
type Output struct {
	RunID     string
	Status    string
	Final     *model.FinalPayload
	State     *model.CaseState
	Error     string
	TimeTaken time.Duration
	Timeout   bool
}
