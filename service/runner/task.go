package runner

// Task is one queued request to drive a case run; it travels by run
// identifier only so every queue vendor can carry it.
type Task struct {
	RunID string `json:"runID"`
}

// NewTask creates a task for the given run.
func NewTask(runID string) *Task {
	return &Task{RunID: runID}
}
