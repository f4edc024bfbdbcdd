package fs

import (
	"context"
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	"os"
	"path"
	"testing"
	"time"
)

type caseTask struct {
	RunID    string `json:"runId"`
	TicketID string `json:"ticketId"`
	Attempt  int    `json:"attempt"`
}

func TestQueue(t *testing.T) {
	tempDir, err := os.MkdirTemp("/tmp", "queue-test")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	fs := afs.New()
	ctx := context.Background()

	config := Config{
		BasePath:   tempDir,
		MaxRetries: 2,
		RetryDelay: 10 * time.Millisecond,
	}

	queue, err := NewQueue[caseTask](fs, config)
	assert.NoError(t, err)
	assert.NotNil(t, queue)

	dirs := []string{
		queue.pendingDir,
		queue.processingDir,
		queue.completedDir,
		queue.failedDir,
		queue.dlqDir,
	}

	for _, dir := range dirs {
		exists, err := fs.Exists(ctx, dir)
		assert.NoError(t, err)
		assert.True(t, exists, fmt.Sprintf("Directory %s should exist", dir))
	}

	testCases := []caseTask{
		{RunID: "run-1", TicketID: "TKT-1", Attempt: 1},
		{RunID: "run-2", TicketID: "TKT-2", Attempt: 1},
		{RunID: "run-3", TicketID: "TKT-3", Attempt: 1},
	}

	for _, task := range testCases {
		err := queue.Publish(ctx, &task)
		assert.NoError(t, err)
	}

	objects, err := fs.List(ctx, queue.pendingDir)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(objects)-1, "Should have 3 files in pending directory")

	for i := 0; i < len(testCases); i++ {
		message, err := queue.Consume(ctx)
		assert.NoError(t, err)
		assert.NotNil(t, message)

		task := message.T()
		assert.NotNil(t, task)
		assert.Contains(t, []string{"run-1", "run-2", "run-3"}, task.RunID)

		err = message.Ack()
		assert.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		completedObjects, err := fs.List(ctx, queue.completedDir)
		assert.NoError(t, err)
		assert.Equal(t, i+1, len(completedObjects)-1, "Should have completed objects")
	}

	// Failure and retry path
	task := caseTask{RunID: "run-4", TicketID: "TKT-4", Attempt: 1}
	err = queue.Publish(ctx, &task)
	assert.NoError(t, err)

	message, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, message)

	err = message.Nack(nil)
	assert.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	failedObjects, err := fs.List(ctx, queue.failedDir)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(failedObjects)-1, "Should have one file in failed directory")

	// Failed message gets retried before any new work
	message, err = queue.Consume(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, message)

	err = message.Nack(nil)
	assert.NoError(t, err)

	message, err = queue.Consume(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, message)

	// Retry count now exceeds max (2)
	err = message.Nack(nil)
	assert.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	dlqObjects, err := fs.List(ctx, queue.dlqDir)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(dlqObjects)-1, "Should have one file in DLQ directory")

	message, err = queue.Consume(ctx)
	assert.NoError(t, err)
	assert.Nil(t, message, "Should have no more messages to consume")
}

func TestQueueInitialization(t *testing.T) {
	fs := afs.New()
	_, err := NewQueue[caseTask](fs, Config{})
	assert.Error(t, err, "Should error with empty BasePath")

	tempDir := path.Join(os.TempDir(), fmt.Sprintf("queue-init-test-%d", time.Now().UnixNano()))
	config := Config{
		BasePath:   tempDir,
		MaxRetries: 2,
	}

	queue, err := NewQueue[caseTask](fs, config)
	assert.NoError(t, err)
	assert.NotNil(t, queue)

	os.RemoveAll(tempDir)
}
