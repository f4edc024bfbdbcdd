package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type caseTask struct {
	RunID    string
	TicketID string
	Attempt  int
}

func TestQueue(t *testing.T) {
	config := DefaultConfig()
	config.RetryDelay = 10 * time.Millisecond // Speed up for testing
	queue := NewQueue[caseTask](config)

	ctx := context.Background()
	task := caseTask{
		RunID:    "run-1",
		TicketID: "TKT-12345",
		Attempt:  1,
	}

	// Publish a task
	err := queue.Publish(ctx, &task)
	assert.NoError(t, err)
	assert.Equal(t, 1, queue.Size())

	// Consume the task
	message, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, message)
	assert.Equal(t, 0, queue.Size())

	// Verify the task content
	got := message.T()
	assert.Equal(t, task.RunID, got.RunID)
	assert.Equal(t, task.TicketID, got.TicketID)
	assert.Equal(t, task.Attempt, got.Attempt)

	// Test acknowledgment
	err = message.Ack()
	assert.NoError(t, err)

	// Double ack should error
	err = message.Ack()
	assert.Error(t, err)
}

func TestQueueRetries(t *testing.T) {
	config := DefaultConfig()
	config.MaxRetries = 2
	config.RetryDelay = 10 * time.Millisecond
	queue := NewQueue[caseTask](config)

	ctx := context.Background()
	task := caseTask{RunID: "run-retry", TicketID: "TKT-1"}

	err := queue.Publish(ctx, &task)
	assert.NoError(t, err)

	// First attempt
	message, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, message)

	err = message.Nack(nil)
	assert.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	// Second attempt
	message, err = queue.Consume(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, message)

	err = message.Nack(nil)
	assert.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	// Third attempt (final)
	message, err = queue.Consume(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, message)

	// Exceeds max retries, lands in DLQ
	err = message.Nack(nil)
	assert.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, 1, queue.DLQSize())
}

func TestQueueConcurrency(t *testing.T) {
	config := DefaultConfig()
	config.RetryDelay = 10 * time.Millisecond
	queue := NewQueue[caseTask](config)

	ctx := context.Background()
	concurrency := 10
	tasksPerProducer := 10

	var wg sync.WaitGroup
	wg.Add(concurrency * 2) // producers + consumers

	var consumedCount int
	var consumedMu sync.Mutex

	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()

			for j := 0; j < tasksPerProducer; j++ {
				message, err := queue.Consume(ctx)
				if err != nil {
					t.Errorf("Error consuming: %v", err)
					continue
				}

				if message == nil {
					time.Sleep(10 * time.Millisecond)
					j--
					continue
				}

				err = message.Ack()
				assert.NoError(t, err)

				consumedMu.Lock()
				consumedCount++
				consumedMu.Unlock()
			}
		}()
	}

	for i := 0; i < concurrency; i++ {
		go func(producerID int) {
			defer wg.Done()

			for j := 0; j < tasksPerProducer; j++ {
				task := caseTask{
					RunID:    fmt.Sprintf("run-%d-%d", producerID, j),
					TicketID: fmt.Sprintf("TKT-%d%d", producerID, j),
					Attempt:  j,
				}

				err := queue.Publish(ctx, &task)
				if err != nil {
					t.Errorf("Error publishing: %v", err)
				}

				time.Sleep(1 * time.Millisecond)
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Test timed out")
	}

	assert.Equal(t, concurrency*tasksPerProducer, consumedCount)
	assert.Equal(t, 0, queue.Size())
}

func TestQueueContextCancellation(t *testing.T) {
	queue := NewQueue[caseTask](DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	task := caseTask{RunID: "run-ctx"}
	err := queue.Publish(ctx, &task)
	assert.Error(t, err)

	emptyCtx := context.Background()

	ctxWithTimeout, cancelTimeout := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancelTimeout()

	// Consume should return with an error when context is done
	_, err = queue.Consume(ctxWithTimeout)
	assert.Error(t, err)

	// Queue is still usable after context cancellation
	err = queue.Publish(emptyCtx, &task)
	assert.NoError(t, err)

	message, err := queue.Consume(emptyCtx)
	assert.NoError(t, err)
	assert.NotNil(t, message)
}
