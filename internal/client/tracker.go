package client

import (
	"context"
	"log"
	"sync"
	"time"
)

// Tracker counts elapsed seconds for at most one task at a time. Each tick
// schedules a best-effort persistence of the new total; persistence failures
// are logged and never retried. Stop and Close cancel the ticking goroutine
// deterministically, so no timer outlives its owner.
type Tracker struct {
	list     *TaskList
	interval time.Duration

	mu     sync.Mutex
	taskID uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTracker creates a Tracker bound to the view-model.
func NewTracker(list *TaskList) *Tracker {
	return &Tracker{
		list:     list,
		interval: time.Second,
	}
}

// Start begins tracking the given task, stopping any previously tracked one
// first. The counter resumes from the task's persisted total.
func (t *Tracker) Start(taskID uint64) {
	t.Stop()

	task, ok := t.list.find(taskID)
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	t.mu.Lock()
	t.taskID = taskID
	t.cancel = cancel
	t.done = done
	t.mu.Unlock()

	go t.run(ctx, taskID, task.TimeSpent, done)
}

// Stop halts tracking and waits for the ticking goroutine to exit.
func (t *Tracker) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	done := t.done
	t.cancel = nil
	t.done = nil
	t.taskID = 0
	t.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Close releases the tracker; it is safe to call more than once.
func (t *Tracker) Close() {
	t.Stop()
}

// Tracking returns the currently tracked task ID, zero when idle.
func (t *Tracker) Tracking() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.taskID
}

func (t *Tracker) run(ctx context.Context, taskID uint64, elapsed int64, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			elapsed++
			t.list.setTimeSpent(taskID, elapsed)
			t.persist(ctx, taskID, elapsed)
		}
	}
}

// persist pushes the new total to the server. Best effort only.
func (t *Tracker) persist(ctx context.Context, taskID uint64, elapsed int64) {
	seconds := elapsed
	if _, err := t.list.client.UpdateTask(ctx, taskID, TaskPatch{TimeSpent: &seconds}); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Printf("time tracking update for task %d failed: %v", taskID, err)
	}
}
