package scheduler

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Task runs a function at a fixed interval on a background goroutine.
type Task struct {
	interval time.Duration
	fn       func()
	clock    clock.Clock

	mu      sync.Mutex
	stop    chan struct{}
	wg      sync.WaitGroup
	running bool
}

// New creates a Task that invokes fn every interval once started.
func New(interval time.Duration, clk clock.Clock, fn func()) *Task {
	return &Task{
		interval: interval,
		fn:       fn,
		clock:    clk,
	}
}

// Start begins periodic execution. Starting a running task is a no-op.
func (t *Task) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return
	}

	t.stop = make(chan struct{})
	t.running = true

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ticker := t.clock.Ticker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				t.fn()
			case <-t.stop:
				return
			}
		}
	}()
}

// Stop halts execution and waits for the worker goroutine to exit.
func (t *Task) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}

	close(t.stop)
	t.wg.Wait()
	t.running = false
}

// IsRunning reports whether the task is currently scheduled.
func (t *Task) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}
