package tasks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fastinfo/newsboy/app/sources"
)

type failingTask struct {
	Task
	executions int
}

func (t *failingTask) Execute(ctx context.Context) error {
	t.executions++
	return fmt.Errorf("boom")
}

func newTestScheduler(t *testing.T) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		configCache: sources.NewConfigCache(t.TempDir()),
		interval:    time.Hour,
		workerCount: 1,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 10),
		nextFetch:   make(map[string]time.Time),
	}
}

func TestSchedulerStopWaitsForRetries(t *testing.T) {
	s := newTestScheduler(t)
	s.Start()

	task := &failingTask{Task: NewTask(TaskTypeFetchSource, "test")}
	if err := s.EnqueueTask(task); err != nil {
		t.Fatalf("Unexpected enqueue error: %v", err)
	}

	// Let the worker pick up the task, fail it, and schedule a retry.
	time.Sleep(100 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	// Stop must wait out the pending retry goroutine and return without
	// a send on the closed queue.
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}

	if task.executions == 0 {
		t.Error("Expected the task to have been executed")
	}
}

func TestSchedulerEnqueueAfterStop(t *testing.T) {
	s := newTestScheduler(t)
	s.Start()
	s.Stop()

	task := &failingTask{Task: NewTask(TaskTypeFetchSource, "test")}
	if err := s.EnqueueTask(task); err == nil {
		t.Error("Expected error when enqueueing after Stop")
	}
}

func TestSchedulerSourceDueTracking(t *testing.T) {
	s := newTestScheduler(t)
	defer s.cancel()

	config := &sources.Config{
		Name: "example",
		URL:  "https://example.com/feed.xml",
		Settings: sources.ConfigSettings{
			Enabled:         true,
			RefreshInterval: 3600,
		},
	}

	if !s.sourceDue(config) {
		t.Error("Expected an untracked source to be due")
	}

	s.markFetched(config)
	if s.sourceDue(config) {
		t.Error("Expected a freshly fetched source to not be due")
	}

	s.nextFetchMu.Lock()
	s.nextFetch[config.Name] = time.Now().UTC().Add(-time.Second)
	s.nextFetchMu.Unlock()
	if !s.sourceDue(config) {
		t.Error("Expected a source past its deadline to be due")
	}
}
