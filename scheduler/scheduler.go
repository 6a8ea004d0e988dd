package scheduler

import (
	"context"
	"sync"
	"time"
)

// Task is run on every tick; ctx is cancelled when the scheduler stops
type Task func(ctx context.Context)

// Scheduler runs a task in a background goroutine at a fixed interval
type Scheduler struct {
	interval  time.Duration
	task      Task
	immediate bool

	mu     sync.Mutex
	cancel context.CancelFunc
	// done is non-nil while a loop is running and closed when it exits
	done chan struct{}
}

type Option func(*Scheduler)

// WithImmediateRun runs the task once as soon as the scheduler starts
func WithImmediateRun() Option {
	return func(s *Scheduler) {
		s.immediate = true
	}
}

// New creates a new Scheduler instance
func New(interval time.Duration, task Task, opts ...Option) *Scheduler {
	s := &Scheduler{
		interval: interval,
		task:     task,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start launches the background loop. The loop ends on Stop or when parent
// is done; either way the scheduler can be started again afterwards.
// Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start(parent context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		return
	}

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go s.run(ctx, cancel, done)
}

func (s *Scheduler) run(ctx context.Context, cancel context.CancelFunc, done chan struct{}) {
	defer func() {
		cancel()

		s.mu.Lock()
		if s.done == done {
			s.done = nil
			s.cancel = nil
		}
		s.mu.Unlock()

		close(done)
	}()

	if s.immediate {
		s.task(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.task(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Stop cancels the loop and waits for an in-progress task to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if done == nil {
		return
	}

	cancel()
	<-done
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.done != nil
}
