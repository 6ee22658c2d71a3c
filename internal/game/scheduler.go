package game

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"
)

type step struct {
	name  string
	delay time.Duration
	fn    func()
}

// Scheduler runs delayed steps one at a time, in the order they were
// scheduled, on the goroutine that calls Run. A step may schedule further
// steps. The delay of a step starts when the previous step has finished.
type Scheduler struct {
	clock quartz.Clock

	mu    sync.Mutex
	queue []step
	// pending counts queued steps plus the one running.
	pending int
	idle    chan struct{} // closed while pending == 0
	wake    chan struct{}
}

// NewScheduler creates a scheduler that measures delays on clock.
func NewScheduler(clock quartz.Clock) *Scheduler {
	idle := make(chan struct{})
	close(idle)
	return &Scheduler{
		clock: clock,
		idle:  idle,
		wake:  make(chan struct{}, 1),
	}
}

// Schedule queues fn to run after delay. It never blocks.
func (s *Scheduler) Schedule(name string, delay time.Duration, fn func()) {
	s.mu.Lock()
	if s.pending == 0 {
		s.idle = make(chan struct{})
	}
	s.pending++
	s.queue = append(s.queue, step{name: name, delay: delay, fn: fn})
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of steps not yet finished.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// WaitIdle blocks until every scheduled step has finished or ctx is done.
func (s *Scheduler) WaitIdle(ctx context.Context) error {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes steps until ctx is cancelled. Steps still queued when ctx
// ends are abandoned.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		st, ok := s.pop()
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-s.wake:
				continue
			}
		}

		if st.delay > 0 {
			t := s.clock.NewTimer(st.delay, "scheduler", st.name)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}

		st.fn()
		s.finish()
	}
}

func (s *Scheduler) pop() (step, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return step{}, false
	}
	st := s.queue[0]
	s.queue = s.queue[1:]
	return st, true
}

func (s *Scheduler) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
	if s.pending == 0 {
		close(s.idle)
	}
}
