package client

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"userhub-client/internal/logger"
)

// Scheduler runs the work the service does outside the calling request:
// order list refetches and delayed view transitions.
type Scheduler interface {
	Go(fn func())
	After(d time.Duration, fn func())
}

// AsyncScheduler runs tasks on goroutines and delayed tasks on timers.
// Close stops pending timers and waits for running tasks.
type AsyncScheduler struct {
	mu     sync.Mutex
	wg     conc.WaitGroup
	timers map[*time.Timer]struct{}
	closed bool
}

func NewAsyncScheduler() *AsyncScheduler {
	return &AsyncScheduler{timers: map[*time.Timer]struct{}{}}
}

func (s *AsyncScheduler) Go(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.wg.Go(fn)
}

func (s *AsyncScheduler) After(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if _, pending := s.timers[timer]; !pending {
			return
		}
		delete(s.timers, timer)
		if s.closed {
			return
		}
		s.wg.Go(fn)
	})
	s.timers[timer] = struct{}{}
}

// Close drops pending delayed tasks and waits for running ones until ctx is
// done. A task that panicked is logged, not re-raised.
func (s *AsyncScheduler) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	for timer := range s.timers {
		timer.Stop()
	}
	dropped := len(s.timers)
	s.timers = map[*time.Timer]struct{}{}
	s.mu.Unlock()

	if dropped > 0 {
		logger.Debug("Dropped pending transitions",
			zap.Int("count", dropped),
			zap.String("event", "scheduler_closed"),
		)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if recovered := s.wg.WaitAndRecover(); recovered != nil {
			logger.Error("Background task panicked",
				zap.Error(recovered.AsError()),
				zap.String("event", "scheduler_task_panic"),
			)
		}
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ImmediateScheduler runs every task inline on the calling goroutine and
// ignores delays.
type ImmediateScheduler struct{}

func (ImmediateScheduler) Go(fn func()) { fn() }

func (ImmediateScheduler) After(_ time.Duration, fn func()) { fn() }
