package scheduler

import (
	"context"
	"sync"
	"time"

	"NewsDesk/internal/ports"
)

// IntervalScheduler runs a job repeatedly with a fixed delay between the end
// of one run and the start of the next.
type IntervalScheduler struct {
	interval time.Duration
	clock    ports.Clock

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

var _ ports.Scheduler = (*IntervalScheduler)(nil)

// DefaultInterval is used when the configured delay is not positive.
const DefaultInterval = 10 * time.Second

// NewIntervalScheduler builds a scheduler; a nil clock means wall time.
func NewIntervalScheduler(interval time.Duration, clock ports.Clock) *IntervalScheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if clock == nil {
		clock = ports.ClockFunc(time.Now)
	}
	return &IntervalScheduler{interval: interval, clock: clock}
}

// Start runs job immediately and then after every interval until ctx is
// cancelled or Stop is called. A second Start is a no-op.
func (s *IntervalScheduler) Start(ctx context.Context, job func(ctx context.Context, now time.Time)) error {
	if job == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return nil
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	s.stop, s.done = stop, done

	runCtx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-stop:
			cancel()
		case <-runCtx.Done():
		}
	}()

	go func() {
		defer close(done)
		defer cancel()

		timer := time.NewTimer(0)
		defer timer.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-timer.C:
			}

			if runCtx.Err() != nil {
				return
			}
			job(runCtx, s.clock.Now())
			timer.Reset(s.interval)
		}
	}()

	return nil
}

// Stop cancels the loop and waits for the in-flight run, bounded by ctx.
func (s *IntervalScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return nil
	}
	close(stop)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the loop has exited; nil before Start.
func (s *IntervalScheduler) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}
