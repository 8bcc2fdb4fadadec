package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalSchedulerRunsUntilStopped(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	s := NewIntervalScheduler(5*time.Millisecond, nil)

	require.NoError(t, s.Start(context.Background(), func(context.Context, time.Time) {
		runs.Add(1)
	}))

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))

	stopped := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}

func TestIntervalSchedulerFinishesInFlightRun(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	var finished atomic.Bool
	s := NewIntervalScheduler(time.Hour, nil)

	require.NoError(t, s.Start(context.Background(), func(ctx context.Context, _ time.Time) {
		close(started)
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		finished.Store(true)
	}))

	<-started
	require.NoError(t, s.Stop(context.Background()))
	assert.True(t, finished.Load())
}

func TestIntervalSchedulerExitsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	s := NewIntervalScheduler(time.Millisecond, nil)
	require.NoError(t, s.Start(ctx, func(context.Context, time.Time) {}))

	done := s.Done()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not exit after cancel")
	}
}

func TestIntervalSchedulerPassesClockTime(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, time.April, 1, 8, 0, 0, 0, time.UTC)
	got := make(chan time.Time, 1)
	s := NewIntervalScheduler(time.Hour, clockAt(fixed))

	require.NoError(t, s.Start(context.Background(), func(_ context.Context, now time.Time) {
		select {
		case got <- now:
		default:
		}
	}))
	defer s.Stop(context.Background())

	select {
	case now := <-got:
		assert.Equal(t, fixed, now)
	case <-time.After(time.Second):
		t.Fatal("job never ran")
	}
}

type clockAt time.Time

func (c clockAt) Now() time.Time { return time.Time(c) }
