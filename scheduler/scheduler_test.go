package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunsPeriodically(t *testing.T) {
	var counter int32

	s := New(50*time.Millisecond, func(context.Context) {
		atomic.AddInt32(&counter, 1)
	})

	s.Start(context.Background())
	assert.True(t, s.IsRunning())

	time.Sleep(180 * time.Millisecond)

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.GreaterOrEqual(t, atomic.LoadInt32(&counter), int32(3))

	finalCount := atomic.LoadInt32(&counter)
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, finalCount, atomic.LoadInt32(&counter))
}

func TestScheduler_ImmediateRun(t *testing.T) {
	ran := make(chan struct{}, 1)

	s := New(time.Hour, func(context.Context) {
		select {
		case ran <- struct{}{}:
		default:
		}
	}, WithImmediateRun())

	s.Start(context.Background())
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("expected task to run immediately")
	}
}

func TestScheduler_StopBeforeStart(t *testing.T) {
	s := New(100*time.Millisecond, func(context.Context) {})
	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestScheduler_DoubleStart(t *testing.T) {
	var counter int32
	s := New(50*time.Millisecond, func(context.Context) {
		atomic.AddInt32(&counter, 1)
	})

	s.Start(context.Background())
	s.Start(context.Background())

	time.Sleep(80 * time.Millisecond)
	s.Stop()

	assert.GreaterOrEqual(t, atomic.LoadInt32(&counter), int32(1))
}

func TestScheduler_ParentCancelStopsLoop(t *testing.T) {
	var counter int32
	ctx, cancel := context.WithCancel(context.Background())

	s := New(20*time.Millisecond, func(context.Context) {
		atomic.AddInt32(&counter, 1)
	})
	s.Start(ctx)

	time.Sleep(50 * time.Millisecond)
	cancel()
	time.Sleep(30 * time.Millisecond)

	stopped := atomic.LoadInt32(&counter)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, stopped, atomic.LoadInt32(&counter))

	// Stop still cleans up after a parent cancel
	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestScheduler_RestartAfterParentCancel(t *testing.T) {
	var counter int32
	ctx, cancel := context.WithCancel(context.Background())

	s := New(20*time.Millisecond, func(context.Context) {
		atomic.AddInt32(&counter, 1)
	})
	s.Start(ctx)
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 5*time.Millisecond)

	before := atomic.LoadInt32(&counter)
	s.Start(context.Background())
	defer s.Stop()
	assert.True(t, s.IsRunning())

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&counter) > before
	}, time.Second, 5*time.Millisecond)
}
