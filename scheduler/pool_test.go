package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolRunsEverything(t *testing.T) {
	pool := New(2)

	var done atomic.Int32
	for i := 0; i < 10; i++ {
		pool.Submit(func(ctx context.Context) {
			done.Add(1)
		})
	}
	pool.Wait()

	assert.Equal(t, int32(10), done.Load())
}

func TestPoolBoundsConcurrency(t *testing.T) {
	pool := New(3)

	var running, peak atomic.Int32
	var mu sync.Mutex

	for i := 0; i < 12; i++ {
		pool.Submit(func(ctx context.Context) {
			now := running.Add(1)
			mu.Lock()
			if now > peak.Load() {
				peak.Store(now)
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)
			running.Add(-1)
		})
	}
	pool.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Greater(t, peak.Load(), int32(0))
}

func TestPoolCancelQueuedTask(t *testing.T) {
	pool := New(1)

	block := make(chan struct{})
	pool.Submit(func(ctx context.Context) {
		<-block
	})

	var ran atomic.Bool
	cancel := pool.Submit(func(ctx context.Context) {
		ran.Store(true)
	})

	// Cancel while still waiting for the single slot.
	cancel()
	close(block)
	pool.Wait()

	assert.False(t, ran.Load())
}

func TestPoolShutdownCancelsRunning(t *testing.T) {
	pool := New(1)

	started := make(chan struct{})
	var sawCancel atomic.Bool

	pool.Submit(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		sawCancel.Store(true)
	})

	<-started
	pool.Shutdown()

	assert.True(t, sawCancel.Load())
}

func TestPoolMinimumOneWorker(t *testing.T) {
	pool := New(0)

	var done atomic.Int32
	pool.Submit(func(ctx context.Context) { done.Add(1) })
	pool.Wait()

	assert.Equal(t, int32(1), done.Load())
}
