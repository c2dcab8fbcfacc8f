// Package scheduler runs download tasks on a bounded worker pool. The queue
// is unbounded: Submit never blocks the caller, tasks wait for a free slot
// in their own goroutine.
package scheduler

import (
	"context"
	"sync"
)

// Task is one unit of work. The context is cancelled when the task itself or
// the whole pool is shut down.
type Task func(ctx context.Context)

// Pool limits how many tasks run at once.
type Pool struct {
	sem    chan struct{}
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// New builds a pool running at most workers tasks concurrently.
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		sem:    make(chan struct{}, workers),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Submit queues a task and returns immediately. The returned CancelFunc
// cancels this task only; a task cancelled while still waiting for a slot
// never runs.
func (p *Pool) Submit(task Task) context.CancelFunc {
	ctx, cancel := context.WithCancel(p.ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer cancel()

		select {
		case p.sem <- struct{}{}:
		case <-ctx.Done():
			return
		}
		defer func() { <-p.sem }()

		if ctx.Err() != nil {
			return
		}
		task(ctx)
	}()

	return cancel
}

// Wait blocks until every submitted task has finished or been cancelled.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Shutdown cancels everything, running and queued, and waits for the
// goroutines to drain.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}
