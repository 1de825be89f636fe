// Package workers contains background workers for the media domain
package workers

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// BusyObserver is told when a worker slot is taken and freed
type BusyObserver interface {
	WorkerAcquired()
	WorkerReleased()
}

// Pool runs update handlers in the background and bounds blocking work.
// Go never blocks; Run waits for one of size slots.
type Pool struct {
	sem  *semaphore.Weighted
	size int

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup

	observer BusyObserver
	logger   zerolog.Logger
}

// NewPool creates a pool with size concurrent slots for Run
func NewPool(size int, observer BusyObserver, logger zerolog.Logger) *Pool {
	if size <= 0 {
		size = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		sem:      semaphore.NewWeighted(int64(size)),
		size:     size,
		ctx:      ctx,
		cancel:   cancel,
		observer: observer,
		logger:   logger,
	}
}

// Size returns the number of slots
func (p *Pool) Size() int {
	return p.size
}

// Go runs task in its own goroutine on the pool context.
// Panics are recovered and logged. Tasks submitted after Stop are dropped.
func (p *Pool) Go(name string, task func(ctx context.Context)) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		p.logger.Warn().Str("task", name).Msg("Pool stopped, task dropped")
		return
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error().
					Str("task", name).
					Str("panic", fmt.Sprint(r)).
					Bytes("stack", debug.Stack()).
					Msg("Task panicked")
			}
		}()

		task(p.ctx)
	}()
}

// Run waits for a free slot, then calls fn and returns its error
func (p *Pool) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("waiting for worker: %w", err)
	}
	defer p.sem.Release(1)

	if p.observer != nil {
		p.observer.WorkerAcquired()
		defer p.observer.WorkerReleased()
	}

	return fn(ctx)
}

// Stop cancels the pool context and waits for running tasks or ctx expiry
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info().Msg("Worker pool stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker pool stop: %w", ctx.Err())
	}
}
