// Package workerpool bounds concurrent background work. The event bus
// runs async listeners through a Pool so a burst of order placements
// cannot spawn unbounded goroutines.
//
//	pool := workerpool.New(8)
//	defer pool.Shutdown()
//
//	if err := pool.Submit(task); errors.Is(err, workerpool.ErrPoolFull) {
//	    // backpressure: reject, queue elsewhere, or run inline
//	}
package workerpool

import (
	"errors"
	"sync"
)

// ErrPoolFull is returned by Submit when the task queue is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned by Submit after Shutdown.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool runs submitted tasks on a fixed set of worker goroutines.
type Pool struct {
	tasks    chan func()
	done     chan struct{}
	workers  sync.WaitGroup
	shutdown sync.Once
}

// New starts a pool with the given worker count. The task queue buffers
// twice that many pending tasks before Submit reports ErrPoolFull.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}

	p := &Pool{
		tasks: make(chan func(), 2*size),
		done:  make(chan struct{}),
	}

	p.workers.Add(size)
	for i := 0; i < size; i++ {
		go func() {
			defer p.workers.Done()
			for task := range p.tasks {
				runSafely(task)
			}
		}()
	}
	return p
}

// Submit enqueues task without blocking. It fails with ErrPoolFull when
// the queue is at capacity and ErrPoolClosed after Shutdown.
func (p *Pool) Submit(task func()) error {
	select {
	case <-p.done:
		return ErrPoolClosed
	default:
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait blocks until the task is queued or the pool closes.
func (p *Pool) SubmitWait(task func()) error {
	select {
	case <-p.done:
		return ErrPoolClosed
	case p.tasks <- task:
		return nil
	}
}

// Shutdown stops accepting tasks and waits for queued ones to finish.
// Safe to call more than once.
func (p *Pool) Shutdown() {
	p.shutdown.Do(func() {
		close(p.done)
		close(p.tasks)
		p.workers.Wait()
	})
}

// runSafely keeps a panicking task from killing its worker.
func runSafely(task func()) {
	defer func() { recover() }() //nolint:errcheck
	task()
}
