package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cv-analyzer/internal/shared/metrics"
	"cv-analyzer/internal/shared/telemetry"
)

// DefaultPoolCapacity bounds the number of jobs waiting for a worker.
const DefaultPoolCapacity = 100

var (
	ErrQueueFull  = errors.New("queue: job queue is full")
	ErrPoolClosed = errors.New("queue: pool is closed")
)

// Pool runs messages in-process on a fixed number of workers.
type Pool struct {
	jobs    chan Message
	workers int

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

// NewPool returns a pool with workers goroutines and a buffer of capacity
// jobs. Non-positive arguments fall back to 1 worker and DefaultPoolCapacity.
func NewPool(workers, capacity int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if capacity <= 0 {
		capacity = DefaultPoolCapacity
	}
	return &Pool{
		jobs:    make(chan Message, capacity),
		workers: workers,
	}
}

// Start launches the workers. Messages sent before Start wait in the buffer.
func (p *Pool) Start(ctx context.Context, handler Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.started = true
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, handler)
	}
}

func (p *Pool) run(ctx context.Context, handler Handler) {
	defer p.wg.Done()
	for msg := range p.jobs {
		metrics.IncAnalysisJobsReceived()
		if err := p.handle(ctx, handler, msg); err != nil {
			metrics.IncAnalysisJobsFailed()
			telemetry.Error("pool.job_failed", map[string]any{
				"analysis_id": msg.AnalysisID,
				"request_id":  msg.RequestID,
				"error":       err,
			})
			continue
		}
		metrics.IncAnalysisJobsCompleted()
	}
}

func (p *Pool) handle(ctx context.Context, handler Handler, msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return handler(ctx, msg)
}

// Send enqueues msg without blocking.
func (p *Pool) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Len reports the number of jobs waiting for a worker.
func (p *Pool) Len() int { return len(p.jobs) }

// Shutdown stops accepting jobs and waits for queued and in-flight jobs,
// or until ctx is done.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ Client = (*Pool)(nil)
