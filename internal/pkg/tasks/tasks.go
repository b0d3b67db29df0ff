package tasks

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/learnlive/api/internal/metrics"
)

// Task is one unit of fire-and-forget work. It receives the pool's context,
// which is cancelled only on shutdown, never by the request that submitted it.
type Task func(ctx context.Context)

// Pool drains submitted tasks on a fixed set of workers. Submit never blocks
// and never reports a result back: a failed task is logged and dropped.
type Pool struct {
	queue  chan Task
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	stopped bool
}

// NewPool starts workers goroutines draining a queue of queueSize entries.
func NewPool(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		queue:  make(chan Task, queueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit enqueues t and returns immediately. When the queue is full the task
// runs on its own goroutine rather than block the caller; those goroutines
// are still waited on by Stop. Submitting after Stop drops the task.
func (p *Pool) Submit(t Task) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		metrics.BackgroundTaskFailures.WithLabelValues("dropped").Inc()
		slog.Warn("task submitted after pool stop, dropping")
		return
	}
	select {
	case p.queue <- t:
		metrics.TaskQueueDepth.Set(float64(len(p.queue)))
	default:
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.run(t)
		}()
	}
}

// Stop closes the queue and waits for in-flight tasks until ctx expires.
// It returns the context error when draining timed out.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	defer p.cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		slog.Warn("task pool stopped before draining", "queued", len(p.queue))
		return ctx.Err()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for t := range p.queue {
		metrics.TaskQueueDepth.Set(float64(len(p.queue)))
		p.run(t)
	}
}

func (p *Pool) run(t Task) {
	defer func() {
		if r := recover(); r != nil {
			metrics.BackgroundTaskFailures.WithLabelValues("panic").Inc()
			slog.Error("task panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	t(p.ctx)
}
