package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Pool runs fire-and-forget background tasks, such as activity log writes,
// and lets the process drain them on shutdown.
type Pool struct {
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

// NewPool creates a new worker pool
func NewPool(logger *slog.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// Submit runs task in the background. It reports false, without running the
// task, once Shutdown has begun.
func (p *Pool) Submit(task func(ctx context.Context)) bool {
	return p.SubmitWithTimeout(0, task)
}

// SubmitWithTimeout is Submit with a per-task deadline. A zero timeout means
// the task only stops when the pool is force-cancelled.
func (p *Pool) SubmitWithTimeout(timeout time.Duration, task func(ctx context.Context)) bool {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.logger.Warn("⚠️ [Worker] Pool is shutting down, task dropped")
		return false
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("❌ [Worker] Background task panicked", "panic", r)
			}
		}()

		ctx := p.ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(p.ctx, timeout)
			defer cancel()
		}
		task(ctx)
	}()
	return true
}

// Context returns the pool's context
func (p *Pool) Context() context.Context {
	return p.ctx
}

// Shutdown stops accepting tasks and waits for in-flight ones. Tasks still
// running after timeout have their context cancelled.
func (p *Pool) Shutdown(timeout time.Duration) {
	p.logger.Info("🛑 [Worker] Initiating graceful shutdown...")

	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("✅ [Worker] All background tasks completed")
	case <-time.After(timeout):
		p.logger.Warn("⚠️ [Worker] Shutdown timeout exceeded, cancelling remaining tasks",
			"timeout", timeout,
		)
	}
	p.cancel()
}

// Wait blocks until every submitted task has returned. Tests use it to
// observe asynchronous side effects.
func (p *Pool) Wait() {
	p.wg.Wait()
}
