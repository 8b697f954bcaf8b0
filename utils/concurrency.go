package utils

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// WorkerPool runs jobs on a bounded number of goroutines with rate limiting.
// The first job error cancels the pool context.
type WorkerPool struct {
	group   *errgroup.Group
	ctx     context.Context
	limiter *rate.Limiter
}

// NewWorkerPool creates a WorkerPool with the given concurrency and rate limit.
// A zero rateLimitMs disables pacing.
func NewWorkerPool(ctx context.Context, maxWorkers, rateLimitMs int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	limit := rate.Inf
	if rateLimitMs > 0 {
		limit = rate.Every(time.Duration(rateLimitMs) * time.Millisecond)
	}

	return &WorkerPool{
		group:   g,
		ctx:     gctx,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Submit enqueues a job; it blocks while all workers are busy.
func (wp *WorkerPool) Submit(job func(ctx context.Context) error) {
	wp.group.Go(func() error {
		if err := wp.limiter.Wait(wp.ctx); err != nil {
			return err
		}
		return job(wp.ctx)
	})
}

// Wait blocks until all submitted jobs have completed and returns the first error.
func (wp *WorkerPool) Wait() error {
	return wp.group.Wait()
}
