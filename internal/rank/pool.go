package rank

import (
	"context"
	"runtime"
)

// parallelSearchThreshold gates whether a search dispatches onto a Pool or
// simply runs on the calling goroutine, mirroring the teacher's own
// searchParallel gate on corpus size (len(documents) >= 100 in bm25md.go): a
// worker pool only pays for itself once there is enough indexed material for
// the ranking pipeline to be worth spreading across CPUs.
const parallelSearchThreshold = 100

// DocumentCounter is satisfied by *fts.Index; Pool.Dispatch uses it to
// decide whether pooled dispatch is worthwhile for a given index.
type DocumentCounter interface {
	DocumentCount() int
}

// Pool bounds concurrent CPU-bound ranking work to one query in flight per
// CPU. Without it, net/http's one-goroutine-per-request model lets a burst
// of concurrent searches oversubscribe the machine; Pool turns that into a
// bounded queue instead.
type Pool struct {
	sem chan struct{}
}

// NewPool returns a Pool sized to runtime.NumCPU().
func NewPool() *Pool {
	return &Pool{sem: make(chan struct{}, runtime.NumCPU())}
}

// Dispatch runs search, a closure performing one full Search call, either
// inline (below parallelSearchThreshold documents) or through the pool's
// bounded concurrency limit. It honors ctx cancellation while queuing for a
// pool slot.
func (p *Pool) Dispatch(ctx context.Context, idx DocumentCounter, search func()) error {
	if idx.DocumentCount() < parallelSearchThreshold {
		search()
		return nil
	}

	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-p.sem }()

	search()
	return nil
}
