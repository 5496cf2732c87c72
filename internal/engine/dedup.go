package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Deduplicator collapses concurrent calls that share a signature into a single
// execution. The registration is dropped as soon as the call settles, so a
// failed signature is retried fresh by the next caller.
type Deduplicator struct {
	group singleflight.Group

	mu      sync.Mutex
	pending map[string]struct{}

	shared atomic.Int64
}

// NewDeduplicator returns an empty Deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{pending: make(map[string]struct{})}
}

// Dedup runs fn under signature, or joins the call already in flight.
// fn receives a context detached from the caller's cancellation, since other
// callers may be waiting on the same result. A caller whose ctx ends stops
// waiting and gets ctx.Err(); the shared call keeps running.
func Dedup[T any](ctx context.Context, d *Deduplicator, signature string, fn func(context.Context) (T, error)) (T, error) {
	shared := context.WithoutCancel(ctx)
	ch := d.group.DoChan(signature, func() (any, error) {
		d.mu.Lock()
		d.pending[signature] = struct{}{}
		d.mu.Unlock()
		defer func() {
			d.mu.Lock()
			delete(d.pending, signature)
			d.mu.Unlock()
		}()
		return fn(shared)
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Shared {
			d.shared.Add(1)
			metrics.DedupShared.Add(1)
			slog.Debug("dedup: shared result", slog.String("signature", signature))
		}
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(T)
		return v, nil
	}
}

// Pending returns the number of signatures currently in flight.
func (d *Deduplicator) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Shared returns how many callers received a result that was handed to more
// than one caller.
func (d *Deduplicator) Shared() int64 {
	return d.shared.Load()
}
