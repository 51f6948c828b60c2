package browser

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/neilthomass/instaPFP/models"
)

// Pool bounds the number of simultaneously live browser sessions. A full
// browser process is heavy, so requests beyond capacity wait for a slot up
// to a timeout and then fail with POOL_BUSY (distinct from launch failure).
type Pool struct {
	sem            *semaphore.Weighted
	acquireTimeout time.Duration
	max            int
	active         atomic.Int32
}

// NewPool creates a Pool with max live sessions and the given slot wait.
func NewPool(max int, acquireTimeout time.Duration) *Pool {
	if max < 1 {
		max = 1
	}
	return &Pool{
		sem:            semaphore.NewWeighted(int64(max)),
		acquireTimeout: acquireTimeout,
		max:            max,
	}
}

// Slot claims a session slot, waiting up to the pool's acquire timeout.
// The returned func releases the slot and must be called exactly once;
// it is safe under defer on every exit path.
func (p *Pool) Slot(ctx context.Context) (func(), error) {
	waitCtx, cancel := context.WithTimeout(ctx, p.acquireTimeout)
	defer cancel()

	if err := p.sem.Acquire(waitCtx, 1); err != nil {
		// The caller's own cancellation surfaces as-is; only an
		// exhausted wait becomes POOL_BUSY.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, models.NewFetchError(models.ErrCodeBusy, "all browser sessions busy", err)
	}

	p.active.Add(1)
	var released atomic.Bool
	return func() {
		if released.CompareAndSwap(false, true) {
			p.active.Add(-1)
			p.sem.Release(1)
		}
	}, nil
}

// Stats returns a snapshot of the pool's current state.
func (p *Pool) Stats() models.PoolStats {
	return models.PoolStats{
		MaxSessions:    p.max,
		ActiveSessions: int(p.active.Load()),
	}
}
