package pkgutil

import (
	"sync/atomic"

	"github.com/gammazero/workerpool"
	"github.com/panjf2000/ants/v2"
	conc "github.com/sourcegraph/conc/pool"
)

// Pool is the common interface every goroutine-pool backend satisfies.
// internal/pipeline uses it to bound stage 7's per-catalog fan-out instead
// of spawning one unbounded goroutine per leaf catalog. Adapted from the
// teacher's pkg/sync.Pool.
type Pool interface {
	Submit(f func()) error
}

var defaultPool atomic.Value

func DefaultPool() Pool {
	return defaultPool.Load().(Pool)
}

func SetDefaultPool(pool Pool) {
	if pool == nil {
		return
	}
	defaultPool.Store(pool)
}

func init() {
	defaultPool.Store(PoolOfNoPool())
}

type poolAdapter func(f func()) error

func (p poolAdapter) Submit(f func()) error { return p(f) }

// PoolOfNoPool launches an unbounded, panic-safe goroutine per task.
func PoolOfNoPool() Pool {
	return poolAdapter(func(f func()) error {
		Go(f)
		return nil
	})
}

// PoolOfConc adapts a sourcegraph/conc pool.
func PoolOfConc(pool *conc.Pool) Pool {
	if pool == nil {
		panic("conc pool is nil")
	}
	return poolAdapter(func(f func()) error {
		pool.Go(f)
		return nil
	})
}

// PoolOfAnts adapts a panjf2000/ants pool, the bounded pool used by default
// to cap stage 7's concurrent catalog generation.
func PoolOfAnts(pool *ants.Pool) Pool {
	if pool == nil {
		panic("ants pool is nil")
	}
	return poolAdapter(func(f func()) error {
		return pool.Submit(f)
	})
}

// PoolOfWorkerpool adapts a gammazero/workerpool.
func PoolOfWorkerpool(pool *workerpool.WorkerPool) Pool {
	if pool == nil {
		panic("worker pool is nil")
	}
	return poolAdapter(func(f func()) error {
		pool.Submit(f)
		return nil
	})
}
