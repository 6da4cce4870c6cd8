// Package pool provides a goroutine-safe pool of mutable scratch values,
// used by the regex package to hand per-search state to many concurrent
// callers without a global lock.
//
// # Architecture
//
// A Pool[T] has two tiers:
//
//   - The owner slot. The first goroutine to call Get claims the pool and
//     from then on is served a dedicated value with one atomic load and
//     one atomic store. No lock is ever taken on this path.
//   - Eight shards. Every other goroutine maps to shard id % 8, a
//     mutex-guarded stack padded to its own cache line. Shards are only
//     try-locked, a bounded number of times (Config.Retries, default 10).
//
// When a shard stays locked, Get builds a fresh value marked for discard
// and Put drops it instead of contending again. Under heavy load the pool
// therefore degrades to allocate-and-discard rather than blocking.
//
// # Usage
//
//	p := pool.New(func() Scratch { return newScratch(64) })
//
//	g := p.Get()
//	defer g.Put()
//	s := g.Value()
//
// A Guard must be released exactly once and must not be copied. Calling
// Put twice, or Value after Put, panics with an internal error.
//
// # Goroutine identity
//
// The owner and the shard index come from internal/threadid, which
// derives each goroutine's ID from the runtime's goroutine id. IDs are
// never reused, so two goroutines can never share the owner slot, and no
// state is kept per goroutine.
//
// # Metrics
//
// Stats reports owner hits, shard hits, values built, transient values,
// returns and discards. pkg/metrics exports them to Prometheus.
//
// The pool never shrinks: values resting in shards live as long as the
// pool.
package pool
