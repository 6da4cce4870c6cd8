package pool

import (
	"github.com/ajitpratap0/rxpool/internal/threadid"
	"github.com/ajitpratap0/rxpool/pkg/errors"
)

// noCopy lets go vet's copylocks check flag copied guards.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Guard is exclusive access to one pooled value. It is either the owner
// guard, which refers to the pool's owner slot, or a shard guard, which
// carries its own value and the index of the shard it came from.
//
// A Guard must be released exactly once with Put and must not be copied.
type Guard[T any] struct {
	_    noCopy
	pool *Pool[T]

	// owner is the owning goroutine's ID for the owner guard, Unowned for
	// a shard guard and Dropped once Put has run.
	owner threadid.ID

	value   *T
	shard   int
	discard bool
}

// Value returns the guarded value. The pointer stays valid, and keeps
// pointing at the same instance, until Put.
func (g *Guard[T]) Value() *T {
	switch {
	case g.owner == threadid.Dropped:
		panic(errors.New(errors.ErrorTypeInternal, "pool: use of guard after Put"))
	case g.owner != threadid.Unowned:
		return g.pool.ownerVal
	case g.value == nil:
		panic(errors.New(errors.ErrorTypeInternal, "pool: use of zero guard"))
	default:
		return g.value
	}
}

// Owned reports whether the guard holds the owner slot.
func (g *Guard[T]) Owned() bool {
	return !g.owner.IsSentinel()
}

// Discarded reports whether the value will be thrown away on Put instead
// of going back to its shard.
func (g *Guard[T]) Discarded() bool {
	return g.discard
}

// Shard returns the index of the shard a shard guard came from, or -1
// for the owner guard.
func (g *Guard[T]) Shard() int {
	if g.Owned() {
		return -1
	}
	return g.shard
}

// Put releases the value. It panics when called twice.
func (g *Guard[T]) Put() {
	switch owner := g.owner; {
	case owner == threadid.Dropped:
		panic(errors.New(errors.ErrorTypeInternal, "pool: guard already released"))
	case owner != threadid.Unowned:
		// The ID saved in the guard, not the caller's: guards may be
		// released from another goroutine.
		g.owner = threadid.Dropped
		g.pool.owner.Store(uint64(owner))
	default:
		if g.pool == nil {
			panic(errors.New(errors.ErrorTypeInternal, "pool: Put on zero guard"))
		}
		v := g.value
		g.value = nil
		g.owner = threadid.Dropped
		if g.discard {
			g.pool.shards[g.shard].discarded.Add(1)
			return
		}
		g.pool.put(v, g.shard)
	}
}
