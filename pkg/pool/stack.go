package pool

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// shardCount is the number of stacks serving non-owner goroutines. A
// goroutine uses stack id % shardCount.
const shardCount = 8

// stack is one shard of the slow path: a mutex-guarded LIFO of values
// nobody is using. The leading pad keeps the mutex and slice header of
// neighbouring shards on different cache lines.
type stack[T any] struct {
	_      cpu.CacheLinePad
	mu     sync.Mutex
	values []*T

	// Counters are written by whichever goroutine touches the shard, so
	// they share its cache line rather than a pool-wide one.
	hits      atomic.Uint64
	created   atomic.Uint64
	transient atomic.Uint64
	returned  atomic.Uint64
	discarded atomic.Uint64
}

// tryPop attempts to take a value without blocking. locked reports
// whether the lock was acquired; v is nil when the stack was empty.
func (s *stack[T]) tryPop() (v *T, locked bool) {
	if !s.mu.TryLock() {
		return nil, false
	}
	if n := len(s.values); n > 0 {
		v = s.values[n-1]
		s.values[n-1] = nil
		s.values = s.values[:n-1]
	}
	s.mu.Unlock()
	return v, true
}

// tryPush attempts to store v without blocking.
func (s *stack[T]) tryPush(v *T) bool {
	if !s.mu.TryLock() {
		return false
	}
	s.values = append(s.values, v)
	s.mu.Unlock()
	return true
}

// len takes the lock; it is for stats and tests only.
func (s *stack[T]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}
