// Package threadid identifies goroutines to the scratch pool with unique,
// never-reused integers.
//
// An ID is derived from the runtime's own goroutine id, which the runtime
// hands out from a process-wide counter and never reuses. The package
// keeps no per-goroutine state, so goroutines that exit cost nothing.
// The values below 3 are sentinels owned by the pool.
package threadid

import (
	"math"
	"sync/atomic"

	"github.com/petermattis/goid"

	"github.com/ajitpratap0/rxpool/pkg/errors"
)

// ID identifies a goroutine to a pool.
type ID uint64

const (
	// Unowned marks a pool that has no owner yet.
	Unowned ID = 0
	// InUse marks a pool whose owner slot is checked out.
	InUse ID = 1
	// Dropped poisons a guard that has already been released.
	Dropped ID = 2
	// First is the smallest real goroutine ID.
	First ID = 3
)

// IsSentinel reports whether id is one of the reserved values.
func (id ID) IsSentinel() bool {
	return id < First
}

// Space maps runtime goroutine ids onto IDs in [First, limit]. The zero
// value is not usable; use NewSpace.
type Space struct {
	limit     uint64
	exhausted atomic.Bool
}

// NewSpace returns a space whose largest ID is limit.
func NewSpace(limit uint64) *Space {
	return &Space{limit: limit}
}

// ID returns the ID of the goroutine whose runtime id is g. Runtime ids
// start at 1, so g maps to First+g-1.
//
// Running out of IDs is fatal: a wrapped ID could give two goroutines the
// same owner slot. Once exhausted, every later call panics as well.
func (s *Space) ID(g uint64) ID {
	if s.exhausted.Load() {
		panic(exhaustedError(s.limit))
	}
	if g == 0 || s.limit < uint64(First) || g > s.limit-uint64(First)+1 {
		s.exhausted.Store(true)
		panic(exhaustedError(s.limit))
	}
	return ID(g + uint64(First) - 1)
}

// Exhausted reports whether the space has run out of IDs.
func (s *Space) Exhausted() bool {
	return s.exhausted.Load()
}

func exhaustedError(limit uint64) *errors.Error {
	return errors.New(errors.ErrorTypeFatal, "thread ID allocation space exhausted").
		WithDetail("limit", limit)
}

var global = NewSpace(math.MaxUint64)

// Current returns the calling goroutine's ID. It does not allocate.
func Current() ID {
	return global.ID(uint64(goid.Get()))
}
