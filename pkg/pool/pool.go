package pool

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ajitpratap0/rxpool/internal/threadid"
	"github.com/ajitpratap0/rxpool/pkg/errors"
	"github.com/ajitpratap0/rxpool/pkg/logger"
)

// Pool hands out values of T to one caller at a time. It never shrinks.
//
// A Pool is safe for concurrent use even when T itself is not: each value
// is held by at most one Guard at any moment.
type Pool[T any] struct {
	create   func() T
	name     string
	retries  int
	identity func() threadid.ID

	// owner is the ID of the owning goroutine, or a sentinel: Unowned
	// before the first Get, InUse while the owner value is checked out.
	owner atomic.Uint64
	// ownerVal is written once, by the goroutine that moves owner out of
	// Unowned, before any other goroutine can observe its ID in owner.
	ownerVal *T
	// ownerHits only ever has one writer: the goroutine holding the slot.
	ownerHits atomic.Uint64
	// ownerCreated is set once ownerVal exists. It stays zero if the
	// factory panicked while building it.
	ownerCreated atomic.Uint64

	shards [shardCount]stack[T]
}

// New creates a pool that builds values with create. It panics if create
// is nil.
func New[T any](create func() T, opts ...Option) *Pool[T] {
	if create == nil {
		panic(errors.New(errors.ErrorTypeInternal, "pool: nil create function"))
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pool[T]{
		create:   create,
		name:     o.name,
		retries:  o.retries,
		identity: o.identity,
	}
	logger.Debug("scratch pool created",
		zap.String("pool", p.name),
		zap.Int("shards", shardCount),
		zap.Int("retries", p.retries),
	)
	return p
}

// NewFromConfig creates a pool after validating cfg.
func NewFromConfig[T any](create func() T, cfg Config, opts ...Option) (*Pool[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts = append([]Option{WithRetries(cfg.Retries)}, opts...)
	return New(create, opts...), nil
}

// Name returns the label given with WithName.
func (p *Pool[T]) Name() string {
	return p.name
}

// Get returns a guard holding a value for the caller's exclusive use.
// It never fails; release the value with Guard.Put.
func (p *Pool[T]) Get() Guard[T] {
	caller := p.identity()
	owner := threadid.ID(p.owner.Load())
	if caller == owner {
		// Only the goroutine whose ID is in owner can get here, so a
		// plain store is enough; nobody else can move owner right now.
		p.owner.Store(uint64(threadid.InUse))
		p.ownerHits.Add(1)
		return p.guardOwned(caller)
	}
	return p.getSlow(caller, owner)
}

func (p *Pool[T]) getSlow(caller, owner threadid.ID) Guard[T] {
	if owner == threadid.Unowned &&
		p.owner.CompareAndSwap(uint64(threadid.Unowned), uint64(threadid.InUse)) {
		// Winning the CAS makes this goroutine the only one that will
		// ever write ownerVal. The slot goes back to caller's ID on Put.
		v := p.create()
		p.ownerVal = &v
		p.ownerCreated.Store(1)
		p.ownerHits.Add(1)
		return p.guardOwned(caller)
	}

	idx := int(uint64(caller) % shardCount)
	s := &p.shards[idx]
	for i := 0; i < p.retries; i++ {
		v, locked := s.tryPop()
		if !locked {
			continue
		}
		if v != nil {
			s.hits.Add(1)
			return p.guardStack(v, idx, false)
		}
		v = p.newValue()
		s.created.Add(1)
		return p.guardStack(v, idx, false)
	}
	// The shard stayed busy. Build a throwaway value rather than wait.
	v := p.newValue()
	s.transient.Add(1)
	return p.guardStack(v, idx, true)
}

func (p *Pool[T]) newValue() *T {
	v := p.create()
	return &v
}

// put returns a shard value to the stack it came from. Under contention
// the value is dropped instead.
func (p *Pool[T]) put(v *T, idx int) {
	s := &p.shards[idx]
	for i := 0; i < p.retries; i++ {
		if s.tryPush(v) {
			s.returned.Add(1)
			return
		}
	}
	s.discarded.Add(1)
}

func (p *Pool[T]) guardOwned(caller threadid.ID) Guard[T] {
	return Guard[T]{pool: p, owner: caller}
}

func (p *Pool[T]) guardStack(v *T, idx int, discard bool) Guard[T] {
	return Guard[T]{pool: p, value: v, shard: idx, discard: discard}
}
