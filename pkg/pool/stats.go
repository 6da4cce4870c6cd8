package pool

import (
	"go.uber.org/zap/zapcore"

	"github.com/ajitpratap0/rxpool/internal/threadid"
)

// Stats is a snapshot of a pool's counters. Counters are read one by one
// without stopping the pool, so a snapshot taken under load is only
// approximately consistent.
type Stats struct {
	// OwnerHits counts Gets served by the owner slot.
	OwnerHits uint64 `json:"owner_hits"`
	// ShardHits counts Gets served by a recycled shard value.
	ShardHits uint64 `json:"shard_hits"`
	// Created counts values the factory returned, including the owner
	// value. A factory call that panicked is not counted.
	Created uint64 `json:"created"`
	// Transient counts values built because a shard stayed locked.
	Transient uint64 `json:"transient"`
	// Returned counts shard values pushed back after use.
	Returned uint64 `json:"returned"`
	// Discarded counts values dropped on Put: transient values plus
	// values whose shard stayed locked.
	Discarded uint64 `json:"discarded"`
	// Idle is the number of values resting in shards.
	Idle int `json:"idle"`
	// Owned reports whether an owner has claimed the pool.
	Owned bool `json:"owned"`
}

// Stats returns current counters. It briefly locks each shard to count
// idle values.
func (p *Pool[T]) Stats() Stats {
	st := Stats{
		OwnerHits: p.ownerHits.Load(),
		Created:   p.ownerCreated.Load(),
		Owned:     threadid.ID(p.owner.Load()) != threadid.Unowned,
	}
	for i := range p.shards {
		s := &p.shards[i]
		st.ShardHits += s.hits.Load()
		st.Created += s.created.Load() + s.transient.Load()
		st.Transient += s.transient.Load()
		st.Returned += s.returned.Load()
		st.Discarded += s.discarded.Load()
		st.Idle += s.len()
	}
	return st
}

// MarshalLogObject lets Stats be logged with zap.Object.
func (s Stats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint64("owner_hits", s.OwnerHits)
	enc.AddUint64("shard_hits", s.ShardHits)
	enc.AddUint64("created", s.Created)
	enc.AddUint64("transient", s.Transient)
	enc.AddUint64("returned", s.Returned)
	enc.AddUint64("discarded", s.Discarded)
	enc.AddInt("idle", s.Idle)
	enc.AddBool("owned", s.Owned)
	return nil
}
