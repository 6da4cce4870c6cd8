package performance

import (
	"slices"
	"sync"
	"time"
)

// DefaultLatencySamples is the window kept by NewLatencyTracker.
const DefaultLatencySamples = 10000

// LatencyTracker keeps the most recent latency samples.
type LatencyTracker struct {
	mu      sync.Mutex
	samples []time.Duration
	limit   int
	total   int64
}

// NewLatencyTracker creates a tracker keeping at most limit samples.
// A non-positive limit means DefaultLatencySamples.
func NewLatencyTracker(limit int) *LatencyTracker {
	if limit <= 0 {
		limit = DefaultLatencySamples
	}
	return &LatencyTracker{
		samples: make([]time.Duration, 0, limit),
		limit:   limit,
	}
}

// Record adds a sample, evicting the oldest once the window is full.
func (lt *LatencyTracker) Record(d time.Duration) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	lt.total++
	if len(lt.samples) < lt.limit {
		lt.samples = append(lt.samples, d)
		return
	}
	copy(lt.samples, lt.samples[1:])
	lt.samples[len(lt.samples)-1] = d
}

// Count returns how many samples were ever recorded.
func (lt *LatencyTracker) Count() int64 {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	return lt.total
}

// Percentiles returns the p50, p95 and p99 of the kept samples.
func (lt *LatencyTracker) Percentiles() (p50, p95, p99 time.Duration) {
	lt.mu.Lock()
	sorted := slices.Clone(lt.samples)
	lt.mu.Unlock()

	if len(sorted) == 0 {
		return 0, 0, 0
	}
	slices.Sort(sorted)
	at := func(pct int) time.Duration {
		return sorted[(len(sorted)-1)*pct/100]
	}
	return at(50), at(95), at(99)
}
