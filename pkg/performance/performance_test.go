package performance

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatencyTrackerPercentiles(t *testing.T) {
	lt := NewLatencyTracker(0)
	p50, p95, p99 := lt.Percentiles()
	assert.Zero(t, p50)
	assert.Zero(t, p95)
	assert.Zero(t, p99)

	// Record 100..1 so sorting matters.
	for i := 100; i >= 1; i-- {
		lt.Record(time.Duration(i) * time.Millisecond)
	}
	p50, p95, p99 = lt.Percentiles()
	assert.Equal(t, 50*time.Millisecond, p50)
	assert.Equal(t, 95*time.Millisecond, p95)
	assert.Equal(t, 99*time.Millisecond, p99)
	assert.Equal(t, int64(100), lt.Count())
}

func TestLatencyTrackerWindow(t *testing.T) {
	lt := NewLatencyTracker(3)
	for i := 1; i <= 5; i++ {
		lt.Record(time.Duration(i))
	}
	assert.Equal(t, []time.Duration{3, 4, 5}, lt.samples)
	assert.Equal(t, int64(5), lt.Count())
}

func TestLatencyTrackerConcurrent(t *testing.T) {
	lt := NewLatencyTracker(50)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				lt.Record(time.Microsecond)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(800), lt.Count())
	assert.Len(t, lt.samples, 50)
}

func TestResourceMonitorUsage(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("process stats need a supported platform")
	}
	rm, err := NewResourceMonitor()
	require.NoError(t, err)

	u := rm.Usage()
	assert.NotZero(t, u.MemoryRSS)
	assert.GreaterOrEqual(t, u.GoroutineCount, 1)
	assert.GreaterOrEqual(t, u.CPUPercent, 0.0)

	rm.Reset()
	assert.GreaterOrEqual(t, rm.Usage().CPUPercent, 0.0)
}
