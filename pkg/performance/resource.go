// Package performance samples process resources and latencies for the
// pool stress harness.
package performance

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap/zapcore"

	"github.com/ajitpratap0/rxpool/pkg/errors"
)

// ResourceMonitor reports the current process's resource usage relative
// to when it was created.
type ResourceMonitor struct {
	process      *process.Process
	startCPUTime float64
	startTime    time.Time
	mu           sync.RWMutex
}

// ResourceUsage contains resource usage information.
type ResourceUsage struct {
	CPUPercent            float64 `json:"cpu_percent"`
	MemoryRSS             uint64  `json:"memory_rss"`
	MemoryVMS             uint64  `json:"memory_vms"`
	SystemMemoryPercent   float64 `json:"system_memory_percent"`
	SystemMemoryAvailable uint64  `json:"system_memory_available"`
	GoroutineCount        int     `json:"goroutines"`
	ThreadCount           int32   `json:"threads"`
	GCCount               uint32  `json:"gc_count"`
	HeapAllocBytes        uint64  `json:"heap_alloc_bytes"`
}

// NewResourceMonitor creates a monitor for the running process.
func NewResourceMonitor() (*ResourceMonitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid())) // #nosec G115 - pids fit in int32
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to open process handle")
	}
	rm := &ResourceMonitor{process: proc, startTime: time.Now()}
	if t, err := proc.Times(); err == nil {
		rm.startCPUTime = t.Total()
	}
	return rm, nil
}

// Usage returns current resource usage. Fields the platform cannot
// report are left zero.
func (rm *ResourceMonitor) Usage() ResourceUsage {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	var usage ResourceUsage

	if t, err := rm.process.Times(); err == nil {
		if elapsed := time.Since(rm.startTime).Seconds(); elapsed > 0 {
			usage.CPUPercent = ((t.Total() - rm.startCPUTime) / elapsed) * 100
		}
	}
	if m, err := rm.process.MemoryInfo(); err == nil {
		usage.MemoryRSS = m.RSS
		usage.MemoryVMS = m.VMS
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		usage.SystemMemoryPercent = vm.UsedPercent
		usage.SystemMemoryAvailable = vm.Available
	}
	usage.ThreadCount, _ = rm.process.NumThreads()
	usage.GoroutineCount = runtime.NumGoroutine()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	usage.GCCount = ms.NumGC
	usage.HeapAllocBytes = ms.HeapAlloc
	return usage
}

// Reset restarts the CPU accounting window.
func (rm *ResourceMonitor) Reset() {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.startTime = time.Now()
	if t, err := rm.process.Times(); err == nil {
		rm.startCPUTime = t.Total()
	}
}

// MarshalLogObject lets ResourceUsage be logged with zap.Object.
func (u ResourceUsage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddFloat64("cpu_percent", u.CPUPercent)
	enc.AddUint64("memory_rss", u.MemoryRSS)
	enc.AddUint64("memory_vms", u.MemoryVMS)
	enc.AddInt("goroutines", u.GoroutineCount)
	enc.AddInt32("threads", u.ThreadCount)
	enc.AddUint32("gc_count", u.GCCount)
	enc.AddUint64("heap_alloc_bytes", u.HeapAllocBytes)
	return nil
}
