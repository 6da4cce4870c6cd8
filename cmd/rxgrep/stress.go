package main

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/rxpool/pkg/errors"
	"github.com/ajitpratap0/rxpool/pkg/json"
	"github.com/ajitpratap0/rxpool/pkg/logger"
	"github.com/ajitpratap0/rxpool/pkg/metrics"
	"github.com/ajitpratap0/rxpool/pkg/performance"
	"github.com/ajitpratap0/rxpool/pkg/pool"
)

type stressFlags struct {
	goroutines  int
	cycles      int
	retries     int
	slots       int
	metricsAddr string
	json        bool
}

// stressScratch stands in for per-search scratch space.
type stressScratch struct {
	busy  atomic.Int32
	slots []int
}

// stressReport is what the stress command prints.
type stressReport struct {
	Goroutines int                       `json:"goroutines"`
	Cycles     int                       `json:"cycles"`
	Duration   time.Duration             `json:"duration_ns"`
	OpsPerSec  float64                   `json:"ops_per_sec"`
	Violations int64                     `json:"violations"`
	P50        time.Duration             `json:"p50_ns"`
	P95        time.Duration             `json:"p95_ns"`
	P99        time.Duration             `json:"p99_ns"`
	Pool       pool.Stats                `json:"pool"`
	Resources  performance.ResourceUsage `json:"resources"`
}

func newStressCommand(a *app) *cobra.Command {
	f := &stressFlags{}
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Hammer a scratch pool from many goroutines and report its counters",
		Long: `stress runs GOROUTINES goroutines that each check a value out of one
shared pool CYCLES times. It fails if two goroutines ever hold the same
value at once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runStress(cmd, f)
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&f.goroutines, "goroutines", 16, "Concurrent goroutines")
	fl.IntVar(&f.cycles, "cycles", 100000, "Get/Put cycles per goroutine")
	fl.IntVar(&f.retries, "retries", 0, "Shard lock attempts (default from config)")
	fl.IntVar(&f.slots, "slots", 32, "Size of each scratch value")
	fl.StringVar(&f.metricsAddr, "metrics-addr", "", "Expose Prometheus metrics on this address while running")
	fl.BoolVar(&f.json, "json", false, "Print the report as JSON")
	return cmd
}

func (a *app) runStress(cmd *cobra.Command, f *stressFlags) error {
	if f.goroutines < 1 || f.cycles < 1 {
		return errors.New(errors.ErrorTypeValidation, "goroutines and cycles must be at least 1")
	}

	cfg := a.cfg.Pool
	if f.retries > 0 {
		cfg.Retries = f.retries
	}
	p, err := pool.NewFromConfig(func() *stressScratch {
		return &stressScratch{slots: make([]int, f.slots)}
	}, cfg, pool.WithName("stress"))
	if err != nil {
		return err
	}

	if f.metricsAddr != "" {
		prometheus.MustRegister(metrics.NewPoolCollector("stress", metrics.StatsFunc(p.Stats)))
		go func() {
			if err := metrics.Serve(f.metricsAddr); err != nil {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	monitor, err := performance.NewResourceMonitor()
	if err != nil {
		return err
	}
	latency := performance.NewLatencyTracker(0)
	throughput := metrics.NewThroughputTracker()
	timer := metrics.NewTimer("stress")

	var violations atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < f.goroutines; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < f.cycles; i++ {
				sample := i%64 == 0
				var start time.Time
				if sample {
					start = time.Now()
				}
				g := p.Get()
				s := *g.Value()
				if !s.busy.CompareAndSwap(0, 1) {
					violations.Add(1)
				}
				s.slots[i%len(s.slots)] = i
				s.busy.Store(0)
				g.Put()
				if sample {
					latency.Record(time.Since(start))
				}
			}
			throughput.Increment(int64(f.cycles))
		}()
	}
	wg.Wait()

	elapsed := timer.Stop()
	p50, p95, p99 := latency.Percentiles()
	report := stressReport{
		Goroutines: f.goroutines,
		Cycles:     f.cycles,
		Duration:   elapsed,
		OpsPerSec:  throughput.GetAndReset(),
		Violations: violations.Load(),
		P50:        p50,
		P95:        p95,
		P99:        p99,
		Pool:       p.Stats(),
		Resources:  monitor.Usage(),
	}
	logger.Info("stress run finished",
		zap.Duration("duration", elapsed),
		zap.Object("pool", report.Pool),
		zap.Object("resources", report.Resources),
	)

	if err := printStress(cmd, report, f.json); err != nil {
		return err
	}
	if report.Violations > 0 {
		return errors.Newf(errors.ErrorTypeInternal, "%d exclusivity violations", report.Violations)
	}
	return nil
}

func printStress(cmd *cobra.Command, r stressReport, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewLineEncoder(out)
		enc.SetIndent("  ")
		return enc.Encode(r)
	}
	st := r.Pool
	_, err := fmt.Fprintf(out, `Stress run: %d goroutines x %d cycles
Duration: %v (%.0f ops/sec)
Latency (sampled): p50 %v, p95 %v, p99 %v
Violations: %d

Pool:
- Owner hits: %d
- Shard hits: %d
- Created: %d (transient %d)
- Returned: %d, discarded: %d
- Idle: %d

Resources:
- CPU: %.2f%%
- RSS: %d MB
- Threads: %d
- GC count: %d
`,
		r.Goroutines, r.Cycles,
		r.Duration, r.OpsPerSec,
		r.P50, r.P95, r.P99,
		r.Violations,
		st.OwnerHits,
		st.ShardHits,
		st.Created, st.Transient,
		st.Returned, st.Discarded,
		st.Idle,
		r.Resources.CPUPercent,
		r.Resources.MemoryRSS/1024/1024,
		r.Resources.ThreadCount,
		r.Resources.GCCount,
	)
	return err
}
