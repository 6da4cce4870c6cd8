// Package metrics exposes rxpool's counters to Prometheus.
//
// # Overview
//
// Two kinds of metrics live here:
//   - PoolCollector, a prometheus.Collector that turns a pool's Stats
//     snapshot into const metrics at scrape time, so the pool itself never
//     touches a Prometheus counter on its hot path
//   - package-level vectors for the scanner (lines, matches, duration)
//
// # Basic Usage
//
//	re := regex.MustCompile(`\d+`)
//	prometheus.MustRegister(metrics.NewPoolCollector("digits", re))
//
//	timer := metrics.NewTimer("scan")
//	scan(files)
//	metrics.ScanDuration.WithLabelValues("app.log").Observe(timer.Stop().Seconds())
//
//	go metrics.Serve(":9090")
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ajitpratap0/rxpool/pkg/logger"
	"github.com/ajitpratap0/rxpool/pkg/pool"
)

const namespace = "rxpool"

// StatsSource is anything that can report pool statistics.
type StatsSource interface {
	PoolStats() pool.Stats
}

// StatsFunc adapts a function to StatsSource.
type StatsFunc func() pool.Stats

// PoolStats calls f.
func (f StatsFunc) PoolStats() pool.Stats { return f() }

// PoolCollector reports one pool's statistics. Every metric carries a
// "pool" label holding the collector's name.
type PoolCollector struct {
	name   string
	source StatsSource

	ownerHits *prometheus.Desc
	shardHits *prometheus.Desc
	created   *prometheus.Desc
	transient *prometheus.Desc
	returned  *prometheus.Desc
	discarded *prometheus.Desc
	idle      *prometheus.Desc
}

// NewPoolCollector creates a collector for source labelled with name.
func NewPoolCollector(name string, source StatsSource) *PoolCollector {
	labels := prometheus.Labels{"pool": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "pool", metric), help, nil, labels)
	}
	return &PoolCollector{
		name:      name,
		source:    source,
		ownerHits: desc("owner_hits_total", "Gets served by the owner slot"),
		shardHits: desc("shard_hits_total", "Gets served by a recycled shard value"),
		created:   desc("created_total", "Values built by the pool factory"),
		transient: desc("transient_total", "Values built because a shard stayed locked"),
		returned:  desc("returned_total", "Shard values pushed back after use"),
		discarded: desc("discarded_total", "Values dropped on release"),
		idle:      desc("idle", "Values resting in shards"),
	}
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.ownerHits
	ch <- c.shardHits
	ch <- c.created
	ch <- c.transient
	ch <- c.returned
	ch <- c.discarded
	ch <- c.idle
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.source.PoolStats()
	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	counter(c.ownerHits, st.OwnerHits)
	counter(c.shardHits, st.ShardHits)
	counter(c.created, st.Created)
	counter(c.transient, st.Transient)
	counter(c.returned, st.Returned)
	counter(c.discarded, st.Discarded)
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(st.Idle))
}

var (
	// LinesScanned counts input lines read by the scanner.
	// Labels: source (input name)
	LinesScanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_scanned_total",
			Help:      "Total number of input lines scanned",
		},
		[]string{"source"},
	)

	// Matches counts lines that matched.
	Matches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Total number of matching lines",
		},
		[]string{"source"},
	)

	// ScanDuration tracks how long one input took to scan.
	ScanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Time spent scanning one input",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs .. ~26s
		},
		[]string{"source"},
	)
)

// Timer measures elapsed time from its creation.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a timer and starts it immediately.
func NewTimer(name string) *Timer {
	return &Timer{start: time.Now(), name: name}
}

// Name returns the label given at creation.
func (t *Timer) Name() string { return t.name }

// Stop returns the time elapsed since creation. It can be called more than
// once.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ThroughputTracker computes lines per second over reset windows.
// Safe for concurrent use.
type ThroughputTracker struct {
	mu        sync.Mutex
	count     int64
	lastReset time.Time
}

// NewThroughputTracker creates a tracker whose first window starts now.
func NewThroughputTracker() *ThroughputTracker {
	return &ThroughputTracker{lastReset: time.Now()}
}

// Increment adds n to the current window.
func (t *ThroughputTracker) Increment(n int64) {
	t.mu.Lock()
	t.count += n
	t.mu.Unlock()
}

// GetAndReset returns the rate of the current window and starts a new one.
func (t *ThroughputTracker) GetAndReset() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := time.Since(t.lastReset).Seconds()
	if elapsed == 0 {
		return 0
	}
	rate := float64(t.count) / elapsed
	t.count = 0
	t.lastReset = time.Now()
	return rate
}

// Handler returns the /metrics handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr. It blocks until the server fails.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	logger.Info("metrics server listening", zap.String("addr", addr))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
