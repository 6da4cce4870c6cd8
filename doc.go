// Package rxpool provides a regular expression engine whose per-search
// scratch space comes from a goroutine-safe object pool, plus rxgrep, a
// parallel grep built on it.
//
// Compiled patterns are shared freely between goroutines. Each search
// borrows a MatchData value from the pattern's pool and returns it when
// done, so steady-state matching allocates nothing for scratch space.
//
// # Architecture
//
// The pool is organized around one observation: most programs search a
// given pattern from a single goroutine.
//
// 1. Owner slot: the first goroutine to take a value becomes the pool's
// owner. From then on its Get and Put are an atomic load and store.
//
// 2. Sharded stacks: every other goroutine maps to one of eight mutex
// guarded stacks by its goroutine ID. Locks are only ever tried, never
// waited on; after a bounded number of attempts the pool builds a
// throwaway value instead.
//
// 3. Guards: a value is handed out inside a Guard that must be released
// exactly once. Releasing twice, or using the value after release, panics.
//
// # Quick Start
//
// Match with a shared pattern:
//
//	import "github.com/ajitpratap0/rxpool/pkg/regex"
//
//	re := regex.MustCompile(`(?P<year>\d{4})-(?P<month>\d{2})`)
//	if caps, ok := re.Captures("released 2024-11"); ok {
//	    year, _ := caps.Name("year")
//	    fmt.Println(year)
//	}
//
// Pool your own scratch values:
//
//	import "github.com/ajitpratap0/rxpool/pkg/pool"
//
//	buffers := pool.New(func() *bytes.Buffer { return new(bytes.Buffer) })
//	g := buffers.Get()
//	defer g.Put()
//	buf := *g.Value()
//
// # Key Packages
//
//	pkg/pool          - Owner slot plus sharded scratch pool
//	pkg/regex         - Pattern compilation, search, substitution, split
//	pkg/compression   - Readers and writers for gzip, zstd, lz4, snappy, s2
//	pkg/config        - YAML and environment configuration
//	pkg/errors        - Structured error handling
//	pkg/logger        - Structured logging
//	pkg/metrics       - Prometheus collectors for pools and scans
//	pkg/observability - OpenTelemetry tracing
//	internal/threadid - Stable goroutine identifiers
//	internal/scan     - Parallel line scanner behind rxgrep
//
// # Command Line
//
//	rxgrep grep -i 'timeout after \d+ms' /var/log/app/*.log.gz
//	rxgrep replace '(\w+)@(\w+)' '$2 at $1' 'ann@home'
//	rxgrep stress --goroutines 64 --cycles 1000000
//
// # Configuration
//
// rxgrep reads an optional YAML file given with --config. Every key can
// be overridden from the environment with the RXPOOL_ prefix, for
// example RXPOOL_SCAN_WORKERS=4, and file values may reference the
// environment with ${VAR_NAME} syntax.
//
// # Development
//
// Run tests and benchmarks:
//
//	go test ./...
//	go test -race ./pkg/pool/...
//	go test -bench . ./pkg/pool/ ./pkg/regex/
package rxpool
