// Package scan matches a regex against many inputs line by line on a
// fixed set of worker goroutines that share one compiled regex.
package scan

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/rxpool/pkg/compression"
	"github.com/ajitpratap0/rxpool/pkg/errors"
	"github.com/ajitpratap0/rxpool/pkg/logger"
	"github.com/ajitpratap0/rxpool/pkg/metrics"
	"github.com/ajitpratap0/rxpool/pkg/observability"
	"github.com/ajitpratap0/rxpool/pkg/regex"
)

// ctxCheckLines is how often a worker looks for cancellation.
const ctxCheckLines = 1024

// Input is one named source of lines.
type Input struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FileInput reads path, decompressing it with alg. "auto" or "" picks the
// algorithm from the file name and contents.
func FileInput(path, alg string) Input {
	return Input{
		Name: path,
		Open: func() (io.ReadCloser, error) {
			if alg == "" || alg == "auto" {
				rc, _, err := compression.Open(path)
				return rc, err
			}
			a, err := compression.ParseAlgorithm(alg)
			if err != nil {
				return nil, err
			}
			f, err := os.Open(path)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeFile, "open input").WithDetail("path", path)
			}
			rc, err := compression.NewReader(f, a)
			if err != nil {
				f.Close()
				return nil, err
			}
			return struct {
				io.Reader
				io.Closer
			}{rc, closeBoth{rc, f}}, nil
		},
	}
}

type closeBoth [2]io.Closer

func (c closeBoth) Close() error {
	err := c[0].Close()
	if cerr := c[1].Close(); err == nil {
		err = cerr
	}
	return err
}

// ReaderInput scans r, which is not closed.
func ReaderInput(name string, r io.Reader) Input {
	return Input{
		Name: name,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(r), nil },
	}
}

// Options tune a Scanner.
type Options struct {
	// Workers is the number of scanning goroutines; 0 means one.
	Workers int
	// OnlyMatching fills Result.Matches with every match on the line.
	OnlyMatching bool
	// Invert selects lines that do not match.
	Invert bool
	// Count suppresses per-line results; only the Summary is filled.
	Count bool
	// MaxCount stops an input after that many selected lines; 0 means no limit.
	MaxCount int
	// MaxLineBytes bounds line length; 0 means bufio's default.
	MaxLineBytes int
	// Source labels the scan metrics.
	Source string
}

// Result is one selected line.
type Result struct {
	Source  string        `json:"source"`
	Line    int           `json:"line"`
	Text    string        `json:"text"`
	Matches []regex.Match `json:"-"`
}

// Summary totals a run.
type Summary struct {
	Inputs  int
	Lines   int64
	Matched int64
	// Counts maps each scanned input to its number of selected lines.
	Counts map[string]int64
	// Failed maps inputs that could not be read to their error.
	Failed map[string]error
}

// Scanner runs a regex over inputs.
type Scanner struct {
	re   *regex.Regex
	opts Options
	log  *zap.Logger
}

// New creates a scanner.
func New(re *regex.Regex, opts Options) *Scanner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Source == "" {
		opts.Source = "default"
	}
	return &Scanner{
		re:   re,
		opts: opts,
		log:  logger.With(zap.String("pattern", re.String())),
	}
}

// Run scans inputs and calls emit for every selected line. emit is never
// called concurrently, and the lines of one input arrive in order. Inputs
// that fail are recorded in the summary; Run itself only fails when ctx
// is cancelled.
func (s *Scanner) Run(ctx context.Context, inputs []Input, emit func(Result)) (Summary, error) {
	sum := Summary{
		Counts: make(map[string]int64, len(inputs)),
		Failed: make(map[string]error),
	}
	var mu sync.Mutex
	safeEmit := func(r Result) {
		mu.Lock()
		emit(r)
		mu.Unlock()
	}

	jobs := make(chan Input)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for _, in := range inputs {
			select {
			case jobs <- in:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	start := time.Now()
	s.log.Debug("scan started", zap.Int("inputs", len(inputs)), zap.Int("workers", s.opts.Workers))

	for w := 0; w < s.opts.Workers; w++ {
		g.Go(func() error {
			for in := range jobs {
				st, err := s.scanInput(gctx, in, safeEmit)

				mu.Lock()
				sum.Inputs++
				sum.Lines += st.lines
				sum.Matched += st.selected
				if err != nil {
					sum.Failed[in.Name] = err
				} else {
					sum.Counts[in.Name] = st.selected
				}
				mu.Unlock()

				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				if err != nil {
					s.log.Warn("input failed", zap.String("file", in.Name), zap.Error(err))
				}
			}
			return nil
		})
	}

	err := g.Wait()
	s.log.Debug("scan finished",
		zap.Int("inputs", sum.Inputs),
		zap.Int64("lines", sum.Lines),
		zap.Int64("matched", sum.Matched),
		zap.Duration("took", time.Since(start)),
		zap.Object("pool", s.re.PoolStats()),
	)
	return sum, err
}

type inputStats struct {
	lines    int64
	selected int64
}

func (s *Scanner) scanInput(ctx context.Context, in Input, emit func(Result)) (st inputStats, err error) {
	ctx, span := observability.StartSpan(ctx, "scan.input")
	span.SetAttribute("file", in.Name)
	timer := metrics.NewTimer(in.Name)
	defer func() {
		span.SetAttribute("lines", st.lines)
		span.SetAttribute("selected", st.selected)
		span.RecordError(err)
		span.End()
		metrics.LinesScanned.WithLabelValues(s.opts.Source).Add(float64(st.lines))
		metrics.Matches.WithLabelValues(s.opts.Source).Add(float64(st.selected))
		metrics.ScanDuration.WithLabelValues(s.opts.Source).Observe(timer.Stop().Seconds())
	}()

	rc, err := in.Open()
	if err != nil {
		return st, err
	}
	defer rc.Close()

	sc := bufio.NewScanner(rc)
	if s.opts.MaxLineBytes > 0 {
		sc.Buffer(make([]byte, 0, min(64<<10, s.opts.MaxLineBytes)), s.opts.MaxLineBytes)
	}

	for sc.Scan() {
		st.lines++
		if st.lines%ctxCheckLines == 0 {
			if err := ctx.Err(); err != nil {
				return st, err
			}
		}

		line := sc.Text()
		res, selected := s.matchLine(line)
		if !selected {
			continue
		}
		st.selected++
		if !s.opts.Count {
			res.Source = in.Name
			res.Line = int(st.lines)
			emit(res)
		}
		if s.opts.MaxCount > 0 && st.selected >= int64(s.opts.MaxCount) {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return st, errors.Wrap(err, errors.ErrorTypeData, "read input").WithDetail("file", in.Name)
	}
	return st, nil
}

func (s *Scanner) matchLine(line string) (Result, bool) {
	if !s.opts.OnlyMatching || s.opts.Invert {
		if s.re.IsMatch(line) == s.opts.Invert {
			return Result{}, false
		}
		return Result{Text: line}, true
	}
	var matches []regex.Match
	for m := range s.re.FindIter(line) {
		matches = append(matches, m)
	}
	if len(matches) == 0 {
		return Result{}, false
	}
	return Result{Text: line, Matches: matches}, true
}
