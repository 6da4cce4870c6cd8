package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/rxpool/internal/scan"
	"github.com/ajitpratap0/rxpool/pkg/json"
	"github.com/ajitpratap0/rxpool/pkg/logger"
	"github.com/ajitpratap0/rxpool/pkg/metrics"
	"github.com/ajitpratap0/rxpool/pkg/observability"
)

// errNoMatch makes rxgrep exit with status 1, like grep.
var errNoMatch = errors.New("no match")

type grepFlags struct {
	rx           regexFlags
	count        bool
	onlyMatching bool
	invert       bool
	maxCount     int
	json         bool
	workers      int
	metricsAddr  string
	trace        bool
}

// jsonResult is the --json line format.
type jsonResult struct {
	Source  string   `json:"source"`
	Line    int      `json:"line"`
	Text    string   `json:"text"`
	Matches []string `json:"matches,omitempty"`
}

func newGrepCommand(a *app) *cobra.Command {
	f := &grepFlags{}
	cmd := &cobra.Command{
		Use:   "grep PATTERN [FILES...]",
		Short: "Print lines matching PATTERN",
		Long: `Print lines matching PATTERN from each FILE, or standard input when no
FILE is given. Compressed files (gzip, zstd, lz4, snappy, s2) are
decompressed on the fly.

Example:
  rxgrep grep -i 'error\s+\d+' app.log app.log.1.gz`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGrep(cmd, f, args[0], args[1:])
		},
	}

	fl := cmd.Flags()
	f.rx.register(fl)
	fl.BoolVarP(&f.count, "count", "c", false, "Print only a count of selected lines per input")
	fl.BoolVarP(&f.onlyMatching, "only-matching", "o", false, "Print only the matched parts of each line")
	fl.BoolVarP(&f.invert, "invert-match", "v", false, "Select non-matching lines")
	fl.IntVar(&f.maxCount, "max-count", 0, "Stop reading an input after this many selected lines")
	fl.BoolVar(&f.json, "json", false, "Print results as JSON lines")
	fl.IntVar(&f.workers, "workers", 0, "Number of scanning goroutines (default from config)")
	fl.StringVar(&f.metricsAddr, "metrics-addr", "", "Expose Prometheus metrics on this address while scanning")
	fl.BoolVar(&f.trace, "trace", false, "Write OpenTelemetry spans to standard error")
	return cmd
}

func (a *app) runGrep(cmd *cobra.Command, f *grepFlags, pattern string, files []string) error {
	re, err := a.compile(cmd, pattern, &f.rx)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if f.trace {
		tc := a.cfg.Tracing
		tc.Exporter = "stdout"
		tc.Output = cmd.ErrOrStderr()
		a.cfg.Tracing = tc
	}
	shutdown, err := observability.InitTracing(a.cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	addr := f.metricsAddr
	if addr == "" && a.cfg.Metrics.Enabled {
		addr = a.cfg.Metrics.Addr
	}
	if addr != "" {
		prometheus.MustRegister(metrics.NewPoolCollector("grep", re))
		go func() {
			if err := metrics.Serve(addr); err != nil {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	workers := a.cfg.Scan.Workers
	if f.workers > 0 {
		workers = f.workers
	}

	var inputs []scan.Input
	for _, path := range files {
		inputs = append(inputs, scan.FileInput(path, a.cfg.Scan.Compression))
	}
	if len(inputs) == 0 {
		inputs = append(inputs, scan.ReaderInput("(standard input)", cmd.InOrStdin()))
	}

	s := scan.New(re, scan.Options{
		Workers:      workers,
		OnlyMatching: f.onlyMatching,
		Invert:       f.invert,
		Count:        f.count,
		MaxCount:     f.maxCount,
		MaxLineBytes: a.cfg.Scan.MaxLineBytes,
		Source:       "grep",
	})

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	p := &printer{w: out, json: f.json, onlyMatching: f.onlyMatching, prefix: len(inputs) > 1}

	sum, err := s.Run(ctx, inputs, p.print)
	if err != nil {
		return err
	}
	if f.count {
		for _, in := range inputs {
			if n, ok := sum.Counts[in.Name]; ok {
				p.printCount(in.Name, n)
			}
		}
	}
	for name, ferr := range sum.Failed {
		fmt.Fprintf(cmd.ErrOrStderr(), "rxgrep: %s: %v\n", name, ferr)
	}
	if p.err != nil {
		return p.err
	}
	if sum.Matched == 0 {
		return errNoMatch
	}
	return nil
}

// printer formats scan results. Scanner.Run serializes calls to print.
type printer struct {
	w            io.Writer
	json         bool
	onlyMatching bool
	prefix       bool
	err          error
}

func (p *printer) print(r scan.Result) {
	if p.err != nil {
		return
	}
	if p.json {
		jr := jsonResult{Source: r.Source, Line: r.Line, Text: r.Text}
		for _, m := range r.Matches {
			jr.Matches = append(jr.Matches, m.String())
		}
		p.err = json.NewLineEncoder(p.w).Encode(jr)
		return
	}
	if p.onlyMatching && len(r.Matches) > 0 {
		for _, m := range r.Matches {
			p.line(r.Source, m.String())
		}
		return
	}
	p.line(r.Source, r.Text)
}

func (p *printer) line(source, text string) {
	var err error
	if p.prefix {
		_, err = fmt.Fprintf(p.w, "%s:%s\n", source, text)
	} else {
		_, err = fmt.Fprintln(p.w, text)
	}
	if err != nil && p.err == nil {
		p.err = err
	}
}

func (p *printer) printCount(source string, n int64) {
	if p.json {
		p.err = json.NewLineEncoder(p.w).Encode(map[string]interface{}{"source": source, "count": n})
		return
	}
	p.line(source, fmt.Sprint(n))
}
