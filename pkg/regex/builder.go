package regex

import (
	"strings"

	"github.com/grafana/regexp"
	"github.com/grafana/regexp/syntax"
	"go.uber.org/zap"

	"github.com/ajitpratap0/rxpool/pkg/errors"
	"github.com/ajitpratap0/rxpool/pkg/logger"
	"github.com/ajitpratap0/rxpool/pkg/pool"
)

// Builder configures and compiles a Regex. The zero value is not usable;
// start from NewBuilder or FromConfig.
type Builder struct {
	config Config
}

// NewBuilder returns a builder with every option off.
func NewBuilder() *Builder {
	return &Builder{config: Config{Pool: pool.DefaultConfig()}}
}

// FromConfig returns a builder preset with cfg.
func FromConfig(cfg Config) *Builder {
	return &Builder{config: cfg}
}

// Caseless enables case-insensitive matching.
func (b *Builder) Caseless(yes bool) *Builder {
	b.config.Caseless = yes
	return b
}

// DotAll lets . match a newline.
func (b *Builder) DotAll(yes bool) *Builder {
	b.config.DotAll = yes
	return b
}

// Extended ignores unescaped whitespace and #-comments in the pattern.
func (b *Builder) Extended(yes bool) *Builder {
	b.config.Extended = yes
	return b
}

// MultiLine makes ^ and $ match at the start and end of each line.
func (b *Builder) MultiLine(yes bool) *Builder {
	b.config.MultiLine = yes
	return b
}

// Ungreedy makes quantifiers lazy by default.
func (b *Builder) Ungreedy(yes bool) *Builder {
	b.config.Ungreedy = yes
	return b
}

// Longest selects leftmost-longest instead of leftmost-first matching.
func (b *Builder) Longest(yes bool) *Builder {
	b.config.Longest = yes
	return b
}

// PoolRetries bounds the lock attempts of the scratch pool.
func (b *Builder) PoolRetries(n int) *Builder {
	b.config.Pool.Retries = n
	return b
}

// Build compiles pattern with the builder's options.
func (b *Builder) Build(pattern string) (*Regex, error) {
	cfg := b.config
	if cfg.Pool.Retries == 0 {
		cfg.Pool.Retries = pool.DefaultRetries
	}
	if err := cfg.Pool.Validate(); err != nil {
		return nil, err
	}

	expr := pattern
	if cfg.Extended {
		expr = stripExtended(expr)
	}
	if flags := cfg.flags(); flags != "" {
		expr = "(?" + flags + ")" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, compileError(pattern, err)
	}
	if cfg.Longest {
		re.Longest()
	}

	names := re.SubexpNames()
	index := make(map[string]int, len(names))
	for i, name := range names {
		if _, seen := index[name]; name != "" && !seen {
			index[name] = i
		}
	}

	slots := 2 * (re.NumSubexp() + 1)
	r := &Regex{
		pattern: pattern,
		config:  cfg,
		re:      re,
		names:   names,
		index:   index,
	}
	r.scratch = pool.New(
		func() MatchData { return newMatchData(slots) },
		pool.WithRetries(cfg.Pool.Retries),
		pool.WithName("regex"),
	)

	logger.Debug("regex compiled",
		zap.String("pattern", pattern),
		zap.String("flags", cfg.flags()),
		zap.Bool("extended", cfg.Extended),
		zap.Int("captures", len(names)),
	)
	return r, nil
}

// compileError wraps an engine error with the pattern and, when the
// engine names the offending fragment, its offset in the pattern.
func compileError(pattern string, err error) error {
	e := errors.Wrap(err, errors.ErrorTypeCompile, "invalid pattern").
		WithDetail("pattern", pattern)
	var serr *syntax.Error
	if errors.As(err, &serr) {
		if off := strings.Index(pattern, serr.Expr); off >= 0 {
			e = e.WithDetail("offset", off)
		}
	}
	return e
}

// Compile compiles pattern with default options.
func Compile(pattern string) (*Regex, error) {
	return NewBuilder().Build(pattern)
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}
