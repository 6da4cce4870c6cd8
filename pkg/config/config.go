package config

import (
	"runtime"

	"go.uber.org/zap/zapcore"

	"github.com/ajitpratap0/rxpool/pkg/compression"
	"github.com/ajitpratap0/rxpool/pkg/errors"
	"github.com/ajitpratap0/rxpool/pkg/logger"
	"github.com/ajitpratap0/rxpool/pkg/observability"
	"github.com/ajitpratap0/rxpool/pkg/pool"
	"github.com/ajitpratap0/rxpool/pkg/regex"
)

// Config is the root of rxpool's configuration.
type Config struct {
	Log     logger.Config               `yaml:"log" mapstructure:"log"`
	Pool    pool.Config                 `yaml:"pool" mapstructure:"pool"`
	Regex   RegexConfig                 `yaml:"regex" mapstructure:"regex"`
	Scan    ScanConfig                  `yaml:"scan" mapstructure:"scan"`
	Metrics MetricsConfig               `yaml:"metrics" mapstructure:"metrics"`
	Tracing observability.TracingConfig `yaml:"tracing" mapstructure:"tracing"`
}

// RegexConfig holds the default compile flags.
type RegexConfig struct {
	Caseless  bool `yaml:"caseless" mapstructure:"caseless"`
	DotAll    bool `yaml:"dotall" mapstructure:"dotall"`
	Extended  bool `yaml:"extended" mapstructure:"extended"`
	MultiLine bool `yaml:"multi_line" mapstructure:"multi_line"`
	Ungreedy  bool `yaml:"ungreedy" mapstructure:"ungreedy"`
	Longest   bool `yaml:"longest" mapstructure:"longest"`
}

// ScanConfig tunes the parallel scanner.
type ScanConfig struct {
	// Workers is the number of scanning goroutines.
	Workers int `yaml:"workers" mapstructure:"workers"`
	// MaxLineBytes is the longest line the scanner accepts.
	MaxLineBytes int `yaml:"max_line_bytes" mapstructure:"max_line_bytes"`
	// Compression is "auto" to detect per input, or a fixed algorithm.
	Compression string `yaml:"compression" mapstructure:"compression"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Addr    string `yaml:"addr" mapstructure:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log:  logger.DefaultConfig(),
		Pool: pool.DefaultConfig(),
		Scan: ScanConfig{
			Workers:      runtime.NumCPU(),
			MaxLineBytes: 1 << 20,
			Compression:  "auto",
		},
		Metrics: MetricsConfig{Addr: ":9090"},
		Tracing: observability.DefaultTracingConfig(),
	}
}

// RegexOptions merges the regex flags with the pool settings.
func (c *Config) RegexOptions() regex.Config {
	return regex.Config{
		Caseless:  c.Regex.Caseless,
		DotAll:    c.Regex.DotAll,
		Extended:  c.Regex.Extended,
		MultiLine: c.Regex.MultiLine,
		Ungreedy:  c.Regex.Ungreedy,
		Longest:   c.Regex.Longest,
		Pool:      c.Pool,
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid log level").
			WithDetail("level", c.Log.Level)
	}
	if err := c.Pool.Validate(); err != nil {
		return err
	}
	if c.Scan.Workers < 1 {
		return errors.New(errors.ErrorTypeConfig, "scan workers must be at least 1").
			WithDetail("workers", c.Scan.Workers)
	}
	if c.Scan.MaxLineBytes < 1 {
		return errors.New(errors.ErrorTypeConfig, "scan max_line_bytes must be positive").
			WithDetail("max_line_bytes", c.Scan.MaxLineBytes)
	}
	if c.Scan.Compression != "auto" {
		if _, err := compression.ParseAlgorithm(c.Scan.Compression); err != nil {
			return errors.Wrap(err, errors.ErrorTypeConfig, "invalid scan compression")
		}
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return errors.New(errors.ErrorTypeConfig, "metrics enabled without an address")
	}
	return c.Tracing.Validate()
}
