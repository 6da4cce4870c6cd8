package pool

import (
	"github.com/ajitpratap0/rxpool/internal/threadid"
	"github.com/ajitpratap0/rxpool/pkg/errors"
)

// DefaultRetries is how many times the slow path tries a shard's lock
// before giving up, both when taking a value and when returning one.
const DefaultRetries = 10

// Config holds the tunable knobs of a pool.
type Config struct {
	// Retries bounds the non-blocking lock attempts on a shard.
	Retries int `yaml:"retries" mapstructure:"retries" json:"retries"`
}

// DefaultConfig returns the configuration used by New.
func DefaultConfig() Config {
	return Config{Retries: DefaultRetries}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Retries < 1 {
		return errors.New(errors.ErrorTypeConfig, "pool retries must be at least 1").
			WithDetail("retries", c.Retries)
	}
	return nil
}

// Option customizes a pool.
type Option func(*options)

type options struct {
	name     string
	retries  int
	identity func() threadid.ID
}

func defaultOptions() options {
	return options{
		name:     "default",
		retries:  DefaultRetries,
		identity: threadid.Current,
	}
}

// WithRetries sets the bounded lock attempts. Values below 1 are ignored.
func WithRetries(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.retries = n
		}
	}
}

// WithName labels the pool in logs and metrics.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithIdentity replaces the goroutine identity source. The function must
// return the same non-sentinel ID for a caller across its lifetime and
// must never return one caller's ID to another caller.
func WithIdentity(fn func() threadid.ID) Option {
	return func(o *options) {
		if fn != nil {
			o.identity = fn
		}
	}
}
