// Package observability sets up OpenTelemetry tracing for rxpool
package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/ajitpratap0/rxpool/pkg/errors"
	"github.com/ajitpratap0/rxpool/pkg/logger"
)

const instrumentationName = "github.com/ajitpratap0/rxpool"

var (
	mu     sync.RWMutex
	tracer trace.Tracer = noop.NewTracerProvider().Tracer(instrumentationName)
)

// TracingConfig contains tracing configuration
type TracingConfig struct {
	ServiceName    string  `yaml:"service_name" mapstructure:"service_name"`
	ServiceVersion string  `yaml:"service_version" mapstructure:"service_version"`
	Exporter       string  `yaml:"exporter" mapstructure:"exporter"` // "stdout" or "none"
	SamplingRate   float64 `yaml:"sampling_rate" mapstructure:"sampling_rate"`

	// Output receives stdout exporter output; nil means os.Stdout.
	Output io.Writer `yaml:"-" mapstructure:"-"`
}

// DefaultTracingConfig returns tracing switched off.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName:  "rxpool",
		Exporter:     "none",
		SamplingRate: 1.0,
	}
}

// Validate checks the exporter name and sampling rate.
func (c TracingConfig) Validate() error {
	switch c.Exporter {
	case "", "none", "stdout":
	default:
		return errors.New(errors.ErrorTypeConfig, "unknown tracing exporter").
			WithDetail("exporter", c.Exporter)
	}
	if c.SamplingRate < 0 || c.SamplingRate > 1 {
		return errors.New(errors.ErrorTypeConfig, "tracing sampling rate must be within [0, 1]").
			WithDetail("sampling_rate", c.SamplingRate)
	}
	return nil
}

// InitTracing installs the global tracer provider and returns a function
// that flushes and stops it. With the "none" exporter spans are no-ops.
func InitTracing(cfg TracingConfig) (func(context.Context) error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Exporter == "" || cfg.Exporter == "none" {
		setTracer(noop.NewTracerProvider().Tracer(instrumentationName))
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(out))
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	var sampler sdktrace.Sampler
	switch {
	case cfg.SamplingRate <= 0:
		sampler = sdktrace.NeverSample()
	case cfg.SamplingRate >= 1:
		sampler = sdktrace.AlwaysSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(cfg.SamplingRate)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(time.Second)),
	)
	otel.SetTracerProvider(tp)
	setTracer(tp.Tracer(instrumentationName))

	logger.Debug("tracing initialized",
		zap.String("exporter", cfg.Exporter),
		zap.Float64("sampling_rate", cfg.SamplingRate),
	)
	return tp.Shutdown, nil
}

func setTracer(t trace.Tracer) {
	mu.Lock()
	tracer = t
	mu.Unlock()
}

// Tracer returns the tracer installed by InitTracing.
func Tracer() trace.Tracer {
	mu.RLock()
	defer mu.RUnlock()
	return tracer
}

// Span wraps a trace span and batches attributes until End.
type Span struct {
	span       trace.Span
	startTime  time.Time
	attributes []attribute.KeyValue
}

// StartSpan starts a span named name as a child of ctx.
func StartSpan(ctx context.Context, name string) (context.Context, *Span) {
	ctx, span := Tracer().Start(ctx, name)
	return ctx, &Span{span: span, startTime: time.Now()}
}

// SetAttribute adds an attribute, set on the span when it ends.
func (s *Span) SetAttribute(key string, value interface{}) {
	var attr attribute.KeyValue
	switch v := value.(type) {
	case string:
		attr = attribute.String(key, v)
	case int:
		attr = attribute.Int(key, v)
	case int64:
		attr = attribute.Int64(key, v)
	case uint64:
		attr = attribute.Int64(key, int64(v))
	case float64:
		attr = attribute.Float64(key, v)
	case bool:
		attr = attribute.Bool(key, v)
	default:
		attr = attribute.String(key, fmt.Sprintf("%v", v))
	}
	s.attributes = append(s.attributes, attr)
}

// RecordError marks the span failed. A nil err marks it OK.
func (s *Span) RecordError(err error) {
	if err == nil {
		s.span.SetStatus(codes.Ok, "")
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// Elapsed returns the time since the span started.
func (s *Span) Elapsed() time.Duration {
	return time.Since(s.startTime)
}

// End flushes the batched attributes and ends the span.
func (s *Span) End() {
	if len(s.attributes) > 0 {
		s.span.SetAttributes(s.attributes...)
	}
	s.span.End()
}
