package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracingConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultTracingConfig().Validate())

	cfg := DefaultTracingConfig()
	cfg.Exporter = "jaeger"
	assert.Error(t, cfg.Validate())

	cfg = DefaultTracingConfig()
	cfg.SamplingRate = 1.5
	assert.Error(t, cfg.Validate())

	_, err := InitTracing(TracingConfig{Exporter: "zipkin"})
	assert.Error(t, err)
}

func TestNoneExporterIsNoop(t *testing.T) {
	shutdown, err := InitTracing(DefaultTracingConfig())
	require.NoError(t, err)

	_, span := StartSpan(context.Background(), "noop")
	span.SetAttribute("k", "v")
	span.End()
	assert.False(t, span.span.SpanContext().IsValid())
	assert.NoError(t, shutdown(context.Background()))
}

func TestStdoutExporterWritesSpans(t *testing.T) {
	var out bytes.Buffer
	shutdown, err := InitTracing(TracingConfig{
		ServiceName:  "rxpool-test",
		Exporter:     "stdout",
		SamplingRate: 1,
		Output:       &out,
	})
	require.NoError(t, err)

	ctx, parent := StartSpan(context.Background(), "scan")
	parent.SetAttribute("file", "app.log")
	parent.SetAttribute("lines", 42)
	parent.SetAttribute("matches", uint64(7))
	parent.SetAttribute("other", struct{}{})

	_, child := StartSpan(ctx, "scan.file")
	child.RecordError(errors.New("boom"))
	child.End()
	parent.RecordError(nil)
	assert.GreaterOrEqual(t, parent.Elapsed().Nanoseconds(), int64(0))
	parent.End()

	assert.True(t, parent.span.SpanContext().IsValid())
	assert.Equal(t, parent.span.SpanContext().TraceID(), child.span.SpanContext().TraceID())

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, out.String(), `"Name":"scan.file"`)
	assert.Contains(t, out.String(), "app.log")
	assert.Contains(t, out.String(), "boom")

	_, err = InitTracing(DefaultTracingConfig())
	require.NoError(t, err)
}
