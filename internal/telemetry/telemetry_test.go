package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "dittokv", cfg.ServiceName)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestInitDisabled(t *testing.T) {
	ctx := context.Background()

	shutdown, err := Init(ctx, DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, shutdown(ctx))
	assert.False(t, IsEnabled())

	// no-op spans are usable and carry no ids
	ctx, span := StartSpan(ctx, "noop")
	defer span.End()
	assert.Empty(t, TraceID(ctx))
	assert.Empty(t, SpanID(ctx))
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}

// withRecorder swaps the package tracer for one recording spans in memory.
func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	rec := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	mu.Lock()
	prev := tracer
	tracer = provider.Tracer("test")
	mu.Unlock()

	t.Cleanup(func() {
		mu.Lock()
		tracer = prev
		mu.Unlock()
		_ = provider.Shutdown(context.Background())
	})
	return rec
}

func TestStartRegistrySpan(t *testing.T) {
	rec := withRecorder(t)

	ctx, span := StartRegistrySpan(context.Background(), SpanRegistryCreate, Alias("sessions"), Tier("heap"))
	assert.NotEmpty(t, TraceID(ctx))
	assert.NotEmpty(t, SpanID(ctx))

	SetAttributes(ctx, StoreTypes("string", "int64")...)
	AddEvent(ctx, "created", StoreCount(1))
	RecordError(ctx, errors.New("boom"))
	RecordError(ctx, nil)
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	s := ended[0]
	assert.Equal(t, SpanRegistryCreate, s.Name())
	assert.Contains(t, s.Attributes(), attribute.String(AttrAlias, "sessions"))
	assert.Contains(t, s.Attributes(), attribute.String(AttrKeyType, "string"))
	assert.Equal(t, "boom", s.Status().Description)

	var names []string
	for _, e := range s.Events() {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "created")
}

func TestProfiling(t *testing.T) {
	shutdown, err := InitProfiling(DefaultProfilingConfig())
	require.NoError(t, err)
	require.NoError(t, shutdown())
	assert.False(t, IsProfilingEnabled())

	assert.True(t, ValidProfileType("cpu"))
	assert.False(t, ValidProfileType("gpu"))

	cfg := DefaultProfilingConfig()
	cfg.Enabled = true
	cfg.ProfileTypes = []string{"gpu"}
	_, err = InitProfiling(cfg)
	assert.Error(t, err)
	assert.False(t, IsProfilingEnabled())
}
