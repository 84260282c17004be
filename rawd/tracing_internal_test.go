package rawd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx/fxtest"
)

func TestNewExporter(t *testing.T) {
	ctx := context.Background()

	t.Run("stdout exporter", func(t *testing.T) {
		exp, err := newExporter(ctx, "stdout")
		require.NoError(t, err)
		require.NotNil(t, exp)
	})

	t.Run("unsupported exporter returns error", func(t *testing.T) {
		_, err := newExporter(ctx, "invalid")
		require.EqualError(t, err,
			`unsupported RAWHTTP_OTEL_EXPORTER: "invalid" (supported: none, stdout, xrayudp)`)
	})
}

func TestNewResource(t *testing.T) {
	res := newResource("my-service")

	found := false
	for _, attr := range res.Attributes() {
		if string(attr.Key) == "service.name" && attr.Value.AsString() == "my-service" {
			found = true
		}
	}
	assert.True(t, found, "expected service.name attribute in resource")
}

func TestNewTracerProvider(t *testing.T) {
	t.Run("none is a noop provider", func(t *testing.T) {
		lc := fxtest.NewLifecycle(t)
		tp, err := NewTracerProvider(lc, Environment{OtelExporter: "none"})
		require.NoError(t, err)
		assert.IsType(t, noop.TracerProvider{}, tp)
	})

	t.Run("stdout is shut down with the app", func(t *testing.T) {
		lc := fxtest.NewLifecycle(t)
		tp, err := NewTracerProvider(lc, Environment{OtelExporter: "stdout", ServiceName: "svc"})
		require.NoError(t, err)
		require.IsType(t, &sdktrace.TracerProvider{}, tp)

		lc.RequireStart()
		lc.RequireStop()

		// a stopped provider hands out non-recording spans
		_, span := tp.Tracer("test").Start(context.Background(), "after-stop")
		assert.False(t, span.IsRecording())
	})

	t.Run("unsupported exporter", func(t *testing.T) {
		_, err := NewTracerProvider(fxtest.NewLifecycle(t), Environment{OtelExporter: "zipkin"})
		require.Error(t, err)
	})
}

func TestNewPropagator(t *testing.T) {
	assert.IsType(t, xray.Propagator{}, NewPropagator(Environment{OtelExporter: "xrayudp"}))

	fields := NewPropagator(Environment{OtelExporter: "stdout"}).Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
}
