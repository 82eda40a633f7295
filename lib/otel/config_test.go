package otel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestConfig_Validate(t *testing.T) {
	t.Run("disabled config is always valid", func(t *testing.T) {
		assert.NoError(t, Config{Enabled: false}.Validate())
	})
	t.Run("enabled requires service name", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Enabled = true
		cfg.ServiceName = ""
		assert.ErrorContains(t, cfg.Validate(), "service name is required")
	})
	t.Run("otlp requires endpoint", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Enabled = true
		cfg.Exporter.Type = "otlp"
		cfg.Exporter.OTLP.Endpoint = ""
		assert.ErrorContains(t, cfg.Validate(), "OTLP endpoint is required")
	})
	t.Run("unknown exporter type", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Enabled = true
		cfg.Exporter.Type = "jaeger"
		assert.ErrorContains(t, cfg.Validate(), "unsupported exporter type")
	})
	t.Run("stdout and none are valid", func(t *testing.T) {
		for _, exporterType := range []string{"stdout", "none"} {
			cfg := DefaultConfig()
			cfg.Enabled = true
			cfg.Exporter.Type = exporterType
			assert.NoError(t, cfg.Validate())
		}
	})
}

func TestInitialize(t *testing.T) {
	t.Run("disabled installs a provider without exporters", func(t *testing.T) {
		tp, err := Initialize(context.Background(), Config{Enabled: false})
		require.NoError(t, err)
		require.NotNil(t, tp)
		require.NoError(t, tp.Shutdown(context.Background()))
	})
	t.Run("none exporter", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Enabled = true
		cfg.Exporter.Type = "none"
		tp, err := Initialize(context.Background(), cfg)
		require.NoError(t, err)
		require.NoError(t, tp.Shutdown(context.Background()))
	})
}

func TestError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	tracer := tp.Tracer("test")

	t.Run("nil error is a no-op", func(t *testing.T) {
		_, span := tracer.Start(context.Background(), "op")
		require.NoError(t, Error(span, nil))
		span.End()
	})
	t.Run("error is recorded with status", func(t *testing.T) {
		exporter.Reset()
		_, span := tracer.Start(context.Background(), "op")
		err := errors.New("boom")
		require.Same(t, err, Error(span, err))
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
		assert.Equal(t, "boom", spans[0].Status.Description)
	})
	t.Run("explicit message overrides status description", func(t *testing.T) {
		exporter.Reset()
		_, span := tracer.Start(context.Background(), "op")
		Error(span, errors.New("boom"), "supplier call failed")
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, "supplier call failed", spans[0].Status.Description)
	})
}
