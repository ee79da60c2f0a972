package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

func TestResourceServiceName(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	res := newResource("ticktrack")
	v, ok := res.Set().Value(semconv.ServiceNameKey)
	require.True(t, ok)
	assert.Equal(t, "ticktrack", v.AsString())

	t.Setenv("OTEL_SERVICE_NAME", "ticktrack-staging")
	v, _ = newResource("ticktrack").Set().Value(attribute.Key("service.name"))
	assert.Equal(t, "ticktrack-staging", v.AsString())
}

func TestFileExporterWritesSpans(t *testing.T) {
	var buf bytes.Buffer
	exp, err := newFileExporter(&buf)
	require.NoError(t, err)

	tp := trace.NewTracerProvider(trace.WithSyncer(exp))
	_, span := tp.Tracer("test").Start(context.Background(), "GET /projects")
	span.End()
	require.NoError(t, tp.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), "GET /projects")
}
