package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

const TracesFile = "traces.txt"

func newFileExporter(w io.Writer) (trace.SpanExporter, error) {
	return stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
		stdouttrace.WithoutTimestamps(),
	)
}

// newCollectorExporter sends spans to an OTLP/HTTP collector such as "localhost:4318"
func newCollectorExporter(endpoint string) (trace.SpanExporter, error) {
	endpoint = strings.TrimPrefix(endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	return otlptracehttp.New(
		context.Background(),
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithEndpoint(endpoint),
	)
}

func newResource(serviceName string) *resource.Resource {
	if name := os.Getenv("OTEL_SERVICE_NAME"); name != "" {
		serviceName = name
	}

	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion("0.1.0"),
	)
}

// NewProvider creates a tracer provider and installs it as the global one, together with the
// W3C trace context propagator. Spans go to the OTLP endpoint when set, otherwise to traces.txt.
//
// Returns a teardown func
func NewProvider(serviceName, endpoint string) func() {
	var (
		exp  trace.SpanExporter
		file *os.File
		err  error
	)

	if endpoint != "" {
		exp, err = newCollectorExporter(endpoint)
	} else {
		file, err = os.Create(TracesFile)
		if err != nil {
			slog.Error("Unable to create traces file", slog.Any("error", err))
			return func() {}
		}
		slog.Info("Using file-based tracing", slog.String("file", TracesFile))
		exp, err = newFileExporter(file)
	}

	if err != nil {
		slog.Error("Unable to create exporter", slog.Any("error", err))
		panic(err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(newResource(serviceName)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			slog.Error("unable to shutdown trace provider", slog.Any("error", err))
		}

		if file != nil {
			if err := file.Close(); err != nil {
				slog.Error("Unable to close traces file", slog.Any("error", err))
			}
		}
	}
}
