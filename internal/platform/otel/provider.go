// Package otel installs the tracer provider behind the pipeline stage spans.
// Without a configured collector the global no-op provider stays in place
// and spans cost nothing.
package otel

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Environment variables read by Setup.
const (
	EnvEndpoint = "HYDROMAP_OTEL_ENDPOINT"
	EnvEnabled  = "HYDROMAP_OTEL_ENABLED"
)

// Endpoint returns the OTLP/HTTP collector URL spans go to. It reports false
// when no URL is set or tracing is switched off with EnvEnabled=false.
func Endpoint() (string, bool) {
	if strings.EqualFold(strings.TrimSpace(os.Getenv(EnvEnabled)), "false") {
		return "", false
	}
	url := strings.TrimSpace(os.Getenv(EnvEndpoint))
	return url, url != ""
}

// Setup exports stage spans for serviceName when Endpoint reports a
// collector. The returned function flushes and stops the exporter; it is a
// no-op when tracing is off.
func Setup(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	url, ok := Endpoint()
	if !ok {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(url))
	if err != nil {
		return noop, err
	}
	res := resource.NewSchemaless(semconv.ServiceName(serviceName))
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}
