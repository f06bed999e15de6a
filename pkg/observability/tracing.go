package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// otelSpan wraps an OpenTelemetry span to implement the Span interface
type otelSpan struct {
	span trace.Span
}

// End completes the span
func (o *otelSpan) End() {
	o.span.End()
}

// SetAttribute attaches a typed attribute to the span
func (o *otelSpan) SetAttribute(key string, value interface{}) {
	switch v := value.(type) {
	case string:
		o.span.SetAttributes(attribute.String(key, v))
	case int:
		o.span.SetAttributes(attribute.Int(key, v))
	case int64:
		o.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		o.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		o.span.SetAttributes(attribute.Bool(key, v))
	default:
		o.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

// RecordError records an error on the span
func (o *otelSpan) RecordError(err error) {
	o.span.RecordError(err)
}

// SpanContext returns the underlying span context
func (o *otelSpan) SpanContext() trace.SpanContext {
	return o.span.SpanContext()
}

var (
	tracingMu      sync.RWMutex
	tracingEnabled bool
)

// InitTracing initializes OpenTelemetry tracing with an OTLP gRPC exporter.
// It returns a shutdown function that flushes pending spans.
func InitTracing(cfg TracingConfig) (func(), error) {
	if !cfg.Enabled {
		return func() {}, nil
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "localhost:4317"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	tracingMu.Lock()
	tracingEnabled = true
	tracingMu.Unlock()

	return func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = provider.Shutdown(shutdownCtx)

		tracingMu.Lock()
		tracingEnabled = false
		tracingMu.Unlock()
	}, nil
}

// StartSpan starts a span if tracing is initialized, otherwise returns a
// no-op span. Safe to call from any component without configuration.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, Span) {
	tracingMu.RLock()
	enabled := tracingEnabled
	tracingMu.RUnlock()

	if !enabled {
		return ctx, &NoopSpan{}
	}

	tracer := otel.Tracer("knowledge-mesh")
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, &otelSpan{span: span}
}
