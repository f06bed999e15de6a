package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// NoopSpan is a no-op implementation of the Span interface
type NoopSpan struct{}

// End is a no-op
func (s *NoopSpan) End() {}

// SetAttribute is a no-op
func (s *NoopSpan) SetAttribute(key string, value interface{}) {}

// RecordError is a no-op
func (s *NoopSpan) RecordError(err error) {}

// SpanContext returns an empty span context
func (s *NoopSpan) SpanContext() trace.SpanContext {
	return trace.SpanContext{}
}

// NoopStartSpan is a StartSpanFunc that records nothing
func NoopStartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, Span) {
	return ctx, &NoopSpan{}
}

// noopMetricsClient is a MetricsClient that records nothing
type noopMetricsClient struct{}

// NewNoopMetricsClient creates a metrics client that does nothing
func NewNoopMetricsClient() MetricsClient {
	return &noopMetricsClient{}
}

func (n *noopMetricsClient) RecordCounter(name string, value float64, labels map[string]string) {}

func (n *noopMetricsClient) RecordGauge(name string, value float64, labels map[string]string) {}

func (n *noopMetricsClient) RecordHistogram(name string, value float64, labels map[string]string) {}

func (n *noopMetricsClient) RecordLatency(operation string, duration time.Duration) {}

func (n *noopMetricsClient) RecordCacheOperation(operation string, success bool, durationSeconds float64) {
}

func (n *noopMetricsClient) IncrementCounterWithLabels(name string, value float64, labels map[string]string) {
}

func (n *noopMetricsClient) StartTimer(name string, labels map[string]string) func() {
	return func() {}
}

func (n *noopMetricsClient) Close() error { return nil }
