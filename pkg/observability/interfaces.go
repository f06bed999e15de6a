// Package observability provides unified logging, metrics, and tracing for
// the knowledge cache. All components accept these interfaces rather than
// concrete implementations so hosts can plug in their own sinks.
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LogLevel defines log message severity
type LogLevel string

// Log levels
const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

// Logger defines the interface for structured logging. Implementations must
// never surface errors to callers; a failing sink drops the event.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})

	// WithPrefix returns a logger scoped to a component name.
	WithPrefix(prefix string) Logger
	// With returns a logger that attaches fields to every event.
	With(fields map[string]interface{}) Logger
}

// MetricsClient defines the interface for metrics collection
type MetricsClient interface {
	RecordCounter(name string, value float64, labels map[string]string)
	RecordGauge(name string, value float64, labels map[string]string)
	RecordHistogram(name string, value float64, labels map[string]string)
	RecordLatency(operation string, duration time.Duration)
	RecordCacheOperation(operation string, success bool, durationSeconds float64)
	IncrementCounterWithLabels(name string, value float64, labels map[string]string)

	// StartTimer returns a stop function that records the elapsed time.
	StartTimer(name string, labels map[string]string) func()

	Close() error
}

// Span represents a trace span
type Span interface {
	End()
	SetAttribute(key string, value interface{})
	RecordError(err error)
	SpanContext() trace.SpanContext
}

// TracingConfig holds the configuration for tracing
type TracingConfig struct {
	Enabled     bool   `json:"enabled" mapstructure:"enabled"`
	ServiceName string `json:"service_name,omitempty" mapstructure:"service_name"`
	Environment string `json:"environment,omitempty" mapstructure:"environment"`
	Endpoint    string `json:"endpoint,omitempty" mapstructure:"endpoint"`
}

// StartSpanFunc is a function that creates and starts a new span
type StartSpanFunc func(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, Span)
