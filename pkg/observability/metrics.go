package observability

import (
	"sync"
	"time"
)

// metricsClient is the default in-process MetricsClient. It keeps running
// counter and gauge values in memory so tests and diagnostics can read them
// back; histograms record only observation counts.
type metricsClient struct {
	mu       sync.Mutex
	counters map[string]float64
	gauges   map[string]float64
}

// NewMetricsClient creates the default in-process metrics client.
func NewMetricsClient() MetricsClient {
	return &metricsClient{
		counters: make(map[string]float64),
		gauges:   make(map[string]float64),
	}
}

// RecordCounter increments a counter metric
func (m *metricsClient) RecordCounter(name string, value float64, labels map[string]string) {
	m.mu.Lock()
	m.counters[name] += value
	m.mu.Unlock()
}

// RecordGauge sets a gauge metric
func (m *metricsClient) RecordGauge(name string, value float64, labels map[string]string) {
	m.mu.Lock()
	m.gauges[name] = value
	m.mu.Unlock()
}

// RecordHistogram records a histogram observation
func (m *metricsClient) RecordHistogram(name string, value float64, labels map[string]string) {
	m.mu.Lock()
	m.counters[name+".observations"]++
	m.mu.Unlock()
}

// RecordLatency records a latency metric for an operation
func (m *metricsClient) RecordLatency(operation string, duration time.Duration) {
	m.RecordHistogram(operation+"_latency_seconds", duration.Seconds(), nil)
}

// RecordCacheOperation records a cache operation with its outcome
func (m *metricsClient) RecordCacheOperation(operation string, success bool, durationSeconds float64) {
	status := "success"
	if !success {
		status = "failure"
	}
	m.RecordCounter("cache.operations_total", 1, map[string]string{
		"operation": operation,
		"status":    status,
	})
	m.RecordHistogram("cache.operation_duration_seconds", durationSeconds, map[string]string{
		"operation": operation,
	})
}

// IncrementCounterWithLabels increments a counter metric with labels
func (m *metricsClient) IncrementCounterWithLabels(name string, value float64, labels map[string]string) {
	m.RecordCounter(name, value, labels)
}

// StartTimer returns a stop function that records the elapsed time
func (m *metricsClient) StartTimer(name string, labels map[string]string) func() {
	start := time.Now()
	return func() {
		m.RecordHistogram(name, time.Since(start).Seconds(), labels)
	}
}

// Close releases resources held by the client
func (m *metricsClient) Close() error {
	return nil
}

// CounterValue returns the current value of a counter. Intended for tests.
func (m *metricsClient) CounterValue(name string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name]
}

// GaugeValue returns the current value of a gauge. Intended for tests.
func (m *metricsClient) GaugeValue(name string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gauges[name]
}
