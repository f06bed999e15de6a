package observability

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	original := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(original)
	fn()
	return buf.String()
}

func TestStandardLogger_LevelFiltering(t *testing.T) {
	logger := NewLoggerWithLevel("test", LogLevelWarn)

	out := captureLog(t, func() {
		logger.Debug("debug message", nil)
		logger.Info("info message", nil)
		logger.Warn("warn message", nil)
		logger.Error("error message", nil)
	})

	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestStandardLogger_FieldsSorted(t *testing.T) {
	logger := NewLogger("test")

	out := captureLog(t, func() {
		logger.Info("event", map[string]interface{}{
			"zebra": 1,
			"alpha": 2,
			"mike":  3,
		})
	})

	assert.Contains(t, out, "alpha=2 mike=3 zebra=1")
}

func TestStandardLogger_With(t *testing.T) {
	logger := NewLogger("test").With(map[string]interface{}{
		"tenant_id": "t-1",
	})

	out := captureLog(t, func() {
		logger.Info("event", map[string]interface{}{"extra": "x"})
	})

	assert.Contains(t, out, "tenant_id=t-1")
	assert.Contains(t, out, "extra=x")

	// Attached fields must not leak back into the parent.
	parent := NewLogger("test")
	child := parent.With(map[string]interface{}{"k": "v"})
	out = captureLog(t, func() {
		parent.Info("parent event", nil)
	})
	assert.NotContains(t, out, "k=v")
	_ = child
}

func TestStandardLogger_WithPrefix(t *testing.T) {
	logger := NewLogger("original").WithPrefix("renamed")

	out := captureLog(t, func() {
		logger.Info("event", nil)
	})

	assert.Contains(t, out, "[renamed]")
	assert.NotContains(t, out, "[original]")
}
