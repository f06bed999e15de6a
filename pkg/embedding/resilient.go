package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/knowledge-mesh/knowledge-mesh/pkg/observability"
)

// ResilientGenerator wraps a Generator with a circuit breaker so a failing
// provider stops being hammered. While the breaker is open, calls fail fast
// with ErrProviderUnavailable.
type ResilientGenerator struct {
	inner   Generator
	breaker *gobreaker.CircuitBreaker
	logger  observability.Logger
}

// BreakerConfig tunes the circuit breaker.
type BreakerConfig struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
}

// NewResilientGenerator wraps inner with a circuit breaker. Zero config
// values get production defaults.
func NewResilientGenerator(inner Generator, config BreakerConfig, logger observability.Logger) *ResilientGenerator {
	if config.Name == "" {
		config.Name = "embedding"
	}
	if config.MaxRequests == 0 {
		config.MaxRequests = 5
	}
	if config.Interval == 0 {
		config.Interval = 30 * time.Second
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.FailureRatio == 0 {
		config.FailureRatio = 0.5
	}
	if logger == nil {
		logger = observability.NewLogger("embedding.resilient")
	}

	settings := gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= config.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	}

	return &ResilientGenerator{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// GenerateEmbedding delegates to the wrapped generator through the breaker.
func (g *ResilientGenerator) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.inner.GenerateEmbedding(ctx, text)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("%w: circuit breaker open", ErrProviderUnavailable)
		}
		return nil, err
	}

	vector, ok := result.([]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected result type %T from breaker", result)
	}
	return vector, nil
}

// Stats delegates to the wrapped generator.
func (g *ResilientGenerator) Stats() CacheStats {
	return g.inner.Stats()
}
