// Package embedding provides embedding vector generation for the knowledge
// cache. The Generator interface is the boundary the search pipeline
// consumes; providers for OpenAI and AWS Bedrock implement it, and wrappers
// add caching and circuit-breaker resilience.
package embedding

import (
	"context"
	"errors"
)

var (
	// ErrEmptyContent is returned when embedding generation is requested
	// for empty text.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrProviderUnavailable is returned when the upstream provider cannot
	// be reached or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")

	// ErrEmptyResponse is returned when the provider responds without an
	// embedding.
	ErrEmptyResponse = errors.New("provider returned no embedding")
)

// Generator turns a text query into a fixed-length embedding vector.
// Implementations are network-bound and may be slow or fail; callers must
// pass a context carrying their deadline.
type Generator interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// Stats reports the generator's own cache statistics. Generators
	// without a cache report zeros. These numbers are for logging only;
	// nothing consults them for control flow.
	Stats() CacheStats
}

// CacheStats describes a generator-side embedding cache.
type CacheStats struct {
	Size               int     `json:"size"`
	MaxSize            int     `json:"max_size"`
	UtilizationPercent float64 `json:"utilization_percent"`
}
