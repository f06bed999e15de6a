package embedding

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/knowledge-mesh/knowledge-mesh/pkg/observability"
)

const defaultEmbeddingCacheSize = 1000

// CachedGenerator wraps a Generator with an in-memory LRU keyed by the exact
// query text. Identical queries skip the provider round trip entirely;
// near-identical queries still go through, semantic matching happens in the
// vector cache, not here.
type CachedGenerator struct {
	inner   Generator
	cache   *lru.Cache[string, []float32]
	maxSize int
	logger  observability.Logger
}

// NewCachedGenerator wraps inner with an LRU of the given size. Sizes below 1
// fall back to the default.
func NewCachedGenerator(inner Generator, size int, logger observability.Logger) (*CachedGenerator, error) {
	if size <= 0 {
		size = defaultEmbeddingCacheSize
	}
	if logger == nil {
		logger = observability.NewLogger("embedding.cached")
	}

	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, err
	}

	return &CachedGenerator{
		inner:   inner,
		cache:   cache,
		maxSize: size,
		logger:  logger,
	}, nil
}

// GenerateEmbedding returns the cached vector for text when present,
// otherwise delegates to the wrapped generator and caches the result.
// Returned slices are copies; callers may mutate them freely.
func (g *CachedGenerator) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := g.cache.Get(text); ok {
		g.logger.Debug("Embedding cache hit", map[string]interface{}{
			"query_length": len(text),
		})
		return append([]float32(nil), cached...), nil
	}

	vector, err := g.inner.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}

	g.cache.Add(text, append([]float32(nil), vector...))
	return vector, nil
}

// Stats reports the LRU's current occupancy.
func (g *CachedGenerator) Stats() CacheStats {
	size := g.cache.Len()
	return CacheStats{
		Size:               size,
		MaxSize:            g.maxSize,
		UtilizationPercent: float64(size) / float64(g.maxSize) * 100,
	}
}
