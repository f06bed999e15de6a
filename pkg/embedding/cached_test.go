package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedGenerator_HitSkipsProvider(t *testing.T) {
	inner := NewMockGenerator(8)
	cached, err := NewCachedGenerator(inner, 10, nil)
	require.NoError(t, err)

	ctx := context.Background()

	first, err := cached.GenerateEmbedding(ctx, "what is a webhook")
	require.NoError(t, err)
	assert.Equal(t, int64(1), inner.Calls())

	second, err := cached.GenerateEmbedding(ctx, "what is a webhook")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), inner.Calls(), "identical query must not reach the provider again")

	_, err = cached.GenerateEmbedding(ctx, "what is a Webhook")
	require.NoError(t, err)
	assert.Equal(t, int64(2), inner.Calls(), "cache key is the exact text")
}

func TestCachedGenerator_ErrorsNotCached(t *testing.T) {
	inner := NewMockGenerator(8)
	inner.Err = errors.New("provider down")

	cached, err := NewCachedGenerator(inner, 10, nil)
	require.NoError(t, err)

	_, err = cached.GenerateEmbedding(context.Background(), "query")
	require.Error(t, err)

	inner.Err = nil
	vector, err := cached.GenerateEmbedding(context.Background(), "query")
	require.NoError(t, err)
	assert.NotEmpty(t, vector)
	assert.Equal(t, int64(2), inner.Calls())
}

func TestCachedGenerator_ReturnsCopies(t *testing.T) {
	inner := NewMockGenerator(4)
	inner.Fixed = []float32{1, 0, 0, 0}

	cached, err := NewCachedGenerator(inner, 10, nil)
	require.NoError(t, err)

	first, err := cached.GenerateEmbedding(context.Background(), "query")
	require.NoError(t, err)
	first[0] = 42

	second, err := cached.GenerateEmbedding(context.Background(), "query")
	require.NoError(t, err)
	assert.Equal(t, float32(1), second[0], "caller mutation must not reach the cache")
}

func TestCachedGenerator_Stats(t *testing.T) {
	inner := NewMockGenerator(4)
	cached, err := NewCachedGenerator(inner, 4, nil)
	require.NoError(t, err)

	stats := cached.Stats()
	assert.Equal(t, 0, stats.Size)
	assert.Equal(t, 4, stats.MaxSize)

	_, err = cached.GenerateEmbedding(context.Background(), "one")
	require.NoError(t, err)
	_, err = cached.GenerateEmbedding(context.Background(), "two")
	require.NoError(t, err)

	stats = cached.Stats()
	assert.Equal(t, 2, stats.Size)
	assert.InDelta(t, 50.0, stats.UtilizationPercent, 1e-9)
}

func TestCachedGenerator_EvictsOldest(t *testing.T) {
	inner := NewMockGenerator(4)
	cached, err := NewCachedGenerator(inner, 2, nil)
	require.NoError(t, err)

	ctx := context.Background()
	for _, text := range []string{"a", "b", "c"} {
		_, err = cached.GenerateEmbedding(ctx, text)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, cached.Stats().Size)

	// "a" was evicted, so it costs another provider call.
	calls := inner.Calls()
	_, err = cached.GenerateEmbedding(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, calls+1, inner.Calls())
}

func TestCachedGenerator_DefaultSize(t *testing.T) {
	cached, err := NewCachedGenerator(NewMockGenerator(4), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, defaultEmbeddingCacheSize, cached.Stats().MaxSize)
}
