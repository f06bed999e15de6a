package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-mesh/knowledge-mesh/pkg/auth"
	"github.com/knowledge-mesh/knowledge-mesh/pkg/cache"
	"github.com/knowledge-mesh/knowledge-mesh/pkg/embedding"
	"github.com/knowledge-mesh/knowledge-mesh/pkg/models"
)

func tenantContext(t *testing.T) (context.Context, uuid.UUID) {
	t.Helper()
	tenantID := uuid.New()
	return auth.WithTenantID(context.Background(), tenantID), tenantID
}

func readyCache(t *testing.T, tenantID uuid.UUID) *cache.VectorCache {
	t.Helper()
	c, err := cache.New(tenantID, "kb-test", nil, nil, nil)
	require.NoError(t, err)

	vectors := []models.KnowledgeVector{
		{Item: models.KnowledgeItem{ID: "exact", Title: "Exact match"}, Vector: []float32{0.6, 0.8, 0, 0}},
		{Item: models.KnowledgeItem{ID: "near", Title: "Near match"}, Vector: []float32{0.8, 0.6, 0, 0}},
		{Item: models.KnowledgeItem{ID: "far", Title: "Unrelated"}, Vector: []float32{0, 0, 1, 0}},
	}
	_, err = c.Initialize(context.Background(), vectors)
	require.NoError(t, err)
	return c
}

func newTestPipeline(t *testing.T, tenantID uuid.UUID, generator embedding.Generator) *Pipeline {
	t.Helper()
	return NewPipeline(readyCache(t, tenantID), generator, Thresholds{}, nil, nil)
}

func TestExecute_Validation(t *testing.T) {
	ctx, tenantID := tenantContext(t)
	generator := embedding.NewMockGenerator(4)
	pipeline := newTestPipeline(t, tenantID, generator)

	tests := []struct {
		name    string
		ctx     context.Context
		req     Request
		wantErr error
	}{
		{
			name:    "empty query",
			ctx:     ctx,
			req:     Request{Query: ""},
			wantErr: ErrEmptyQuery,
		},
		{
			name:    "whitespace query",
			ctx:     ctx,
			req:     Request{Query: "   \t\n"},
			wantErr: ErrEmptyQuery,
		},
		{
			name:    "missing tenant context",
			ctx:     context.Background(),
			req:     Request{Query: "how do I configure webhooks"},
			wantErr: ErrMissingContext,
		},
		{
			name:    "max results too high",
			ctx:     ctx,
			req:     Request{Query: "query", MaxResults: 51},
			wantErr: ErrInvalidParameter,
		},
		{
			name:    "max results negative",
			ctx:     ctx,
			req:     Request{Query: "query", MaxResults: -2},
			wantErr: ErrInvalidParameter,
		},
		{
			name:    "relevance score above one",
			ctx:     ctx,
			req:     Request{Query: "query", MinRelevanceScore: 1.5},
			wantErr: ErrInvalidParameter,
		},
		{
			name:    "relevance score negative",
			ctx:     ctx,
			req:     Request{Query: "query", MinRelevanceScore: -0.1},
			wantErr: ErrInvalidParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := pipeline.Execute(tt.ctx, tt.req)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Validation failures never reach the generator.
	assert.Equal(t, int64(0), generator.Calls())
}

func TestExecute_Success(t *testing.T) {
	ctx, tenantID := tenantContext(t)
	generator := embedding.NewMockGenerator(4)
	generator.Fixed = []float32{0.6, 0.8, 0, 0}
	pipeline := newTestPipeline(t, tenantID, generator)

	resp, err := pipeline.Execute(ctx, Request{Query: "  how do I configure webhooks  "})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, "how do I configure webhooks", resp.Query)
	require.NotEmpty(t, resp.Items)
	assert.Equal(t, "exact", resp.Items[0].ID)
	assert.InDelta(t, 1.0, resp.Items[0].RelevanceScore, 1e-6)
	assert.Equal(t, len(resp.Items), resp.TotalFound)

	// Similarity is folded into each item's relevance score, descending.
	for i := 1; i < len(resp.Items); i++ {
		assert.GreaterOrEqual(t, resp.Items[i-1].RelevanceScore, resp.Items[i].RelevanceScore)
	}

	assert.Equal(t, 4, resp.Metrics.VectorDimensions)
	assert.Equal(t, len("how do I configure webhooks"), resp.Metrics.QueryLength)
	assert.Equal(t, len(resp.Items), resp.Metrics.ResultCount)
	assert.GreaterOrEqual(t, resp.Metrics.TotalTime, resp.Metrics.SearchTime)
}

func TestExecute_MaxResultsLimit(t *testing.T) {
	ctx, tenantID := tenantContext(t)
	generator := embedding.NewMockGenerator(4)
	generator.Fixed = []float32{0.6, 0.8, 0, 0}
	pipeline := newTestPipeline(t, tenantID, generator)

	resp, err := pipeline.Execute(ctx, Request{Query: "query", MaxResults: 1, MinRelevanceScore: 0.1})
	require.NoError(t, err)

	assert.Len(t, resp.Items, 1)
	assert.Equal(t, "exact", resp.Items[0].ID)
}

func TestExecute_EmbeddingFailure(t *testing.T) {
	ctx, tenantID := tenantContext(t)
	generator := embedding.NewMockGenerator(4)
	generator.Err = fmt.Errorf("%w: upstream timeout", embedding.ErrProviderUnavailable)
	pipeline := newTestPipeline(t, tenantID, generator)

	resp, err := pipeline.Execute(ctx, Request{Query: "query text"})
	assert.Nil(t, resp)

	var embErr *EmbeddingError
	require.ErrorAs(t, err, &embErr)
	assert.Equal(t, "query text", embErr.Query)
	assert.Equal(t, tenantID, embErr.TenantID)
	assert.ErrorIs(t, err, embedding.ErrProviderUnavailable)
}

func TestExecute_SearchFailureOnColdCache(t *testing.T) {
	ctx, tenantID := tenantContext(t)
	cold, err := cache.New(tenantID, "kb-cold", nil, nil, nil)
	require.NoError(t, err)

	generator := embedding.NewMockGenerator(4)
	pipeline := NewPipeline(cold, generator, Thresholds{}, nil, nil)

	resp, err := pipeline.Execute(ctx, Request{Query: "query", MaxResults: 7, MinRelevanceScore: 0.3})
	assert.Nil(t, resp)

	var searchErr *SearchError
	require.ErrorAs(t, err, &searchErr)
	assert.Equal(t, float32(0.3), searchErr.Threshold)
	assert.Equal(t, 7, searchErr.Limit)
	assert.ErrorIs(t, err, cache.ErrNotReady)
}

func TestExecute_ThresholdViolationReturnsResponse(t *testing.T) {
	ctx, tenantID := tenantContext(t)
	generator := embedding.NewMockGenerator(4)
	generator.Fixed = []float32{0.6, 0.8, 0, 0}

	// A one-nanosecond total budget cannot be met; the search still
	// completes and the response is returned alongside the error.
	pipeline := NewPipeline(readyCache(t, tenantID), generator, Thresholds{
		Total:     time.Nanosecond,
		Embedding: DefaultEmbeddingBudget,
		Search:    DefaultSearchBudget,
	}, nil, nil)

	resp, err := pipeline.Execute(ctx, Request{Query: "query"})

	var thresholdErr *ThresholdError
	require.ErrorAs(t, err, &thresholdErr)
	assert.Equal(t, "total", thresholdErr.Stage)

	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.Items)
}

func TestExecute_ContextCancellation(t *testing.T) {
	baseCtx, tenantID := tenantContext(t)
	ctx, cancel := context.WithCancel(baseCtx)
	cancel()

	generator := embedding.NewMockGenerator(4)
	generator.Err = ctx.Err()
	pipeline := newTestPipeline(t, tenantID, generator)

	resp, err := pipeline.Execute(ctx, Request{Query: "query"})
	assert.Nil(t, resp)

	// Cancellation surfaces as a typed embedding failure, not an SLA error.
	var embErr *EmbeddingError
	require.ErrorAs(t, err, &embErr)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDefaultThresholds(t *testing.T) {
	thresholds := DefaultThresholds()
	assert.Equal(t, 5*time.Second, thresholds.Total)
	assert.Equal(t, 3*time.Second, thresholds.Embedding)
	assert.Equal(t, 2*time.Second, thresholds.Search)
}
