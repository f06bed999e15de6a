// Package search coordinates a knowledge search end to end: request
// validation, query embedding through the external generator, vector cache
// search, and per-stage timing with SLA enforcement.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/knowledge-mesh/knowledge-mesh/pkg/auth"
	"github.com/knowledge-mesh/knowledge-mesh/pkg/cache"
	"github.com/knowledge-mesh/knowledge-mesh/pkg/embedding"
	"github.com/knowledge-mesh/knowledge-mesh/pkg/models"
	"github.com/knowledge-mesh/knowledge-mesh/pkg/observability"
)

// Pipeline executes knowledge searches against one vector cache. Each call
// moves through validating, embedding, and searching stages; a failure in any
// stage aborts the call with a typed error.
//
// The pipeline performs no retries. Retry policy, if any, belongs to the
// caller.
type Pipeline struct {
	cache      *cache.VectorCache
	generator  embedding.Generator
	thresholds Thresholds
	logger     observability.Logger
	metrics    observability.MetricsClient
}

// NewPipeline creates a pipeline over the given cache and embedding
// generator. Zero threshold values fall back to defaults.
func NewPipeline(vc *cache.VectorCache, generator embedding.Generator, thresholds Thresholds, logger observability.Logger, metrics observability.MetricsClient) *Pipeline {
	defaults := DefaultThresholds()
	if thresholds.Total <= 0 {
		thresholds.Total = defaults.Total
	}
	if thresholds.Embedding <= 0 {
		thresholds.Embedding = defaults.Embedding
	}
	if thresholds.Search <= 0 {
		thresholds.Search = defaults.Search
	}

	if logger == nil {
		logger = observability.NewLogger("search.pipeline")
	}
	if metrics == nil {
		metrics = observability.NewNoopMetricsClient()
	}

	return &Pipeline{
		cache:      vc,
		generator:  generator,
		thresholds: thresholds,
		logger:     logger,
		metrics:    metrics,
	}
}

// Execute runs one search. The context must carry a tenant ID (see pkg/auth)
// and may carry a deadline, which is propagated into the embedding call.
//
// When the search succeeds but exceeds a performance budget, Execute returns
// the valid response together with a *ThresholdError; callers decide whether
// a slow result is still usable. Every other non-nil error means no result.
func (p *Pipeline) Execute(ctx context.Context, req Request) (*Response, error) {
	ctx, span := observability.StartSpan(ctx, "search_pipeline.execute")
	defer span.End()

	start := time.Now()
	current := stageValidating

	logger := p.logger
	if requestID := auth.GetRequestID(ctx); requestID != "" {
		logger = logger.With(map[string]interface{}{"request_id": requestID})
	}

	// Validating
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, p.fail(span, logger, current, ErrEmptyQuery)
	}

	tenantID := auth.GetTenantID(ctx)
	if tenantID == uuid.Nil {
		return nil, p.fail(span, logger, current, ErrMissingContext)
	}

	if req.MaxResults != 0 && (req.MaxResults < 1 || req.MaxResults > MaxResultsCeiling) {
		return nil, p.fail(span, logger, current,
			fmt.Errorf("%w: max_results %d outside [1, %d]", ErrInvalidParameter, req.MaxResults, MaxResultsCeiling))
	}
	if req.MinRelevanceScore < 0 || req.MinRelevanceScore > 1 {
		return nil, p.fail(span, logger, current,
			fmt.Errorf("%w: min_relevance_score %.2f outside [0.0, 1.0]", ErrInvalidParameter, req.MinRelevanceScore))
	}

	// EmbeddingQuery
	current = stageEmbedding
	embeddingStart := time.Now()
	queryVector, err := p.generator.GenerateEmbedding(ctx, query)
	embeddingTime := time.Since(embeddingStart)
	if err != nil {
		return nil, p.fail(span, logger, current, &EmbeddingError{
			Query:    query,
			TenantID: tenantID,
			Err:      err,
		})
	}

	generatorStats := p.generator.Stats()
	logger.Debug("Query embedded", map[string]interface{}{
		"tenant_id":               tenantID.String(),
		"embedding_ms":            embeddingTime.Milliseconds(),
		"dimensions":              len(queryVector),
		"generator_cache_size":    generatorStats.Size,
		"generator_cache_max":     generatorStats.MaxSize,
		"generator_cache_percent": generatorStats.UtilizationPercent,
	})

	// Searching
	current = stageSearching
	opts := cache.SearchOptions{
		Threshold:      req.MinRelevanceScore,
		Limit:          req.MaxResults,
		CategoryFilter: req.CategoryFilter,
		SourceFilter:   req.SourceFilter,
	}

	searchStart := time.Now()
	matches, err := p.cache.SearchVectors(ctx, queryVector, opts)
	searchTime := time.Since(searchStart)
	if err != nil {
		effective := cache.DefaultSearchOptions()
		if opts.Threshold > 0 {
			effective.Threshold = opts.Threshold
		}
		if opts.Limit > 0 {
			effective.Limit = opts.Limit
		}
		return nil, p.fail(span, logger, current, &SearchError{
			Threshold: effective.Threshold,
			Limit:     effective.Limit,
			Err:       err,
		})
	}

	// Completed
	current = stageCompleted
	totalTime := time.Since(start)

	items := make([]models.KnowledgeItem, 0, len(matches))
	for _, match := range matches {
		item := match.Item
		item.RelevanceScore = float64(match.Similarity)
		items = append(items, item)
	}

	metrics := ExecutionMetrics{
		EmbeddingTime:    embeddingTime,
		SearchTime:       searchTime,
		TotalTime:        totalTime,
		ResultCount:      len(items),
		QueryLength:      len(query),
		VectorDimensions: len(queryVector),
	}

	response := &Response{
		Items:        items,
		TotalFound:   len(items),
		Query:        query,
		SearchTimeMs: totalTime.Milliseconds(),
		Metrics:      metrics,
	}

	span.SetAttribute("search.results", len(items))
	span.SetAttribute("search.total_ms", totalTime.Milliseconds())

	p.metrics.RecordLatency("search.embedding", embeddingTime)
	p.metrics.RecordLatency("search.vector_scan", searchTime)
	p.metrics.RecordLatency("search.total", totalTime)
	p.metrics.RecordHistogram("search.results", float64(len(items)), nil)

	logger.Info("Search completed", map[string]interface{}{
		"tenant_id":    tenantID.String(),
		"stage":        string(current),
		"results":      len(items),
		"embedding_ms": embeddingTime.Milliseconds(),
		"search_ms":    searchTime.Milliseconds(),
		"total_ms":     totalTime.Milliseconds(),
	})

	if thresholdErr := p.checkThresholds(metrics); thresholdErr != nil {
		span.RecordError(thresholdErr)
		p.metrics.IncrementCounterWithLabels("search.sla_violations", 1, map[string]string{
			"stage": thresholdErr.Stage,
		})
		logger.Warn("Search exceeded performance budget", map[string]interface{}{
			"stage":      thresholdErr.Stage,
			"elapsed_ms": thresholdErr.Elapsed.Milliseconds(),
			"budget_ms":  thresholdErr.Budget.Milliseconds(),
		})
		return response, thresholdErr
	}

	return response, nil
}

// checkThresholds returns a ThresholdError for the first exceeded budget.
func (p *Pipeline) checkThresholds(m ExecutionMetrics) *ThresholdError {
	switch {
	case m.TotalTime > p.thresholds.Total:
		return &ThresholdError{Stage: "total", Elapsed: m.TotalTime, Budget: p.thresholds.Total}
	case m.EmbeddingTime > p.thresholds.Embedding:
		return &ThresholdError{Stage: "embedding", Elapsed: m.EmbeddingTime, Budget: p.thresholds.Embedding}
	case m.SearchTime > p.thresholds.Search:
		return &ThresholdError{Stage: "search", Elapsed: m.SearchTime, Budget: p.thresholds.Search}
	}
	return nil
}

// fail records the failure against the stage it occurred in and returns err.
func (p *Pipeline) fail(span observability.Span, logger observability.Logger, failedIn stage, err error) error {
	span.RecordError(err)
	p.metrics.IncrementCounterWithLabels("search.failures", 1, map[string]string{
		"stage": string(failedIn),
	})
	logger.Error("Search failed", map[string]interface{}{
		"stage": string(failedIn),
		"error": err.Error(),
	})
	return err
}
