package cache

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/knowledge-mesh/knowledge-mesh/pkg/cache/eviction"
	"github.com/knowledge-mesh/knowledge-mesh/pkg/models"
	"github.com/knowledge-mesh/knowledge-mesh/pkg/observability"
)

// VectorCache is a keyed in-memory collection of embedding vectors scoped to
// one tenant and knowledge base. One instance owns its records exclusively;
// callers never receive references into stored vectors.
//
// Initialize, Clear, and eviction take the write lock; searches take the read
// lock and mutate only atomic access-tracking fields, so concurrent searches
// against a stable store are race-free.
type VectorCache struct {
	tenantID        uuid.UUID
	knowledgeBaseID string
	config          *Config
	evictor         *eviction.LRUEvictor
	logger          observability.Logger
	metrics         observability.MetricsClient

	mu          sync.RWMutex
	records     map[string]*vectorRecord
	dimensions  int
	initialized bool
	lastUpdated time.Time

	searchCount        atomic.Int64
	cacheHits          atomic.Int64
	evictionsPerformed atomic.Int64
}

// New creates a vector cache for one tenant and knowledge base. A nil config
// uses defaults; nil logger and metrics get safe fallbacks.
func New(tenantID uuid.UUID, knowledgeBaseID string, config *Config, logger observability.Logger, metrics observability.MetricsClient) (*VectorCache, error) {
	if tenantID == uuid.Nil {
		return nil, fmt.Errorf("%w: tenant ID is required", ErrInvalidConfig)
	}
	if knowledgeBaseID == "" {
		return nil, fmt.Errorf("%w: knowledge base ID is required", ErrInvalidConfig)
	}

	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = observability.NewLogger("cache.vector")
	}
	if metrics == nil {
		metrics = observability.NewNoopMetricsClient()
	}

	evictor := eviction.NewLRUEvictor(eviction.Config{
		Enabled:     config.EnableLRUEviction,
		MaxMemoryKB: config.MaxMemoryKB,
		MaxVectors:  config.MaxVectors,
		BatchSize:   config.EvictionBatchSize,
	}, logger, metrics)

	return &VectorCache{
		tenantID:        tenantID,
		knowledgeBaseID: knowledgeBaseID,
		config:          config,
		evictor:         evictor,
		logger:          logger,
		metrics:         metrics,
		records:         make(map[string]*vectorRecord),
	}, nil
}

// Initialize loads the complete set of knowledge vectors for the cache's
// knowledge base, replacing any prior state including lifetime counters.
// Vectors are deep-copied; all records start with a fresh access stamp and
// zero access count. One eviction pass runs against the freshly loaded set.
//
// Initialize must not run concurrently with searches on the same instance;
// the internal lock enforces that by blocking searches for the duration.
func (c *VectorCache) Initialize(ctx context.Context, vectors []models.KnowledgeVector) (*InitializeResult, error) {
	ctx, span := observability.StartSpan(ctx, "vector_cache.initialize")
	defer span.End()

	start := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = make(map[string]*vectorRecord, len(vectors))
	c.dimensions = 0
	c.initialized = false
	c.searchCount.Store(0)
	c.cacheHits.Store(0)
	c.evictionsPerformed.Store(0)

	now := time.Now()
	for _, kv := range vectors {
		rec := &vectorRecord{
			item:   kv.Item,
			vector: append([]float32(nil), kv.Vector...),
		}
		rec.lastAccessed.Store(now.UnixNano())

		if c.dimensions == 0 {
			c.dimensions = len(rec.vector)
		}

		c.records[CacheKey(c.tenantID, c.knowledgeBaseID, kv.Item.ID)] = rec
	}
	loaded := len(c.records)

	evicted := c.evictor.Evict(ctx, (*evictionView)(c))
	c.evictionsPerformed.Add(int64(evicted))

	c.initialized = true
	c.lastUpdated = time.Now()

	result := &InitializeResult{
		VectorsLoaded:  loaded,
		VectorsEvicted: evicted,
		MemoryUsageKB:  c.estimatedMemoryKB(),
		Elapsed:        time.Since(start),
	}

	span.SetAttribute("cache.vectors_loaded", result.VectorsLoaded)
	span.SetAttribute("cache.vectors_evicted", result.VectorsEvicted)

	c.metrics.RecordCacheOperation("initialize", true, result.Elapsed.Seconds())
	c.metrics.RecordGauge("cache.vectors", float64(len(c.records)), map[string]string{
		"tenant_id": c.tenantID.String(),
	})
	recordPrometheusEvictions(c.tenantID.String(), evicted)
	RecordPrometheusStats(c.tenantID.String(), Stats{
		TotalVectors:  len(c.records),
		MemoryUsageKB: result.MemoryUsageKB,
	})

	c.logger.Info("Vector cache initialized", map[string]interface{}{
		"tenant_id":         c.tenantID.String(),
		"knowledge_base_id": c.knowledgeBaseID,
		"vectors_loaded":    result.VectorsLoaded,
		"vectors_evicted":   result.VectorsEvicted,
		"memory_usage_kb":   result.MemoryUsageKB,
		"elapsed_ms":        result.Elapsed.Milliseconds(),
	})

	return result, nil
}

// SearchVectors scans every cached record, scores it against the query vector
// by cosine similarity, and returns up to opts.Limit matches at or above
// opts.Threshold, sorted by similarity descending. Every scanned record is
// marked accessed regardless of filters or threshold; this models
// read-through popularity, not returned popularity.
//
// Returns ErrNotReady if Initialize has not completed since the last Clear.
func (c *VectorCache) SearchVectors(ctx context.Context, queryVector []float32, opts SearchOptions) ([]SearchMatch, error) {
	_, span := observability.StartSpan(ctx, "vector_cache.search")
	defer span.End()

	if opts.Threshold <= 0 {
		opts.Threshold = DefaultSimilarityThreshold
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultSearchLimit
	}

	start := time.Now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.initialized || len(c.records) == 0 {
		span.RecordError(ErrNotReady)
		return nil, ErrNotReady
	}

	c.searchCount.Add(1)
	c.cacheHits.Add(1)

	now := time.Now()
	matches := make([]SearchMatch, 0, opts.Limit)
	for key, rec := range c.records {
		rec.touch(now)

		if opts.CategoryFilter != "" && rec.item.Category != opts.CategoryFilter {
			continue
		}
		if opts.SourceFilter != "" && rec.item.Source != opts.SourceFilter {
			continue
		}

		similarity, err := CosineSimilarity(queryVector, rec.vector)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("similarity computation failed for record %s: %w", key, err)
		}

		if similarity >= opts.Threshold {
			matches = append(matches, SearchMatch{Item: rec.item, Similarity: similarity})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}

	elapsed := time.Since(start)
	span.SetAttribute("cache.results", len(matches))

	c.metrics.RecordCacheOperation("search", true, elapsed.Seconds())
	c.metrics.RecordHistogram("cache.search.results", float64(len(matches)), map[string]string{
		"tenant_id": c.tenantID.String(),
	})
	recordPrometheusSearch(c.tenantID.String(), elapsed.Seconds())

	c.logger.Debug("Vector search completed", map[string]interface{}{
		"tenant_id":  c.tenantID.String(),
		"scanned":    len(c.records),
		"results":    len(matches),
		"threshold":  opts.Threshold,
		"limit":      opts.Limit,
		"elapsed_ms": elapsed.Milliseconds(),
	})

	return matches, nil
}

// Stats returns a snapshot computed from current state. It never mutates.
func (c *VectorCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	usage := c.estimatedMemoryKB()
	utilization := 0.0
	if c.config.MaxMemoryKB > 0 {
		utilization = float64(usage) / float64(c.config.MaxMemoryKB)
	}

	return Stats{
		TotalVectors:       len(c.records),
		MemoryUsageKB:      usage,
		MemoryLimitKB:      c.config.MaxMemoryKB,
		MemoryUtilization:  utilization,
		SearchCount:        c.searchCount.Load(),
		CacheHits:          c.cacheHits.Load(),
		EvictionsPerformed: c.evictionsPerformed.Load(),
		LastUpdated:        c.lastUpdated,
	}
}

// IsReady reports whether Initialize has completed since the last Clear and
// at least one record remains in the store.
func (c *VectorCache) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized && len(c.records) > 0
}

// Dimensions returns the vector dimensionality of the loaded knowledge base,
// or 0 before initialization.
func (c *VectorCache) Dimensions() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dimensions
}

// Clear drops all records and resets counters and readiness to initial state.
func (c *VectorCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = make(map[string]*vectorRecord)
	c.dimensions = 0
	c.initialized = false
	c.lastUpdated = time.Now()
	c.searchCount.Store(0)
	c.cacheHits.Store(0)
	c.evictionsPerformed.Store(0)

	c.logger.Info("Vector cache cleared", map[string]interface{}{
		"tenant_id":         c.tenantID.String(),
		"knowledge_base_id": c.knowledgeBaseID,
	})
}

// estimatedMemoryKB applies the fixed per-record heuristic. Callers must hold
// at least the read lock.
func (c *VectorCache) estimatedMemoryKB() int {
	return len(c.records) * recordMemoryEstimateKB
}

// evictionView adapts the cache to eviction.Store. All methods run while the
// cache write lock is held by the caller of Evict.
type evictionView VectorCache

func (v *evictionView) Len() int {
	return len(v.records)
}

func (v *evictionView) EstimatedMemoryKB() int {
	return len(v.records) * recordMemoryEstimateKB
}

func (v *evictionView) Records() []eviction.Record {
	snapshot := make([]eviction.Record, 0, len(v.records))
	for key, rec := range v.records {
		snapshot = append(snapshot, eviction.Record{
			Key:          key,
			LastAccessed: rec.lastAccessedTime(),
		})
	}
	return snapshot
}

func (v *evictionView) Remove(keys []string) int {
	removed := 0
	for _, key := range keys {
		if _, ok := v.records[key]; ok {
			delete(v.records, key)
			removed++
		}
	}
	return removed
}
