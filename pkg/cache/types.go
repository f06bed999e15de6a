package cache

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/knowledge-mesh/knowledge-mesh/pkg/models"
)

// Default configuration values. The memory estimate approximates a
// 1536-dimension float32 vector plus item metadata and tracking fields.
const (
	DefaultMaxMemoryKB       = 51200
	DefaultMaxVectors        = 10000
	DefaultEvictionBatchSize = 100

	DefaultSimilarityThreshold float32 = 0.15
	DefaultSearchLimit                 = 5

	recordMemoryEstimateKB = 7
)

// Config controls cache capacity and eviction behavior. It is fixed at
// construction; mutating it afterwards has no effect on a running cache.
type Config struct {
	// MaxMemoryKB is the estimated memory ceiling for cached vectors.
	MaxMemoryKB int `json:"max_memory_kb" mapstructure:"max_memory_kb"`
	// MaxVectors is the maximum number of cached vector records.
	MaxVectors int `json:"max_vectors" mapstructure:"max_vectors"`
	// EnableLRUEviction toggles eviction entirely.
	EnableLRUEviction bool `json:"enable_lru_eviction" mapstructure:"enable_lru_eviction"`
	// EvictionBatchSize is the number of records removed per eviction pass.
	// A single pass removes at most one batch; size the batch for the worst
	// expected overage rather than relying on repeated passes.
	EvictionBatchSize int `json:"eviction_batch_size" mapstructure:"eviction_batch_size"`
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxMemoryKB:       DefaultMaxMemoryKB,
		MaxVectors:        DefaultMaxVectors,
		EnableLRUEviction: true,
		EvictionBatchSize: DefaultEvictionBatchSize,
	}
}

// Validate checks configuration bounds.
func (c *Config) Validate() error {
	if c.MaxMemoryKB <= 0 {
		return fmt.Errorf("%w: max_memory_kb must be positive, got %d", ErrInvalidConfig, c.MaxMemoryKB)
	}
	if c.MaxVectors <= 0 {
		return fmt.Errorf("%w: max_vectors must be positive, got %d", ErrInvalidConfig, c.MaxVectors)
	}
	if c.EvictionBatchSize <= 0 {
		return fmt.Errorf("%w: eviction_batch_size must be positive, got %d", ErrInvalidConfig, c.EvictionBatchSize)
	}
	return nil
}

// SearchOptions tune one SearchVectors call. Zero values for Threshold and
// Limit fall back to the defaults; filters are exact-match and applied before
// similarity scoring.
type SearchOptions struct {
	Threshold      float32 `json:"threshold"`
	Limit          int     `json:"limit"`
	CategoryFilter string  `json:"category_filter,omitempty"`
	SourceFilter   string  `json:"source_filter,omitempty"`
}

// DefaultSearchOptions returns the default search options.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Threshold: DefaultSimilarityThreshold,
		Limit:     DefaultSearchLimit,
	}
}

// SearchMatch is one scored result from a vector search.
type SearchMatch struct {
	Item       models.KnowledgeItem `json:"item"`
	Similarity float32              `json:"similarity"`
}

// InitializeResult reports the outcome of a cache load.
type InitializeResult struct {
	VectorsLoaded  int           `json:"vectors_loaded"`
	VectorsEvicted int           `json:"vectors_evicted"`
	MemoryUsageKB  int           `json:"memory_usage_kb"`
	Elapsed        time.Duration `json:"elapsed"`
}

// Stats is a point-in-time snapshot of cache state. It is recomputed on every
// call, never stored. CacheHits counts searches served from memory; this cache
// has no miss path, so it always equals SearchCount.
type Stats struct {
	TotalVectors       int       `json:"total_vectors"`
	MemoryUsageKB      int       `json:"memory_usage_kb"`
	MemoryLimitKB      int       `json:"memory_limit_kb"`
	MemoryUtilization  float64   `json:"memory_utilization"`
	SearchCount        int64     `json:"search_count"`
	CacheHits          int64     `json:"cache_hits"`
	EvictionsPerformed int64     `json:"evictions_performed"`
	LastUpdated        time.Time `json:"last_updated"`
}

// vectorRecord is one cached (item, vector) pair plus access tracking.
// The vector is copied on insert and never handed out; access fields are
// atomics so concurrent searches track reads without a write lock.
type vectorRecord struct {
	item         models.KnowledgeItem
	vector       []float32
	lastAccessed atomic.Int64 // unix nanoseconds
	accessCount  atomic.Int64
}

// touch marks the record as accessed at the given time. Every scanned record
// counts as accessed, whether or not it passes filters or threshold.
func (r *vectorRecord) touch(now time.Time) {
	r.lastAccessed.Store(now.UnixNano())
	r.accessCount.Add(1)
}

func (r *vectorRecord) lastAccessedTime() time.Time {
	return time.Unix(0, r.lastAccessed.Load())
}
