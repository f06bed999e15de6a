// Package eviction enforces memory and item-count ceilings on a vector store
// by removing least-recently-used records in batches.
package eviction

import (
	"context"
	"sort"
	"time"

	"github.com/knowledge-mesh/knowledge-mesh/pkg/observability"
)

// Store is the narrow view of a vector store the evictor operates on.
// Callers must hold whatever lock guards the store for the duration of the
// eviction pass; the evictor itself performs no locking.
type Store interface {
	// Len returns the number of cached records.
	Len() int
	// EstimatedMemoryKB returns the store's estimated memory footprint.
	EstimatedMemoryKB() int
	// Records returns a snapshot of record keys and last-access times.
	Records() []Record
	// Remove deletes records by key and returns how many were removed.
	Remove(keys []string) int
}

// Record is the eviction-relevant view of one cached record.
type Record struct {
	Key          string
	LastAccessed time.Time
}

// Config defines eviction limits.
type Config struct {
	Enabled     bool
	MaxMemoryKB int
	MaxVectors  int
	BatchSize   int
}

// LRUEvictor removes the oldest-accessed records when a store exceeds its
// memory or count budget. A single Evict call removes at most one batch;
// a store can remain over budget afterwards. That is deliberate: callers
// control the trade-off through BatchSize instead of an unbounded loop.
type LRUEvictor struct {
	config  Config
	logger  observability.Logger
	metrics observability.MetricsClient
}

// NewLRUEvictor creates an evictor with the given limits.
func NewLRUEvictor(config Config, logger observability.Logger, metrics observability.MetricsClient) *LRUEvictor {
	if logger == nil {
		logger = observability.NewLogger("cache.eviction.lru")
	}
	if metrics == nil {
		metrics = observability.NewNoopMetricsClient()
	}

	return &LRUEvictor{
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

// Evict runs one eviction pass against the store and returns the number of
// records removed. Decision order: disabled, memory limit, vector limit.
func (e *LRUEvictor) Evict(ctx context.Context, store Store) int {
	_, span := observability.StartSpan(ctx, "lru_evictor.evict")
	defer span.End()

	if !e.config.Enabled {
		return 0
	}

	reason := ""
	switch {
	case store.EstimatedMemoryKB() > e.config.MaxMemoryKB:
		reason = "memory_limit"
	case store.Len() > e.config.MaxVectors:
		reason = "vector_limit"
	default:
		return 0
	}

	records := store.Records()
	sort.Slice(records, func(i, j int) bool {
		return records[i].LastAccessed.Before(records[j].LastAccessed)
	})

	batch := e.config.BatchSize
	if batch > len(records) {
		batch = len(records)
	}

	keys := make([]string, 0, batch)
	for _, rec := range records[:batch] {
		keys = append(keys, rec.Key)
	}

	evicted := store.Remove(keys)
	span.SetAttribute("eviction.reason", reason)
	span.SetAttribute("eviction.count", evicted)

	e.metrics.IncrementCounterWithLabels("cache.evictions", float64(evicted), map[string]string{
		"strategy": "lru",
		"reason":   reason,
	})

	e.logger.Info("Evicted LRU records", map[string]interface{}{
		"reason":    reason,
		"evicted":   evicted,
		"remaining": store.Len(),
	})

	return evicted
}

// Config returns the evictor's configuration.
func (e *LRUEvictor) Config() Config {
	return e.config
}
