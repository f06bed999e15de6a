// Package cache implements an in-process semantic knowledge cache. It holds
// embedding vectors for one tenant's knowledge base in memory, answers
// similarity queries by brute-force cosine scan, and keeps itself within a
// configured memory and item budget via LRU eviction.
//
// # Overview
//
// A VectorCache is scoped to one tenant and one knowledge base. It is loaded
// in bulk through Initialize (usually by a Warmer backed by the repository
// package) and then serves SearchVectors calls until cleared or reloaded.
// There is no per-item insert path; a stale cache is refreshed by
// re-initializing it.
//
// Key properties:
//   - Brute-force cosine similarity over []float32, no index structures
//   - Threshold and limit filtering with deterministic descending order
//   - LRU eviction in batches when memory or item budgets are exceeded
//   - One RWMutex per cache: loads exclude searches, searches run concurrently
//   - Per-record access tracking through atomics, safe under the read lock
//
// # Basic Usage
//
//	c, err := cache.New(tenantID, "kb-docs", cache.DefaultConfig(), logger, metrics)
//	if err != nil {
//	    return err
//	}
//
//	warmer := cache.NewWarmer(repo, logger)
//	if _, err := warmer.Warm(ctx, c); err != nil {
//	    return err
//	}
//
//	matches, err := c.SearchVectors(ctx, queryVector, cache.SearchOptions{
//	    Threshold: 0.3,
//	    Limit:     10,
//	})
//
// Eviction is best-effort: each Initialize runs a single eviction pass, so a
// load far over budget can remain over budget until the next pass. Size the
// eviction batch so one pass covers the expected overshoot.
package cache
