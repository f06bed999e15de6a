package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/knowledge-mesh/knowledge-mesh/pkg/models"
	"github.com/knowledge-mesh/knowledge-mesh/pkg/observability"
)

// KnowledgeSource supplies the complete set of knowledge vectors for one
// tenant and knowledge base. The repository package provides the production
// implementation.
type KnowledgeSource interface {
	GetAllKnowledgeVectors(ctx context.Context, tenantID uuid.UUID, knowledgeBaseID string) ([]models.KnowledgeVector, error)
}

// Warmer loads a vector cache from a knowledge source at session start and
// on explicit reloads.
type Warmer struct {
	source KnowledgeSource
	logger observability.Logger
}

// NewWarmer creates a warmer backed by the given knowledge source.
func NewWarmer(source KnowledgeSource, logger observability.Logger) *Warmer {
	if logger == nil {
		logger = observability.NewLogger("cache.warmer")
	}
	return &Warmer{source: source, logger: logger}
}

// Warm fetches all vectors for the cache's knowledge base and initializes the
// cache with them. Repository and load failures are wrapped as
// ErrInitializationFailed with tenant and knowledge base context attached.
func (w *Warmer) Warm(ctx context.Context, c *VectorCache) (*InitializeResult, error) {
	ctx, span := observability.StartSpan(ctx, "cache_warmer.warm")
	defer span.End()

	vectors, err := w.source.GetAllKnowledgeVectors(ctx, c.tenantID, c.knowledgeBaseID)
	if err != nil {
		span.RecordError(err)
		w.logger.Error("Failed to fetch knowledge vectors", map[string]interface{}{
			"error":             err.Error(),
			"tenant_id":         c.tenantID.String(),
			"knowledge_base_id": c.knowledgeBaseID,
		})
		return nil, fmt.Errorf("%w: fetching vectors for tenant %s knowledge base %s: %v",
			ErrInitializationFailed, c.tenantID, c.knowledgeBaseID, err)
	}

	result, err := c.Initialize(ctx, vectors)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: initializing cache for tenant %s knowledge base %s: %v",
			ErrInitializationFailed, c.tenantID, c.knowledgeBaseID, err)
	}

	return result, nil
}
