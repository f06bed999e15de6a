// Package repository provides access to stored knowledge items and their
// embedding vectors. The cache loads from here once per (re)initialization;
// nothing in the cache core writes back.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/knowledge-mesh/knowledge-mesh/pkg/models"
)

// KnowledgeRepository supplies knowledge vectors for cache loading.
type KnowledgeRepository interface {
	// GetAllKnowledgeVectors returns every (item, vector) pair for one
	// tenant's knowledge base.
	GetAllKnowledgeVectors(ctx context.Context, tenantID uuid.UUID, knowledgeBaseID string) ([]models.KnowledgeVector, error)
}
