package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/knowledge-mesh/knowledge-mesh/pkg/models"
)

// MockKnowledgeRepository is an in-memory KnowledgeRepository for tests.
type MockKnowledgeRepository struct {
	mu      sync.RWMutex
	vectors map[string][]models.KnowledgeVector
	err     error
}

// NewMockKnowledgeRepository creates an empty mock repository.
func NewMockKnowledgeRepository() *MockKnowledgeRepository {
	return &MockKnowledgeRepository{
		vectors: make(map[string][]models.KnowledgeVector),
	}
}

// SetVectors registers the vectors returned for a tenant's knowledge base.
func (m *MockKnowledgeRepository) SetVectors(tenantID uuid.UUID, knowledgeBaseID string, vectors []models.KnowledgeVector) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectors[tenantID.String()+":"+knowledgeBaseID] = vectors
}

// SetError makes every call fail with err.
func (m *MockKnowledgeRepository) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// GetAllKnowledgeVectors returns the registered vectors.
func (m *MockKnowledgeRepository) GetAllKnowledgeVectors(ctx context.Context, tenantID uuid.UUID, knowledgeBaseID string) ([]models.KnowledgeVector, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.vectors[tenantID.String()+":"+knowledgeBaseID], nil
}
