package cache

import (
	"fmt"

	"github.com/google/uuid"
)

// CacheKey derives the deterministic key addressing one cached vector record.
// Tenant, knowledge base, and item identifiers together make the key unique
// and stable across reloads.
func CacheKey(tenantID uuid.UUID, knowledgeBaseID, itemID string) string {
	return fmt.Sprintf("%s:%s:%s", tenantID.String(), knowledgeBaseID, itemID)
}
