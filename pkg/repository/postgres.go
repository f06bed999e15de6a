package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"github.com/knowledge-mesh/knowledge-mesh/pkg/models"
	"github.com/knowledge-mesh/knowledge-mesh/pkg/observability"
)

// PostgresKnowledgeRepository reads knowledge vectors from a Postgres
// database with pgvector embeddings stored in text form.
type PostgresKnowledgeRepository struct {
	db     *sqlx.DB
	logger observability.Logger
}

// NewPostgresKnowledgeRepository creates a repository over an existing
// connection pool.
func NewPostgresKnowledgeRepository(db *sqlx.DB, logger observability.Logger) *PostgresKnowledgeRepository {
	if logger == nil {
		logger = observability.NewLogger("repository.knowledge")
	}
	return &PostgresKnowledgeRepository{db: db, logger: logger}
}

// knowledgeVectorRow is the scan target for the vector query.
type knowledgeVectorRow struct {
	ID             string         `db:"id"`
	Title          string         `db:"title"`
	Content        string         `db:"content"`
	Category       sql.NullString `db:"category"`
	Source         sql.NullString `db:"source"`
	RelevanceScore float64        `db:"relevance_score"`
	LastUpdated    time.Time      `db:"last_updated"`
	Embedding      string         `db:"embedding"`
}

// GetAllKnowledgeVectors returns every (item, vector) pair for one tenant's
// knowledge base. Rows with unparseable embeddings are skipped with a
// warning rather than failing the whole load.
func (r *PostgresKnowledgeRepository) GetAllKnowledgeVectors(ctx context.Context, tenantID uuid.UUID, knowledgeBaseID string) ([]models.KnowledgeVector, error) {
	ctx, span := observability.StartSpan(ctx, "knowledge_repository.get_all_vectors")
	defer span.End()

	query := `
		SELECT id, title, content, category, source, relevance_score, last_updated, embedding
		FROM knowledge_vectors
		WHERE tenant_id = $1 AND knowledge_base_id = $2`

	start := time.Now()
	var rows []knowledgeVectorRow
	if err := r.db.SelectContext(ctx, &rows, query, tenantID, knowledgeBaseID); err != nil {
		span.RecordError(err)
		r.logger.Error("Failed to fetch knowledge vectors", map[string]interface{}{
			"error":             err.Error(),
			"tenant_id":         tenantID.String(),
			"knowledge_base_id": knowledgeBaseID,
		})
		return nil, fmt.Errorf("failed to fetch knowledge vectors: %w", err)
	}

	vectors := make([]models.KnowledgeVector, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		vector, err := ParseVector(row.Embedding)
		if err != nil {
			skipped++
			r.logger.Warn("Skipping row with unparseable embedding", map[string]interface{}{
				"error":   err.Error(),
				"item_id": row.ID,
			})
			continue
		}

		vectors = append(vectors, models.KnowledgeVector{
			Item: models.KnowledgeItem{
				ID:             row.ID,
				Title:          row.Title,
				Content:        row.Content,
				Category:       row.Category.String,
				Source:         row.Source.String,
				RelevanceScore: row.RelevanceScore,
				LastUpdated:    row.LastUpdated,
			},
			Vector: vector,
		})
	}

	r.logger.Info("Fetched knowledge vectors", map[string]interface{}{
		"tenant_id":         tenantID.String(),
		"knowledge_base_id": knowledgeBaseID,
		"rows":              len(rows),
		"skipped":           skipped,
		"elapsed_ms":        time.Since(start).Milliseconds(),
	})

	return vectors, nil
}
