package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

var vectorColumns = []string{
	"id", "title", "content", "category", "source", "relevance_score", "last_updated", "embedding",
}

func TestGetAllKnowledgeVectors(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresKnowledgeRepository(db, nil)

	tenantID := uuid.New()
	updated := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, title, content, category, source, relevance_score, last_updated, embedding").
		WithArgs(tenantID, "kb-docs").
		WillReturnRows(sqlmock.NewRows(vectorColumns).
			AddRow("item-1", "Webhook setup", "How to configure webhooks", "howto", "docs", 0.9, updated, "[0.1,0.2,0.3]").
			AddRow("item-2", "API limits", "Rate limiting rules", nil, nil, 0.7, updated, "[0.4,0.5,0.6]"))

	vectors, err := repo.GetAllKnowledgeVectors(context.Background(), tenantID, "kb-docs")
	require.NoError(t, err)
	require.Len(t, vectors, 2)

	assert.Equal(t, "item-1", vectors[0].Item.ID)
	assert.Equal(t, "howto", vectors[0].Item.Category)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vectors[0].Vector)

	// NULL category and source come back as empty strings.
	assert.Equal(t, "", vectors[1].Item.Category)
	assert.Equal(t, "", vectors[1].Item.Source)
	assert.Equal(t, []float32{0.4, 0.5, 0.6}, vectors[1].Vector)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllKnowledgeVectors_SkipsBadEmbedding(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresKnowledgeRepository(db, nil)

	tenantID := uuid.New()
	updated := time.Now()

	mock.ExpectQuery("SELECT id, title, content").
		WithArgs(tenantID, "kb-docs").
		WillReturnRows(sqlmock.NewRows(vectorColumns).
			AddRow("good", "Good", "Parses fine", "cat", "src", 0.5, updated, "[1,2]").
			AddRow("bad", "Bad", "Corrupt embedding", "cat", "src", 0.5, updated, "[not,numbers]"))

	vectors, err := repo.GetAllKnowledgeVectors(context.Background(), tenantID, "kb-docs")
	require.NoError(t, err)
	require.Len(t, vectors, 1)
	assert.Equal(t, "good", vectors[0].Item.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllKnowledgeVectors_QueryError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresKnowledgeRepository(db, nil)

	tenantID := uuid.New()
	mock.ExpectQuery("SELECT id, title, content").
		WithArgs(tenantID, "kb-docs").
		WillReturnError(errors.New("connection refused"))

	vectors, err := repo.GetAllKnowledgeVectors(context.Background(), tenantID, "kb-docs")
	assert.Nil(t, vectors)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch knowledge vectors")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllKnowledgeVectors_EmptyKnowledgeBase(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresKnowledgeRepository(db, nil)

	tenantID := uuid.New()
	mock.ExpectQuery("SELECT id, title, content").
		WithArgs(tenantID, "kb-empty").
		WillReturnRows(sqlmock.NewRows(vectorColumns))

	vectors, err := repo.GetAllKnowledgeVectors(context.Background(), tenantID, "kb-empty")
	require.NoError(t, err)
	assert.Empty(t, vectors)

	assert.NoError(t, mock.ExpectationsWereMet())
}
