// Package models defines the shared data types exchanged between the
// knowledge repository, the vector cache, and the search pipeline.
package models

import "time"

// KnowledgeItem is one unit of retrievable content in a knowledge base.
// The cache treats items as immutable; only identity (ID) matters to it.
type KnowledgeItem struct {
	ID             string    `json:"id" db:"id"`
	Title          string    `json:"title" db:"title"`
	Content        string    `json:"content" db:"content"`
	Category       string    `json:"category,omitempty" db:"category"`
	Source         string    `json:"source,omitempty" db:"source"`
	RelevanceScore float64   `json:"relevance_score,omitempty" db:"relevance_score"`
	LastUpdated    time.Time `json:"last_updated,omitempty" db:"last_updated"`
}

// KnowledgeVector pairs a knowledge item with its embedding vector. This is
// the row shape the repository returns and the cache loads.
type KnowledgeVector struct {
	Item   KnowledgeItem `json:"item"`
	Vector []float32     `json:"vector"`
}
