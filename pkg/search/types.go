package search

import (
	"time"

	"github.com/knowledge-mesh/knowledge-mesh/pkg/models"
)

// Performance budgets for a search call. A violation produces a
// ThresholdError after the fact; it never aborts a search in flight.
const (
	DefaultTotalBudget     = 5 * time.Second
	DefaultEmbeddingBudget = 3 * time.Second
	DefaultSearchBudget    = 2 * time.Second

	// Override bounds for request parameters.
	MaxResultsCeiling = 50
)

// Request describes one knowledge search. Query is required; everything
// else is an optional override of cache defaults (zero means default).
type Request struct {
	Query string `json:"query"`

	// MaxResults overrides the result limit; must be in [1, 50] when set.
	MaxResults int `json:"max_results,omitempty"`
	// MinRelevanceScore overrides the similarity threshold; must be in
	// [0.0, 1.0] when set.
	MinRelevanceScore float32 `json:"min_relevance_score,omitempty"`

	CategoryFilter string `json:"category_filter,omitempty"`
	SourceFilter   string `json:"source_filter,omitempty"`
}

// Response is the outcome of a completed search. Each returned item carries
// its similarity folded into RelevanceScore.
type Response struct {
	Items        []models.KnowledgeItem `json:"items"`
	TotalFound   int                    `json:"total_found"`
	Query        string                 `json:"query"`
	SearchTimeMs int64                  `json:"search_time_ms"`
	Metrics      ExecutionMetrics       `json:"metrics"`
}

// ExecutionMetrics captures per-stage timing for one search call.
type ExecutionMetrics struct {
	EmbeddingTime    time.Duration `json:"embedding_time"`
	SearchTime       time.Duration `json:"search_time"`
	TotalTime        time.Duration `json:"total_time"`
	ResultCount      int           `json:"result_count"`
	QueryLength      int           `json:"query_length"`
	VectorDimensions int           `json:"vector_dimensions"`
}

// Thresholds are the per-stage performance budgets enforced at completion.
type Thresholds struct {
	Total     time.Duration `json:"total" mapstructure:"total"`
	Embedding time.Duration `json:"embedding" mapstructure:"embedding"`
	Search    time.Duration `json:"search" mapstructure:"search"`
}

// DefaultThresholds returns the default performance budgets.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Total:     DefaultTotalBudget,
		Embedding: DefaultEmbeddingBudget,
		Search:    DefaultSearchBudget,
	}
}

// stage names the pipeline states, used for logging and error context.
type stage string

const (
	stageValidating stage = "validating"
	stageEmbedding  stage = "embedding_query"
	stageSearching  stage = "searching"
	stageCompleted  stage = "completed"
	stageFailed     stage = "failed"
)
