package search

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrEmptyQuery is returned when the query text is empty after
	// trimming.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrMissingContext is returned when no tenant identifier is present
	// in the request context.
	ErrMissingContext = errors.New("no tenant ID in context")

	// ErrInvalidParameter is returned when a request override is out of
	// range.
	ErrInvalidParameter = errors.New("invalid search parameter")
)

// EmbeddingError reports a failed embedding generation. It carries the
// original query and tenant so the failure can be diagnosed upstream; the
// caller has no result without an embedding.
type EmbeddingError struct {
	Query    string
	TenantID uuid.UUID
	Err      error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding generation failed for tenant %s (query length %d): %v",
		e.TenantID, len(e.Query), e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// SearchError reports a failed vector store search, carrying the threshold
// and limit in effect.
type SearchError struct {
	Threshold float32
	Limit     int
	Err       error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("vector search failed (threshold %.2f, limit %d): %v",
		e.Threshold, e.Limit, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// ThresholdError signals that a completed, correct search exceeded a
// performance budget. It is an SLA observation, not a correctness failure:
// Execute returns it alongside a valid response and the caller decides
// whether to use the result.
type ThresholdError struct {
	Stage   string
	Elapsed time.Duration
	Budget  time.Duration
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("%s stage took %s, exceeding the %s budget", e.Stage, e.Elapsed, e.Budget)
}
