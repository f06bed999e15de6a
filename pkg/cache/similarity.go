package cache

import (
	"fmt"
	"math"
)

// CosineSimilarity computes the cosine similarity between two vectors of
// equal length. The result is in [-1, 1]; embedding vectors in practice land
// in [0, 1]. A zero-magnitude vector on either side yields 0 without error.
//
// This is the hot loop of every search: one pass, no allocations.
func CosineSimilarity(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB))), nil
}
