package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"sync/atomic"
)

// MockGenerator is a deterministic Generator for tests. The same text always
// produces the same unit-length vector. Set Err to make every call fail, or
// Fixed to return one specific vector.
type MockGenerator struct {
	Dimensions int
	Fixed      []float32
	Err        error

	calls atomic.Int64
}

// NewMockGenerator creates a mock producing vectors of the given dimension.
func NewMockGenerator(dimensions int) *MockGenerator {
	return &MockGenerator{Dimensions: dimensions}
}

// GenerateEmbedding returns a deterministic vector derived from text.
func (m *MockGenerator) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	m.calls.Add(1)

	if m.Err != nil {
		return nil, m.Err
	}
	if text == "" {
		return nil, ErrEmptyContent
	}
	if m.Fixed != nil {
		return append([]float32(nil), m.Fixed...), nil
	}

	dims := m.Dimensions
	if dims <= 0 {
		dims = 8
	}

	// Expand a hash of the text into a repeatable pseudo-random vector.
	seed := sha256.Sum256([]byte(text))
	vector := make([]float32, dims)
	var norm float64
	for i := range vector {
		chunk := sha256.Sum256(append(seed[:], byte(i), byte(i>>8)))
		bits := binary.BigEndian.Uint32(chunk[:4])
		v := float64(bits)/float64(math.MaxUint32)*2 - 1
		vector[i] = float32(v)
		norm += v * v
	}

	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vector {
			vector[i] = float32(float64(vector[i]) / norm)
		}
	}

	return vector, nil
}

// Calls returns how many times GenerateEmbedding was invoked.
func (m *MockGenerator) Calls() int64 {
	return m.calls.Load()
}

// Stats reports zeros.
func (m *MockGenerator) Stats() CacheStats {
	return CacheStats{}
}
