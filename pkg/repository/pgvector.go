package repository

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatVector renders a float32 slice in pgvector text form: [0.1,0.2,...].
func FormatVector(vector []float32) string {
	if len(vector) == 0 {
		return "[]"
	}

	var b strings.Builder
	b.WriteString("[")
	for i, v := range vector {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteString("]")
	return b.String()
}

// ParseVector parses pgvector text form into a float32 slice. Both bracket
// styles are accepted: [0.1,0.2] and {0.1,0.2}.
func ParseVector(s string) ([]float32, error) {
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "]")
	s = strings.TrimSuffix(s, "}")

	if s == "" {
		return []float32{}, nil
	}

	parts := strings.Split(s, ",")
	result := make([]float32, len(parts))
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("failed to parse vector component %q: %w", part, err)
		}
		result[i] = float32(f)
	}

	return result, nil
}
