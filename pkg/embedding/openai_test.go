package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAIProvider(serverURL string) *OpenAIProvider {
	provider := NewOpenAIProvider("test-key", "")
	provider.baseURL = serverURL
	return provider
}

func TestOpenAIProvider_GenerateEmbedding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello world", req.Input)
		assert.Equal(t, defaultOpenAIModel, req.Model)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": []float32{0.1, 0.2, 0.3}, "index": 0},
			},
			"model": req.Model,
		})
	}))
	defer server.Close()

	provider := newTestOpenAIProvider(server.URL)

	vector, err := provider.GenerateEmbedding(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)
}

func TestOpenAIProvider_EmptyContent(t *testing.T) {
	provider := NewOpenAIProvider("test-key", "")
	_, err := provider.GenerateEmbedding(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestOpenAIProvider_RetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": []float32{1}, "index": 0},
			},
		})
	}))
	defer server.Close()

	provider := newTestOpenAIProvider(server.URL)

	vector, err := provider.GenerateEmbedding(context.Background(), "query")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, vector)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestOpenAIProvider_ClientErrorNotRetried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid api key"}}`))
	}))
	defer server.Close()

	provider := newTestOpenAIProvider(server.URL)

	_, err := provider.GenerateEmbedding(context.Background(), "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Equal(t, int32(1), attempts.Load(), "4xx other than 429 must not retry")
}

func TestOpenAIProvider_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
	}))
	defer server.Close()

	provider := newTestOpenAIProvider(server.URL)

	_, err := provider.GenerateEmbedding(context.Background(), "query")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
