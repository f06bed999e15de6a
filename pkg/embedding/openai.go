package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "text-embedding-3-small"
	defaultOpenAITimeout = 30 * time.Second
	maxRetryElapsedTime  = 20 * time.Second
)

// OpenAIProvider generates embeddings through the OpenAI embeddings API.
// Transient HTTP failures are retried with exponential backoff; 4xx responses
// other than 429 are not retried.
type OpenAIProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIProvider creates a provider for the given API key. An empty model
// selects text-embedding-3-small.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultOpenAIBaseURL,
		httpClient: &http.Client{
			Timeout: defaultOpenAITimeout,
		},
	}
}

type openAIRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

type openAIResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

// GenerateEmbedding generates an embedding using the OpenAI API.
func (p *OpenAIProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyContent
	}

	body, err := json.Marshal(openAIRequest{Input: text, Model: p.model})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var embedding []float32

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/embeddings", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+p.apiKey)

		resp, err := p.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}
		defer func() { _ = resp.Body.Close() }()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("openai API returned status %d: %s", resp.StatusCode, respBody)
			// Retry rate limits and server errors only.
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return err
			}
			return backoff.Permanent(err)
		}

		var parsed openAIResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to parse response: %w", err))
		}
		if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
			return backoff.Permanent(ErrEmptyResponse)
		}

		embedding = parsed.Data[0].Embedding
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = maxRetryElapsedTime

	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return nil, err
	}

	return embedding, nil
}

// Stats reports zeros; the bare provider keeps no cache. Wrap it in a
// CachedGenerator for caching.
func (p *OpenAIProvider) Stats() CacheStats {
	return CacheStats{}
}
