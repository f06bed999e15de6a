package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const (
	defaultBedrockModel   = "amazon.titan-embed-text-v1"
	defaultBedrockTimeout = 30 * time.Second
)

// BedrockRuntimeClient is the subset of the Bedrock runtime API this provider
// uses, extracted as an interface for testability.
type BedrockRuntimeClient interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockConfig contains configuration for the AWS Bedrock provider.
type BedrockConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	ModelID         string
}

// BedrockProvider generates embeddings through AWS Bedrock Titan embedding
// models.
type BedrockProvider struct {
	modelID string
	client  BedrockRuntimeClient
}

// NewBedrockProvider creates a Bedrock-backed embedding provider. Explicit
// credentials take precedence over the default AWS credential chain.
func NewBedrockProvider(ctx context.Context, config *BedrockConfig) (*BedrockProvider, error) {
	if config == nil {
		return nil, errors.New("config is required for Bedrock embeddings")
	}
	if config.Region == "" {
		return nil, errors.New("AWS region is required")
	}
	if config.ModelID == "" {
		config.ModelID = defaultBedrockModel
	}

	optFns := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.Region),
	}
	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		optFns = append(optFns, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				config.SessionToken,
			),
		))
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &BedrockProvider{
		modelID: config.ModelID,
		client:  bedrockruntime.NewFromConfig(awsConfig),
	}, nil
}

// NewBedrockProviderWithClient creates a provider over an existing client.
// Intended for tests.
func NewBedrockProviderWithClient(client BedrockRuntimeClient, modelID string) *BedrockProvider {
	if modelID == "" {
		modelID = defaultBedrockModel
	}
	return &BedrockProvider{modelID: modelID, client: client}
}

type titanRequest struct {
	InputText string `json:"inputText"`
}

type titanResponse struct {
	Embedding           []float32 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

// GenerateEmbedding generates an embedding by invoking the configured Titan
// model.
func (p *BedrockProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyContent
	}

	body, err := json.Marshal(titanRequest{InputText: text})
	if err != nil {
		return nil, fmt.Errorf("failed to format request: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, defaultBedrockTimeout)
	defer cancel()

	response, err := p.client.InvokeModel(timeoutCtx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(p.modelID),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: invoking Bedrock model %s: %v", ErrProviderUnavailable, p.modelID, err)
	}

	var parsed titanResponse
	if err := json.Unmarshal(response.Body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse Bedrock response: %w", err)
	}
	if len(parsed.Embedding) == 0 {
		return nil, ErrEmptyResponse
	}

	return parsed.Embedding, nil
}

// Stats reports zeros; the bare provider keeps no cache.
func (p *BedrockProvider) Stats() CacheStats {
	return CacheStats{}
}
