package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider implements Provider using the Gemini embedding API.
type GeminiProvider struct {
	client    *genai.Client
	model     string
	dimension int
	maxChars  int
}

// GeminiConfig configures a GeminiProvider.
type GeminiConfig struct {
	// Model is the embedding model name, e.g. "text-embedding-004".
	Model string
	// Dimension is the expected output dimension; vectors of any other size
	// are rejected rather than silently stored.
	Dimension int
	// MaxChars bounds the input text; longer text is head-truncated.
	MaxChars int
}

// NewGeminiProvider creates an embedding provider backed by the Gemini API.
func NewGeminiProvider(ctx context.Context, apiKey string, config GeminiConfig) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("embedding model is required")
	}
	if config.Dimension <= 0 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", config.Dimension)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client:    client,
		model:     config.Model,
		dimension: config.Dimension,
		maxChars:  config.MaxChars,
	}, nil
}

// EmbedDocument embeds resume text for indexing.
func (p *GeminiProvider) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return p.embed(ctx, text, genai.TaskTypeRetrievalDocument)
}

// EmbedQuery embeds a job description for retrieval.
func (p *GeminiProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return p.embed(ctx, text, genai.TaskTypeRetrievalQuery)
}

// Dimension returns the fixed output vector dimension.
func (p *GeminiProvider) Dimension() int {
	return p.dimension
}

// Close releases resources held by the underlying client.
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

func (p *GeminiProvider) embed(ctx context.Context, text string, task genai.TaskType) ([]float32, error) {
	prepared := PrepareText(text, p.maxChars)
	if prepared == "" {
		return nil, ErrEmptyInput
	}

	model := p.client.EmbeddingModel(p.model)
	model.TaskType = task

	res, err := model.EmbedContent(ctx, genai.Text(prepared))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", ErrEmbeddingUnavailable)
	}
	if len(res.Embedding.Values) != p.dimension {
		return nil, fmt.Errorf("%w: model returned dimension %d, configured dimension is %d",
			ErrEmbeddingUnavailable, len(res.Embedding.Values), p.dimension)
	}

	return Normalize(res.Embedding.Values), nil
}
