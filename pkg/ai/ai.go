package ai

import "context"

// EmbedMaxChars is the character budget applied to text before it is sent
// to the embedding provider. Longer inputs are truncated, never rejected.
const EmbedMaxChars = 8000

// DefaultEmbeddingDimensions is the vector width of the configured
// embedding model.
const DefaultEmbeddingDimensions = 1536

// GenerateOptions holds configuration for AI generation requests.
type GenerateOptions struct {
	Model         string   // Model identifier to use for generation
	SystemPrompts []string // System prompts prepended to the request
	Temperature   float64  // Sampling temperature (0.0-2.0)
}

// GenerateOption is a functional option for configuring AI generation requests.
type GenerateOption func(*GenerateOptions)

// WithModel returns a GenerateOption that sets the model to use for generation.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithSystemPrompts returns a GenerateOption that sets the system prompts
// to prepend to the generation request.
func WithSystemPrompts(prompts ...string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SystemPrompts = prompts
	}
}

// WithTemperature returns a GenerateOption that sets the sampling temperature.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// ModelMetrics contains performance metrics from AI model operations.
type ModelMetrics struct {
	InputTokens  int   `json:"input_tokens"`
	OutputTokens int   `json:"output_tokens"`
	TotalTokens  int   `json:"total_tokens"`
	DurationMs   int64 `json:"duration_ms"`
}

// BrandAIClient defines the interface for AI operations used by the
// intelligence engine: embeddings for content indexing and similarity
// search, and completions for query generation and narrative insights.
//
// GenerateEmbedding must return an error on provider failure; callers
// decide whether to fail or fall back to a flagged zero vector. A zero
// vector is never returned silently as if it were a valid embedding.
type BrandAIClient interface {
	GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error)

	GenerateCompletion(
		ctx context.Context,
		prompt string,
		opts ...GenerateOption,
	) (string, error)
	GenerateCompletionWithFormat(
		ctx context.Context,
		name string,
		description string,
		prompt string,
		out any,
		opts ...GenerateOption,
	) error

	ResetMetrics()
	GetMetrics() ModelMetrics
}

// TruncateForEmbedding applies the embedding provider's character budget.
func TruncateForEmbedding(text string) string {
	if len(text) > EmbedMaxChars {
		return text[:EmbedMaxChars]
	}
	return text
}
