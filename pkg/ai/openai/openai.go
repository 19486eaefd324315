package openai

import (
	"sync"

	"github.com/brandpoint/intelligence-engine/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"
)

const defaultTimeoutMinutes = 2

// BrandOpenAIClient implements ai.BrandAIClient against OpenAI-compatible
// APIs. It manages separate clients for embeddings and chat/completion
// tasks so the two can point at different endpoints.
//
// A BrandOpenAIClient should be created using NewBrandOpenAIClient.
type BrandOpenAIClient struct {
	embeddingModel string
	chatModel      string

	embeddingURL string
	chatURL      string

	timeoutMin    int
	embeddingLock *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient      *openai.Client
	EmbeddingClient *openai.Client
}

// NewBrandOpenAIClientParams defines the configuration parameters for
// creating a new BrandOpenAIClient.
//
// EmbeddingModel specifies the model used for embeddings and ChatModel the
// model used for completions. The URL/Key pairs configure the respective
// API endpoints; an empty URL means the provider default.
type NewBrandOpenAIClientParams struct {
	EmbeddingModel string
	ChatModel      string

	EmbeddingURL string
	EmbeddingKey string
	ChatURL      string
	ChatKey      string

	MaxConcurrentRequests int64
	TimeoutMinutes        int
}

// NewBrandOpenAIClient creates and returns a new BrandOpenAIClient
// configured with the provided parameters.
func NewBrandOpenAIClient(params NewBrandOpenAIClientParams) *BrandOpenAIClient {
	chatClient := newOpenaiClient(params.ChatURL, params.ChatKey)
	embedClient := newOpenaiClient(params.EmbeddingURL, params.EmbeddingKey)

	maxConcurrent := params.MaxConcurrentRequests
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	timeoutMin := params.TimeoutMinutes
	if timeoutMin <= 0 {
		timeoutMin = defaultTimeoutMinutes
	}

	return &BrandOpenAIClient{
		embeddingModel: params.EmbeddingModel,
		chatModel:      params.ChatModel,

		embeddingURL: params.EmbeddingURL,
		chatURL:      params.ChatURL,

		timeoutMin:    timeoutMin,
		embeddingLock: semaphore.NewWeighted(maxConcurrent),

		metricsLock: sync.Mutex{},
		metrics:     ai.ModelMetrics{},

		ChatClient:      chatClient,
		EmbeddingClient: embedClient,
	}
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}

func (c *BrandOpenAIClient) modifyMetrics(m ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.InputTokens += m.InputTokens
	c.metrics.OutputTokens += m.OutputTokens
	c.metrics.TotalTokens += m.TotalTokens
	c.metrics.DurationMs += m.DurationMs
}

// ResetMetrics zeroes the accumulated model metrics.
func (c *BrandOpenAIClient) ResetMetrics() {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics = ai.ModelMetrics{}
}

// GetMetrics returns a copy of the accumulated model metrics.
func (c *BrandOpenAIClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	return c.metrics
}
