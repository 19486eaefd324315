package engine

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	defaultChatGPTModel    = "gpt-4-turbo-preview"
	defaultPerplexityModel = "llama-3.1-sonar-large-128k-online"
	perplexityBaseURL      = "https://api.perplexity.ai"

	engineMaxTokens   = 2048
	engineTemperature = 0.7
)

// ChatGPTEngine queries the OpenAI chat completions API.
type ChatGPTEngine struct {
	client *openai.Client
	model  string
}

func NewChatGPTEngine(apiKey string, model string) *ChatGPTEngine {
	if model == "" {
		model = defaultChatGPTModel
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &ChatGPTEngine{
		client: &client,
		model:  model,
	}
}

func (e *ChatGPTEngine) Name() string { return EngineChatGPT }

func (e *ChatGPTEngine) Execute(ctx context.Context, query string) (string, error) {
	return executeChatCompletion(ctx, e.client, e.model, query)
}

// PerplexityEngine queries the Perplexity API, which speaks the OpenAI
// chat completions wire format on its own base URL.
type PerplexityEngine struct {
	client *openai.Client
	model  string
}

func NewPerplexityEngine(apiKey string, model string) *PerplexityEngine {
	if model == "" {
		model = defaultPerplexityModel
	}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(perplexityBaseURL),
	)
	return &PerplexityEngine{
		client: &client,
		model:  model,
	}
}

func (e *PerplexityEngine) Name() string { return EnginePerplexity }

func (e *PerplexityEngine) Execute(ctx context.Context, query string) (string, error) {
	return executeChatCompletion(ctx, e.client, e.model, query)
}

func executeChatCompletion(ctx context.Context, client *openai.Client, model string, query string) (string, error) {
	response, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(query),
		},
		MaxTokens:   openai.Int(engineMaxTokens),
		Temperature: openai.Float(engineTemperature),
	})
	if err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in response from model")
	}
	return response.Choices[0].Message.Content, nil
}
