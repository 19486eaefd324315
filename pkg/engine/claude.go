package engine

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
)

const defaultClaudeModel = anthropic.ModelClaude3Dot5SonnetLatest

// ClaudeEngine queries the Anthropic messages API.
type ClaudeEngine struct {
	client *anthropic.Client
	model  anthropic.Model
}

func NewClaudeEngine(apiKey string, model string) *ClaudeEngine {
	m := defaultClaudeModel
	if model != "" {
		m = anthropic.Model(model)
	}
	return &ClaudeEngine{
		client: anthropic.NewClient(apiKey),
		model:  m,
	}
}

func (e *ClaudeEngine) Name() string { return EngineClaude }

func (e *ClaudeEngine) Execute(ctx context.Context, query string) (string, error) {
	response, err := e.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       e.model,
		MaxTokens:   engineMaxTokens,
		Temperature: ptr(float32(engineTemperature)),
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(query),
		},
	})
	if err != nil {
		return "", err
	}

	for _, block := range response.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			return *block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in response from model")
}

func ptr[T any](v T) *T { return &v }
