package engine

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-1.5-pro"

// GeminiEngine queries the Google Gemini API.
type GeminiEngine struct {
	client *genai.Client
	model  string
}

func NewGeminiEngine(ctx context.Context, apiKey string, model string) (*GeminiEngine, error) {
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiEngine{
		client: client,
		model:  model,
	}, nil
}

func (e *GeminiEngine) Name() string { return EngineGemini }

func (e *GeminiEngine) Execute(ctx context.Context, query string) (string, error) {
	response, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(query), &genai.GenerateContentConfig{
		MaxOutputTokens: engineMaxTokens,
		Temperature:     genai.Ptr[float32](engineTemperature),
	})
	if err != nil {
		return "", err
	}
	if response == nil || len(response.Candidates) == 0 ||
		response.Candidates[0].Content == nil || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in response from model")
	}
	return response.Candidates[0].Content.Parts[0].Text, nil
}
