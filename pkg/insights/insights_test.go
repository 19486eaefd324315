package insights

import (
	"context"
	"strings"
	"testing"

	"github.com/brandpoint/intelligence-engine/pkg/ai"
	"github.com/brandpoint/intelligence-engine/pkg/common"
)

type stubAIClient struct {
	response string
	prompt   string
}

func (c *stubAIClient) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	return nil, nil
}

func (c *stubAIClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	c.prompt = prompt
	return c.response, nil
}

func (c *stubAIClient) GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, opts ...ai.GenerateOption) error {
	return nil
}

func (c *stubAIClient) ResetMetrics()               {}
func (c *stubAIClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

func TestGenerateParsesStructuredResponse(t *testing.T) {
	client := &stubAIClient{response: "```json\n{\"summary\": \"Visibility is strong.\", \"keyFindings\": [\"finding\"]}\n```"}
	generator := NewGenerator(client)

	report, err := generator.Generate(context.Background(), Request{
		InsightType: TypeVisibility,
		BrandID:     "acme",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report["summary"] != "Visibility is strong." {
		t.Errorf("expected parsed summary, got %v", report["summary"])
	}
	if report["insightType"] != TypeVisibility || report["brandId"] != "acme" {
		t.Errorf("expected envelope fields, got %v", report)
	}
	if _, ok := report["generatedAt"]; !ok {
		t.Errorf("expected generatedAt to be set")
	}
}

func TestGenerateMalformedResponse(t *testing.T) {
	client := &stubAIClient{response: "I could not produce JSON, sorry."}
	generator := NewGenerator(client)

	report, err := generator.Generate(context.Background(), Request{
		InsightType: TypeCompetitive,
		BrandID:     "acme",
	})
	if err != nil {
		t.Fatalf("expected parse failure to be non-fatal, got %v", err)
	}

	if report["rawResponse"] != "I could not produce JSON, sorry." {
		t.Errorf("expected raw response to be preserved, got %v", report["rawResponse"])
	}
	if report["parseError"] == nil {
		t.Errorf("expected parseError flag, got %v", report)
	}
}

func TestGenerateUnknownType(t *testing.T) {
	generator := NewGenerator(&stubAIClient{response: "{}"})

	if _, err := generator.Generate(context.Background(), Request{InsightType: "forecast"}); err == nil {
		t.Errorf("expected error for unknown insight type")
	}
}

func TestVisibilityPromptSummarizesRecords(t *testing.T) {
	client := &stubAIClient{response: "{}"}
	generator := NewGenerator(client)

	_, err := generator.Generate(context.Background(), Request{
		InsightType: TypeVisibility,
		BrandID:     "acme",
		Data: InsightData{
			VisibilityResults: []common.VisibilityRecord{
				{BrandMentioned: true, VisibilityScore: 0.9, Position: "prominent", Sentiment: "positive"},
				{BrandMentioned: false, Sentiment: "neutral"},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"Total queries analyzed: 2",
		"Queries with brand mention: 1",
		"Prominent mentions: 1",
		"Positive: 1",
		"No historical data available",
	} {
		if !strings.Contains(client.prompt, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}
