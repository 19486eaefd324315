package persona

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/brandpoint/intelligence-engine/pkg/ai"
	"github.com/brandpoint/intelligence-engine/pkg/common"
)

type stubAIClient struct {
	response   string
	lastPrompt string
	lastOpts   ai.GenerateOptions
}

func (s *stubAIClient) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	return make([]float32, ai.DefaultEmbeddingDimensions), nil
}

func (s *stubAIClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	s.lastPrompt = prompt
	s.lastOpts = ai.GenerateOptions{}
	for _, opt := range opts {
		opt(&s.lastOpts)
	}
	return s.response, nil
}

func (s *stubAIClient) GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, opts ...ai.GenerateOption) error {
	return nil
}

func (s *stubAIClient) ResetMetrics() {}

func (s *stubAIClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

func testPersona() *common.Persona {
	return &common.Persona{
		PersonaID: "us-army-prospect-male-18-24",
		Name:      "Army Prospect",
		BrandID:   "us-army",
		Demographics: map[string]any{
			"ageRange":  []any{18.0, 24.0},
			"gender":    "male",
			"education": "high school",
			"location":  "Texas",
		},
		Psychographics: map[string]any{
			"interests": []any{"fitness", "video games"},
			"concerns":  []any{"career options", "pay"},
		},
		QueryPatterns: map[string]any{
			"speakingStyle":    "casual, direct",
			"typicalQuestions": []any{"is it worth", "how much"},
			"avoidedPatterns":  []any{"formal language"},
		},
		TargetQueries: []string{"is the army worth joining", "army vs navy", "army pay 2024", "army basic training"},
	}
}

func TestParseQueries(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []string
	}{
		{
			name:     "plain lines",
			response: "is the army worth it\nhow much do soldiers make",
			want:     []string{"is the army worth it", "how much do soldiers make"},
		},
		{
			name:     "numbered with dot",
			response: "1. is the army worth it\n2. how much do soldiers make",
			want:     []string{"is the army worth it", "how much do soldiers make"},
		},
		{
			name:     "numbered with paren",
			response: "1) is the army worth it\n2) army vs navy pay",
			want:     []string{"is the army worth it", "army vs navy pay"},
		},
		{
			name:     "bullet prefix",
			response: "- is the army worth it\n- army basic training tips",
			want:     []string{"is the army worth it", "army basic training tips"},
		},
		{
			name:     "drops short and empty lines",
			response: "is the army worth it\n\nok\nhi\narmy enlistment bonus",
			want:     []string{"is the army worth it", "army enlistment bonus"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQueries(tt.response)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseQueries() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGeneratePromptsFromPersona(t *testing.T) {
	client := &stubAIClient{response: "is the army a good career\nhow hard is basic training"}
	g := NewGenerator(client)

	result, err := g.Generate(context.Background(), testPersona(), 5)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.QueryCount != 2 {
		t.Errorf("QueryCount = %d, want 2", result.QueryCount)
	}
	if result.PersonaID != "us-army-prospect-male-18-24" {
		t.Errorf("PersonaID = %q", result.PersonaID)
	}

	if len(client.lastOpts.SystemPrompts) != 1 {
		t.Fatalf("expected one system prompt, got %d", len(client.lastOpts.SystemPrompts))
	}
	system := client.lastOpts.SystemPrompts[0]
	for _, want := range []string{
		"18-24 year old male",
		"Education: high school",
		"Interests: fitness, video games",
		"Speaking style: casual, direct",
		"Patterns to AVOID: formal language",
	} {
		if !strings.Contains(system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}

	if client.lastOpts.Temperature != queryTemperature {
		t.Errorf("Temperature = %v, want %v", client.lastOpts.Temperature, queryTemperature)
	}

	for _, want := range []string{
		"Generate exactly 5 search queries",
		"relate to us-army",
		"- is the army worth joining",
		"- army pay 2024",
	} {
		if !strings.Contains(client.lastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	// Only the first three target queries are used as examples.
	if strings.Contains(client.lastPrompt, "army basic training") {
		t.Error("prompt should only include the first three target queries")
	}
}

func TestGenerateFallbackWithoutClient(t *testing.T) {
	g := NewGenerator(nil)

	result, err := g.Generate(context.Background(), testPersona(), 5)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(result.Queries) != 5 {
		t.Fatalf("expected 5 fallback queries, got %d", len(result.Queries))
	}
	// Target queries come first.
	if result.Queries[0] != "is the army worth joining" {
		t.Errorf("Queries[0] = %q", result.Queries[0])
	}
	// Template queries fill the remainder with a readable brand name.
	if result.Queries[4] != "what is us army" {
		t.Errorf("Queries[4] = %q", result.Queries[4])
	}
}

func TestGenerateRequiresPersona(t *testing.T) {
	g := NewGenerator(nil)
	if _, err := g.Generate(context.Background(), nil, 5); err == nil {
		t.Error("expected error for nil persona")
	}
}
