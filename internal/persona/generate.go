package persona

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brandpoint/intelligence-engine/internal/util"
	"github.com/brandpoint/intelligence-engine/pkg/ai"
	"github.com/brandpoint/intelligence-engine/pkg/common"
	"github.com/brandpoint/intelligence-engine/pkg/logger"
)

// queryTemperature is deliberately high so generated queries vary in
// phrasing between runs.
const queryTemperature = 0.8

// GeneratedQueries is the output of one query generation call.
type GeneratedQueries struct {
	Queries     []string `json:"queries"`
	PersonaID   string   `json:"personaId"`
	QueryCount  int      `json:"queryCount"`
	GeneratedAt string   `json:"generatedAt"`
}

// Generator produces search queries phrased the way a persona would type
// them into an AI assistant.
type Generator struct {
	aiClient ai.BrandAIClient
}

func NewGenerator(aiClient ai.BrandAIClient) *Generator {
	return &Generator{aiClient: aiClient}
}

// Generate asks the completion model for queryCount queries in the
// persona's voice. When no AI client is configured it falls back to a
// deterministic template set so analysis runs stay possible offline.
func (g *Generator) Generate(ctx context.Context, p *common.Persona, queryCount int) (*GeneratedQueries, error) {
	if p == nil {
		return nil, errors.New("persona is required")
	}
	if queryCount <= 0 {
		queryCount = 5
	}

	var queries []string
	if g.aiClient == nil {
		queries = fallbackQueries(p, queryCount)
	} else {
		response, err := util.RetryWithContext(ctx, 2, func(ctx context.Context) (string, error) {
			return g.aiClient.GenerateCompletion(
				ctx,
				buildQueryPrompt(p, queryCount),
				ai.WithSystemPrompts(buildPersonaSystemPrompt(p)),
				ai.WithTemperature(queryTemperature),
			)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to generate queries for persona %s: %w", p.PersonaID, err)
		}
		queries = ParseQueries(response)
	}

	logger.Info("[Persona][Generate] Generated queries", "persona_id", p.PersonaID, "count", len(queries))

	return &GeneratedQueries{
		Queries:     queries,
		PersonaID:   p.PersonaID,
		QueryCount:  len(queries),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func buildPersonaSystemPrompt(p *common.Persona) string {
	ageLow, ageHigh := ageRange(p.Demographics)
	gender := stringField(p.Demographics, "gender", "person")

	var b strings.Builder
	fmt.Fprintf(&b, "You are simulating a %d-%d year old %s who is searching for information.\n\n", ageLow, ageHigh, gender)
	b.WriteString("Character traits:\n")
	fmt.Fprintf(&b, "- Education: %s\n", stringField(p.Demographics, "education", "average"))
	fmt.Fprintf(&b, "- Location: %s\n", stringField(p.Demographics, "location", "United States"))
	fmt.Fprintf(&b, "- Interests: %s\n", joinField(p.Psychographics, "interests", "general topics"))
	fmt.Fprintf(&b, "- Concerns: %s\n\n", joinField(p.Psychographics, "concerns", "finding accurate information"))
	fmt.Fprintf(&b, "Speaking style: %s\n", stringField(p.QueryPatterns, "speakingStyle", "casual"))
	fmt.Fprintf(&b, "Patterns to use: %s\n", joinField(p.QueryPatterns, "typicalQuestions", "how to, what is"))
	fmt.Fprintf(&b, "Patterns to AVOID: %s\n\n", joinField(p.QueryPatterns, "avoidedPatterns", "formal language"))
	b.WriteString("Generate search queries exactly as this person would type them into an AI assistant like ChatGPT or Perplexity.\n")
	b.WriteString("Be authentic - use their natural language patterns, including casual phrasing, slang if appropriate, and realistic typos or abbreviations they might use.")

	return b.String()
}

func buildQueryPrompt(p *common.Persona, queryCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate exactly %d search queries that this persona would naturally type into an AI assistant.\n\n", queryCount)

	if p.BrandID != "" {
		fmt.Fprintf(&b, "The topics should relate to %s and what this person might want to know about it.\n\n", p.BrandID)
	}

	b.WriteString("Requirements:\n")
	b.WriteString("1. Each query should sound authentic to this persona's voice and concerns\n")
	b.WriteString("2. Queries should be the kind someone would actually type, not formal questions\n")
	b.WriteString("3. Include a mix of question types (how-to, comparison, opinion-seeking, factual)\n")
	b.WriteString("4. Do NOT use formal or corporate language\n")
	b.WriteString("5. Do NOT include numbering or explanations - just the raw queries\n")

	if len(p.TargetQueries) > 0 {
		b.WriteString("\nExample queries this persona might ask:\n")
		examples := p.TargetQueries
		if len(examples) > 3 {
			examples = examples[:3]
		}
		for _, q := range examples {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}

	b.WriteString("\nOutput only the queries, one per line, no numbering, no explanations:")
	return b.String()
}

// ParseQueries extracts individual queries from a model response, stripping
// list numbering and bullet prefixes. Lines too short to be real queries
// are dropped.
func ParseQueries(response string) []string {
	lines := strings.Split(strings.TrimSpace(response), "\n")
	queries := make([]string, 0, len(lines))

	for _, line := range lines {
		query := strings.TrimSpace(line)

		if query != "" && query[0] >= '0' && query[0] <= '9' {
			parts := strings.SplitN(query, " ", 2)
			if len(parts) > 1 && (strings.HasSuffix(parts[0], ".") || strings.HasSuffix(parts[0], ")")) {
				query = strings.TrimSpace(parts[1])
			}
		}

		if strings.HasPrefix(query, "- ") {
			query = strings.TrimSpace(query[2:])
		}

		if len(query) > 5 {
			queries = append(queries, query)
		}
	}

	return queries
}

// fallbackQueries builds a deterministic query set from the persona's brand
// and target queries when no completion model is available.
func fallbackQueries(p *common.Persona, queryCount int) []string {
	brand := strings.ReplaceAll(p.BrandID, "-", " ")
	if brand == "" {
		brand = "this brand"
	}

	queries := make([]string, 0, queryCount)
	queries = append(queries, p.TargetQueries...)

	templates := []string{
		"what is %s",
		"is %s worth it",
		"%s reviews",
		"how does %s compare to alternatives",
		"pros and cons of %s",
		"%s experiences",
	}
	for _, t := range templates {
		if len(queries) >= queryCount {
			break
		}
		queries = append(queries, fmt.Sprintf(t, brand))
	}

	if len(queries) > queryCount {
		queries = queries[:queryCount]
	}
	return queries
}

func ageRange(demographics map[string]any) (int, int) {
	low, high := 25, 35
	raw, ok := demographics["ageRange"]
	if !ok {
		return low, high
	}

	values, ok := raw.([]any)
	if !ok || len(values) < 2 {
		return low, high
	}

	if v, ok := toInt(values[0]); ok {
		low = v
	}
	if v, ok := toInt(values[1]); ok {
		high = v
	}
	return low, high
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func stringField(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func joinField(m map[string]any, key, fallback string) string {
	raw, ok := m[key]
	if !ok {
		return fallback
	}

	var parts []string
	switch values := raw.(type) {
	case []string:
		parts = values
	case []any:
		for _, v := range values {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
	}

	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, ", ")
}
