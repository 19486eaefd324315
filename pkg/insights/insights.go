package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/brandpoint/intelligence-engine/pkg/ai"
	"github.com/brandpoint/intelligence-engine/pkg/common"
	"github.com/brandpoint/intelligence-engine/pkg/graph"
	"github.com/brandpoint/intelligence-engine/pkg/logger"
)

// Narrative insight types.
const (
	TypeVisibility      = "visibility"
	TypeCompetitive     = "competitive"
	TypeContent         = "content"
	TypeRecommendations = "recommendations"
)

// InsightData bundles the aggregated intelligence a report is generated
// from. Only the fields relevant to the requested insight type need to
// be populated.
type InsightData struct {
	VisibilityResults []common.VisibilityRecord         `json:"visibilityResults,omitempty"`
	EngineBreakdown   map[string]common.EngineBreakdown `json:"engineBreakdown,omitempty"`
	OverallVisibility float64                           `json:"overallVisibility,omitempty"`
	BestEngine        string                            `json:"bestEngine,omitempty"`
	ImprovementAreas  []string                          `json:"improvementAreas,omitempty"`

	Competitors []graph.Competitor `json:"competitors,omitempty"`
	GraphData   *graph.GraphResult `json:"graphData,omitempty"`

	TopicAnalysis  []graph.Topic      `json:"topicAnalysis,omitempty"`
	SimilarContent []common.SearchHit `json:"similarContent,omitempty"`
	ContentMetrics map[string]any     `json:"contentMetrics,omitempty"`

	HistoricalTrends map[string]any `json:"historicalTrends,omitempty"`
}

// Request asks for one narrative insight report.
type Request struct {
	InsightType string      `json:"insightType"`
	BrandID     string      `json:"brandId"`
	Data        InsightData `json:"data"`
}

// Report is the structured model output plus envelope fields. When the
// model response cannot be parsed, the report instead carries
// rawResponse and parseError so callers still get the text.
type Report map[string]any

// Generator produces narrative insight reports from aggregated
// intelligence data using a language model.
type Generator struct {
	aiClient ai.BrandAIClient
}

func NewGenerator(aiClient ai.BrandAIClient) *Generator {
	return &Generator{aiClient: aiClient}
}

// Generate builds the prompt for the requested insight type, queries the
// model and parses the structured response. A malformed model response
// is returned as a report with rawResponse and parseError set; it never
// fails the call.
func (g *Generator) Generate(ctx context.Context, req Request) (Report, error) {
	insightType := req.InsightType
	if insightType == "" {
		insightType = TypeVisibility
	}

	logger.Info("[Insights] Generating insights", "insightType", insightType, "brandId", req.BrandID)

	var prompt string
	switch insightType {
	case TypeVisibility:
		prompt = visibilityPrompt(req.BrandID, req.Data)
	case TypeCompetitive:
		prompt = competitivePrompt(req.BrandID, req.Data)
	case TypeContent:
		prompt = contentPrompt(req.BrandID, req.Data)
	case TypeRecommendations:
		prompt = recommendationsPrompt(req.BrandID, req.Data)
	default:
		return nil, fmt.Errorf("unknown insight type: %s", insightType)
	}

	response, err := g.aiClient.GenerateCompletion(ctx, prompt, ai.WithTemperature(0.3))
	if err != nil {
		return nil, fmt.Errorf("generating %s insights: %w", insightType, err)
	}

	report := parseReport(response)
	report["insightType"] = insightType
	report["brandId"] = req.BrandID
	report["generatedAt"] = time.Now().UTC().Format(time.RFC3339)
	return report, nil
}

func parseReport(response string) Report {
	var parsed map[string]any
	if err := ai.UnmarshalFlexible(response, &parsed); err != nil {
		logger.Warn("[Insights] Failed to parse model response", "error", err)
		return Report{
			"rawResponse": response,
			"parseError":  err.Error(),
		}
	}
	return Report(parsed)
}
