package insights

import (
	"encoding/json"
	"fmt"
)

func visibilityPrompt(brandID string, data InsightData) string {
	mentioned := 0
	prominent, middle, late := 0, 0, 0
	positive, neutral, negative := 0, 0, 0
	totalScore := 0.0
	for _, r := range data.VisibilityResults {
		totalScore += r.VisibilityScore
		if r.BrandMentioned {
			mentioned++
		}
		switch r.Position {
		case "prominent":
			prominent++
		case "middle":
			middle++
		case "late":
			late++
		}
		switch r.Sentiment {
		case "positive":
			positive++
		case "neutral":
			neutral++
		case "negative":
			negative++
		}
	}
	avgScore := 0.0
	if len(data.VisibilityResults) > 0 {
		avgScore = totalScore / float64(len(data.VisibilityResults))
	}

	context := fmt.Sprintf(`
Analyze the following AI visibility data for brand %q:

Current Visibility Scores by Engine:
%s

Recent Query Results Summary:
- Total queries analyzed: %d
- Queries with brand mention: %d
- Average visibility score: %.0f%%

Position Distribution:
- Prominent mentions: %d
- Middle mentions: %d
- Late mentions: %d

Sentiment Distribution:
- Positive: %d
- Neutral: %d
- Negative: %d

Historical context: %s
`,
		brandID,
		jsonIndent(data.EngineBreakdown),
		len(data.VisibilityResults),
		mentioned,
		avgScore*100,
		prominent, middle, late,
		positive, neutral, negative,
		historicalContext(data.HistoricalTrends),
	)

	return fmt.Sprintf(`Based on the visibility data provided, generate actionable insights.

%s

Provide your analysis in the following JSON format:
{
    "keyFindings": ["finding1", "finding2", "finding3"],
    "strengthAreas": ["strength1", "strength2"],
    "improvementAreas": ["area1", "area2"],
    "engineSpecificInsights": {"engine": "insight"},
    "recommendedActions": ["action1", "action2", "action3"],
    "riskFactors": ["risk1", "risk2"],
    "summary": "2-3 sentence executive summary"
}

Respond only with the JSON object, no additional text.`, context)
}

func competitivePrompt(brandID string, data InsightData) string {
	competitors := data.Competitors
	if len(competitors) > 10 {
		competitors = competitors[:10]
	}
	nodeCount, edgeCount := 0, 0
	if data.GraphData != nil {
		nodeCount = data.GraphData.NodeCount
		edgeCount = data.GraphData.EdgeCount
	}

	context := fmt.Sprintf(`
Analyze the competitive landscape for brand %q:

Competitors identified (by co-mention frequency):
%s

Brand relationship network:
- Connected entities: %d
- Relationship strength: %d connections
`,
		brandID,
		jsonIndent(competitors),
		nodeCount,
		edgeCount,
	)

	return fmt.Sprintf(`Analyze the competitive landscape and provide strategic insights.

%s

Provide your analysis in the following JSON format:
{
    "competitivePosition": "description of current position",
    "mainCompetitors": ["competitor1", "competitor2"],
    "competitorStrengths": {"competitor": ["strength1", "strength2"]},
    "differentiationOpportunities": ["opportunity1", "opportunity2"],
    "marketGaps": ["gap1", "gap2"],
    "competitiveThreats": ["threat1", "threat2"],
    "recommendedStrategies": ["strategy1", "strategy2"],
    "summary": "2-3 sentence executive summary"
}

Respond only with the JSON object, no additional text.`, context)
}

func contentPrompt(brandID string, data InsightData) string {
	topics := data.TopicAnalysis
	if len(topics) > 15 {
		topics = topics[:15]
	}

	context := fmt.Sprintf(`
Analyze content patterns for brand %q:

Top associated topics:
%s

Similar content found: %d pieces
Content metrics: %s
`,
		brandID,
		jsonIndent(topics),
		len(data.SimilarContent),
		jsonIndent(data.ContentMetrics),
	)

	return fmt.Sprintf(`Analyze the content patterns and provide strategic insights.

%s

Provide your analysis in the following JSON format:
{
    "dominantTopics": ["topic1", "topic2", "topic3"],
    "contentGaps": ["gap1", "gap2"],
    "topPerformingContentTypes": ["type1", "type2"],
    "topicOpportunities": ["opportunity1", "opportunity2"],
    "contentRecommendations": ["recommendation1", "recommendation2"],
    "audienceInterests": ["interest1", "interest2"],
    "trendingThemes": ["theme1", "theme2"],
    "summary": "2-3 sentence executive summary"
}

Respond only with the JSON object, no additional text.`, context)
}

func recommendationsPrompt(brandID string, data InsightData) string {
	competitorNames := []string{}
	for i, c := range data.Competitors {
		if i == 5 {
			break
		}
		name := c.Name
		if name == "" {
			name = c.BrandID
		}
		competitorNames = append(competitorNames, name)
	}

	context := fmt.Sprintf(`
Generate strategic recommendations for brand %q based on:

Visibility Performance:
- Overall visibility score: %.0f%%
- Best performing engine: %s
- Areas needing improvement: %s

Competitive Position:
- Main competitors: %s

Content Strategy:
- Top topics: %s

Historical Performance:
%s
`,
		brandID,
		data.OverallVisibility*100,
		orUnknown(data.BestEngine),
		jsonCompact(data.ImprovementAreas),
		jsonCompact(competitorNames),
		jsonCompact(data.TopicAnalysis),
		historicalContext(data.HistoricalTrends),
	)

	return fmt.Sprintf(`Based on the comprehensive data provided, generate prioritized strategic recommendations.

%s

Provide your recommendations in the following JSON format:
{
    "immediateActions": [
        {"action": "description", "priority": "high/medium/low", "impact": "expected impact", "effort": "low/medium/high"}
    ],
    "shortTermStrategies": [
        {"strategy": "description", "timeline": "1-4 weeks", "expectedOutcome": "outcome"}
    ],
    "longTermInitiatives": [
        {"initiative": "description", "timeline": "1-3 months", "expectedOutcome": "outcome"}
    ],
    "contentCalendarSuggestions": ["suggestion1", "suggestion2"],
    "keyMetricsToTrack": ["metric1", "metric2"],
    "riskMitigation": ["action1", "action2"],
    "executiveSummary": "3-4 sentence summary of the most critical recommendations"
}

Respond only with the JSON object, no additional text.`, context)
}

func historicalContext(historical map[string]any) string {
	if len(historical) == 0 {
		return "No historical data available"
	}
	return jsonIndent(historical)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func jsonIndent(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

func jsonCompact(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}
