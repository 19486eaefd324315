package visibility

import (
	"fmt"
	"sort"

	"github.com/brandpoint/intelligence-engine/pkg/common"
)

// Aggregate rolls per-response visibility records into per-engine and
// overall visibility plus deterministic rule-based insight strings.
func Aggregate(brandID string, records []common.VisibilityRecord) common.AggregateResult {
	if len(records) == 0 {
		return common.AggregateResult{
			BrandID:         brandID,
			QueryResults:    []common.VisibilityRecord{},
			EngineBreakdown: map[string]common.EngineBreakdown{},
			Insights:        []string{"No results to analyze"},
		}
	}

	engineScores := map[string][]float64{}
	total := 0.0
	for _, r := range records {
		engineScores[r.Engine] = append(engineScores[r.Engine], r.VisibilityScore)
		total += r.VisibilityScore
	}

	breakdown := map[string]common.EngineBreakdown{}
	for engine, scores := range engineScores {
		sum := 0.0
		mentioned := 0
		for _, s := range scores {
			sum += s
			if s > 0 {
				mentioned++
			}
		}
		breakdown[engine] = common.EngineBreakdown{
			AverageVisibility: sum / float64(len(scores)),
			MentionRate:       float64(mentioned) / float64(len(scores)),
			QueryCount:        len(scores),
		}
	}

	return common.AggregateResult{
		BrandID:           brandID,
		OverallVisibility: total / float64(len(records)),
		QueryResults:      records,
		EngineBreakdown:   breakdown,
		Insights:          Insights(brandID, records, breakdown),
		TotalQueries:      len(records),
	}
}

// Insights derives ordered rule-based insight strings: the visibility
// tier, a best-vs-worst engine callout when the gap exceeds 0.2, the
// prominent mention count, and a sentiment skew callout.
func Insights(brandID string, records []common.VisibilityRecord, breakdown map[string]common.EngineBreakdown) []string {
	if len(records) == 0 {
		return []string{"No query results to analyze"}
	}

	insights := []string{}

	mentioned := 0
	totalScore := 0.0
	prominent := 0
	positive := 0
	negative := 0
	for _, r := range records {
		totalScore += r.VisibilityScore
		if r.BrandMentioned {
			mentioned++
			switch r.Sentiment {
			case "positive":
				positive++
			case "negative":
				negative++
			}
		}
		if r.Position == PositionProminent {
			prominent++
		}
	}

	mentionRate := float64(mentioned) / float64(len(records))
	avgVisibility := totalScore / float64(len(records))

	switch {
	case avgVisibility >= 0.6:
		insights = append(insights, fmt.Sprintf(
			"Strong visibility: %s appears prominently in %.0f%% of AI responses", brandID, mentionRate*100))
	case avgVisibility >= 0.3:
		insights = append(insights, fmt.Sprintf(
			"Moderate visibility: %s mentioned in %.0f%% of responses, but not always prominently", brandID, mentionRate*100))
	default:
		insights = append(insights, fmt.Sprintf(
			"Low visibility: %s rarely appears in AI responses (%.0f%%)", brandID, mentionRate*100))
	}

	if best, worst, ok := bestAndWorstEngine(breakdown); ok {
		if breakdown[best].AverageVisibility > breakdown[worst].AverageVisibility+0.2 {
			insights = append(insights, fmt.Sprintf("Best performance on %s, weakest on %s", best, worst))
		}
	}

	if prominent > 0 {
		insights = append(insights, fmt.Sprintf("Featured prominently in %d responses", prominent))
	}

	if mentioned > 0 {
		positiveRate := float64(positive) / float64(mentioned)
		negativeRate := float64(negative) / float64(mentioned)
		if positiveRate >= 0.6 {
			insights = append(insights, "Sentiment is predominantly positive when mentioned")
		} else if negativeRate >= 0.3 {
			insights = append(insights, "Some negative sentiment detected - review mention contexts")
		}
	}

	return insights
}

// bestAndWorstEngine picks the engines with the highest and lowest
// average visibility. Engine names are walked in sorted order so ties
// resolve deterministically.
func bestAndWorstEngine(breakdown map[string]common.EngineBreakdown) (string, string, bool) {
	if len(breakdown) == 0 {
		return "", "", false
	}

	engines := make([]string, 0, len(breakdown))
	for engine := range breakdown {
		engines = append(engines, engine)
	}
	sort.Strings(engines)

	best, worst := engines[0], engines[0]
	for _, engine := range engines[1:] {
		if breakdown[engine].AverageVisibility > breakdown[best].AverageVisibility {
			best = engine
		}
		if breakdown[engine].AverageVisibility < breakdown[worst].AverageVisibility {
			worst = engine
		}
	}
	return best, worst, true
}
