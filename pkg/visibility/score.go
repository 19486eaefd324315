package visibility

import (
	"math"
	"strings"

	"github.com/brandpoint/intelligence-engine/pkg/common"
)

// Position buckets for how early the first brand mention occurs.
const (
	PositionProminent = "prominent"
	PositionMiddle    = "middle"
	PositionLate      = "late"
)

const (
	contextBefore = 100
	contextAfter  = 150
)

// Response-level sentiment lexicon, tuned for the vocabulary of AI
// assistant answers rather than raw user content.
var (
	responsePositiveWords = []string{
		"great", "excellent", "recommended", "best", "top", "leading",
		"trusted", "reliable", "quality", "innovative", "advantage",
	}
	responseNegativeWords = []string{
		"avoid", "problem", "issue", "concern", "risk", "negative",
		"worst", "poor", "bad", "unreliable", "disadvantage",
	}
)

// Score analyzes a single engine response for brand visibility. The
// score is 0 when the brand never appears; otherwise it starts at a 0.5
// base, adds up to 0.3 for an early first mention and up to 0.3 for
// repeated mentions, so a heavily repeated early mention can exceed 1.0.
// That upper bound is intentional: consumers rank on relative order.
func Score(query string, engine string, response string, brandID string) common.VisibilityRecord {
	record := common.VisibilityRecord{
		Query:     query,
		Engine:    engine,
		Sentiment: "neutral",
	}

	responseLower := strings.ToLower(response)
	variations := BrandVariations(brandID)

	firstIndex := -1
	mentionCount := 0
	for _, v := range variations {
		idx := strings.Index(responseLower, v)
		if idx == -1 {
			continue
		}
		if firstIndex == -1 || idx < firstIndex {
			firstIndex = idx
		}
		mentionCount += strings.Count(responseLower, v)
	}

	if firstIndex == -1 || len(response) == 0 {
		return record
	}

	record.BrandMentioned = true

	responseLength := float64(len(response))
	positionScore := 1.0 - float64(firstIndex)/responseLength
	mentionScore := math.Min(float64(mentionCount)*0.1, 0.3)
	record.VisibilityScore = round3(0.5 + positionScore*0.3 + mentionScore)

	switch {
	case float64(firstIndex) < responseLength*0.2:
		record.Position = PositionProminent
	case float64(firstIndex) < responseLength*0.5:
		record.Position = PositionMiddle
	default:
		record.Position = PositionLate
	}

	contextStart := firstIndex - contextBefore
	if contextStart < 0 {
		contextStart = 0
	}
	contextEnd := firstIndex + contextAfter
	if contextEnd > len(response) {
		contextEnd = len(response)
	}
	record.MentionContext = strings.TrimSpace(response[contextStart:contextEnd])

	record.Sentiment = responseSentiment(responseLower)

	return record
}

// responseSentiment labels a response by lexicon hits with a one-word
// margin: a single stray word in either direction stays neutral.
func responseSentiment(responseLower string) string {
	positive := 0
	for _, w := range responsePositiveWords {
		if strings.Contains(responseLower, w) {
			positive++
		}
	}
	negative := 0
	for _, w := range responseNegativeWords {
		if strings.Contains(responseLower, w) {
			negative++
		}
	}

	if positive > negative+1 {
		return "positive"
	}
	if negative > positive+1 {
		return "negative"
	}
	return "neutral"
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
