package content

import (
	"math"
	"strings"
)

// Ingestion-time sentiment lexicon. Deliberately small: this is a cheap
// first-pass signal, not a classifier.
var (
	positiveWords = []string{"good", "great", "excellent", "amazing", "best", "love", "recommend", "happy"}
	negativeWords = []string{"bad", "terrible", "awful", "worst", "hate", "poor", "avoid", "disappointed"}
)

// SentimentScore computes a lexicon sentiment score in [-1, 1]:
// (positive hits - negative hits) / total hits, rounded to 3 decimals,
// or 0 when no sentiment word occurs at all.
func SentimentScore(text string) float64 {
	lower := strings.ToLower(text)

	positive := 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			positive++
		}
	}
	negative := 0
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			negative++
		}
	}

	total := positive + negative
	if total == 0 {
		return 0
	}
	return math.Round(float64(positive-negative)/float64(total)*1000) / 1000
}
