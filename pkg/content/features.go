package content

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/brandpoint/intelligence-engine/pkg/logger"
)

// TextFeatures are structural features of a text, independent of content
// type.
type TextFeatures struct {
	WordCount         int         `json:"wordCount"`
	SentenceCount     int         `json:"sentenceCount"`
	ParagraphCount    int         `json:"paragraphCount"`
	AvgWordLength     float64     `json:"avgWordLength"`
	AvgSentenceLength float64     `json:"avgSentenceLength"`
	UniqueWords       int         `json:"uniqueWords"`
	TopWords          []WordCount `json:"topWords"`
	HasURLs           bool        `json:"hasUrls"`
	HasEmails         bool        `json:"hasEmails"`
	HasMentions       bool        `json:"hasMentions"`
	HasHashtags       bool        `json:"hasHashtags"`
}

type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// SentimentFeatures break the lexicon signal down into its raw counts.
type SentimentFeatures struct {
	PositiveWordCount  int     `json:"positiveWordCount"`
	NegativeWordCount  int     `json:"negativeWordCount"`
	IntensityWordCount int     `json:"intensityWordCount"`
	NegationWordCount  int     `json:"negationWordCount"`
	SentimentScore     float64 `json:"sentimentScore"`
	SentimentLabel     string  `json:"sentimentLabel"`
}

// EntityFeatures hold naive pattern-extracted entity candidates.
type EntityFeatures struct {
	URLs              []string `json:"urls"`
	Dates             []string `json:"dates"`
	PotentialEntities []string `json:"potentialEntities"`
}

// ContentFeatures is the full feature set extracted from one piece of
// content.
type ContentFeatures struct {
	Embedding          []float32         `json:"embedding,omitempty"`
	EmbeddingDimension int               `json:"embeddingDimension"`
	TextFeatures       TextFeatures      `json:"textFeatures"`
	ContentMetrics     map[string]any    `json:"contentMetrics"`
	EntityFeatures     EntityFeatures    `json:"entityFeatures"`
	SentimentFeatures  SentimentFeatures `json:"sentimentFeatures"`
	ContentType        string            `json:"contentType"`
	ExtractedAt        string            `json:"extractedAt"`
}

var (
	urlPattern       = regexp.MustCompile(`https?://\S+`)
	emailPattern     = regexp.MustCompile(`\b[\w.-]+@[\w.-]+\.\w+\b`)
	mentionPattern   = regexp.MustCompile(`@\w+`)
	hashtagPattern   = regexp.MustCompile(`#\w+`)
	sentencePattern  = regexp.MustCompile(`[.!?]+`)
	headingPattern   = regexp.MustCompile(`(?m)^#+\s|<h[1-6]>`)
	listPattern      = regexp.MustCompile(`(?m)^[-*]\s|^\d+\.\s`)
	quotePattern     = regexp.MustCompile(`(?m)^>\s|"[^"]{20,}"`)
	ratingPattern    = regexp.MustCompile(`(?i)\d+(/\d+|\s*stars?|\s*out of)`)
	prosConsPattern  = regexp.MustCompile(`(?i)pros?|cons?|advantages?|disadvantages?`)
	capPhrasePattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
		regexp.MustCompile(`\b\d{1,2}-\d{1,2}-\d{2,4}\b`),
		regexp.MustCompile(`(?i)\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}\b`),
		regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	}

	featurePositiveWords = []string{
		"good", "great", "excellent", "amazing", "wonderful", "fantastic",
		"best", "love", "perfect", "awesome", "outstanding", "brilliant",
		"recommend", "happy", "pleased", "satisfied", "impressive",
	}
	featureNegativeWords = []string{
		"bad", "terrible", "awful", "horrible", "worst", "hate", "poor",
		"disappointing", "frustrated", "angry", "avoid", "problem", "issue",
		"fail", "broken", "useless", "waste",
	}
	intensityWords = []string{
		"very", "extremely", "incredibly", "absolutely", "totally",
		"really", "highly", "completely", "utterly", "definitely",
	}
	negationWords = []string{"not", "never", "no", "none", "neither", "nor", "n't", "without"}
)

// ExtractFeatures computes the full feature set for one piece of content,
// including its embedding. Embedding failure degrades to a feature set
// without a vector rather than failing the call.
func (s *Store) ExtractFeatures(ctx context.Context, text string, contentType string) (*ContentFeatures, error) {
	if text == "" {
		return nil, fmt.Errorf("content is required")
	}
	if contentType == "" {
		contentType = "article"
	}

	logger.Info("[Content][Features] Extracting features", "contentType", contentType, "length", len(text))

	features := &ContentFeatures{
		TextFeatures:      ExtractTextFeatures(text),
		ContentMetrics:    ExtractContentMetrics(text, contentType),
		EntityFeatures:    ExtractEntityFeatures(text),
		SentimentFeatures: ExtractSentimentFeatures(text),
		ContentType:       contentType,
		ExtractedAt:       time.Now().UTC().Format(time.RFC3339),
	}

	embedding, err := s.aiClient.GenerateEmbedding(ctx, []byte(text))
	if err != nil {
		logger.Error("[Content][Features] Embedding generation failed", "error", err)
	} else {
		features.Embedding = embedding
		features.EmbeddingDimension = len(embedding)
	}

	return features, nil
}

// ExtractTextFeatures computes structural text statistics.
func ExtractTextFeatures(text string) TextFeatures {
	words := strings.Fields(text)
	sentences := 0
	for _, s := range sentencePattern.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	paragraphs := 0
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs++
		}
	}

	totalLen := 0
	freq := map[string]int{}
	unique := map[string]struct{}{}
	for _, w := range words {
		totalLen += len(w)
		lower := strings.Trim(strings.ToLower(w), ".,!?;:")
		unique[strings.ToLower(w)] = struct{}{}
		if len(lower) > 3 {
			freq[lower]++
		}
	}

	avgWordLength := 0.0
	avgSentenceLength := 0.0
	if len(words) > 0 {
		avgWordLength = round2(float64(totalLen) / float64(len(words)))
	}
	if sentences > 0 {
		avgSentenceLength = round2(float64(len(words)) / float64(sentences))
	}

	top := make([]WordCount, 0, len(freq))
	for w, c := range freq {
		top = append(top, WordCount{Word: w, Count: c})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Word < top[j].Word
	})
	if len(top) > 20 {
		top = top[:20]
	}

	return TextFeatures{
		WordCount:         len(words),
		SentenceCount:     sentences,
		ParagraphCount:    paragraphs,
		AvgWordLength:     avgWordLength,
		AvgSentenceLength: avgSentenceLength,
		UniqueWords:       len(unique),
		TopWords:          top,
		HasURLs:           urlPattern.MatchString(text),
		HasEmails:         emailPattern.MatchString(text),
		HasMentions:       mentionPattern.MatchString(text),
		HasHashtags:       hashtagPattern.MatchString(text),
	}
}

// ExtractContentMetrics computes content-type specific metrics.
func ExtractContentMetrics(text string, contentType string) map[string]any {
	metrics := map[string]any{
		"characterCount": len(text),
		"contentType":    contentType,
	}

	switch contentType {
	case "article":
		metrics["hasHeadings"] = headingPattern.MatchString(text)
		metrics["hasLists"] = listPattern.MatchString(text)
		metrics["hasQuotes"] = quotePattern.MatchString(text)
		metrics["estimatedReadTime"] = len(strings.Fields(text)) / 200
	case "social":
		metrics["mentionCount"] = len(mentionPattern.FindAllString(text, -1))
		metrics["hashtagCount"] = len(hashtagPattern.FindAllString(text, -1))
		metrics["urlCount"] = len(urlPattern.FindAllString(text, -1))
	case "review":
		metrics["hasRating"] = ratingPattern.MatchString(text)
		metrics["hasProsAndCons"] = prosConsPattern.MatchString(text)
	}

	return metrics
}

// ExtractEntityFeatures extracts naive entity candidates by pattern.
func ExtractEntityFeatures(text string) EntityFeatures {
	urls := urlPattern.FindAllString(text, -1)
	if len(urls) > 10 {
		urls = urls[:10]
	}

	dates := []string{}
	seen := map[string]struct{}{}
	for _, p := range datePatterns {
		for _, d := range p.FindAllString(text, -1) {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			dates = append(dates, d)
		}
	}
	if len(dates) > 10 {
		dates = dates[:10]
	}

	candidates := []string{}
	seenCap := map[string]struct{}{}
	for _, c := range capPhrasePattern.FindAllString(text, -1) {
		if _, ok := seenCap[c]; ok {
			continue
		}
		seenCap[c] = struct{}{}
		candidates = append(candidates, c)
	}
	if len(candidates) > 20 {
		candidates = candidates[:20]
	}

	return EntityFeatures{
		URLs:              urls,
		Dates:             dates,
		PotentialEntities: candidates,
	}
}

// ExtractSentimentFeatures computes the extended sentiment breakdown with
// the larger feature lexicon.
func ExtractSentimentFeatures(text string) SentimentFeatures {
	lower := strings.ToLower(text)

	count := func(words []string) int {
		n := 0
		for _, w := range words {
			if strings.Contains(lower, w) {
				n++
			}
		}
		return n
	}

	positive := count(featurePositiveWords)
	negative := count(featureNegativeWords)
	intensity := count(intensityWords)
	negation := count(negationWords)

	score := 0.0
	if positive+negative > 0 {
		score = math.Round(float64(positive-negative)/float64(positive+negative)*1000) / 1000
	}

	label := "neutral"
	if score > 0.2 {
		label = "positive"
	} else if score < -0.2 {
		label = "negative"
	}

	return SentimentFeatures{
		PositiveWordCount:  positive,
		NegativeWordCount:  negative,
		IntensityWordCount: intensity,
		NegationWordCount:  negation,
		SentimentScore:     score,
		SentimentLabel:     label,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
