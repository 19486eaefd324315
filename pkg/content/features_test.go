package content

import "testing"

func TestExtractTextFeatures(t *testing.T) {
	text := "The launch went well. Customers love the product!\n\nSecond paragraph mentions https://example.com and @acme with #launch."

	features := ExtractTextFeatures(text)

	if features.WordCount != 16 {
		t.Errorf("expected 16 words, got %d", features.WordCount)
	}
	if features.ParagraphCount != 2 {
		t.Errorf("expected 2 paragraphs, got %d", features.ParagraphCount)
	}
	if !features.HasURLs {
		t.Errorf("expected url detection")
	}
	if !features.HasMentions {
		t.Errorf("expected mention detection")
	}
	if !features.HasHashtags {
		t.Errorf("expected hashtag detection")
	}
	if features.HasEmails {
		t.Errorf("did not expect email detection")
	}
}

func TestExtractContentMetrics(t *testing.T) {
	article := ExtractContentMetrics("# Heading\n\n- item one\n- item two", "article")
	if article["hasHeadings"] != true {
		t.Errorf("expected heading detection in article metrics")
	}
	if article["hasLists"] != true {
		t.Errorf("expected list detection in article metrics")
	}

	social := ExtractContentMetrics("@acme and @rival both posted #news", "social")
	if social["mentionCount"] != 2 {
		t.Errorf("expected 2 mentions, got %v", social["mentionCount"])
	}
	if social["hashtagCount"] != 1 {
		t.Errorf("expected 1 hashtag, got %v", social["hashtagCount"])
	}

	review := ExtractContentMetrics("4/5 stars, pros: battery, cons: price", "review")
	if review["hasRating"] != true {
		t.Errorf("expected rating detection in review metrics")
	}
	if review["hasProsAndCons"] != true {
		t.Errorf("expected pros/cons detection in review metrics")
	}
}

func TestExtractEntityFeatures(t *testing.T) {
	text := "Acme Corp met with Globex Industries on 2024-03-15, see https://acme.example/report"

	entities := ExtractEntityFeatures(text)

	if len(entities.URLs) != 1 {
		t.Errorf("expected 1 url, got %v", entities.URLs)
	}
	if len(entities.Dates) != 1 || entities.Dates[0] != "2024-03-15" {
		t.Errorf("expected iso date extraction, got %v", entities.Dates)
	}

	found := map[string]bool{}
	for _, e := range entities.PotentialEntities {
		found[e] = true
	}
	if !found["Acme Corp"] || !found["Globex Industries"] {
		t.Errorf("expected capitalized phrase extraction, got %v", entities.PotentialEntities)
	}
}

func TestExtractSentimentFeatures(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantLabel string
	}{
		{
			name:      "strongly positive",
			text:      "absolutely love it, best product, great support",
			wantLabel: "positive",
		},
		{
			name:      "strongly negative",
			text:      "terrible, broken and useless, avoid this",
			wantLabel: "negative",
		},
		{
			name:      "balanced is neutral",
			text:      "great screen but terrible battery",
			wantLabel: "neutral",
		},
		{
			name:      "no sentiment words",
			text:      "the device ships in three colors",
			wantLabel: "neutral",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSentimentFeatures(tt.text)
			if got.SentimentLabel != tt.wantLabel {
				t.Errorf("expected label %q, got %q (score %f)", tt.wantLabel, got.SentimentLabel, got.SentimentScore)
			}
		})
	}
}
