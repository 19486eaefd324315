package graph

import (
	"reflect"
	"testing"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Corp", "acme_corp"},
		{"well-known-brand", "well_known_brand"},
		{"Mixed Case-Name", "mixed_case_name"},
		{"already_normalized", "already_normalized"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeID(tt.in); got != tt.want {
			t.Errorf("NormalizeID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSentimentScoreFor(t *testing.T) {
	tests := []struct {
		sentiment string
		want      float64
	}{
		{"positive", 1.0},
		{"negative", -1.0},
		{"neutral", 0.0},
		{"unknown", 0.0},
	}

	for _, tt := range tests {
		if got := SentimentScoreFor(tt.sentiment); got != tt.want {
			t.Errorf("SentimentScoreFor(%q) = %f, want %f", tt.sentiment, got, tt.want)
		}
	}
}

func TestValidRelType(t *testing.T) {
	valid := []string{"MENTIONS", "MENTIONED_WITH", "RELATED_TO", "ABOUT", "HAS_SENTIMENT"}
	for _, relType := range valid {
		if err := validRelType(relType); err != nil {
			t.Errorf("expected %q to be valid: %v", relType, err)
		}
	}

	invalid := []string{"", "mentions", "DROP INDEX", "Bad-Type", "e]->() DETACH DELETE"}
	for _, relType := range invalid {
		if err := validRelType(relType); err == nil {
			t.Errorf("expected %q to be rejected", relType)
		}
	}
}

func TestValidLabel(t *testing.T) {
	for label, want := range map[string]string{"brand": "Brand", "topic": "Topic", "content": "Content"} {
		got, err := validLabel(label)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", label, err)
		}
		if got != want {
			t.Errorf("validLabel(%q) = %q, want %q", label, got, want)
		}
	}

	if _, err := validLabel("person"); err == nil {
		t.Errorf("expected unknown label to be rejected")
	}
}

func TestNewTopic(t *testing.T) {
	tests := []struct {
		name  string
		count int64
		want  Topic
	}{
		{"pricing", 7, Topic{Name: "pricing", MentionCount: 7, RelevanceScore: 0.7}},
		{"support", 3, Topic{Name: "support", MentionCount: 3, RelevanceScore: 0.3}},
		{"hot topic", 25, Topic{Name: "hot topic", MentionCount: 25, RelevanceScore: 1.0}},
	}

	for _, tt := range tests {
		if got := newTopic(tt.name, tt.count); got != tt.want {
			t.Errorf("newTopic(%q, %d) = %+v, want %+v", tt.name, tt.count, got, tt.want)
		}
	}
}

func TestSortCompetitors(t *testing.T) {
	competitors := []Competitor{
		{BrandID: "brand_c", CoMentionCount: 1},
		{BrandID: "brand_b", CoMentionCount: 3},
	}
	sortCompetitors(competitors)

	want := []Competitor{
		{BrandID: "brand_b", CoMentionCount: 3},
		{BrandID: "brand_c", CoMentionCount: 1},
	}
	if !reflect.DeepEqual(competitors, want) {
		t.Errorf("expected competitors ordered by co-mention count, got %+v", competitors)
	}
}

func TestAggregateSentiments(t *testing.T) {
	entries := []SentimentEntry{
		{Sentiment: "positive", Score: 1},
		{Sentiment: "positive", Score: 1},
		{Sentiment: "negative", Score: -1},
		{Sentiment: "neutral", Score: 0},
	}

	counts, avg := aggregateSentiments(entries)

	wantCounts := map[string]int{"positive": 2, "neutral": 1, "negative": 1}
	if !reflect.DeepEqual(counts, wantCounts) {
		t.Errorf("expected counts %v, got %v", wantCounts, counts)
	}
	if avg != 0.25 {
		t.Errorf("expected average 0.25, got %f", avg)
	}

	counts, avg = aggregateSentiments(nil)
	if avg != 0 {
		t.Errorf("expected zero average for no entries, got %f", avg)
	}
	if counts["positive"] != 0 || counts["neutral"] != 0 || counts["negative"] != 0 {
		t.Errorf("expected zeroed counts, got %v", counts)
	}
}
