package visibility

import (
	"strings"
	"testing"

	"github.com/brandpoint/intelligence-engine/pkg/common"
)

func TestAggregateEmpty(t *testing.T) {
	result := Aggregate("acme", nil)

	if result.OverallVisibility != 0 {
		t.Errorf("expected zero visibility, got %f", result.OverallVisibility)
	}
	if len(result.Insights) != 1 || result.Insights[0] != "No results to analyze" {
		t.Errorf("expected placeholder insight, got %v", result.Insights)
	}
}

func TestAggregateEngineBreakdown(t *testing.T) {
	records := []common.VisibilityRecord{
		{Engine: "chatgpt", VisibilityScore: 0.9, BrandMentioned: true},
		{Engine: "chatgpt", VisibilityScore: 0.5, BrandMentioned: true},
		{Engine: "gemini", VisibilityScore: 0, BrandMentioned: false},
		{Engine: "gemini", VisibilityScore: 0.6, BrandMentioned: true},
	}

	result := Aggregate("acme", records)

	if result.TotalQueries != 4 {
		t.Errorf("expected 4 queries, got %d", result.TotalQueries)
	}
	if result.OverallVisibility != 0.5 {
		t.Errorf("expected overall visibility 0.5, got %f", result.OverallVisibility)
	}

	chatgpt := result.EngineBreakdown["chatgpt"]
	if chatgpt.AverageVisibility != 0.7 {
		t.Errorf("expected chatgpt average 0.7, got %f", chatgpt.AverageVisibility)
	}
	if chatgpt.MentionRate != 1 {
		t.Errorf("expected chatgpt mention rate 1, got %f", chatgpt.MentionRate)
	}
	if chatgpt.QueryCount != 2 {
		t.Errorf("expected chatgpt query count 2, got %d", chatgpt.QueryCount)
	}

	gemini := result.EngineBreakdown["gemini"]
	if gemini.MentionRate != 0.5 {
		t.Errorf("expected gemini mention rate 0.5, got %f", gemini.MentionRate)
	}
}

func TestInsightTiers(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{"strong tier", 0.7, "Strong visibility"},
		{"moderate tier", 0.4, "Moderate visibility"},
		{"low tier", 0.1, "Low visibility"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []common.VisibilityRecord{
				{Engine: "chatgpt", VisibilityScore: tt.score, BrandMentioned: tt.score > 0},
			}
			insights := Insights("acme", records, nil)
			if len(insights) == 0 || !strings.HasPrefix(insights[0], tt.want) {
				t.Errorf("expected first insight to start with %q, got %v", tt.want, insights)
			}
		})
	}
}

func TestInsightEngineGap(t *testing.T) {
	records := []common.VisibilityRecord{
		{Engine: "chatgpt", VisibilityScore: 0.9, BrandMentioned: true},
		{Engine: "gemini", VisibilityScore: 0.4, BrandMentioned: true},
	}
	breakdown := map[string]common.EngineBreakdown{
		"chatgpt": {AverageVisibility: 0.9, MentionRate: 1, QueryCount: 1},
		"gemini":  {AverageVisibility: 0.4, MentionRate: 1, QueryCount: 1},
	}

	insights := Insights("acme", records, breakdown)

	found := false
	for _, insight := range insights {
		if insight == "Best performance on chatgpt, weakest on gemini" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected engine gap insight, got %v", insights)
	}
}

func TestInsightEngineGapBelowThreshold(t *testing.T) {
	records := []common.VisibilityRecord{
		{Engine: "chatgpt", VisibilityScore: 0.6, BrandMentioned: true},
	}
	breakdown := map[string]common.EngineBreakdown{
		"chatgpt": {AverageVisibility: 0.6},
		"gemini":  {AverageVisibility: 0.5},
	}

	for _, insight := range Insights("acme", records, breakdown) {
		if strings.HasPrefix(insight, "Best performance") {
			t.Errorf("did not expect engine gap insight for gap below 0.2: %v", insight)
		}
	}
}

func TestInsightProminentAndSentiment(t *testing.T) {
	records := []common.VisibilityRecord{
		{Engine: "chatgpt", VisibilityScore: 0.9, BrandMentioned: true, Position: PositionProminent, Sentiment: "positive"},
		{Engine: "gemini", VisibilityScore: 0.8, BrandMentioned: true, Position: PositionProminent, Sentiment: "positive"},
		{Engine: "claude", VisibilityScore: 0.6, BrandMentioned: true, Position: PositionMiddle, Sentiment: "neutral"},
	}

	insights := Insights("acme", records, nil)

	foundProminent := false
	foundSentiment := false
	for _, insight := range insights {
		if insight == "Featured prominently in 2 responses" {
			foundProminent = true
		}
		if insight == "Sentiment is predominantly positive when mentioned" {
			foundSentiment = true
		}
	}
	if !foundProminent {
		t.Errorf("expected prominent count insight, got %v", insights)
	}
	if !foundSentiment {
		t.Errorf("expected positive sentiment insight, got %v", insights)
	}
}

func TestInsightNegativeSentiment(t *testing.T) {
	records := []common.VisibilityRecord{
		{Engine: "chatgpt", VisibilityScore: 0.6, BrandMentioned: true, Sentiment: "negative"},
		{Engine: "gemini", VisibilityScore: 0.7, BrandMentioned: true, Sentiment: "neutral"},
		{Engine: "claude", VisibilityScore: 0.7, BrandMentioned: true, Sentiment: "neutral"},
	}

	insights := Insights("acme", records, nil)

	found := false
	for _, insight := range insights {
		if insight == "Some negative sentiment detected - review mention contexts" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected negative sentiment insight, got %v", insights)
	}
}
