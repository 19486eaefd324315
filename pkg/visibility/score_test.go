package visibility

import (
	"strings"
	"testing"
)

func TestScoreMentionAtStart(t *testing.T) {
	response := "acme is a company. " + strings.Repeat("More text about other things. ", 10)

	record := Score("best crm", "chatgpt", response, "acme")

	if !record.BrandMentioned {
		t.Fatalf("expected brand to be mentioned")
	}
	// Single mention at offset 0: 0.5 base + 0.3 position + 0.1 mention.
	if record.VisibilityScore != 0.9 {
		t.Errorf("expected score 0.9, got %f", record.VisibilityScore)
	}
	if record.Position != PositionProminent {
		t.Errorf("expected prominent position, got %q", record.Position)
	}
	if record.Query != "best crm" || record.Engine != "chatgpt" {
		t.Errorf("expected query and engine to be carried through, got %+v", record)
	}
}

func TestScoreDecreasesWithPosition(t *testing.T) {
	filler := strings.Repeat("x ", 200)
	early := "acme " + filler
	middle := filler[:200] + "acme " + filler[200:]
	late := filler + " acme"

	earlyScore := Score("q", "chatgpt", early, "acme").VisibilityScore
	middleScore := Score("q", "chatgpt", middle, "acme").VisibilityScore
	lateScore := Score("q", "chatgpt", late, "acme").VisibilityScore

	if !(earlyScore > middleScore && middleScore > lateScore) {
		t.Errorf("expected strictly decreasing scores, got %f, %f, %f", earlyScore, middleScore, lateScore)
	}
}

func TestScoreNotMentioned(t *testing.T) {
	record := Score("q", "gemini", "A response about entirely different companies.", "acme")

	if record.BrandMentioned {
		t.Fatalf("expected no mention")
	}
	if record.VisibilityScore != 0 {
		t.Errorf("expected score 0, got %f", record.VisibilityScore)
	}
	if record.Sentiment != "neutral" {
		t.Errorf("expected neutral sentiment, got %q", record.Sentiment)
	}
	if record.Position != "" {
		t.Errorf("expected empty position, got %q", record.Position)
	}
}

func TestScoreMentionScoreCapped(t *testing.T) {
	response := strings.Repeat("acme ", 20) + strings.Repeat("filler text ", 50)

	record := Score("q", "claude", response, "acme")

	// 20 mentions cap the mention component at 0.3.
	if record.VisibilityScore > 1.1 {
		t.Errorf("expected score at most 1.1, got %f", record.VisibilityScore)
	}
	if record.VisibilityScore <= 1.0 {
		t.Errorf("expected early repeated mentions to exceed 1.0, got %f", record.VisibilityScore)
	}
}

func TestScorePositionBuckets(t *testing.T) {
	base := strings.Repeat("a", 100)

	tests := []struct {
		name     string
		offset   int
		position string
	}{
		{"prominent below 20 percent", 10, PositionProminent},
		{"middle below 50 percent", 30, PositionMiddle},
		{"late past 50 percent", 80, PositionLate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := base[:tt.offset] + "acme" + base[tt.offset:]
			record := Score("q", "chatgpt", response, "acme")
			if record.Position != tt.position {
				t.Errorf("expected position %q at offset %d, got %q", tt.position, tt.offset, record.Position)
			}
		})
	}
}

func TestScoreMentionContext(t *testing.T) {
	prefix := strings.Repeat("p", 150)
	suffix := strings.Repeat("s", 200)
	response := prefix + "acme" + suffix

	record := Score("q", "chatgpt", response, "acme")

	if len(record.MentionContext) != 250 {
		t.Errorf("expected 250-char context window, got %d", len(record.MentionContext))
	}
	if !strings.Contains(record.MentionContext, "acme") {
		t.Errorf("expected context to contain the mention")
	}
}

func TestScoreSentiment(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "clearly positive",
			response: "acme is the best, most reliable and trusted option",
			want:     "positive",
		},
		{
			name:     "clearly negative",
			response: "avoid acme, known problems and poor reliability raise concern",
			want:     "negative",
		},
		{
			name:     "single positive word stays neutral",
			response: "acme is a great option",
			want:     "neutral",
		},
		{
			name:     "balanced stays neutral",
			response: "acme is the best and top choice but there is a problem and some risk",
			want:     "neutral",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := Score("q", "chatgpt", tt.response, "acme")
			if record.Sentiment != tt.want {
				t.Errorf("expected %q sentiment, got %q", tt.want, record.Sentiment)
			}
		})
	}
}

func TestBrandVariations(t *testing.T) {
	variations := BrandVariations("us-army")

	want := map[string]bool{
		"us-army":            true,
		"us army":            true,
		"u.s. army":          true,
		"united states army": true,
		"army":               true,
	}
	got := map[string]bool{}
	for _, v := range variations {
		got[v] = true
	}
	for v := range want {
		if !got[v] {
			t.Errorf("expected variation %q in %v", v, variations)
		}
	}
}

func TestBrandVariationsDeduplicated(t *testing.T) {
	variations := BrandVariations("acme")

	seen := map[string]int{}
	for _, v := range variations {
		seen[v]++
		if seen[v] > 1 {
			t.Errorf("duplicate variation %q", v)
		}
	}
	// Case transforms collapse under case-insensitive matching.
	if len(variations) != 1 {
		t.Errorf("expected single variation for a plain id, got %v", variations)
	}
}
