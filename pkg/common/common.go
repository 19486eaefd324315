package common

import "time"

// ContentDocument represents one piece of ingested brand content together
// with its embedding and derived features. Documents are keyed by a
// deterministic ID computed from the owning brand and the content bytes,
// so re-ingesting identical content always maps to the same document.
type ContentDocument struct {
	ID             string         `json:"contentId"`
	ContentHash    string         `json:"contentHash"`
	ContentType    string         `json:"contentType"`
	BrandID        string         `json:"brandId"`
	ClientID       string         `json:"clientId"`
	Title          string         `json:"title"`
	Content        string         `json:"content"`
	ContentPreview string         `json:"contentPreview"`
	Embedding      []float32      `json:"-"`
	SourceURL      string         `json:"sourceUrl"`
	Author         string         `json:"author"`
	PublishedAt    *time.Time     `json:"publishedDate,omitempty"`
	IngestedAt     time.Time      `json:"ingestedAt"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	SentimentScore float64        `json:"sentimentScore"`
	WordCount      int            `json:"wordCount"`
	Tags           []string       `json:"tags,omitempty"`
}

// IngestResult reports the outcome of a content ingestion call.
// A duplicate is not an error: the document already existed under the
// same deterministic ID and was not re-embedded.
type IngestResult struct {
	ContentID           string  `json:"contentId"`
	Indexed             bool    `json:"indexed"`
	Duplicate           bool    `json:"duplicate"`
	EmbeddingDimensions int     `json:"embeddingDimensions,omitempty"`
	EmbeddingDegraded   bool    `json:"embeddingDegraded,omitempty"`
	WordCount           int     `json:"wordCount,omitempty"`
	SentimentScore      float64 `json:"sentimentScore,omitempty"`
}

// SearchHit is one similarity search result. The raw embedding vector is
// never included.
type SearchHit struct {
	ContentID      string     `json:"contentId"`
	Title          string     `json:"title"`
	Preview        string     `json:"preview"`
	Score          float64    `json:"score"`
	ContentType    string     `json:"contentType"`
	BrandID        string     `json:"brandId"`
	SourceURL      string     `json:"sourceUrl"`
	Author         string     `json:"author"`
	PublishedAt    *time.Time `json:"publishedDate,omitempty"`
	IngestedAt     time.Time  `json:"ingestedAt"`
	SentimentScore float64    `json:"sentimentScore"`
	WordCount      int        `json:"wordCount"`
	Tags           []string   `json:"tags,omitempty"`
}

// GraphNode is a vertex in the knowledge graph. IDs are normalized
// (lowercase, spaces and hyphens replaced with underscores) and the label
// is one of "brand", "topic" or "content". MentionCount only ever grows:
// it is incremented exactly once per observed mention.
type GraphNode struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Name         string `json:"name"`
	MentionCount int64  `json:"mentionCount"`
	CreatedAt    string `json:"createdAt,omitempty"`
}

// GraphEdge is a typed weighted edge between two graph nodes. There is at
// most one edge per (source, target, type) triple; re-upserting overwrites
// weight and timestamp.
type GraphEdge struct {
	Source    string  `json:"source"`
	Target    string  `json:"target"`
	Type      string  `json:"type"`
	Weight    float64 `json:"weight"`
	Timestamp string  `json:"timestamp,omitempty"`
}

// EngineResult is the raw outcome of running one query against one AI
// engine. Failures are captured in Error rather than raised, so one bad
// engine never aborts a whole analysis run.
type EngineResult struct {
	Engine    string `json:"engine"`
	Query     string `json:"query"`
	Response  string `json:"response"`
	LatencyMs int64  `json:"latencyMs"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// VisibilityRecord is the scored analysis of a single engine response.
// It is recomputed per response and never mutated independently.
type VisibilityRecord struct {
	Query           string  `json:"query"`
	Engine          string  `json:"engine"`
	BrandMentioned  bool    `json:"brandMentioned"`
	VisibilityScore float64 `json:"visibilityScore"`
	Sentiment       string  `json:"sentiment"`
	Position        string  `json:"position,omitempty"`
	MentionContext  string  `json:"mentionContext,omitempty"`
}

// EngineBreakdown aggregates visibility per engine.
type EngineBreakdown struct {
	AverageVisibility float64 `json:"averageVisibility"`
	MentionRate       float64 `json:"mentionRate"`
	QueryCount        int     `json:"queryCount"`
}

// AggregateResult is the rolled-up visibility analysis for one brand over
// one batch of engine responses. It is computed output, owned by the
// calling pipeline; the core never mutates a stored copy.
type AggregateResult struct {
	BrandID           string                     `json:"brandId"`
	OverallVisibility float64                    `json:"overallVisibility"`
	QueryResults      []VisibilityRecord         `json:"queryResults"`
	EngineBreakdown   map[string]EngineBreakdown `json:"engineBreakdown"`
	Insights          []string                   `json:"insights"`
	TotalQueries      int                        `json:"totalQueries"`
}

// Persona describes a simulated user on whose behalf queries are generated.
type Persona struct {
	PersonaID        string         `json:"personaId"`
	Name             string         `json:"name"`
	BrandID          string         `json:"brandId"`
	ClientID         string         `json:"clientId,omitempty"`
	Description      string         `json:"description,omitempty"`
	Demographics     map[string]any `json:"demographics,omitempty"`
	Psychographics   map[string]any `json:"psychographics,omitempty"`
	QueryPatterns    map[string]any `json:"queryPatterns,omitempty"`
	TargetQueries    []string       `json:"targetQueries,omitempty"`
	PreferredEngines []string       `json:"preferredEngines,omitempty"`
	IsActive         bool           `json:"isActive"`
	CreatedAt        string         `json:"createdAt,omitempty"`
	UpdatedAt        string         `json:"updatedAt,omitempty"`
}
