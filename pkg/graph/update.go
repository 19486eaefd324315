package graph

import (
	"context"
	"fmt"

	"github.com/brandpoint/intelligence-engine/pkg/logger"
)

// SentimentTarget links a sentiment label to the entity it applies to.
type SentimentTarget struct {
	Target    string `json:"target"`
	Sentiment string `json:"sentiment"`
}

// AnalysisEntities are the entities discovered in one piece of content.
type AnalysisEntities struct {
	Brands     []string          `json:"brands,omitempty"`
	Topics     []string          `json:"topics,omitempty"`
	Sentiments []SentimentTarget `json:"sentiments,omitempty"`
}

// Relationship is one explicit edge discovered during content analysis.
type Relationship struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Type   string  `json:"type,omitempty"`
	Weight float64 `json:"weight,omitempty"`
}

// GraphUpdate is one batch of graph changes derived from a single piece
// of analyzed content.
type GraphUpdate struct {
	ContentID     string           `json:"contentId"`
	BrandID       string           `json:"brandId,omitempty"`
	Entities      AnalysisEntities `json:"entities,omitempty"`
	Relationships []Relationship   `json:"relationships,omitempty"`
}

// UpdateResult reports how many graph elements one update actually
// created. A backend failure mid-update is reported in Error together
// with the counts applied so far.
type UpdateResult struct {
	ContentID    string `json:"contentId"`
	NodesCreated int    `json:"nodesCreated"`
	EdgesCreated int    `json:"edgesCreated"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
}

// UpdateFromAnalysis applies one content-analysis result to the graph:
// the content vertex, mentioned brand and topic vertices, sentiment
// edges, explicit relationships and the content-to-brand ABOUT edge.
// Backend errors are captured in the result rather than returned, so a
// partially applied update still reports its counts.
func (g *Graph) UpdateFromAnalysis(ctx context.Context, update GraphUpdate) (*UpdateResult, error) {
	if update.ContentID == "" {
		return nil, fmt.Errorf("contentId is required")
	}

	logger.Info("[Graph][Update] Updating graph", "contentId", update.ContentID)

	result := &UpdateResult{ContentID: update.ContentID}
	fail := func(err error) (*UpdateResult, error) {
		logger.Error("[Graph][Update] Update failed", "contentId", update.ContentID, "error", err)
		result.Success = false
		result.Error = err.Error()
		return result, nil
	}

	created, err := g.UpsertContentNode(ctx, update.ContentID, update.BrandID)
	if err != nil {
		return fail(err)
	}
	if created {
		result.NodesCreated++
	}

	for _, brand := range update.Entities.Brands {
		created, err := g.UpsertNode(ctx, brand, LabelBrand, brand)
		if err != nil {
			return fail(err)
		}
		if created {
			result.NodesCreated++
		}
	}

	for _, topic := range update.Entities.Topics {
		created, err := g.UpsertNode(ctx, topic, LabelTopic, topic)
		if err != nil {
			return fail(err)
		}
		if created {
			result.NodesCreated++
		}
	}

	for _, s := range update.Entities.Sentiments {
		if s.Target == "" {
			continue
		}
		sentiment := s.Sentiment
		if sentiment == "" {
			sentiment = "neutral"
		}
		created, err := g.UpsertSentimentEdge(ctx, update.ContentID, s.Target, sentiment)
		if err != nil {
			return fail(err)
		}
		if created {
			result.EdgesCreated++
		}
	}

	for _, rel := range update.Relationships {
		if rel.Source == "" || rel.Target == "" {
			continue
		}
		relType := rel.Type
		if relType == "" {
			relType = "RELATED_TO"
		}
		weight := rel.Weight
		if weight == 0 {
			weight = 1.0
		}
		created, err := g.UpsertEdge(ctx, rel.Source, rel.Target, relType, weight)
		if err != nil {
			return fail(err)
		}
		if created {
			result.EdgesCreated++
		}
	}

	if update.BrandID != "" {
		created, err := g.UpsertEdge(ctx, update.ContentID, update.BrandID, "ABOUT", 1.0)
		if err != nil {
			return fail(err)
		}
		if created {
			result.EdgesCreated++
		}
	}

	logger.Info("[Graph][Update] Graph updated",
		"contentId", update.ContentID,
		"nodesCreated", result.NodesCreated,
		"edgesCreated", result.EdgesCreated,
	)

	result.Success = true
	return result, nil
}
