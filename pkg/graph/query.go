package graph

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/brandpoint/intelligence-engine/pkg/common"
	"github.com/brandpoint/intelligence-engine/pkg/logger"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Known traversal query types.
const (
	QueryBrandConnections     = "brand_connections"
	QueryTopicAnalysis        = "topic_analysis"
	QueryEntityGraph          = "entity_graph"
	QueryCompetitiveLandscape = "competitive_landscape"
	QuerySentimentTrends      = "sentiment_trends"
	QueryContentRelationships = "content_relationships"
)

const (
	defaultDepth    = 2
	maxDepth        = 5
	defaultLimit    = 50
	defaultTopics   = 20
	defaultMaxNodes = 100
	edgeCap         = 100
)

// QueryParams carry the per-query-type knobs.
type QueryParams struct {
	Depth     int    `json:"depth,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	MaxNodes  int    `json:"maxNodes,omitempty"`
	ContentID string `json:"contentId,omitempty"`
}

// QueryRequest selects and parameterizes one traversal query.
type QueryRequest struct {
	QueryType string      `json:"queryType"`
	BrandID   string      `json:"brandId,omitempty"`
	Params    QueryParams `json:"params,omitempty"`
}

// Topic is one topic associated with a brand, with its co-occurrence
// count and a relevance score normalized to [0, 1].
type Topic struct {
	Name           string  `json:"name"`
	MentionCount   int64   `json:"mentionCount"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// Competitor is one brand co-mentioned with the queried brand.
type Competitor struct {
	BrandID        string `json:"brandId"`
	Name           string `json:"name"`
	CoMentionCount int64  `json:"coMentionCount"`
	TotalMentions  int64  `json:"totalMentions"`
}

// SentimentEntry is one sentiment edge observed for a brand.
type SentimentEntry struct {
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
	Timestamp string  `json:"timestamp"`
	ContentID string  `json:"contentId"`
}

// ContentRelationship is one edge touching a content vertex, tagged with
// its direction relative to that vertex.
type ContentRelationship struct {
	Direction   string  `json:"direction"`
	Type        string  `json:"type"`
	Target      string  `json:"target"`
	TargetLabel string  `json:"targetLabel"`
	Weight      float64 `json:"weight"`
}

// Subgraph is a node set together with all edges between those nodes.
type Subgraph struct {
	Nodes []common.GraphNode `json:"nodes"`
	Edges []common.GraphEdge `json:"edges"`
}

// GraphResult is the uniform envelope of all traversal queries. Backend
// failures are reported through Success and Error instead of an error
// return; callers must check Success.
type GraphResult struct {
	Success   bool   `json:"success"`
	QueryType string `json:"queryType"`
	Error     string `json:"error,omitempty"`
	BrandID   string `json:"brandId,omitempty"`
	ContentID string `json:"contentId,omitempty"`

	Nodes     []common.GraphNode `json:"nodes,omitempty"`
	Edges     []common.GraphEdge `json:"edges,omitempty"`
	NodeCount int                `json:"nodeCount,omitempty"`
	EdgeCount int                `json:"edgeCount,omitempty"`

	Topics      []Topic `json:"topics,omitempty"`
	TotalTopics int     `json:"totalTopics,omitempty"`

	Graph *Subgraph `json:"graph,omitempty"`

	Competitors     []Competitor `json:"competitors,omitempty"`
	CompetitorCount int          `json:"competitorCount,omitempty"`

	SentimentCounts map[string]int   `json:"sentimentCounts,omitempty"`
	AverageScore    float64          `json:"averageScore,omitempty"`
	TotalAnalyzed   int              `json:"totalAnalyzed,omitempty"`
	Sentiments      []SentimentEntry `json:"sentiments,omitempty"`

	Relationships     []ContentRelationship `json:"relationships,omitempty"`
	RelationshipCount int                   `json:"relationshipCount,omitempty"`
}

// Query dispatches one traversal query by type. Unknown query types and
// missing required inputs are validation errors; backend failures come
// back as a structured result with Success=false.
func (g *Graph) Query(ctx context.Context, req QueryRequest) (*GraphResult, error) {
	queryType := req.QueryType
	if queryType == "" {
		queryType = QueryBrandConnections
	}

	logger.Info("[Graph][Query] Running query", "queryType", queryType, "brandId", req.BrandID)

	var result *GraphResult
	var err error
	switch queryType {
	case QueryBrandConnections:
		result, err = g.BrandConnections(ctx, req.BrandID, req.Params.Depth, req.Params.Limit)
	case QueryTopicAnalysis:
		result, err = g.TopicAnalysis(ctx, req.BrandID, req.Params.Limit)
	case QueryEntityGraph:
		result, err = g.EntityGraph(ctx, req.BrandID, req.Params.MaxNodes)
	case QueryCompetitiveLandscape:
		result, err = g.CompetitiveLandscape(ctx, req.BrandID)
	case QuerySentimentTrends:
		result, err = g.SentimentTrends(ctx, req.BrandID)
	case QueryContentRelationships:
		if req.Params.ContentID == "" {
			return nil, fmt.Errorf("contentId is required")
		}
		result, err = g.ContentRelationships(ctx, req.Params.ContentID)
	default:
		return nil, fmt.Errorf("unknown query type: %s", queryType)
	}

	if err != nil {
		logger.Error("[Graph][Query] Query failed", "queryType", queryType, "error", err)
		return &GraphResult{
			Success:   false,
			Error:     err.Error(),
			QueryType: queryType,
		}, nil
	}
	return result, nil
}

// BrandConnections traverses up to depth hops out from the brand node in
// both directions, deduplicated and capped at limit nodes, plus the
// brand's directly incident edges.
func (g *Graph) BrandConnections(ctx context.Context, brandID string, depth int, limit int) (*GraphResult, error) {
	if depth <= 0 {
		depth = defaultDepth
	}
	if depth > maxDepth {
		depth = maxDepth
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	nodeRecords, err := g.readQuery(ctx, fmt.Sprintf(`
MATCH (b:Brand {id: $brandId})-[*1..%d]-(n)
WHERE n.id <> $brandId
RETURN DISTINCT n.id AS id, labels(n)[0] AS label, coalesce(n.name, '') AS name,
	coalesce(n.mentionCount, 0) AS mentionCount
LIMIT $limit
`, depth), map[string]any{
		"brandId": NormalizeID(brandID),
		"limit":   limit,
	})
	if err != nil {
		return nil, err
	}

	nodes := make([]common.GraphNode, 0, len(nodeRecords))
	for _, rec := range nodeRecords {
		nodes = append(nodes, nodeFromRecord(rec))
	}

	edgeRecords, err := g.readQuery(ctx, `
MATCH (b:Brand {id: $brandId})-[e]-()
RETURN startNode(e).id AS source, endNode(e).id AS target, type(e) AS type,
	coalesce(e.weight, 1.0) AS weight
LIMIT $limit
`, map[string]any{
		"brandId": NormalizeID(brandID),
		"limit":   edgeCap,
	})
	if err != nil {
		return nil, err
	}

	edges := make([]common.GraphEdge, 0, len(edgeRecords))
	for _, rec := range edgeRecords {
		edges = append(edges, edgeFromRecord(rec))
	}

	return &GraphResult{
		Success:   true,
		QueryType: QueryBrandConnections,
		BrandID:   brandID,
		Nodes:     nodes,
		Edges:     edges,
		NodeCount: len(nodes),
		EdgeCount: len(edges),
	}, nil
}

// TopicAnalysis counts topic co-occurrences over outgoing MENTIONED_WITH
// and RELATED_TO edges, sorted descending by count.
func (g *Graph) TopicAnalysis(ctx context.Context, brandID string, limit int) (*GraphResult, error) {
	if limit <= 0 {
		limit = defaultTopics
	}

	records, err := g.readQuery(ctx, `
MATCH (b:Brand {id: $brandId})-[:MENTIONED_WITH|RELATED_TO]->(t:Topic)
RETURN t.name AS name, count(*) AS mentionCount
ORDER BY mentionCount DESC
LIMIT $limit
`, map[string]any{
		"brandId": NormalizeID(brandID),
		"limit":   limit,
	})
	if err != nil {
		return nil, err
	}

	topics := make([]Topic, 0, len(records))
	for _, rec := range records {
		topics = append(topics, newTopic(recString(rec, "name"), recInt(rec, "mentionCount")))
	}

	return &GraphResult{
		Success:     true,
		QueryType:   QueryTopicAnalysis,
		BrandID:     brandID,
		Topics:      topics,
		TotalTopics: len(topics),
	}, nil
}

// EntityGraph collects the brand's two-hop neighborhood plus all edges
// whose both endpoints are inside that node set.
func (g *Graph) EntityGraph(ctx context.Context, brandID string, maxNodes int) (*GraphResult, error) {
	if maxNodes <= 0 {
		maxNodes = defaultMaxNodes
	}

	nodeRecords, err := g.readQuery(ctx, `
MATCH (b:Brand {id: $brandId})-[*0..2]-(n)
RETURN DISTINCT n.id AS id, labels(n)[0] AS label, coalesce(n.name, n.id) AS name,
	coalesce(n.mentionCount, 0) AS mentionCount
LIMIT $maxNodes
`, map[string]any{
		"brandId":  NormalizeID(brandID),
		"maxNodes": maxNodes,
	})
	if err != nil {
		return nil, err
	}

	nodes := make([]common.GraphNode, 0, len(nodeRecords))
	nodeIDs := make([]string, 0, len(nodeRecords))
	for _, rec := range nodeRecords {
		node := nodeFromRecord(rec)
		nodes = append(nodes, node)
		nodeIDs = append(nodeIDs, node.ID)
	}

	edges := []common.GraphEdge{}
	if len(nodeIDs) > 0 {
		edgeRecords, err := g.readQuery(ctx, `
MATCH (a)-[e]->(b)
WHERE a.id IN $nodeIds AND b.id IN $nodeIds
RETURN DISTINCT a.id AS source, b.id AS target, type(e) AS type,
	coalesce(e.weight, 1.0) AS weight
`, map[string]any{
			"nodeIds": nodeIDs,
		})
		if err != nil {
			return nil, err
		}
		for _, rec := range edgeRecords {
			edges = append(edges, edgeFromRecord(rec))
		}
	}

	return &GraphResult{
		Success:   true,
		QueryType: QueryEntityGraph,
		BrandID:   brandID,
		Graph: &Subgraph{
			Nodes: nodes,
			Edges: edges,
		},
		NodeCount: len(nodes),
		EdgeCount: len(edges),
	}, nil
}

// CompetitiveLandscape finds brands co-mentioned with the queried one
// through shared content, ordered by co-mention count.
func (g *Graph) CompetitiveLandscape(ctx context.Context, brandID string) (*GraphResult, error) {
	records, err := g.readQuery(ctx, `
MATCH (b:Brand {id: $brandId})<-[:ABOUT|MENTIONS]-(c:Content)-[:ABOUT|MENTIONS]->(other:Brand)
WHERE other.id <> $brandId
RETURN other.id AS brandId, coalesce(other.name, other.id) AS name,
	count(c) AS coMentionCount, coalesce(other.mentionCount, 0) AS totalMentions
`, map[string]any{
		"brandId": NormalizeID(brandID),
	})
	if err != nil {
		return nil, err
	}

	competitors := make([]Competitor, 0, len(records))
	for _, rec := range records {
		competitors = append(competitors, Competitor{
			BrandID:        recString(rec, "brandId"),
			Name:           recString(rec, "name"),
			CoMentionCount: recInt(rec, "coMentionCount"),
			TotalMentions:  recInt(rec, "totalMentions"),
		})
	}
	sortCompetitors(competitors)

	return &GraphResult{
		Success:         true,
		QueryType:       QueryCompetitiveLandscape,
		BrandID:         brandID,
		Competitors:     competitors,
		CompetitorCount: len(competitors),
	}, nil
}

// SentimentTrends tallies all inbound sentiment edges for a brand.
func (g *Graph) SentimentTrends(ctx context.Context, brandID string) (*GraphResult, error) {
	records, err := g.readQuery(ctx, `
MATCH (c:Content)-[e:HAS_SENTIMENT]->(b {id: $brandId})
RETURN coalesce(e.sentiment, 'neutral') AS sentiment, coalesce(e.score, 0.0) AS score,
	coalesce(e.timestamp, '') AS timestamp, c.id AS contentId
`, map[string]any{
		"brandId": NormalizeID(brandID),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]SentimentEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, SentimentEntry{
			Sentiment: recString(rec, "sentiment"),
			Score:     recFloat(rec, "score"),
			Timestamp: recString(rec, "timestamp"),
			ContentID: recString(rec, "contentId"),
		})
	}

	counts, avg := aggregateSentiments(entries)

	detail := entries
	if len(detail) > 50 {
		detail = detail[:50]
	}

	return &GraphResult{
		Success:         true,
		QueryType:       QuerySentimentTrends,
		BrandID:         brandID,
		SentimentCounts: counts,
		AverageScore:    avg,
		TotalAnalyzed:   len(entries),
		Sentiments:      detail,
	}, nil
}

// ContentRelationships lists every edge touching a content vertex,
// tagged incoming or outgoing relative to it.
func (g *Graph) ContentRelationships(ctx context.Context, contentID string) (*GraphResult, error) {
	records, err := g.readQuery(ctx, `
MATCH (c:Content {id: $contentId})-[e]-(other)
RETURN CASE WHEN startNode(e).id = $contentId THEN 'outgoing' ELSE 'incoming' END AS direction,
	type(e) AS type, other.id AS target, labels(other)[0] AS targetLabel,
	coalesce(e.weight, 1.0) AS weight
`, map[string]any{
		"contentId": contentID,
	})
	if err != nil {
		return nil, err
	}

	rels := make([]ContentRelationship, 0, len(records))
	for _, rec := range records {
		rels = append(rels, ContentRelationship{
			Direction:   recString(rec, "direction"),
			Type:        recString(rec, "type"),
			Target:      recString(rec, "target"),
			TargetLabel: lowerLabel(recString(rec, "targetLabel")),
			Weight:      recFloat(rec, "weight"),
		})
	}

	return &GraphResult{
		Success:           true,
		QueryType:         QueryContentRelationships,
		ContentID:         contentID,
		Relationships:     rels,
		RelationshipCount: len(rels),
	}, nil
}

func (g *Graph) readQuery(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := g.readSession(ctx)
	defer session.Close(ctx)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	return records.([]*neo4j.Record), nil
}

func newTopic(name string, count int64) Topic {
	return Topic{
		Name:           name,
		MentionCount:   count,
		RelevanceScore: math.Min(float64(count)/10, 1.0),
	}
}

func sortCompetitors(competitors []Competitor) {
	sort.SliceStable(competitors, func(i, j int) bool {
		return competitors[i].CoMentionCount > competitors[j].CoMentionCount
	})
}

func aggregateSentiments(entries []SentimentEntry) (map[string]int, float64) {
	counts := map[string]int{"positive": 0, "neutral": 0, "negative": 0}
	total := 0.0
	for _, e := range entries {
		counts[e.Sentiment]++
		total += e.Score
	}
	if len(entries) == 0 {
		return counts, 0
	}
	return counts, math.Round(total/float64(len(entries))*1000) / 1000
}

func nodeFromRecord(rec *neo4j.Record) common.GraphNode {
	return common.GraphNode{
		ID:           recString(rec, "id"),
		Label:        lowerLabel(recString(rec, "label")),
		Name:         recString(rec, "name"),
		MentionCount: recInt(rec, "mentionCount"),
	}
}

func edgeFromRecord(rec *neo4j.Record) common.GraphEdge {
	return common.GraphEdge{
		Source: recString(rec, "source"),
		Target: recString(rec, "target"),
		Type:   recString(rec, "type"),
		Weight: recFloat(rec, "weight"),
	}
}

func lowerLabel(label string) string {
	switch label {
	case "Brand":
		return LabelBrand
	case "Topic":
		return LabelTopic
	case "Content":
		return LabelContent
	}
	return label
}

func recString(rec *neo4j.Record, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func recInt(rec *neo4j.Record, key string) int64 {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return 0
	}
	switch t := v.(type) {
	case int64:
		return t
	case float64:
		return int64(t)
	}
	return 0
}

func recFloat(rec *neo4j.Record, key string) float64 {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	}
	return 0
}
