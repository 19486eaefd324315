package graph

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/brandpoint/intelligence-engine/pkg/logger"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Node labels known to the graph. Labels are validated before being
// interpolated into cypher; they can never come from user input directly.
const (
	LabelBrand   = "brand"
	LabelTopic   = "topic"
	LabelContent = "content"
)

var nodeLabels = map[string]string{
	LabelBrand:   "Brand",
	LabelTopic:   "Topic",
	LabelContent: "Content",
}

// Relationship types are interpolated into cypher as well, so they are
// restricted to upper-case identifiers.
var relTypePattern = regexp.MustCompile(`^[A-Z][A-Z_]*$`)

// Graph maintains the brand knowledge graph in Neo4j: brand, topic and
// content vertices with typed weighted edges between them.
type Graph struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewGraph connects to Neo4j and verifies connectivity before returning.
func NewGraph(ctx context.Context, uri string, user string, password string, database string) (*Graph, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("initializing graph driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verifying graph connectivity: %w", err)
	}

	g := &Graph{
		driver:   driver,
		database: database,
	}
	g.ensureConstraints(ctx)
	return g, nil
}

func (g *Graph) Close(ctx context.Context) error {
	return g.driver.Close(ctx)
}

// Ping reports whether the graph backend is currently reachable.
func (g *Graph) Ping(ctx context.Context) error {
	return g.driver.VerifyConnectivity(ctx)
}

// Schema setup is best-effort; restricted users may not be allowed to
// create constraints.
func (g *Graph) ensureConstraints(ctx context.Context) {
	session := g.writeSession(ctx)
	defer session.Close(ctx)

	for _, label := range nodeLabels {
		stmt := fmt.Sprintf(
			"CREATE CONSTRAINT %s_id_unique IF NOT EXISTS FOR (n:%s) REQUIRE n.id IS UNIQUE",
			strings.ToLower(label), label,
		)
		if res, err := session.Run(ctx, stmt, nil); err != nil {
			logger.Warn("[Graph] Schema init failed, continuing", "label", label, "error", err)
		} else {
			_, _ = res.Consume(ctx)
		}
	}
}

func (g *Graph) writeSession(ctx context.Context) neo4j.SessionWithContext {
	return g.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: g.database,
	})
}

func (g *Graph) readSession(ctx context.Context) neo4j.SessionWithContext {
	return g.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: g.database,
	})
}

// NormalizeID canonicalizes free-form entity names into graph IDs:
// lower case, spaces and hyphens become underscores.
func NormalizeID(text string) string {
	id := strings.ToLower(text)
	id = strings.ReplaceAll(id, " ", "_")
	id = strings.ReplaceAll(id, "-", "_")
	return id
}

func validLabel(label string) (string, error) {
	cypherLabel, ok := nodeLabels[strings.ToLower(label)]
	if !ok {
		return "", fmt.Errorf("unknown node label: %s", label)
	}
	return cypherLabel, nil
}

func validRelType(relType string) error {
	if !relTypePattern.MatchString(relType) {
		return fmt.Errorf("invalid relationship type: %s", relType)
	}
	return nil
}

// UpsertNode creates the node if absent (mentionCount=1) or atomically
// increments its mention count. The increment happens inside a single
// MERGE so concurrent upserts of the same id never lose updates.
// Returns whether the node was newly created.
func (g *Graph) UpsertNode(ctx context.Context, id string, label string, name string) (bool, error) {
	cypherLabel, err := validLabel(label)
	if err != nil {
		return false, err
	}
	nodeID := NormalizeID(id)
	if nodeID == "" {
		return false, fmt.Errorf("node id is required")
	}

	session := g.writeSession(ctx)
	defer session.Close(ctx)

	created, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, fmt.Sprintf(`
MERGE (n:%s {id: $id})
ON CREATE SET n.name = $name, n.mentionCount = 1, n.createdAt = $now
ON MATCH SET n.mentionCount = n.mentionCount + 1
`, cypherLabel), map[string]any{
			"id":   nodeID,
			"name": name,
			"now":  time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			return false, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return false, err
		}
		return summary.Counters().NodesCreated() > 0, nil
	})
	if err != nil {
		return false, err
	}
	return created.(bool), nil
}

// UpsertContentNode creates or refreshes a content vertex. Content nodes
// carry their owning brand and an updatedAt timestamp instead of a
// mention count.
func (g *Graph) UpsertContentNode(ctx context.Context, contentID string, brandID string) (bool, error) {
	if contentID == "" {
		return false, fmt.Errorf("contentId is required")
	}

	session := g.writeSession(ctx)
	defer session.Close(ctx)

	created, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MERGE (c:Content {id: $id})
ON CREATE SET c.brandId = $brandId, c.createdAt = $now
SET c.updatedAt = $now
`, map[string]any{
			"id":      contentID,
			"brandId": NormalizeID(brandID),
			"now":     time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			return false, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return false, err
		}
		return summary.Counters().NodesCreated() > 0, nil
	})
	if err != nil {
		return false, err
	}
	return created.(bool), nil
}

// UpsertEdge creates or updates the edge identified by (source, target,
// type). An existing edge has its weight and timestamp overwritten, not
// accumulated. Returns whether the edge was newly created; false with a
// nil error also covers the case where either endpoint does not exist.
func (g *Graph) UpsertEdge(ctx context.Context, source string, target string, relType string, weight float64) (bool, error) {
	if err := validRelType(relType); err != nil {
		return false, err
	}
	sourceID := NormalizeID(source)
	targetID := NormalizeID(target)
	if sourceID == "" || targetID == "" {
		return false, fmt.Errorf("edge source and target are required")
	}

	session := g.writeSession(ctx)
	defer session.Close(ctx)

	created, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, fmt.Sprintf(`
MATCH (a {id: $source}), (b {id: $target})
MERGE (a)-[e:%s]->(b)
SET e.weight = $weight, e.timestamp = $now
`, relType), map[string]any{
			"source": sourceID,
			"target": targetID,
			"weight": weight,
			"now":    time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			return false, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return false, err
		}
		return summary.Counters().RelationshipsCreated() > 0, nil
	})
	if err != nil {
		return false, err
	}
	return created.(bool), nil
}

// SentimentScoreFor maps a sentiment label to its numeric edge score.
func SentimentScoreFor(sentiment string) float64 {
	switch sentiment {
	case "positive":
		return 1.0
	case "negative":
		return -1.0
	default:
		return 0.0
	}
}

// UpsertSentimentEdge links a content vertex to a target entity with a
// HAS_SENTIMENT edge carrying the label and its numeric score.
func (g *Graph) UpsertSentimentEdge(ctx context.Context, contentID string, target string, sentiment string) (bool, error) {
	targetID := NormalizeID(target)
	if contentID == "" || targetID == "" {
		return false, fmt.Errorf("contentId and target are required")
	}

	session := g.writeSession(ctx)
	defer session.Close(ctx)

	created, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (c:Content {id: $contentId}), (t {id: $target})
MERGE (c)-[e:HAS_SENTIMENT]->(t)
SET e.sentiment = $sentiment, e.score = $score, e.timestamp = $now
`, map[string]any{
			"contentId": contentID,
			"target":    targetID,
			"sentiment": sentiment,
			"score":     SentimentScoreFor(sentiment),
			"now":       time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			return false, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return false, err
		}
		return summary.Counters().RelationshipsCreated() > 0, nil
	})
	if err != nil {
		return false, err
	}
	return created.(bool), nil
}
