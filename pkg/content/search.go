package content

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/brandpoint/intelligence-engine/pkg/common"
	"github.com/brandpoint/intelligence-engine/pkg/logger"

	"github.com/pgvector/pgvector-go"
)

const (
	// SearchMaxK caps how many results one search may request.
	SearchMaxK = 100
	// SearchDefaultK is used when the caller does not specify k.
	SearchDefaultK = 10
	// SearchDefaultMinScore is the similarity floor applied when the
	// caller does not specify one.
	SearchDefaultMinScore = 0.5
)

// SearchFilters are optional scalar constraints applied on top of the
// vector ranking.
type SearchFilters struct {
	Tags         []string   `json:"tags,omitempty"`
	DateFrom     *time.Time `json:"dateFrom,omitempty"`
	DateTo       *time.Time `json:"dateTo,omitempty"`
	MinWordCount int        `json:"minWordCount,omitempty"`
}

func (f SearchFilters) empty() bool {
	return len(f.Tags) == 0 && f.DateFrom == nil && f.DateTo == nil && f.MinWordCount <= 0
}

// SearchParams describe one similarity search. Either Query text or a
// pre-computed Embedding must be supplied.
type SearchParams struct {
	Query       string        `json:"query,omitempty"`
	Embedding   []float32     `json:"embedding,omitempty"`
	BrandID     string        `json:"brandId,omitempty"`
	ContentType string        `json:"contentType,omitempty"`
	K           int           `json:"k,omitempty"`
	MinScore    *float64      `json:"minScore,omitempty"`
	Filters     SearchFilters `json:"filters,omitempty"`
}

// SearchResult is the complete outcome of one similarity search.
type SearchResult struct {
	Results    []common.SearchHit `json:"results"`
	TotalFound int                `json:"totalFound"`
	K          int                `json:"k"`
	QueryType  string             `json:"queryType"`
}

// Search finds the k most similar documents to the query text or
// embedding, sorted by descending similarity. Scalar filters are applied
// after vector ranking, so the vector stage overfetches 2k candidates
// when any filter is present to compensate for attrition. Degraded
// documents (zero-vector fallback) are never candidates.
func (s *Store) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	if params.Query == "" && len(params.Embedding) == 0 {
		return nil, fmt.Errorf("either query or embedding is required")
	}

	k := params.K
	if k <= 0 {
		k = SearchDefaultK
	}
	if k > SearchMaxK {
		k = SearchMaxK
	}
	minScore := SearchDefaultMinScore
	if params.MinScore != nil {
		minScore = *params.MinScore
	}

	queryType := "embedding"
	embedding := params.Embedding
	if len(embedding) == 0 {
		queryType = "text"
		emb, err := s.aiClient.GenerateEmbedding(ctx, []byte(params.Query))
		if err != nil {
			return nil, fmt.Errorf("embedding search query: %w", err)
		}
		embedding = emb
	}

	logger.Info("[Content][Search] Similarity search",
		"k", k,
		"brandId", params.BrandID,
		"contentType", params.ContentType,
	)

	filtered := params.BrandID != "" || params.ContentType != "" || !params.Filters.empty()
	fetchK := k
	if filtered {
		fetchK = k * 2
	}

	where := []string{"1 - c.dist >= $2"}
	args := []any{pgvector.NewVector(embedding), minScore, fetchK}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if params.BrandID != "" {
		where = append(where, "c.brand_id = "+arg(params.BrandID))
	}
	if params.ContentType != "" {
		where = append(where, "c.content_type = "+arg(params.ContentType))
	}
	if len(params.Filters.Tags) > 0 {
		where = append(where, "c.tags && "+arg(params.Filters.Tags))
	}
	if params.Filters.DateFrom != nil {
		where = append(where, "c.published_at >= "+arg(*params.Filters.DateFrom))
	}
	if params.Filters.DateTo != nil {
		where = append(where, "c.published_at <= "+arg(*params.Filters.DateTo))
	}
	if params.Filters.MinWordCount > 0 {
		where = append(where, "c.word_count >= "+arg(params.Filters.MinWordCount))
	}

	limit := arg(k)

	// Inner query ranks by vector distance alone so the index is used;
	// scalar filters and the score floor apply to the overfetched set.
	sql := `
		SELECT c.id, c.title, c.content_preview, 1 - c.dist AS score,
			c.content_type, c.brand_id, c.source_url, c.author,
			c.published_at, c.ingested_at, c.sentiment_score, c.word_count, c.tags
		FROM (
			SELECT *, embedding <=> $1 AS dist
			FROM content_documents
			WHERE NOT degraded
			ORDER BY embedding <=> $1
			LIMIT $3
		) c
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY c.dist
		LIMIT ` + limit

	rows, err := s.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("executing similarity search: %w", err)
	}
	defer rows.Close()

	hits := []common.SearchHit{}
	for rows.Next() {
		var hit common.SearchHit
		err := rows.Scan(
			&hit.ContentID, &hit.Title, &hit.Preview, &hit.Score,
			&hit.ContentType, &hit.BrandID, &hit.SourceURL, &hit.Author,
			&hit.PublishedAt, &hit.IngestedAt, &hit.SentimentScore, &hit.WordCount, &hit.Tags,
		)
		if err != nil {
			return nil, err
		}
		hit.Score = math.Round(hit.Score*10000) / 10000
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logger.Info("[Content][Search] Search complete", "found", len(hits))

	return &SearchResult{
		Results:    hits,
		TotalFound: len(hits),
		K:          k,
		QueryType:  queryType,
	}, nil
}

// SearchByContentID finds documents similar to an already-stored one by
// reusing its stored embedding.
func (s *Store) SearchByContentID(ctx context.Context, contentID string, k int) (*SearchResult, error) {
	if contentID == "" {
		return nil, fmt.Errorf("contentId is required")
	}

	var embedding pgvector.Vector
	var degraded bool
	err := s.conn.QueryRow(ctx,
		`SELECT embedding, degraded FROM content_documents WHERE id = $1`,
		contentID,
	).Scan(&embedding, &degraded)
	if err != nil {
		return nil, fmt.Errorf("loading embedding for %s: %w", contentID, err)
	}
	if degraded {
		return nil, fmt.Errorf("no usable embedding for content: %s", contentID)
	}

	return s.Search(ctx, SearchParams{
		Embedding: embedding.Slice(),
		K:         k,
	})
}
