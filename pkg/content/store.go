package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/brandpoint/intelligence-engine/pkg/ai"
	"github.com/brandpoint/intelligence-engine/pkg/common"
	"github.com/brandpoint/intelligence-engine/pkg/logger"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
)

// PreviewMaxChars bounds the stored content preview.
const PreviewMaxChars = 500

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
}

// Store persists brand content together with its embedding in PostgreSQL
// (pgvector) and answers similarity searches over it. Documents are keyed
// by a deterministic ID derived from the owning brand and the content
// bytes, which makes ingestion an idempotent upsert.
type Store struct {
	conn     pgxIConn
	aiClient ai.BrandAIClient
}

// NewStore creates a Store on an existing database connection. The AI
// client is used to generate embeddings for ingested content and search
// queries.
func NewStore(conn pgxIConn, aiClient ai.BrandAIClient) *Store {
	return &Store{
		conn:     conn,
		aiClient: aiClient,
	}
}

// IngestInput is the caller-supplied description of one piece of content.
// Content and BrandID are required; everything else is optional metadata.
type IngestInput struct {
	Content     string
	ContentType string
	Title       string
	BrandID     string
	ClientID    string
	SourceURL   string
	Author      string
	PublishedAt *time.Time
	Metadata    map[string]any
	Tags        []string
}

// ContentID derives the deterministic document ID and the full content
// digest for a piece of content. The ID is a pure function of the brand
// and the content bytes, so identical content always maps to the same
// document.
func ContentID(brandID string, content []byte) (string, string) {
	digest := sha256.Sum256(content)
	hash := hex.EncodeToString(digest[:])
	return fmt.Sprintf("%s#%s", brandID, hash[:16]), hash
}

// Ingest deduplicates, embeds and stores one piece of content. A second
// call with byte-identical content returns duplicate=true without
// contacting the embedding provider again. If the embedding provider
// fails, the document is stored with an explicit zero vector and marked
// degraded so it can never surface as a confident similarity match.
func (s *Store) Ingest(ctx context.Context, in IngestInput) (*common.IngestResult, error) {
	if in.Content == "" {
		return nil, fmt.Errorf("content is required")
	}
	if in.BrandID == "" {
		return nil, fmt.Errorf("brandId is required")
	}
	if in.ContentType == "" {
		in.ContentType = "article"
	}

	id, hash := ContentID(in.BrandID, []byte(in.Content))

	logger.Info("[Content][Ingest] Ingesting content",
		"contentType", in.ContentType,
		"brandId", in.BrandID,
		"contentId", id,
	)

	duplicate, err := s.isDuplicate(ctx, hash)
	if err != nil {
		// Fail open: an unreachable index must not block ingestion. The
		// upsert below converges to the same row either way.
		logger.Warn("[Content][Ingest] Duplicate check failed, proceeding", "error", err)
	}
	if duplicate {
		logger.Info("[Content][Ingest] Duplicate content detected", "contentId", id)
		return &common.IngestResult{
			ContentID: id,
			Indexed:   false,
			Duplicate: true,
		}, nil
	}

	degraded := false
	embedding, err := s.aiClient.GenerateEmbedding(ctx, []byte(in.Content))
	if err != nil {
		logger.Error("[Content][Ingest] Embedding generation failed, storing degraded document",
			"contentId", id,
			"error", err,
		)
		embedding = make([]float32, ai.DefaultEmbeddingDimensions)
		degraded = true
	}

	wordCount := len(strings.Fields(in.Content))
	sentiment := SentimentScore(in.Content)

	preview := in.Content
	if len(preview) > PreviewMaxChars {
		preview = preview[:PreviewMaxChars]
	}

	_, err = s.conn.Exec(ctx, `
		INSERT INTO content_documents (
			id, content_hash, content_type, brand_id, client_id,
			title, content, content_preview, embedding, degraded,
			source_url, author, published_at, ingested_at,
			metadata, sentiment_score, word_count, tags
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13, now(),
			$14, $15, $16, $17
		)
		ON CONFLICT (id) DO UPDATE SET
			content_hash = EXCLUDED.content_hash,
			content_type = EXCLUDED.content_type,
			client_id = EXCLUDED.client_id,
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			content_preview = EXCLUDED.content_preview,
			embedding = EXCLUDED.embedding,
			degraded = EXCLUDED.degraded,
			source_url = EXCLUDED.source_url,
			author = EXCLUDED.author,
			published_at = EXCLUDED.published_at,
			ingested_at = now(),
			metadata = EXCLUDED.metadata,
			sentiment_score = EXCLUDED.sentiment_score,
			word_count = EXCLUDED.word_count,
			tags = EXCLUDED.tags
	`,
		id, hash, in.ContentType, in.BrandID, in.ClientID,
		in.Title, in.Content, preview, pgvector.NewVector(embedding), degraded,
		in.SourceURL, in.Author, in.PublishedAt,
		in.Metadata, sentiment, wordCount, in.Tags,
	)
	if err != nil {
		return nil, fmt.Errorf("indexing content %s: %w", id, err)
	}

	logger.Info("[Content][Ingest] Indexed content", "contentId", id, "wordCount", wordCount)

	return &common.IngestResult{
		ContentID:           id,
		Indexed:             true,
		Duplicate:           false,
		EmbeddingDimensions: len(embedding),
		EmbeddingDegraded:   degraded,
		WordCount:           wordCount,
		SentimentScore:      sentiment,
	}, nil
}

func (s *Store) isDuplicate(ctx context.Context, hash string) (bool, error) {
	var exists bool
	err := s.conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM content_documents WHERE content_hash = $1)`,
		hash,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// GetDocument loads a single stored document by ID. The embedding is not
// loaded; it never leaves the store.
func (s *Store) GetDocument(ctx context.Context, contentID string) (*common.ContentDocument, error) {
	if contentID == "" {
		return nil, fmt.Errorf("contentId is required")
	}

	doc := common.ContentDocument{}
	err := s.conn.QueryRow(ctx, `
		SELECT id, content_hash, content_type, brand_id, client_id,
			title, content, content_preview, source_url, author,
			published_at, ingested_at, sentiment_score, word_count, tags
		FROM content_documents
		WHERE id = $1
	`, contentID).Scan(
		&doc.ID, &doc.ContentHash, &doc.ContentType, &doc.BrandID, &doc.ClientID,
		&doc.Title, &doc.Content, &doc.ContentPreview, &doc.SourceURL, &doc.Author,
		&doc.PublishedAt, &doc.IngestedAt, &doc.SentimentScore, &doc.WordCount, &doc.Tags,
	)
	if err != nil {
		if err == pgxv5.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}
