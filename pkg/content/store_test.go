package content

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/brandpoint/intelligence-engine/pkg/ai"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeAIClient struct {
	embedCalls int
	embedErr   error
	dimensions int
}

func (c *fakeAIClient) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	c.embedCalls++
	if c.embedErr != nil {
		return nil, c.embedErr
	}
	dim := c.dimensions
	if dim == 0 {
		dim = ai.DefaultEmbeddingDimensions
	}
	emb := make([]float32, dim)
	for i := range emb {
		emb[i] = 0.1
	}
	return emb, nil
}

func (c *fakeAIClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	return "", errors.New("not implemented")
}

func (c *fakeAIClient) GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, opts ...ai.GenerateOption) error {
	return errors.New("not implemented")
}

func (c *fakeAIClient) ResetMetrics()               {}
func (c *fakeAIClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

type fakeRows struct{}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Next() bool                                   { return false }
func (r *fakeRows) Scan(dest ...any) error                       { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgxv5.Conn                            { return nil }

// fakeConn tracks stored content hashes so duplicate checks behave like a
// real index would.
type fakeConn struct {
	hashes    map[string]bool
	dupErr    error
	queryArgs []any
	querySQL  string
}

func newFakeConn() *fakeConn {
	return &fakeConn{hashes: map[string]bool{}}
}

func (c *fakeConn) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	if len(arguments) > 1 {
		if hash, ok := arguments[1].(string); ok {
			c.hashes[hash] = true
		}
	}
	return pgconn.CommandTag{}, nil
}

func (c *fakeConn) Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error) {
	c.querySQL = sql
	c.queryArgs = optionsAndArgs
	return &fakeRows{}, nil
}

func (c *fakeConn) QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row {
	return fakeRow{scan: func(dest ...any) error {
		if c.dupErr != nil {
			return c.dupErr
		}
		hash, _ := optionsAndArgs[0].(string)
		if b, ok := dest[0].(*bool); ok {
			*b = c.hashes[hash]
		}
		return nil
	}}
}

func TestContentID(t *testing.T) {
	id1, hash1 := ContentID("acme", []byte("hello world"))
	id2, hash2 := ContentID("acme", []byte("hello world"))

	if id1 != id2 || hash1 != hash2 {
		t.Fatalf("expected deterministic id, got %q and %q", id1, id2)
	}
	if !strings.HasPrefix(id1, "acme#") {
		t.Errorf("expected brand prefix, got %q", id1)
	}
	if len(id1) != len("acme#")+16 {
		t.Errorf("expected 16-char hash prefix, got %q", id1)
	}
	if len(hash1) != 64 {
		t.Errorf("expected full sha256 hex digest, got length %d", len(hash1))
	}

	id3, _ := ContentID("other", []byte("hello world"))
	if id3 == id1 {
		t.Errorf("expected different brands to yield different ids")
	}
}

func TestIngestValidation(t *testing.T) {
	store := NewStore(newFakeConn(), &fakeAIClient{})

	if _, err := store.Ingest(context.Background(), IngestInput{BrandID: "acme"}); err == nil {
		t.Errorf("expected error for missing content")
	}
	if _, err := store.Ingest(context.Background(), IngestInput{Content: "some text"}); err == nil {
		t.Errorf("expected error for missing brandId")
	}
}

func TestIngestScenario(t *testing.T) {
	aiClient := &fakeAIClient{}
	store := NewStore(newFakeConn(), aiClient)

	result, err := store.Ingest(context.Background(), IngestInput{
		Content: "Acme Corp delivers the best support in town",
		BrandID: "acme",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Indexed || result.Duplicate {
		t.Errorf("expected indexed non-duplicate result, got %+v", result)
	}
	if result.WordCount != 8 {
		t.Errorf("expected wordCount 8, got %d", result.WordCount)
	}
	if result.SentimentScore <= 0 {
		t.Errorf("expected positive sentiment, got %f", result.SentimentScore)
	}
	if result.EmbeddingDimensions != ai.DefaultEmbeddingDimensions {
		t.Errorf("expected %d dimensions, got %d", ai.DefaultEmbeddingDimensions, result.EmbeddingDimensions)
	}
	if result.EmbeddingDegraded {
		t.Errorf("expected non-degraded embedding")
	}
}

func TestIngestDuplicate(t *testing.T) {
	aiClient := &fakeAIClient{}
	store := NewStore(newFakeConn(), aiClient)

	first, err := store.Ingest(context.Background(), IngestInput{
		Content: "identical content",
		BrandID: "acme",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := store.Ingest(context.Background(), IngestInput{
		Content: "identical content",
		BrandID: "acme",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ContentID != second.ContentID {
		t.Errorf("expected identical ids, got %q and %q", first.ContentID, second.ContentID)
	}
	if !second.Duplicate || second.Indexed {
		t.Errorf("expected duplicate=true indexed=false, got %+v", second)
	}
	if aiClient.embedCalls != 1 {
		t.Errorf("expected exactly one embedding call, got %d", aiClient.embedCalls)
	}
}

func TestIngestDegradedEmbedding(t *testing.T) {
	store := NewStore(newFakeConn(), &fakeAIClient{embedErr: errors.New("provider down")})

	result, err := store.Ingest(context.Background(), IngestInput{
		Content: "some content",
		BrandID: "acme",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Indexed {
		t.Errorf("expected document to be stored despite embedding failure")
	}
	if !result.EmbeddingDegraded {
		t.Errorf("expected degraded flag to be set")
	}
}

func TestIngestDuplicateCheckFailsOpen(t *testing.T) {
	conn := newFakeConn()
	conn.dupErr = errors.New("index unreachable")
	store := NewStore(conn, &fakeAIClient{})

	result, err := store.Ingest(context.Background(), IngestInput{
		Content: "some content",
		BrandID: "acme",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Duplicate || !result.Indexed {
		t.Errorf("expected fail-open indexing, got %+v", result)
	}
}

func TestSearchValidation(t *testing.T) {
	store := NewStore(newFakeConn(), &fakeAIClient{})

	_, err := store.Search(context.Background(), SearchParams{BrandID: "acme"})
	if err == nil {
		t.Fatalf("expected error when neither query nor embedding is given")
	}
}

func TestSearchOverfetch(t *testing.T) {
	tests := []struct {
		name      string
		params    SearchParams
		wantFetch int
		wantK     int
	}{
		{
			name:      "no filters fetches k",
			params:    SearchParams{Embedding: []float32{0.1}, K: 10},
			wantFetch: 10,
			wantK:     10,
		},
		{
			name:      "brand filter fetches 2k",
			params:    SearchParams{Embedding: []float32{0.1}, K: 10, BrandID: "acme"},
			wantFetch: 20,
			wantK:     10,
		},
		{
			name:      "k capped at 100",
			params:    SearchParams{Embedding: []float32{0.1}, K: 500},
			wantFetch: 100,
			wantK:     100,
		},
		{
			name:      "default k",
			params:    SearchParams{Embedding: []float32{0.1}},
			wantFetch: SearchDefaultK,
			wantK:     SearchDefaultK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := newFakeConn()
			store := NewStore(conn, &fakeAIClient{})

			result, err := store.Search(context.Background(), tt.params)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.K != tt.wantK {
				t.Errorf("expected k=%d, got %d", tt.wantK, result.K)
			}
			// args: embedding, minScore, fetch limit, then filters and k
			if got := conn.queryArgs[2].(int); got != tt.wantFetch {
				t.Errorf("expected vector fetch limit %d, got %d", tt.wantFetch, got)
			}
			if got := conn.queryArgs[1].(float64); got != SearchDefaultMinScore {
				t.Errorf("expected default minScore %f, got %f", SearchDefaultMinScore, got)
			}
			if !strings.Contains(conn.querySQL, "NOT degraded") {
				t.Errorf("expected degraded documents to be excluded")
			}
		})
	}
}
