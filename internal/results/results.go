package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/brandpoint/intelligence-engine/internal/util"
	"github.com/brandpoint/intelligence-engine/pkg/common"
	"github.com/brandpoint/intelligence-engine/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ResultTTL is how long stored analysis results are retained.
const ResultTTL = 90 * 24 * time.Hour

var ErrNotFound = errors.New("result not found")

// StoredResult is the summary record of one completed analysis run.
type StoredResult struct {
	ResultID    string                  `json:"resultId"`
	ExecutionID string                  `json:"executionId"`
	BrandID     string                  `json:"brandId"`
	ClientID    string                  `json:"clientId,omitempty"`
	PersonaID   string                  `json:"personaId,omitempty"`
	Analysis    *common.AggregateResult `json:"analysis,omitempty"`
	Insights    map[string]any          `json:"insights,omitempty"`
	QueryCount  int                     `json:"queryCount"`
	StoredAt    time.Time               `json:"storedAt"`
}

// QueryRecord is one raw engine response stored alongside the summary,
// keyed by execution and query index so individual responses can be
// inspected after the run.
type QueryRecord struct {
	RecordID    string              `json:"recordId"`
	ExecutionID string              `json:"executionId"`
	BrandID     string              `json:"brandId"`
	Result      common.EngineResult `json:"result"`
	StoredAt    time.Time           `json:"storedAt"`
}

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// NewRedisClient connects to Redis using REDIS_* environment variables and
// verifies the connection before returning.
func NewRedisClient(ctx context.Context) (*redis.Client, error) {
	addr := util.GetEnvString("REDIS_ADDR", "localhost:6379")

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    util.GetEnv("REDIS_PASSWORD"),
		DB:          int(util.GetEnvNumeric("REDIS_DB", 0)),
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return rdb, nil
}

func resultKey(resultID string) string {
	return "result:" + resultID
}

func queryRecordKey(executionID string, index int) string {
	return fmt.Sprintf("result:%s#query#%d", executionID, index)
}

func brandIndexKey(brandID string) string {
	return "results:brand:" + brandID
}

// Save persists the analysis summary and the raw per-query engine results.
// It mints a fresh result ID and registers it in the brand index so results
// can be listed per brand. All records share the same retention window.
func (s *Store) Save(
	ctx context.Context,
	executionID string,
	brandID string,
	clientID string,
	personaID string,
	analysis *common.AggregateResult,
	insights map[string]any,
	engineResults []common.EngineResult,
) (*StoredResult, error) {
	if brandID == "" {
		return nil, errors.New("brandId is required")
	}
	if executionID == "" {
		executionID = uuid.NewString()
	}

	now := time.Now().UTC()
	stored := &StoredResult{
		ResultID:    uuid.NewString(),
		ExecutionID: executionID,
		BrandID:     brandID,
		ClientID:    clientID,
		PersonaID:   personaID,
		Analysis:    analysis,
		Insights:    insights,
		QueryCount:  len(engineResults),
		StoredAt:    now,
	}

	payload, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, resultKey(stored.ResultID), payload, ResultTTL)
	pipe.ZAdd(ctx, brandIndexKey(brandID), redis.Z{
		Score:  float64(now.Unix()),
		Member: stored.ResultID,
	})
	pipe.Expire(ctx, brandIndexKey(brandID), ResultTTL)

	for i, res := range engineResults {
		record := QueryRecord{
			RecordID:    fmt.Sprintf("%s#query#%d", executionID, i),
			ExecutionID: executionID,
			BrandID:     brandID,
			Result:      res,
			StoredAt:    now,
		}
		recordPayload, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal query record %d: %w", i, err)
		}
		pipe.Set(ctx, queryRecordKey(executionID, i), recordPayload, ResultTTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to store result: %w", err)
	}

	logger.Info("[Results][Save] Stored analysis result",
		"result_id", stored.ResultID,
		"execution_id", executionID,
		"brand_id", brandID,
		"query_records", len(engineResults),
	)

	return stored, nil
}

func (s *Store) Get(ctx context.Context, resultID string) (*StoredResult, error) {
	if resultID == "" {
		return nil, errors.New("resultId is required")
	}

	payload, err := s.rdb.Get(ctx, resultKey(resultID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load result %s: %w", resultID, err)
	}

	var stored StoredResult
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode result %s: %w", resultID, err)
	}

	return &stored, nil
}

// GetQueryRecord loads one raw engine response of an execution by index.
func (s *Store) GetQueryRecord(ctx context.Context, executionID string, index int) (*QueryRecord, error) {
	payload, err := s.rdb.Get(ctx, queryRecordKey(executionID, index)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load query record: %w", err)
	}

	var record QueryRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("failed to decode query record: %w", err)
	}

	return &record, nil
}

// ListByBrand returns up to limit result summaries for a brand, newest
// first. Entries whose record already expired are skipped.
func (s *Store) ListByBrand(ctx context.Context, brandID string, limit int) ([]StoredResult, error) {
	if brandID == "" {
		return nil, errors.New("brandId is required")
	}
	if limit <= 0 {
		limit = 20
	}

	ids, err := s.rdb.ZRevRange(ctx, brandIndexKey(brandID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list results for brand %s: %w", brandID, err)
	}

	results := make([]StoredResult, 0, len(ids))
	for _, id := range ids {
		stored, err := s.Get(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		results = append(results, *stored)
	}

	return results, nil
}
