package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/brandpoint/intelligence-engine/internal/persona"
	"github.com/brandpoint/intelligence-engine/internal/results"
	"github.com/brandpoint/intelligence-engine/pkg/common"
	"github.com/brandpoint/intelligence-engine/pkg/content"
	"github.com/brandpoint/intelligence-engine/pkg/engine"
	"github.com/brandpoint/intelligence-engine/pkg/graph"
	"github.com/brandpoint/intelligence-engine/pkg/insights"
	"github.com/brandpoint/intelligence-engine/pkg/logger"
	"github.com/brandpoint/intelligence-engine/pkg/visibility"

	"github.com/brandpoint/intelligence-engine/internal/storage"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentQueries bounds parallel engine calls per analysis run.
const maxConcurrentQueries = 4

// Pipeline wires the analysis stages together: persona loading, query
// generation, engine fan-out, visibility scoring and result storage.
type Pipeline struct {
	personas  *persona.Store
	generator *persona.Generator
	engines   []engine.QueryEngine
	results   *results.Store
	contents  *content.Store
	graph     *graph.Graph
	insights  *insights.Generator
	s3Client  *awss3.Client
}

type NewPipelineParams struct {
	Personas  *persona.Store
	Generator *persona.Generator
	Engines   []engine.QueryEngine
	Results   *results.Store
	Contents  *content.Store
	Graph     *graph.Graph
	Insights  *insights.Generator
	S3Client  *awss3.Client
}

func NewPipeline(params NewPipelineParams) *Pipeline {
	return &Pipeline{
		personas:  params.Personas,
		generator: params.Generator,
		engines:   params.Engines,
		results:   params.Results,
		contents:  params.Contents,
		graph:     params.Graph,
		insights:  params.Insights,
		s3Client:  params.S3Client,
	}
}

// AnalyzeParams describes one visibility analysis run. Either Queries or
// PersonaID must be set; with a persona the queries are generated in its
// voice.
type AnalyzeParams struct {
	BrandID          string   `json:"brandId"`
	ClientID         string   `json:"clientId,omitempty"`
	PersonaID        string   `json:"personaId,omitempty"`
	Queries          []string `json:"queries,omitempty"`
	QueryCount       int      `json:"queryCount,omitempty"`
	Engines          []string `json:"engines,omitempty"`
	GenerateInsights bool     `json:"generateInsights,omitempty"`
}

// AnalyzeResult is the full outcome of one run, including the stored
// result record when a results store is configured.
type AnalyzeResult struct {
	ExecutionID   string                  `json:"executionId"`
	Analysis      *common.AggregateResult `json:"analysis"`
	Insights      map[string]any          `json:"insights,omitempty"`
	EngineResults []common.EngineResult   `json:"engineResults"`
	ResultID      string                  `json:"resultId,omitempty"`
}

// Analyze runs the complete visibility analysis for one brand. Engine
// failures are captured per query and scored as zero visibility rather
// than aborting the run.
func (p *Pipeline) Analyze(ctx context.Context, params AnalyzeParams) (*AnalyzeResult, error) {
	if params.BrandID == "" {
		return nil, errors.New("brandId is required")
	}

	executionID := uuid.NewString()
	queries := params.Queries

	if len(queries) == 0 {
		if params.PersonaID == "" {
			return nil, errors.New("either queries or personaId is required")
		}
		loaded, err := p.personas.Get(ctx, params.PersonaID)
		if err != nil {
			return nil, err
		}
		generated, err := p.generator.Generate(ctx, loaded, params.QueryCount)
		if err != nil {
			return nil, err
		}
		queries = generated.Queries
	}
	if len(queries) == 0 {
		return nil, errors.New("no queries to run")
	}

	engines := p.selectEngines(params.Engines)
	if len(engines) == 0 {
		return nil, errors.New("no engines configured")
	}

	logger.Info("[Pipeline][Analyze] Starting analysis run",
		"execution_id", executionID,
		"brand_id", params.BrandID,
		"queries", len(queries),
		"engines", len(engines),
	)

	engineResults := p.fanOut(ctx, engines, queries)

	records := make([]common.VisibilityRecord, 0, len(engineResults))
	for _, res := range engineResults {
		if !res.Success {
			continue
		}
		records = append(records, visibility.Score(res.Query, res.Engine, res.Response, params.BrandID))
	}

	aggregated := visibility.Aggregate(params.BrandID, records)
	analysis := &aggregated

	result := &AnalyzeResult{
		ExecutionID:   executionID,
		Analysis:      analysis,
		EngineResults: engineResults,
	}

	if params.GenerateInsights && p.insights != nil {
		report, err := p.insights.Generate(ctx, insights.Request{
			InsightType: insights.TypeVisibility,
			BrandID:     params.BrandID,
			Data: insights.InsightData{
				VisibilityResults: records,
				EngineBreakdown:   analysis.EngineBreakdown,
				OverallVisibility: analysis.OverallVisibility,
			},
		})
		if err != nil {
			logger.Warn("[Pipeline][Analyze] Insight generation failed", "execution_id", executionID, "err", err)
		} else {
			result.Insights = report
		}
	}

	if p.results != nil {
		stored, err := p.results.Save(
			ctx,
			executionID,
			params.BrandID,
			params.ClientID,
			params.PersonaID,
			analysis,
			result.Insights,
			engineResults,
		)
		if err != nil {
			return nil, fmt.Errorf("analysis succeeded but storing results failed: %w", err)
		}
		result.ResultID = stored.ResultID
	}

	logger.Info("[Pipeline][Analyze] Analysis run complete",
		"execution_id", executionID,
		"brand_id", params.BrandID,
		"overall_visibility", analysis.OverallVisibility,
	)

	return result, nil
}

// fanOut runs every query against every engine with bounded concurrency.
// Output order is deterministic: engines in configured order, queries in
// input order.
func (p *Pipeline) fanOut(ctx context.Context, engines []engine.QueryEngine, queries []string) []common.EngineResult {
	out := make([]common.EngineResult, len(engines)*len(queries))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQueries)

	for i, e := range engines {
		for j, q := range queries {
			idx := i*len(queries) + j
			e, q := e, q
			g.Go(func() error {
				res := engine.Run(gctx, e, q)
				mu.Lock()
				out[idx] = res
				mu.Unlock()
				return nil
			})
		}
	}

	// Run never returns an error; failures live in the result records.
	_ = g.Wait()
	return out
}

func (p *Pipeline) selectEngines(names []string) []engine.QueryEngine {
	if len(names) == 0 {
		return p.engines
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	selected := make([]engine.QueryEngine, 0, len(p.engines))
	for _, e := range p.engines {
		if wanted[e.Name()] {
			selected = append(selected, e)
		}
	}
	return selected
}

// IngestParams describes one content ingestion job, optionally with the
// entities to record in the knowledge graph.
type IngestParams struct {
	Input    content.IngestInput     `json:"input"`
	Entities *graph.AnalysisEntities `json:"entities,omitempty"`
}

// IngestResult pairs the store outcome with the graph update outcome.
type IngestResult struct {
	Ingest *common.IngestResult `json:"ingest"`
	Graph  *graph.UpdateResult  `json:"graph,omitempty"`
}

// Ingest stores one content document and, when a graph is configured,
// records its brand and topic relationships. Tag names double as topics
// when no explicit entities are supplied.
func (p *Pipeline) Ingest(ctx context.Context, params IngestParams) (*IngestResult, error) {
	if p.contents == nil {
		return nil, errors.New("content store not configured")
	}

	ingested, err := p.contents.Ingest(ctx, params.Input)
	if err != nil {
		return nil, err
	}

	result := &IngestResult{Ingest: ingested}

	if ingested.Duplicate {
		return result, nil
	}

	if p.s3Client != nil {
		if _, err := storage.ArchiveContent(ctx, p.s3Client, params.Input.BrandID, ingested.ContentID, []byte(params.Input.Content)); err != nil {
			logger.Warn("[Pipeline][Ingest] Failed to archive raw content", "content_id", ingested.ContentID, "err", err)
		}
	}

	if p.graph == nil {
		return result, nil
	}

	entities := params.Entities
	if entities == nil {
		entities = &graph.AnalysisEntities{
			Brands: []string{params.Input.BrandID},
			Topics: params.Input.Tags,
		}
	}

	update, err := p.graph.UpdateFromAnalysis(ctx, graph.GraphUpdate{
		ContentID: ingested.ContentID,
		BrandID:   params.Input.BrandID,
		Entities:  *entities,
	})
	if err != nil {
		return nil, err
	}
	if !update.Success {
		logger.Warn("[Pipeline][Ingest] Graph update failed",
			"content_id", ingested.ContentID,
			"err", update.Error,
		)
	}
	result.Graph = update

	return result, nil
}
