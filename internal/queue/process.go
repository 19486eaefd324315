package queue

import (
	"context"
	"encoding/json"

	"github.com/brandpoint/intelligence-engine/internal/pipeline"
	"github.com/brandpoint/intelligence-engine/pkg/logger"
)

func ProcessIngestMessage(
	ctx context.Context,
	p *pipeline.Pipeline,
	msg string,
) error {
	data := new(IngestContentMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return err
	}

	result, err := p.Ingest(ctx, data.Params)
	if err != nil {
		return err
	}

	logger.Info("[Queue] Processed ingest message",
		"content_id", result.Ingest.ContentID,
		"duplicate", result.Ingest.Duplicate,
		"degraded", result.Ingest.EmbeddingDegraded,
	)
	return nil
}

func ProcessAnalyzeMessage(
	ctx context.Context,
	p *pipeline.Pipeline,
	msg string,
) error {
	data := new(AnalyzeBrandMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return err
	}

	result, err := p.Analyze(ctx, data.Params)
	if err != nil {
		return err
	}

	logger.Info("[Queue] Processed analyze message",
		"execution_id", result.ExecutionID,
		"brand_id", data.Params.BrandID,
		"result_id", result.ResultID,
		"overall_visibility", result.Analysis.OverallVisibility,
	)
	return nil
}
