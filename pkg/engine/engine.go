package engine

import (
	"context"
	"time"

	"github.com/brandpoint/intelligence-engine/pkg/common"
	"github.com/brandpoint/intelligence-engine/pkg/logger"
)

// Engine names as they appear in results and breakdowns.
const (
	EngineChatGPT    = "chatgpt"
	EnginePerplexity = "perplexity"
	EngineGemini     = "gemini"
	EngineClaude     = "claude"
)

// QueryEngine runs one query against one AI engine and returns the
// generated answer text. Adding an engine means adding an
// implementation, not extending a dispatch chain.
type QueryEngine interface {
	Name() string
	Execute(ctx context.Context, query string) (string, error)
}

// Run executes one query on one engine and wraps the outcome in an
// EngineResult. Failures are captured in the result, never returned, so
// one unhealthy engine does not abort a whole analysis run.
func Run(ctx context.Context, e QueryEngine, query string) common.EngineResult {
	result := common.EngineResult{
		Engine: e.Name(),
		Query:  query,
	}

	start := time.Now()
	response, err := e.Execute(ctx, query)
	result.LatencyMs = time.Since(start).Milliseconds()

	if err != nil {
		logger.Error("[Engine] Query failed", "engine", e.Name(), "error", err)
		result.Success = false
		result.Error = err.Error()
		return result
	}

	logger.Info("[Engine] Query executed", "engine", e.Name(), "latencyMs", result.LatencyMs)
	result.Success = true
	result.Response = response
	return result
}
