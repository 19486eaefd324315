package pipeline

import (
	"context"

	"github.com/brandpoint/intelligence-engine/internal/util"
	"github.com/brandpoint/intelligence-engine/pkg/engine"
	"github.com/brandpoint/intelligence-engine/pkg/logger"
)

// EnginesFromEnv builds the query engine list from configured API keys.
// Engines without a key are skipped, so a deployment can run any subset.
func EnginesFromEnv(ctx context.Context) []engine.QueryEngine {
	engines := make([]engine.QueryEngine, 0, 4)

	if key := util.GetEnv("OPENAI_API_KEY"); key != "" {
		engines = append(engines, engine.NewChatGPTEngine(key, util.GetEnv("CHATGPT_MODEL")))
	}
	if key := util.GetEnv("PERPLEXITY_API_KEY"); key != "" {
		engines = append(engines, engine.NewPerplexityEngine(key, util.GetEnv("PERPLEXITY_MODEL")))
	}
	if key := util.GetEnv("ANTHROPIC_API_KEY"); key != "" {
		engines = append(engines, engine.NewClaudeEngine(key, util.GetEnv("CLAUDE_MODEL")))
	}
	if key := util.GetEnv("GEMINI_API_KEY"); key != "" {
		gemini, err := engine.NewGeminiEngine(ctx, key, util.GetEnv("GEMINI_MODEL"))
		if err != nil {
			logger.Error("Failed to create Gemini engine, skipping", "err", err)
		} else {
			engines = append(engines, gemini)
		}
	}

	names := make([]string, 0, len(engines))
	for _, e := range engines {
		names = append(names, e.Name())
	}
	logger.Info("[Pipeline] Configured engines", "engines", names)

	return engines
}
