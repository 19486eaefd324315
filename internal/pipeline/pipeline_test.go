package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/brandpoint/intelligence-engine/pkg/engine"
)

type fakeEngine struct {
	name     string
	response string
	err      error
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Execute(ctx context.Context, query string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestAnalyzeWithExplicitQueries(t *testing.T) {
	p := NewPipeline(NewPipelineParams{
		Engines: []engine.QueryEngine{
			&fakeEngine{name: "chatgpt", response: "Acme is a great choice for widgets."},
			&fakeEngine{name: "claude", err: errors.New("rate limited")},
		},
	})

	result, err := p.Analyze(context.Background(), AnalyzeParams{
		BrandID: "acme",
		Queries: []string{"best widget brands", "widget reviews"},
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if len(result.EngineResults) != 4 {
		t.Fatalf("expected 4 engine results, got %d", len(result.EngineResults))
	}
	if result.ExecutionID == "" {
		t.Error("expected an execution id")
	}

	// Failed engine calls are recorded but excluded from scoring.
	failures := 0
	for _, res := range result.EngineResults {
		if !res.Success {
			failures++
			if res.Error == "" {
				t.Error("failed result missing error message")
			}
		}
	}
	if failures != 2 {
		t.Errorf("expected 2 failed engine results, got %d", failures)
	}

	if result.Analysis == nil {
		t.Fatal("expected an analysis")
	}
	if result.Analysis.TotalQueries != 2 {
		t.Errorf("TotalQueries = %d, want 2", result.Analysis.TotalQueries)
	}
	if result.Analysis.OverallVisibility <= 0 {
		t.Errorf("OverallVisibility = %v, want > 0", result.Analysis.OverallVisibility)
	}
	if _, ok := result.Analysis.EngineBreakdown["chatgpt"]; !ok {
		t.Error("expected chatgpt in engine breakdown")
	}
}

func TestAnalyzeEngineSelection(t *testing.T) {
	chatgpt := &fakeEngine{name: "chatgpt", response: "Acme leads the market."}
	claude := &fakeEngine{name: "claude", response: "Acme is well regarded."}

	p := NewPipeline(NewPipelineParams{
		Engines: []engine.QueryEngine{chatgpt, claude},
	})

	result, err := p.Analyze(context.Background(), AnalyzeParams{
		BrandID: "acme",
		Queries: []string{"who makes the best widgets"},
		Engines: []string{"claude"},
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(result.EngineResults) != 1 {
		t.Fatalf("expected 1 engine result, got %d", len(result.EngineResults))
	}
	if result.EngineResults[0].Engine != "claude" {
		t.Errorf("Engine = %q, want claude", result.EngineResults[0].Engine)
	}
}

func TestAnalyzeValidation(t *testing.T) {
	p := NewPipeline(NewPipelineParams{
		Engines: []engine.QueryEngine{&fakeEngine{name: "chatgpt"}},
	})

	if _, err := p.Analyze(context.Background(), AnalyzeParams{Queries: []string{"q"}}); err == nil {
		t.Error("expected error for missing brandId")
	}
	if _, err := p.Analyze(context.Background(), AnalyzeParams{BrandID: "acme"}); err == nil {
		t.Error("expected error when neither queries nor personaId given")
	}
	if _, err := p.Analyze(context.Background(), AnalyzeParams{
		BrandID: "acme",
		Queries: []string{"q"},
		Engines: []string{"unknown"},
	}); err == nil {
		t.Error("expected error when no engine matches")
	}
}
