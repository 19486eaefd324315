package engine

import (
	"context"
	"errors"
	"testing"
)

type fakeEngine struct {
	name     string
	response string
	err      error
}

func (e *fakeEngine) Name() string { return e.name }

func (e *fakeEngine) Execute(ctx context.Context, query string) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return e.response, nil
}

func TestRunSuccess(t *testing.T) {
	result := Run(context.Background(), &fakeEngine{name: "chatgpt", response: "an answer"}, "a query")

	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Response != "an answer" {
		t.Errorf("expected response to be carried through, got %q", result.Response)
	}
	if result.Engine != "chatgpt" || result.Query != "a query" {
		t.Errorf("expected engine and query to be set, got %+v", result)
	}
	if result.Error != "" {
		t.Errorf("expected empty error, got %q", result.Error)
	}
}

func TestRunFailure(t *testing.T) {
	result := Run(context.Background(), &fakeEngine{name: "gemini", err: errors.New("quota exceeded")}, "a query")

	if result.Success {
		t.Fatalf("expected failure, got %+v", result)
	}
	if result.Error != "quota exceeded" {
		t.Errorf("expected error to be captured, got %q", result.Error)
	}
	if result.Response != "" {
		t.Errorf("expected empty response on failure, got %q", result.Response)
	}
}
