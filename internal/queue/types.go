package queue

import "github.com/brandpoint/intelligence-engine/internal/pipeline"

// IngestContentMsg is the payload published to the ingest queue. It
// carries the full document plus any pre-extracted graph entities.
type IngestContentMsg struct {
	Message string                `json:"message,omitempty"`
	Params  pipeline.IngestParams `json:"params"`
}

// AnalyzeBrandMsg is the payload published to the analyze queue.
type AnalyzeBrandMsg struct {
	Message string                 `json:"message,omitempty"`
	Params  pipeline.AnalyzeParams `json:"params"`
}
