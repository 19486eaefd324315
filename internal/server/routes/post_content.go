package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/brandpoint/intelligence-engine/internal/pipeline"
	"github.com/brandpoint/intelligence-engine/internal/queue"
	"github.com/brandpoint/intelligence-engine/internal/server/middleware"
	"github.com/brandpoint/intelligence-engine/pkg/common"
	"github.com/brandpoint/intelligence-engine/pkg/content"
	"github.com/brandpoint/intelligence-engine/pkg/graph"
	"github.com/brandpoint/intelligence-engine/pkg/logger"

	"github.com/labstack/echo/v4"
)

// IngestContentHandler indexes one content document. With async set the
// document is queued for the worker instead of being processed inline.
func IngestContentHandler(c echo.Context) error {
	type ingestContentBody struct {
		Content     string                  `json:"content" validate:"required"`
		ContentType string                  `json:"contentType"`
		Title       string                  `json:"title"`
		BrandID     string                  `json:"brandId" validate:"required"`
		ClientID    string                  `json:"clientId"`
		SourceURL   string                  `json:"sourceUrl"`
		Author      string                  `json:"author"`
		PublishedAt *time.Time              `json:"publishedDate"`
		Metadata    map[string]any          `json:"metadata"`
		Tags        []string                `json:"tags"`
		Entities    *graph.AnalysisEntities `json:"entities"`
		Async       bool                    `json:"async"`
	}

	type ingestContentResponse struct {
		Message string                 `json:"message"`
		Result  *pipeline.IngestResult `json:"result,omitempty"`
	}

	data := new(ingestContentBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, ingestContentResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, ingestContentResponse{
			Message: "Invalid request body",
		})
	}

	params := pipeline.IngestParams{
		Input: content.IngestInput{
			Content:     data.Content,
			ContentType: data.ContentType,
			Title:       data.Title,
			BrandID:     data.BrandID,
			ClientID:    data.ClientID,
			SourceURL:   data.SourceURL,
			Author:      data.Author,
			PublishedAt: data.PublishedAt,
			Metadata:    data.Metadata,
			Tags:        data.Tags,
		},
		Entities: data.Entities,
	}

	app := c.(*middleware.AppContext).App

	if data.Async {
		msg := queue.IngestContentMsg{
			Message: "Content ingestion requested",
			Params:  params,
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, ingestContentResponse{
				Message: "Internal server error",
			})
		}
		if err := queue.PublishFIFO(app.Queue, queue.IngestQueue, payload); err != nil {
			logger.Error("Failed to publish to ingest_queue", "err", err)
			return c.JSON(http.StatusInternalServerError, ingestContentResponse{
				Message: "Internal server error",
			})
		}
		return c.JSON(http.StatusAccepted, ingestContentResponse{
			Message: "Content queued for ingestion",
		})
	}

	result, err := app.Pipeline.Ingest(c.Request().Context(), params)
	if err != nil {
		logger.Error("Failed to ingest content", "brand_id", data.BrandID, "err", err)
		return c.JSON(http.StatusInternalServerError, ingestContentResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, ingestContentResponse{
		Message: "Content ingested successfully",
		Result:  result,
	})
}

// GetContentHandler returns one stored document by ID.
func GetContentHandler(c echo.Context) error {
	type getContentResponse struct {
		Message  string                  `json:"message"`
		Document *common.ContentDocument `json:"document,omitempty"`
	}

	contentID := c.Param("id")
	if contentID == "" {
		return c.JSON(http.StatusBadRequest, getContentResponse{
			Message: "Content ID is required",
		})
	}

	app := c.(*middleware.AppContext).App
	doc, err := app.Contents.GetDocument(c.Request().Context(), contentID)
	if err != nil {
		logger.Error("Failed to load document", "content_id", contentID, "err", err)
		return c.JSON(http.StatusInternalServerError, getContentResponse{
			Message: "Internal server error",
		})
	}
	if doc == nil {
		return c.JSON(http.StatusNotFound, getContentResponse{
			Message: "Document not found",
		})
	}

	return c.JSON(http.StatusOK, getContentResponse{
		Message:  "OK",
		Document: doc,
	})
}
