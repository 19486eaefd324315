package routes

import (
	"encoding/json"
	"net/http"

	"github.com/brandpoint/intelligence-engine/internal/pipeline"
	"github.com/brandpoint/intelligence-engine/internal/queue"
	"github.com/brandpoint/intelligence-engine/internal/server/middleware"
	"github.com/brandpoint/intelligence-engine/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalyzeVisibilityHandler runs a visibility analysis for one brand.
// Long runs can be queued for the worker with async instead.
func AnalyzeVisibilityHandler(c echo.Context) error {
	type analyzeBody struct {
		pipeline.AnalyzeParams
		Async bool `json:"async"`
	}

	type analyzeResponse struct {
		Message string                  `json:"message"`
		Result  *pipeline.AnalyzeResult `json:"result,omitempty"`
	}

	data := new(analyzeBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, analyzeResponse{
			Message: "Invalid request body",
		})
	}
	if data.BrandID == "" {
		return c.JSON(http.StatusBadRequest, analyzeResponse{
			Message: "brandId is required",
		})
	}
	if len(data.Queries) == 0 && data.PersonaID == "" {
		return c.JSON(http.StatusBadRequest, analyzeResponse{
			Message: "Either queries or personaId is required",
		})
	}

	app := c.(*middleware.AppContext).App

	if data.Async {
		msg := queue.AnalyzeBrandMsg{
			Message: "Visibility analysis requested",
			Params:  data.AnalyzeParams,
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, analyzeResponse{
				Message: "Internal server error",
			})
		}
		if err := queue.PublishFIFO(app.Queue, queue.AnalyzeQueue, payload); err != nil {
			logger.Error("Failed to publish to analyze_queue", "err", err)
			return c.JSON(http.StatusInternalServerError, analyzeResponse{
				Message: "Internal server error",
			})
		}
		return c.JSON(http.StatusAccepted, analyzeResponse{
			Message: "Analysis queued",
		})
	}

	result, err := app.Pipeline.Analyze(c.Request().Context(), data.AnalyzeParams)
	if err != nil {
		logger.Error("Failed to run analysis", "brand_id", data.BrandID, "err", err)
		return c.JSON(http.StatusInternalServerError, analyzeResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, analyzeResponse{
		Message: "Analysis complete",
		Result:  result,
	})
}
