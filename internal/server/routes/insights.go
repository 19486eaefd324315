package routes

import (
	"net/http"

	"github.com/brandpoint/intelligence-engine/internal/server/middleware"
	"github.com/brandpoint/intelligence-engine/pkg/insights"
	"github.com/brandpoint/intelligence-engine/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GenerateInsightsHandler produces one narrative insight report from
// aggregated intelligence data.
func GenerateInsightsHandler(c echo.Context) error {
	type insightsResponse struct {
		Message string          `json:"message"`
		Report  insights.Report `json:"report,omitempty"`
	}

	data := new(insights.Request)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, insightsResponse{
			Message: "Invalid request body",
		})
	}
	if data.BrandID == "" {
		return c.JSON(http.StatusBadRequest, insightsResponse{
			Message: "brandId is required",
		})
	}

	app := c.(*middleware.AppContext).App
	report, err := app.Insights.Generate(c.Request().Context(), *data)
	if err != nil {
		logger.Error("Failed to generate insights", "brand_id", data.BrandID, "insight_type", data.InsightType, "err", err)
		return c.JSON(http.StatusBadRequest, insightsResponse{
			Message: err.Error(),
		})
	}

	return c.JSON(http.StatusOK, insightsResponse{
		Message: "OK",
		Report:  report,
	})
}
