package routes

import (
	"net/http"

	"github.com/brandpoint/intelligence-engine/internal/server/middleware"
	"github.com/brandpoint/intelligence-engine/pkg/graph"
	"github.com/brandpoint/intelligence-engine/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GraphQueryHandler runs one of the predefined knowledge graph queries.
func GraphQueryHandler(c echo.Context) error {
	type graphQueryResponse struct {
		Message string             `json:"message"`
		Result  *graph.GraphResult `json:"result,omitempty"`
	}

	data := new(graph.QueryRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, graphQueryResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	result, err := app.Graph.Query(c.Request().Context(), *data)
	if err != nil {
		return c.JSON(http.StatusBadRequest, graphQueryResponse{
			Message: err.Error(),
		})
	}

	return c.JSON(http.StatusOK, graphQueryResponse{
		Message: "OK",
		Result:  result,
	})
}

// GraphUpdateHandler records the entities and relationships extracted
// from one piece of content.
func GraphUpdateHandler(c echo.Context) error {
	type graphUpdateResponse struct {
		Message string              `json:"message"`
		Result  *graph.UpdateResult `json:"result,omitempty"`
	}

	data := new(graph.GraphUpdate)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, graphUpdateResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	result, err := app.Graph.UpdateFromAnalysis(c.Request().Context(), *data)
	if err != nil {
		return c.JSON(http.StatusBadRequest, graphUpdateResponse{
			Message: err.Error(),
		})
	}
	if !result.Success {
		logger.Error("Graph update failed", "content_id", data.ContentID, "err", result.Error)
	}

	return c.JSON(http.StatusOK, graphUpdateResponse{
		Message: "OK",
		Result:  result,
	})
}
