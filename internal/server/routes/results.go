package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/brandpoint/intelligence-engine/internal/results"
	"github.com/brandpoint/intelligence-engine/internal/server/middleware"
	"github.com/brandpoint/intelligence-engine/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GetResultHandler returns one stored analysis result.
func GetResultHandler(c echo.Context) error {
	type getResultResponse struct {
		Message string                `json:"message"`
		Result  *results.StoredResult `json:"result,omitempty"`
	}

	resultID := c.Param("id")
	app := c.(*middleware.AppContext).App

	stored, err := app.Results.Get(c.Request().Context(), resultID)
	if err != nil {
		if errors.Is(err, results.ErrNotFound) {
			return c.JSON(http.StatusNotFound, getResultResponse{
				Message: "Result not found",
			})
		}
		logger.Error("Failed to load result", "result_id", resultID, "err", err)
		return c.JSON(http.StatusInternalServerError, getResultResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getResultResponse{
		Message: "OK",
		Result:  stored,
	})
}

// ListResultsHandler lists stored results for one brand, newest first.
func ListResultsHandler(c echo.Context) error {
	type listResultsResponse struct {
		Message string                 `json:"message"`
		Results []results.StoredResult `json:"results,omitempty"`
		Count   int                    `json:"count"`
	}

	brandID := c.QueryParam("brandId")
	if brandID == "" {
		return c.JSON(http.StatusBadRequest, listResultsResponse{
			Message: "brandId is required",
		})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	app := c.(*middleware.AppContext).App
	stored, err := app.Results.ListByBrand(c.Request().Context(), brandID, limit)
	if err != nil {
		logger.Error("Failed to list results", "brand_id", brandID, "err", err)
		return c.JSON(http.StatusInternalServerError, listResultsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, listResultsResponse{
		Message: "OK",
		Results: stored,
		Count:   len(stored),
	})
}

// GetQueryRecordHandler returns one raw engine response of an execution.
func GetQueryRecordHandler(c echo.Context) error {
	type queryRecordResponse struct {
		Message string               `json:"message"`
		Record  *results.QueryRecord `json:"record,omitempty"`
	}

	executionID := c.Param("executionId")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		return c.JSON(http.StatusBadRequest, queryRecordResponse{
			Message: "Invalid query index",
		})
	}

	app := c.(*middleware.AppContext).App
	record, err := app.Results.GetQueryRecord(c.Request().Context(), executionID, index)
	if err != nil {
		if errors.Is(err, results.ErrNotFound) {
			return c.JSON(http.StatusNotFound, queryRecordResponse{
				Message: "Query record not found",
			})
		}
		logger.Error("Failed to load query record", "execution_id", executionID, "err", err)
		return c.JSON(http.StatusInternalServerError, queryRecordResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, queryRecordResponse{
		Message: "OK",
		Record:  record,
	})
}
