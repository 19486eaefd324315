package routes

import (
	"net/http"

	"github.com/brandpoint/intelligence-engine/internal/server/middleware"
	"github.com/brandpoint/intelligence-engine/pkg/content"
	"github.com/brandpoint/intelligence-engine/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SearchContentHandler runs a similarity search over indexed content.
func SearchContentHandler(c echo.Context) error {
	type searchResponse struct {
		Message string                `json:"message"`
		Result  *content.SearchResult `json:"result,omitempty"`
	}

	data := new(content.SearchParams)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, searchResponse{
			Message: "Invalid request body",
		})
	}
	if data.Query == "" && len(data.Embedding) == 0 {
		return c.JSON(http.StatusBadRequest, searchResponse{
			Message: "Either query or embedding is required",
		})
	}

	app := c.(*middleware.AppContext).App
	result, err := app.Contents.Search(c.Request().Context(), *data)
	if err != nil {
		logger.Error("Failed to search content", "err", err)
		return c.JSON(http.StatusInternalServerError, searchResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, searchResponse{
		Message: "OK",
		Result:  result,
	})
}

// SimilarContentHandler finds documents similar to an already indexed one.
func SimilarContentHandler(c echo.Context) error {
	type similarParams struct {
		ContentID string `param:"id" validate:"required"`
		K         int    `query:"k"`
	}

	type similarResponse struct {
		Message string                `json:"message"`
		Result  *content.SearchResult `json:"result,omitempty"`
	}

	params := new(similarParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, similarResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, similarResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	result, err := app.Contents.SearchByContentID(c.Request().Context(), params.ContentID, params.K)
	if err != nil {
		logger.Error("Failed to search similar content", "content_id", params.ContentID, "err", err)
		return c.JSON(http.StatusInternalServerError, similarResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, similarResponse{
		Message: "OK",
		Result:  result,
	})
}

// ExtractFeaturesHandler extracts content features without indexing.
func ExtractFeaturesHandler(c echo.Context) error {
	type featuresBody struct {
		Content     string `json:"content" validate:"required"`
		ContentType string `json:"contentType"`
	}

	type featuresResponse struct {
		Message  string                   `json:"message"`
		Features *content.ContentFeatures `json:"features,omitempty"`
	}

	data := new(featuresBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, featuresResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, featuresResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	features, err := app.Contents.ExtractFeatures(c.Request().Context(), data.Content, data.ContentType)
	if err != nil {
		logger.Error("Failed to extract features", "err", err)
		return c.JSON(http.StatusInternalServerError, featuresResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, featuresResponse{
		Message:  "OK",
		Features: features,
	})
}
