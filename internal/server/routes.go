package server

import (
	"github.com/brandpoint/intelligence-engine/internal/server/middleware"
	"github.com/brandpoint/intelligence-engine/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check routes
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})
	e.GET("/health/detailed", routes.DetailedHealthHandler)

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Content routes
	apiRoutes.POST("/content", routes.IngestContentHandler)
	apiRoutes.GET("/content/:id", routes.GetContentHandler)
	apiRoutes.GET("/content/:id/similar", routes.SimilarContentHandler)
	apiRoutes.POST("/content/search", routes.SearchContentHandler)
	apiRoutes.POST("/content/features", routes.ExtractFeaturesHandler)

	// Knowledge graph routes
	apiRoutes.POST("/graph/query", routes.GraphQueryHandler)
	apiRoutes.POST("/graph/update", routes.GraphUpdateHandler)

	// Visibility analysis routes
	apiRoutes.POST("/analyze", routes.AnalyzeVisibilityHandler)
	apiRoutes.POST("/insights", routes.GenerateInsightsHandler)

	// Result routes
	apiRoutes.GET("/results", routes.ListResultsHandler)
	apiRoutes.GET("/results/:id", routes.GetResultHandler)
	apiRoutes.GET("/results/:executionId/queries/:index", routes.GetQueryRecordHandler)

	// Persona routes
	apiRoutes.GET("/personas", routes.ListPersonasHandler)
	apiRoutes.POST("/personas", routes.CreatePersonaHandler)
	apiRoutes.GET("/personas/:id", routes.GetPersonaHandler)
	apiRoutes.PUT("/personas/:id", routes.UpdatePersonaHandler)
	apiRoutes.DELETE("/personas/:id", routes.DeletePersonaHandler)
	apiRoutes.POST("/personas/:id/queries", routes.GeneratePersonaQueriesHandler)
}
