package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/brandpoint/intelligence-engine/internal/persona"
	"github.com/brandpoint/intelligence-engine/internal/server/middleware"
	"github.com/brandpoint/intelligence-engine/pkg/common"
	"github.com/brandpoint/intelligence-engine/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ListPersonasHandler lists personas, optionally filtered by brand or
// client.
func ListPersonasHandler(c echo.Context) error {
	type listPersonasResponse struct {
		Message  string           `json:"message"`
		Personas []common.Persona `json:"personas,omitempty"`
		Count    int              `json:"count"`
	}

	app := c.(*middleware.AppContext).App
	personas, err := app.Personas.List(
		c.Request().Context(),
		c.QueryParam("brandId"),
		c.QueryParam("clientId"),
	)
	if err != nil {
		logger.Error("Failed to list personas", "err", err)
		return c.JSON(http.StatusInternalServerError, listPersonasResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, listPersonasResponse{
		Message:  "OK",
		Personas: personas,
		Count:    len(personas),
	})
}

// GetPersonaHandler returns one persona by ID.
func GetPersonaHandler(c echo.Context) error {
	type getPersonaResponse struct {
		Message string          `json:"message"`
		Persona *common.Persona `json:"persona,omitempty"`
	}

	personaID := c.Param("id")
	app := c.(*middleware.AppContext).App

	p, err := app.Personas.Get(c.Request().Context(), personaID)
	if err != nil {
		if errors.Is(err, persona.ErrNotFound) {
			return c.JSON(http.StatusNotFound, getPersonaResponse{
				Message: "Persona not found",
			})
		}
		logger.Error("Failed to load persona", "persona_id", personaID, "err", err)
		return c.JSON(http.StatusInternalServerError, getPersonaResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getPersonaResponse{
		Message: "OK",
		Persona: p,
	})
}

// CreatePersonaHandler stores a new persona.
func CreatePersonaHandler(c echo.Context) error {
	type createPersonaResponse struct {
		Message string          `json:"message"`
		Persona *common.Persona `json:"persona,omitempty"`
	}

	data := new(common.Persona)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createPersonaResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	created, err := app.Personas.Create(c.Request().Context(), *data)
	if err != nil {
		return c.JSON(http.StatusBadRequest, createPersonaResponse{
			Message: err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, createPersonaResponse{
		Message: "Persona created successfully",
		Persona: created,
	})
}

// UpdatePersonaHandler updates an existing persona.
func UpdatePersonaHandler(c echo.Context) error {
	type updatePersonaResponse struct {
		Message string          `json:"message"`
		Persona *common.Persona `json:"persona,omitempty"`
	}

	personaID := c.Param("id")
	data := new(common.Persona)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, updatePersonaResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	updated, err := app.Personas.Update(c.Request().Context(), personaID, *data)
	if err != nil {
		if errors.Is(err, persona.ErrNotFound) {
			return c.JSON(http.StatusNotFound, updatePersonaResponse{
				Message: "Persona not found",
			})
		}
		logger.Error("Failed to update persona", "persona_id", personaID, "err", err)
		return c.JSON(http.StatusInternalServerError, updatePersonaResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, updatePersonaResponse{
		Message: "Persona updated successfully",
		Persona: updated,
	})
}

// DeletePersonaHandler removes a persona.
func DeletePersonaHandler(c echo.Context) error {
	type deletePersonaResponse struct {
		Message   string `json:"message"`
		PersonaID string `json:"personaId,omitempty"`
	}

	personaID := c.Param("id")
	app := c.(*middleware.AppContext).App

	if err := app.Personas.Delete(c.Request().Context(), personaID); err != nil {
		if errors.Is(err, persona.ErrNotFound) {
			return c.JSON(http.StatusNotFound, deletePersonaResponse{
				Message: "Persona not found",
			})
		}
		logger.Error("Failed to delete persona", "persona_id", personaID, "err", err)
		return c.JSON(http.StatusInternalServerError, deletePersonaResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, deletePersonaResponse{
		Message:   "Persona deleted successfully",
		PersonaID: personaID,
	})
}

// GeneratePersonaQueriesHandler generates search queries in the
// persona's voice without running a full analysis.
func GeneratePersonaQueriesHandler(c echo.Context) error {
	type generateResponse struct {
		Message string                    `json:"message"`
		Result  *persona.GeneratedQueries `json:"result,omitempty"`
	}

	personaID := c.Param("id")
	queryCount, _ := strconv.Atoi(c.QueryParam("count"))

	app := c.(*middleware.AppContext).App
	p, err := app.Personas.Get(c.Request().Context(), personaID)
	if err != nil {
		if errors.Is(err, persona.ErrNotFound) {
			return c.JSON(http.StatusNotFound, generateResponse{
				Message: "Persona not found",
			})
		}
		logger.Error("Failed to load persona", "persona_id", personaID, "err", err)
		return c.JSON(http.StatusInternalServerError, generateResponse{
			Message: "Internal server error",
		})
	}

	result, err := app.Generator.Generate(c.Request().Context(), p, queryCount)
	if err != nil {
		logger.Error("Failed to generate queries", "persona_id", personaID, "err", err)
		return c.JSON(http.StatusInternalServerError, generateResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, generateResponse{
		Message: "OK",
		Result:  result,
	})
}
