package routes

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/brandpoint/intelligence-engine/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// DetailedHealthHandler reports the reachability of each backing service.
func DetailedHealthHandler(c echo.Context) error {
	type healthResponse struct {
		Status   string            `json:"status"`
		Services map[string]string `json:"services"`
	}

	app := c.(*middleware.AppContext).App
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	services := make(map[string]string)
	healthy := true

	check := func(name string, err error) {
		if err != nil {
			services[name] = "unreachable: " + err.Error()
			healthy = false
			return
		}
		services[name] = "ok"
	}

	if app.DBConn != nil {
		check("postgres", app.DBConn.Ping(ctx))
	}
	if app.Redis != nil {
		check("redis", app.Redis.Ping(ctx).Err())
	}
	if app.Graph != nil {
		check("neo4j", app.Graph.Ping(ctx))
	}
	if app.Queue != nil {
		if app.Queue.IsClosed() {
			check("rabbitmq", errors.New("channel closed"))
		} else {
			services["rabbitmq"] = "ok"
		}
	}

	status := "healthy"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, healthResponse{
		Status:   status,
		Services: services,
	})
}
