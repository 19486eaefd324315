package middleware

import (
	"github.com/MicahParks/keyfunc/v3"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/brandpoint/intelligence-engine/internal/persona"
	"github.com/brandpoint/intelligence-engine/internal/pipeline"
	"github.com/brandpoint/intelligence-engine/internal/results"
	"github.com/brandpoint/intelligence-engine/pkg/ai"
	"github.com/brandpoint/intelligence-engine/pkg/content"
	"github.com/brandpoint/intelligence-engine/pkg/graph"
	"github.com/brandpoint/intelligence-engine/pkg/insights"
)

type AppUser struct {
	UserID string
	Role   string
}

type App struct {
	DBConn       *pgxpool.Pool
	Redis        *redis.Client
	Queue        *amqp091.Channel
	Key          *keyfunc.Keyfunc
	S3           *s3.Client
	AiClient     ai.BrandAIClient
	Contents     *content.Store
	Graph        *graph.Graph
	Personas     *persona.Store
	Generator    *persona.Generator
	Results      *results.Store
	Insights     *insights.Generator
	Pipeline     *pipeline.Pipeline
	MasterAPIKey string
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app, nil}
			return next(cc)
		}
	}
}
