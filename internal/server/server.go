package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brandpoint/intelligence-engine/internal/db"
	"github.com/brandpoint/intelligence-engine/internal/persona"
	"github.com/brandpoint/intelligence-engine/internal/pipeline"
	"github.com/brandpoint/intelligence-engine/internal/queue"
	"github.com/brandpoint/intelligence-engine/internal/results"
	mid "github.com/brandpoint/intelligence-engine/internal/server/middleware"
	"github.com/brandpoint/intelligence-engine/internal/storage"
	"github.com/brandpoint/intelligence-engine/internal/util"
	"github.com/brandpoint/intelligence-engine/pkg/ai"
	gai "github.com/brandpoint/intelligence-engine/pkg/ai/openai"
	"github.com/brandpoint/intelligence-engine/pkg/content"
	"github.com/brandpoint/intelligence-engine/pkg/graph"
	"github.com/brandpoint/intelligence-engine/pkg/insights"
	"github.com/brandpoint/intelligence-engine/pkg/logger"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-playground/validator"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var key *keyfunc.Keyfunc
	if authURL := util.GetEnv("AUTH_URL"); authURL != "" {
		k, err := keyfunc.NewDefault([]string{authURL + "/jwks"})
		if err != nil {
			logger.Fatal("Failed to load jwks keys", "err", err)
		}
		key = &k
	}

	databaseURL := util.GetEnv("DATABASE_URL")
	if err := db.RunMigrations(databaseURL, util.GetEnvString("MIGRATIONS_PATH", "migrations")); err != nil {
		logger.Fatal("Failed to run migrations", "err", err)
	}

	conn, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer conn.Close()
	conn.Config().AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	rdb, err := results.NewRedisClient(ctx)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "err", err)
	}
	defer rdb.Close()

	graphClient, err := graph.NewGraph(
		ctx,
		util.GetEnv("NEO4J_URI"),
		util.GetEnv("NEO4J_USER"),
		util.GetEnv("NEO4J_PASSWORD"),
		util.GetEnvString("NEO4J_DATABASE", "neo4j"),
	)
	if err != nil {
		logger.Fatal("Failed to connect to Neo4j", "err", err)
	}
	defer graphClient.Close(ctx)

	que := queue.Init()
	defer que.Close()
	ch, err := que.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}

	queues := []string{queue.IngestQueue, queue.AnalyzeQueue}
	_ = queue.SetupQueues(ch, queues)

	s3 := storage.NewS3Client(ctx)

	var aiClient ai.BrandAIClient = gai.NewBrandOpenAIClient(gai.NewBrandOpenAIClientParams{
		EmbeddingModel: util.GetEnvString("AI_EMBED_MODEL", "text-embedding-3-small"),
		ChatModel:      util.GetEnvString("AI_CHAT_MODEL", "gpt-4o-mini"),

		EmbeddingURL: util.GetEnv("AI_EMBED_URL"),
		EmbeddingKey: util.GetEnv("OPENAI_API_KEY"),
		ChatURL:      util.GetEnv("AI_CHAT_URL"),
		ChatKey:      util.GetEnv("OPENAI_API_KEY"),

		MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 15)),
	})

	contents := content.NewStore(conn, aiClient)
	personas := persona.NewStore(rdb)
	generator := persona.NewGenerator(aiClient)
	resultStore := results.NewStore(rdb)
	insightGen := insights.NewGenerator(aiClient)
	engines := pipeline.EnginesFromEnv(ctx)

	pipe := pipeline.NewPipeline(pipeline.NewPipelineParams{
		Personas:  personas,
		Generator: generator,
		Engines:   engines,
		Results:   resultStore,
		Contents:  contents,
		Graph:     graphClient,
		Insights:  insightGen,
		S3Client:  s3,
	})

	app := &mid.App{
		DBConn:       conn,
		Redis:        rdb,
		Queue:        ch,
		Key:          key,
		S3:           s3,
		AiClient:     aiClient,
		Contents:     contents,
		Graph:        graphClient,
		Personas:     personas,
		Generator:    generator,
		Results:      resultStore,
		Insights:     insightGen,
		Pipeline:     pipe,
		MasterAPIKey: util.GetEnv("MASTER_API_KEY"),
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("32M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
