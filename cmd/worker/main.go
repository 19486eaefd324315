package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brandpoint/intelligence-engine/internal/persona"
	"github.com/brandpoint/intelligence-engine/internal/pipeline"
	"github.com/brandpoint/intelligence-engine/internal/queue"
	"github.com/brandpoint/intelligence-engine/internal/results"
	"github.com/brandpoint/intelligence-engine/internal/storage"
	"github.com/brandpoint/intelligence-engine/internal/util"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/brandpoint/intelligence-engine/pkg/ai"
	gai "github.com/brandpoint/intelligence-engine/pkg/ai/openai"
	"github.com/brandpoint/intelligence-engine/pkg/content"
	"github.com/brandpoint/intelligence-engine/pkg/graph"
	"github.com/brandpoint/intelligence-engine/pkg/insights"
	"github.com/brandpoint/intelligence-engine/pkg/logger"
	"github.com/brandpoint/intelligence-engine/pkg/logger/console"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	gonanoid "github.com/matoous/go-nanoid/v2"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	// Init s3 client
	s3Client := storage.NewS3Client(ctx)

	// BrandAIClient
	var aiClient ai.BrandAIClient = gai.NewBrandOpenAIClient(gai.NewBrandOpenAIClientParams{
		EmbeddingModel: util.GetEnvString("AI_EMBED_MODEL", "text-embedding-3-small"),
		ChatModel:      util.GetEnvString("AI_CHAT_MODEL", "gpt-4o-mini"),

		EmbeddingURL: util.GetEnv("AI_EMBED_URL"),
		EmbeddingKey: util.GetEnv("OPENAI_API_KEY"),
		ChatURL:      util.GetEnv("AI_CHAT_URL"),
		ChatKey:      util.GetEnv("OPENAI_API_KEY"),

		MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 15)),
	})

	// Init pgx client
	pgConn, err := pgxpool.New(ctx, util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Unable to connect to database", "err", err)
	}
	defer pgConn.Close()
	pgConn.Config().AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	// Init redis
	rdb, err := results.NewRedisClient(ctx)
	if err != nil {
		logger.Fatal("Unable to connect to Redis", "err", err)
	}
	defer rdb.Close()

	// Init neo4j
	graphClient, err := graph.NewGraph(
		ctx,
		util.GetEnv("NEO4J_URI"),
		util.GetEnv("NEO4J_USER"),
		util.GetEnv("NEO4J_PASSWORD"),
		util.GetEnvString("NEO4J_DATABASE", "neo4j"),
	)
	if err != nil {
		logger.Fatal("Unable to connect to Neo4j", "err", err)
	}
	defer graphClient.Close(ctx)

	pipe := pipeline.NewPipeline(pipeline.NewPipelineParams{
		Personas:  persona.NewStore(rdb),
		Generator: persona.NewGenerator(aiClient),
		Engines:   pipeline.EnginesFromEnv(ctx),
		Results:   results.NewStore(rdb),
		Contents:  content.NewStore(pgConn, aiClient),
		Graph:     graphClient,
		Insights:  insights.NewGenerator(aiClient),
		S3Client:  s3Client,
	})

	// Init rabbitmq
	conn := queue.Init()
	defer conn.Close()

	// Init rabbitmq queues if not exist
	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	queues := []string{queue.IngestQueue, queue.AnalyzeQueue}
	_ = queue.SetupQueues(ch, queues)

	logger.Info("Listening for messages")

	// Create a single consumer channel with prefetch=1
	// This ensures only ONE message is delivered at a time across all queues
	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	err = consumerCh.Qos(1, 0, true)
	if err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	type queuedMessage struct {
		msg       amqp.Delivery
		queueName string
	}

	messageChan := make(chan queuedMessage)

	for _, queueName := range queues {
		go func(qName string) {
			consumerTag := fmt.Sprintf("%s_consumer", qName)
			msgs, err := consumerCh.Consume(
				qName,
				consumerTag,
				false, // autoAck
				false, // exclusive
				false, // noLocal
				false, // noWait
				nil,   // args
			)
			if err != nil {
				logger.Fatal("Failed to start consuming", "queue", qName, "err", err)
			}

			for {
				select {
				case <-ctx.Done():
					logger.Info("Stopping consumer", "queue", qName)
					return
				case msg, ok := <-msgs:
					if !ok {
						logger.Info("Message channel closed", "queue", qName)
						return
					}
					messageChan <- queuedMessage{msg: msg, queueName: qName}
				}
			}
		}(queueName)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("Stopping message processor")
				return
			case qm := <-messageChan:
				startTime := time.Now()
				msgID, _ := gonanoid.New()
				logger.Info("Received message", "queue", qm.queueName, "msg_id", msgID)

				var processingErr error
				switch qm.queueName {
				case queue.IngestQueue:
					processingErr = queue.ProcessIngestMessage(ctx, pipe, string(qm.msg.Body))
				case queue.AnalyzeQueue:
					processingErr = queue.ProcessAnalyzeMessage(ctx, pipe, string(qm.msg.Body))
				}

				// If there was an error send to retry or dead-letter, otherwise ack the message
				if processingErr != nil {
					logger.Error("Error processing message", "queue", qm.queueName, "err", processingErr)
					handleProcessingError(consumerCh, qm.msg, qm.queueName)
				} else {
					err = qm.msg.Ack(false)
					if err != nil {
						logger.Error("Failed to ack message", "err", err)
					}
					logger.Info("Message processed successfully", "queue", qm.queueName)
				}

				metrics := aiClient.GetMetrics()
				logger.Info(
					"AI Metrics",
					"input_tokens", metrics.InputTokens,
					"output_tokens", metrics.OutputTokens,
					"total_tokens", metrics.TotalTokens,
				)

				processingDuration := time.Since(startTime)
				logger.Info("Processing time", "duration", processingDuration.Round(time.Millisecond).String())
				logger.Info("Waiting for next message")
				aiClient.ResetMetrics()
			}
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, exiting...")
}

func handleProcessingError(ch *amqp.Channel, msg amqp.Delivery, queueName string) {
	retries := 0
	if val, ok := msg.Headers["x-retries"]; ok {
		if v, ok := val.(int32); ok {
			retries = int(v)
		}
	}

	// If message has been retried 10 times, send to dead-letter
	if retries >= 10 {
		dlqName := queueName + "_dlq"
		logger.Info("Sending message to DLQ", "dlq", dlqName)
		pubErr := ch.Publish(
			"",
			dlqName,
			false,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        msg.Body,
				Headers:     msg.Headers,
			},
		)
		if pubErr != nil {
			logger.Error("Failed to publish to DLQ", "dlq", dlqName, "err", pubErr)
			msg.Nack(false, true)
			return
		}
		msg.Ack(false)
		return
	}

	retryName := queueName + "_retry"
	headers := msg.Headers
	if headers == nil {
		headers = amqp.Table{}
	}
	headers["x-retries"] = retries + 1

	pubErr := ch.Publish(
		"",
		retryName,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        msg.Body,
			Headers:     headers,
		},
	)
	if pubErr != nil {
		logger.Error("Failed to publish to retry queue", "retry_queue", retryName, "err", pubErr)
		msg.Nack(false, true)
		return
	}
	msg.Ack(false)
}
