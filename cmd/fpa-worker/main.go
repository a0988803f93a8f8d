package main

import (
	"context"
	"os"
	"time"

	"fpa/internal/amqp"
	"fpa/internal/backend"
	"fpa/internal/cli"
	"fpa/internal/services"
	"fpa/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting fpa-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger)
	result, err := factory.CreateSource(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create data source", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQuestionQueue, cfg.AMQPAnswerQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	copilot := services.NewCopilot(result.Source, cfg.SnapshotTTL, cfg.SnapshotCacheSize)
	questionWorker := worker.NewQuestionWorker(copilot, amqpClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumeDone := make(chan struct{})
	go func() {
		defer close(consumeDone)
		if err := amqpClient.ConsumeQuestions(ctx, questionWorker.HandleQuestion); err != nil {
			if err != context.Canceled {
				logger.Error("Question consumption failed", "error", err)
			}
			cancel()
		}
	}()

	cleanup := func() {
		cancel()
		select {
		case <-consumeDone:
		case <-time.After(5 * time.Second):
			logger.Warn("Consumer did not stop in time")
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Source cleanup error", "error", err)
			}
		}
	}
	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, cleanup)

	logger.Info("Worker consuming questions",
		"exchange", cfg.AMQPExchange,
		"question_queue", cfg.AMQPQuestionQueue,
		"answer_queue", cfg.AMQPAnswerQueue,
		"backend", cfg.DataBackend)

	select {
	case <-shutdownCtx.Done():
		cli.WaitForShutdown(shutdownCtx, done)
	case <-ctx.Done():
		logger.Info("Consumer stopped")
	}
	logger.Info("Worker stopped")
}
