package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/analytics"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/cache"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/config"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/logging"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/metrics"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/queue"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/scheduler"
	"github.com/therealutkarshpriyadarshi/parrotkit/pkg/models"
)

const prefetch = 10

func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger = logger.WithComponent("worker")

	// Initialize redis counters
	redisCache, err := cache.NewCache(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisCache.Close()

	// Initialize queue
	q, err := queue.New(cfg.Queue)
	if err != nil {
		logger.Fatalf("Failed to connect to queue: %v", err)
	}
	defer q.Close()

	stats := analytics.NewService(redisCache, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutting down worker gracefully...")
		cancel()
	}()

	cron := scheduler.NewScheduler(logger)
	err = cron.Add("queue-depth", "@every 30s", 10*time.Second, func(ctx context.Context) error {
		depth, err := q.GetQueueDepth()
		if err != nil {
			return err
		}
		dead, err := q.GetDLQDepth()
		if err != nil {
			return err
		}
		metrics.UpdateQueueDepth(queue.EventsQueueName, depth)
		metrics.UpdateQueueDepth(queue.DeadLetterQueueName, dead)
		return nil
	})
	if err != nil {
		logger.Fatalf("Failed to schedule queue depth job: %v", err)
	}
	cron.Start()
	defer cron.Stop()

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics.Port, logger)
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.WithError(err).Error("Metrics server stopped")
			}
		}()
		defer metricsServer.Shutdown(context.Background())
	}

	handler := func(ctx context.Context, event *models.Event) error {
		err := stats.Record(ctx, event)
		metrics.RecordEventConsumed(event.Type, metrics.StatusLabel(err))
		logger.LogEvent(event.ID, event.Type, "consumed", err)
		return err
	}

	logger.Info("Worker started, waiting for events...")
	if err := q.ConsumeEvents(ctx, prefetch, handler); err != nil {
		logger.Fatalf("Failed to consume events: %v", err)
	}

	<-ctx.Done()
	logger.Info("Worker stopped")
}
