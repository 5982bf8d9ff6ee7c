package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/analytics"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/cache"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/chat"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/config"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/database"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/export"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/llm"
	_ "github.com/therealutkarshpriyadarshi/parrotkit/internal/llm/anthropic"
	_ "github.com/therealutkarshpriyadarshi/parrotkit/internal/llm/openai"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/logging"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/metadata"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/metrics"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/middleware"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/queue"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/recipe"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/scheduler"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/scripts"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/storage"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/tracing"
)

func main() {
	// .env is optional
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

	gin.SetMode(cfg.Server.Mode)
	middleware.SetJWTSecret(cfg.Auth.JWTSecret)

	_, tracerCloser, err := tracing.InitTracer(cfg.Tracing.Enabled, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
	if err != nil {
		logger.WithError(err).Warn("Tracing disabled")
	} else {
		defer tracerCloser.Close()
	}

	ctx := context.Background()
	api := &API{
		health:   make(map[string]HealthCheck),
		tokenTTL: cfg.Auth.TokenTTL,
		logger:   logger,
	}

	// Optional infrastructure; disabled pieces leave their features off
	var redisCache *cache.Cache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewCache(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisCache.Close()
		api.health["redis"] = redisCache.Ping
		api.stats = analytics.NewService(redisCache, logger)
	}

	if cfg.Database.Enabled {
		db, err := database.New(cfg.Database)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			logger.Fatalf("Failed to prepare schema: %v", err)
		}
		api.health["database"] = db.Health
		api.users = database.NewUserRepository(db)
	}

	var publisher recipe.EventPublisher = queue.NoopPublisher{}
	if cfg.Queue.Enabled {
		q, err := queue.New(cfg.Queue)
		if err != nil {
			logger.Fatalf("Failed to connect to queue: %v", err)
		}
		defer q.Close()
		publisher = q
	}

	if cfg.Storage.Enabled {
		stor, err := storage.New(ctx, cfg.Storage, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize storage: %v", err)
		}
		api.health["storage"] = stor.Health
		api.exporter = export.NewService(stor, publisher, logger)
	}

	provider, err := newProvider(cfg.LLM)
	if err != nil {
		logger.WithError(err).Warn("LLM provider unavailable, using template scripts only")
	}

	resolver, err := newResolver(ctx, cfg, redisCache, logger)
	if err != nil {
		logger.Fatalf("Failed to create metadata resolver: %v", err)
	}

	synth := scripts.NewSynthesizer(scripts.DefaultBank(), provider, scripts.Options{
		Timeout:     cfg.LLM.Timeout,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Model:       cfg.LLM.Model,
	}, logger)

	api.analyzer = recipe.NewAnalyzer(resolver, synth, publisher, cfg.Analyzer.SceneDuration, logger)
	if provider != nil {
		api.assistant = chat.NewAssistant(provider, chat.Options{Timeout: cfg.LLM.Timeout, Model: cfg.LLM.Model}, logger)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	cron := scheduler.NewScheduler(logger)
	err = cron.Add("ratelimit-sweep", cfg.RateLimit.SweepSchedule, time.Minute, func(ctx context.Context) error {
		removed := limiter.Sweep(cfg.RateLimit.IdleTTL)
		metrics.UpdateRateLimiters(limiter.Len())
		logger.Debugf("Swept %d idle rate limiters", removed)
		return nil
	})
	if err != nil {
		logger.Fatalf("Failed to schedule limiter sweep: %v", err)
	}
	cron.Start()
	defer cron.Stop()

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Port, logger)
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.WithError(err).Error("Metrics server stopped")
			}
		}()
	}

	router := setupRouter(api, limiter)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("Starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	if metricsServer != nil {
		metricsServer.Shutdown(shutdownCtx)
	}

	logger.Info("Server stopped")
}

// newProvider returns nil when no provider is configured
func newProvider(cfg config.LLMConfig) (llm.Provider, error) {
	if cfg.Provider == "" {
		return nil, nil
	}

	p, err := llm.New(cfg.Provider, llm.Config{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}

	return llm.WithRateLimit(llm.WithMetrics(p), cfg.RequestsPerSecond, cfg.Burst), nil
}

func newResolver(ctx context.Context, cfg *config.Config, redisCache *cache.Cache, logger *logging.Logger) (*metadata.Resolver, error) {
	images, err := metadata.NewMetaImageResolver(cfg.Metadata.Resolver)
	if err != nil {
		return nil, err
	}
	fetcher := metadata.NewPageFetcher(cfg.Metadata.FetchTimeout, cfg.Metadata.UserAgent, cfg.Metadata.MaxBodyBytes)

	var durations metadata.DurationSource
	if !cfg.Analyzer.UseFixedDuration && cfg.YouTube.APIKey != "" {
		yt, err := metadata.NewYouTubeDurations(ctx, cfg.YouTube.APIKey)
		if err != nil {
			return nil, err
		}
		durations = yt
		if redisCache != nil {
			durations = metadata.CachedDurations(yt, redisCache, cfg.Metadata.CacheTTL)
		}
	}

	// A nil *cache.Cache must not reach the interface
	var covers metadata.CoverCache
	if redisCache != nil {
		covers = redisCache
	}

	return metadata.NewResolver(fetcher, images, durations, covers, metadata.Options{
		FetchTimeout:      cfg.Metadata.FetchTimeout,
		LookupTimeout:     cfg.Metadata.LookupTimeout,
		CacheTTL:          cfg.Metadata.CacheTTL,
		UseFixedDuration:  cfg.Analyzer.UseFixedDuration,
		FixedDuration:     cfg.Analyzer.FixedDuration,
		ThumbnailVariants: cfg.Analyzer.ThumbnailVariants,
	}, logger), nil
}
