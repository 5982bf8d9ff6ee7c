package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/apperr"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/export"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/logging"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/metrics"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/middleware"
	"github.com/therealutkarshpriyadarshi/parrotkit/pkg/models"
)

// Analyzer builds a recipe for one request
type Analyzer interface {
	Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.Recipe, error)
}

// Assistant answers script assistant chats
type Assistant interface {
	Reply(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
}

// UserStore persists accounts
type UserStore interface {
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	UpdateInterests(ctx context.Context, id int64, interests []string) error
}

// Exporter stores recorded takes
type Exporter interface {
	Export(ctx context.Context, email string, takes []export.Take) (*models.ExportResponse, error)
}

// StatsReader serves aggregated usage
type StatsReader interface {
	Summary(ctx context.Context) (*models.UsageStats, error)
}

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// API holds the handler dependencies. Only analyzer is required; a nil
// collaborator turns its routes into 503s.
type API struct {
	analyzer  Analyzer
	assistant Assistant
	users     UserStore
	exporter  Exporter
	stats     StatsReader
	health    map[string]HealthCheck
	tokenTTL  time.Duration
	logger    *logging.Logger
}

func setupRouter(api *API, limiter *middleware.RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(api.logger))

	// Health check
	router.GET("/health", api.healthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.OptionalAuth())
	if limiter != nil {
		v1.Use(middleware.RateLimit(limiter))
	}
	{
		v1.POST("/analyze", api.analyze)
		v1.POST("/chat", api.chat)

		auth := v1.Group("/auth")
		auth.POST("/signup", api.signup)
		auth.POST("/signin", api.signin)

		v1.PUT("/users/me/interests", middleware.JWTAuth(), api.updateInterests)

		v1.POST("/export", api.exportTakes)
		v1.GET("/stats", api.getStats)
	}

	return router
}

// respondError writes err with the status its kind maps to
func (api *API) respondError(c *gin.Context, err error) {
	if apperr.IsClientError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperr.Message(err)})
		return
	}

	metrics.RecordError(c.FullPath(), string(apperr.KindOf(err)))
	api.logger.WithRequestID(middleware.GetRequestID(c)).
		WithError(err).Errorf("Request %s failed", c.FullPath())
	c.JSON(http.StatusInternalServerError, gin.H{"error": apperr.Message(err)})
}

func unavailable(c *gin.Context, feature string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": feature + " is not configured"})
}

// Health check endpoint
func (api *API) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(gin.H, len(api.health))
	for name, check := range api.health {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	body := gin.H{"status": "healthy", "checks": checks}
	if status != http.StatusOK {
		body["status"] = "unhealthy"
	}
	c.JSON(status, body)
}

var errBadJSON = errors.New("invalid JSON body")
