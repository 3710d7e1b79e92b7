package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/llmgate/promptimprover/keystore"
	"github.com/llmgate/promptimprover/localratelimiter"
	"github.com/llmgate/promptimprover/metrics"
)

type RouterDeps struct {
	Improver       PromptImprover
	Store          keystore.Store
	Recorder       *metrics.Recorder
	RateLimiter    *localratelimiter.RateLimiter
	Logger         *zap.Logger
	Provider       string
	Model          string
	AllowedOrigins []string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIdMiddleware())

	var observer HTTPObserver
	if deps.Recorder != nil {
		observer = deps.Recorder
	}
	router.Use(AccessLogMiddleware(logger.Named("http"), observer))

	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  deps.AllowedOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders:  []string{"Content-Type", requestIdHeaderKey},
			ExposeHeaders: []string{requestIdHeaderKey},
			MaxAge:        12 * time.Hour,
		}))
	}

	// Health Handler
	healthHandler := NewHealthHandler()
	router.GET("/health", healthHandler.IsHealthy)
	// Metrics handler
	if deps.Recorder != nil {
		router.GET("/metrics", gin.WrapH(deps.Recorder.Handler()))
	}
	// Page Handler
	pageHandler := NewPageHandler(deps.Store, deps.Provider, deps.Model)
	router.GET("/", pageHandler.Index)

	api := router.Group("/")
	if deps.RateLimiter != nil {
		api.Use(deps.RateLimiter.RateLimiterMiddleware())
	}
	// Improve Handler
	improveHandler := NewImproveHandler(deps.Improver)
	api.POST("/improve", improveHandler.ImprovePrompt)
	// Credential Handler
	credentialHandler := NewCredentialHandler(deps.Store, logger.Named("credential"))
	api.GET("/credential", credentialHandler.GetStatus)
	api.PUT("/credential", credentialHandler.SetCredential)
	api.DELETE("/credential", credentialHandler.ClearCredential)

	return router
}
