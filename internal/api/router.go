package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Airohh/Appli-Food-Course/internal/api/handlers/health"
	"github.com/Airohh/Appli-Food-Course/internal/api/handlers/planner"
	"github.com/Airohh/Appli-Food-Course/internal/api/middleware"
	"github.com/Airohh/Appli-Food-Course/internal/core/llm"
	"github.com/Airohh/Appli-Food-Course/internal/core/pipeline"
	"github.com/Airohh/Appli-Food-Course/internal/core/spoonacular"
	"github.com/Airohh/Appli-Food-Course/internal/infrastructure/cache"
	"github.com/Airohh/Appli-Food-Course/internal/infrastructure/config"
	"github.com/Airohh/Appli-Food-Course/internal/pkg/common"
	"github.com/Airohh/Appli-Food-Course/internal/pkg/notify"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// Per-request timeout. Pipeline runs are detached and carry their own.
	timeoutDuration = 30 * time.Second
	// Request body size limit (1MB). The API only takes small JSON bodies.
	maxBodySize = 1 << 20
)

// SetupRouter assembles the pipeline collaborators and registers the routes.
func SetupRouter(cfg *config.Config) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))
	router.Use(middleware.Deduplication(cfg))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("llm_enabled", cfg.LLM.APIKey != ""),
		zap.Bool("workspace_enabled", cfg.Notion.Token != ""),
		zap.Bool("notify_enabled", cfg.Ntfy.Topic != ""),
	)

	recipes := spoonacular.NewClient(cfg.Spoonacular)

	var assistant pipeline.Assistant
	if cfg.LLM.APIKey != "" {
		cacheService, err := cache.NewService(&cfg.Cache)
		if err != nil {
			common.LogWarn("Completion cache unavailable, continuing without it", zap.Error(err))
			cacheService = nil
		}
		assistant = llm.NewClient(cfg.LLM, cacheService)
	}

	workspace := pipeline.NewWorkspace(cfg.Notion)
	notifier := notify.NewNotifier(cfg.Ntfy)

	plannerPipeline := pipeline.New(cfg, recipes, assistant, workspace, notifier)
	plannerHandler := planner.NewHandler(cfg, plannerPipeline)

	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Set("config", cfg)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeRequestTimeout,
			})
			c.Abort()
			return
		}
	})

	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	api := router.Group("/api/v1")
	{
		pipelineGroup := api.Group("/pipeline")
		{
			pipelineGroup.POST("/run", plannerHandler.HandleRun)
		}

		api.GET("/groceries", plannerHandler.HandleGroceries)
		api.GET("/menu", plannerHandler.HandleMenu)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("assistant_initialized", assistant != nil),
		zap.Bool("workspace_initialized", workspace != nil),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
