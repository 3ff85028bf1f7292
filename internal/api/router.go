package api

import (
	"fmt"
	"time"

	groceryHandler "grocery-aggregator/internal/api/handlers/grocery"
	"grocery-aggregator/internal/api/handlers/health"
	unitsHandler "grocery-aggregator/internal/api/handlers/units"
	"grocery-aggregator/internal/api/middleware"
	"grocery-aggregator/internal/core/grocery"
	"grocery-aggregator/internal/infrastructure/config"
	"grocery-aggregator/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由需要的服務
type Dependencies struct {
	Catalog unitsHandler.Catalog
	Engine  groceryHandler.Aggregator
	Fetcher groceryHandler.Fetcher // 可為 nil
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	if deps.Catalog == nil || deps.Engine == nil {
		return nil, fmt.Errorf("catalog and engine are required")
	}

	common.LogInfo("starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", common.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", common.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg.App.Version, deps.Catalog)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	{
		groceries := groceryHandler.NewHandler(deps.Engine, deps.Fetcher, grocery.OptionsFromConfig(cfg.Aggregation))
		groceryGroup := api.Group("/grocery")
		{
			groceryGroup.POST("/aggregate", groceries.HandleAggregate)
			groceryGroup.POST("/plans/:planID/aggregate", groceries.HandlePlanAggregate)
		}

		catalog := unitsHandler.NewHandler(deps.Catalog)
		dedup := middleware.NewDeduplicator(cfg.Catalog.RefreshCooldown)
		unitGroup := api.Group("/units")
		{
			unitGroup.GET("", catalog.HandleList)
			unitGroup.GET("/:code", catalog.HandleLookup)
			unitGroup.POST("/refresh", dedup.Handler(), catalog.HandleRefresh)
		}
	}

	common.LogInfo("router setup completed",
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Bool("collaborators_configured", deps.Fetcher != nil),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.MaxBodyBytes),
	)

	return router, nil
}
