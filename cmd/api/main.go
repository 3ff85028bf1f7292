package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grocery-aggregator/internal/api"
	"grocery-aggregator/internal/core/collaborator"
	"grocery-aggregator/internal/core/grocery"
	"grocery-aggregator/internal/core/units"
	"grocery-aggregator/internal/infrastructure/config"
	"grocery-aggregator/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.Log.Level, cfg.Log.File, cfg.Log.Mode); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 初始化單位目錄
	source, closeSource, err := units.SourceFromConfig(ctx, cfg.Catalog)
	if err != nil {
		common.LogFatal("failed to initialize unit source", zap.Error(err))
	}
	defer closeSource()

	catalog := units.NewCatalog(source)
	if err := catalog.Refresh(ctx); err != nil {
		// 目錄為空時 /ready 會回報未就緒，之後仍可透過自動或手動重新載入恢復
		common.LogError("initial unit catalog load failed",
			zap.String("source", source.Name()),
			zap.Error(err),
		)
	}
	catalog.StartAutoRefresh(ctx, cfg.Catalog.RefreshInterval)

	// 初始化彙總引擎
	engine := grocery.NewEngine(catalog,
		grocery.WithSettings(grocery.SettingsFromConfig(cfg.Aggregation)),
		grocery.WithCategorizer(grocery.NewKeywordCategorizer(cfg.Aggregation.CategoryOverrides)),
	)

	deps := api.Dependencies{Catalog: catalog, Engine: engine}

	// 初始化協作服務
	pantry, closePantry, err := collaborator.NewPantrySource(ctx, cfg.Collaborators)
	if err != nil {
		common.LogFatal("failed to initialize pantry source", zap.Error(err))
	}
	defer closePantry()

	if cfg.Collaborators.RequirementsURL != "" {
		deps.Fetcher = collaborator.NewFetcher(collaborator.NewRequirementClient(cfg.Collaborators), pantry)
	}

	common.LogInfo("services initialized",
		zap.String("catalog_source", source.Name()),
		zap.Int("units", catalog.Len()),
		zap.Bool("requirements_collaborator", cfg.Collaborators.RequirementsURL != ""),
		zap.Bool("pantry_collaborator", pantry != nil),
	)

	// 設置路由
	router, err := api.SetupRouter(cfg, deps)
	if err != nil {
		common.LogFatal("failed to setup router", zap.Error(err))
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("starting service",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogFatal("failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("shutting down server")
	stop()

	// 設置關閉超時
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("server exited")
}
