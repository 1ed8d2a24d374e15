package main

import (
	"context"
	"os"

	"github.com/ridloal/factory-inventory/internal/dashboard/api"
	"github.com/ridloal/factory-inventory/internal/dashboard/repository"
	"github.com/ridloal/factory-inventory/internal/dashboard/service"
	"github.com/ridloal/factory-inventory/internal/platform/cache"
	"github.com/ridloal/factory-inventory/internal/platform/config"
	"github.com/ridloal/factory-inventory/internal/platform/logger"
	"github.com/ridloal/factory-inventory/internal/platform/middleware"
	"github.com/ridloal/factory-inventory/internal/platform/server"
)

func main() {
	if err := config.LoadEnvFile(); err != nil {
		logger.Error("Failed to read .env file", err)
	}
	if err := logger.Initialize(config.AppEnv()); err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	serverCfg := config.LoadServerConfig("8086")
	redisCfg := config.LoadRedisConfig()
	dashboardCfg := config.LoadDashboardConfig()
	urls := config.LoadServiceURLs()

	logger.Info("Starting Dashboard Service...", "refresh", dashboardCfg.RefreshSpec)

	rdb, err := cache.NewRedisClient(context.Background(), redisCfg.URL)
	if err != nil {
		logger.Error("Failed to connect to Redis for Dashboard Service", err)
		os.Exit(1)
	}
	defer rdb.Close()

	dashboardService := service.NewDashboardService(
		service.NewHTTPCatalogSource(urls.Catalog),
		service.NewHTTPSupplierSource(urls.Supplier),
		service.NewHTTPOrderSource(urls.Order),
		repository.NewRedisSnapshotCache(rdb, dashboardCfg.CacheTTL),
	)

	refresher, err := service.NewRefresher(dashboardService, dashboardCfg.RefreshSpec)
	if err != nil {
		logger.Error("Invalid DASHBOARD_REFRESH_SPEC", err, "spec", dashboardCfg.RefreshSpec)
		os.Exit(1)
	}
	refresher.Start()
	defer refresher.Stop()

	router := middleware.NewRouter(config.LoadCORSConfig())
	apiV1 := router.Group("/api/v1")
	api.NewDashboardHandler(dashboardService).RegisterRoutes(apiV1)

	if err := server.Run("Dashboard Service", serverCfg.Port, router); err != nil {
		logger.Error("Dashboard Service stopped with error", err)
	}
}
