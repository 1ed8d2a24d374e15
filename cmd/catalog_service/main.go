package main

import (
	"os"

	"github.com/ridloal/factory-inventory/internal/catalog/api"
	"github.com/ridloal/factory-inventory/internal/catalog/repository"
	"github.com/ridloal/factory-inventory/internal/catalog/service"
	"github.com/ridloal/factory-inventory/internal/platform/config"
	"github.com/ridloal/factory-inventory/internal/platform/database"
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

	dbCfg := config.LoadCatalogDBConfig()
	serverCfg := config.LoadServerConfig("8082")

	logger.Info("Starting Catalog Service...")

	db, err := database.Connect(dbCfg.DSN)
	if err != nil {
		logger.Error("Failed to connect to database for Catalog Service", err)
		os.Exit(1)
	}
	defer db.Close()

	productRepository := repository.NewPostgresProductRepository(db)
	catalogService := service.NewCatalogService(productRepository)
	catalogHandler := api.NewCatalogHandler(catalogService)

	router := middleware.NewRouter(config.LoadCORSConfig())
	apiV1 := router.Group("/api/v1")
	catalogHandler.RegisterRoutes(apiV1)

	if err := server.Run("Catalog Service", serverCfg.Port, router); err != nil {
		logger.Error("Catalog Service stopped with error", err)
	}
}
