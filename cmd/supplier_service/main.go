package main

import (
	"os"

	"github.com/ridloal/factory-inventory/internal/platform/config"
	"github.com/ridloal/factory-inventory/internal/platform/database"
	"github.com/ridloal/factory-inventory/internal/platform/logger"
	"github.com/ridloal/factory-inventory/internal/platform/middleware"
	"github.com/ridloal/factory-inventory/internal/platform/server"
	"github.com/ridloal/factory-inventory/internal/supplier/api"
	"github.com/ridloal/factory-inventory/internal/supplier/repository"
	"github.com/ridloal/factory-inventory/internal/supplier/service"
)

func main() {
	if err := config.LoadEnvFile(); err != nil {
		logger.Error("Failed to read .env file", err)
	}
	if err := logger.Initialize(config.AppEnv()); err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	dbCfg := config.LoadSupplierDBConfig()
	serverCfg := config.LoadServerConfig("8083")

	logger.Info("Starting Supplier Service...", "phone_region", config.PhoneRegion())

	db, err := database.Connect(dbCfg.DSN)
	if err != nil {
		logger.Error("Failed to connect to database for Supplier Service", err)
		os.Exit(1)
	}
	defer db.Close()

	supplierRepository := repository.NewPostgresSupplierRepository(db)
	supplierService := service.NewSupplierService(supplierRepository, config.PhoneRegion())
	supplierHandler := api.NewSupplierHandler(supplierService)

	router := middleware.NewRouter(config.LoadCORSConfig())
	apiV1 := router.Group("/api/v1")
	supplierHandler.RegisterRoutes(apiV1)

	if err := server.Run("Supplier Service", serverCfg.Port, router); err != nil {
		logger.Error("Supplier Service stopped with error", err)
	}
}
