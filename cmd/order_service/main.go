package main

import (
	"os"

	"github.com/ridloal/factory-inventory/internal/order/api"
	"github.com/ridloal/factory-inventory/internal/order/repository"
	"github.com/ridloal/factory-inventory/internal/order/service"
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

	dbCfg := config.LoadOrderDBConfig()
	serverCfg := config.LoadServerConfig("8084")

	logger.Info("Starting Order Service...")

	db, err := database.Connect(dbCfg.DSN)
	if err != nil {
		logger.Error("Failed to connect to database for Order Service", err)
		os.Exit(1)
	}
	defer db.Close()

	orderRepository := repository.NewPostgresOrderRepository(db)
	orderService := service.NewOrderService(orderRepository)
	orderHandler := api.NewOrderHandler(orderService)

	router := middleware.NewRouter(config.LoadCORSConfig())
	apiV1 := router.Group("/api/v1")
	orderHandler.RegisterRoutes(apiV1)

	if err := server.Run("Order Service", serverCfg.Port, router); err != nil {
		logger.Error("Order Service stopped with error", err)
	}
}
