package main

import (
	"context"
	"os"

	"github.com/ridloal/factory-inventory/internal/platform/cache"
	"github.com/ridloal/factory-inventory/internal/platform/config"
	"github.com/ridloal/factory-inventory/internal/platform/database"
	"github.com/ridloal/factory-inventory/internal/platform/lock"
	"github.com/ridloal/factory-inventory/internal/platform/logger"
	"github.com/ridloal/factory-inventory/internal/platform/middleware"
	"github.com/ridloal/factory-inventory/internal/platform/server"
	"github.com/ridloal/factory-inventory/internal/quotation/api"
	"github.com/ridloal/factory-inventory/internal/quotation/repository"
	"github.com/ridloal/factory-inventory/internal/quotation/service"
)

func main() {
	if err := config.LoadEnvFile(); err != nil {
		logger.Error("Failed to read .env file", err)
	}
	if err := logger.Initialize(config.AppEnv()); err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	dbCfg := config.LoadQuotationDBConfig()
	serverCfg := config.LoadServerConfig("8085")
	redisCfg := config.LoadRedisConfig()
	quotationCfg := config.LoadQuotationConfig()
	urls := config.LoadServiceURLs()

	logger.Info("Starting Quotation Service...")

	db, err := database.Connect(dbCfg.DSN)
	if err != nil {
		logger.Error("Failed to connect to database for Quotation Service", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := cache.NewRedisClient(context.Background(), redisCfg.URL)
	if err != nil {
		logger.Error("Failed to connect to Redis for Quotation Service", err)
		os.Exit(1)
	}
	defer rdb.Close()

	var locker lock.Locker
	switch redisCfg.LockBackend {
	case "memory":
		logger.Warn("Using in-process locks; run a single replica only")
		locker = lock.NewMemoryLocker()
	default:
		locker = lock.NewRedisLocker(rdb)
	}

	quotationRepository := repository.NewPostgresQuotationRepository(db)
	draftStore := repository.NewRedisDraftStore(rdb, quotationCfg.DraftTTL)
	catalogClient := service.NewHTTPCatalogClient(urls.Catalog)
	orderClient := service.NewHTTPOrderClient(urls.Order)
	quotationService := service.NewQuotationService(quotationRepository, draftStore, catalogClient, orderClient, locker, quotationCfg)
	quotationHandler := api.NewQuotationHandler(quotationService, quotationCfg.MaxUploadBytes)

	router := middleware.NewRouter(config.LoadCORSConfig())
	apiV1 := router.Group("/api/v1")
	quotationHandler.RegisterRoutes(apiV1)

	logger.Info("Quotation Service dependencies", "catalog", urls.Catalog, "order", urls.Order)
	if err := server.Run("Quotation Service", serverCfg.Port, router); err != nil {
		logger.Error("Quotation Service stopped with error", err)
	}
}
