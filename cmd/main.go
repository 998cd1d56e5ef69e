package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	configs "github.com/Tondeptrai23/E-Commerce-API-sub004/config"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/constants"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/handler"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/middleware"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/repository"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/router"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/service"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/cache"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/circuit"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/database"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/logger"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/querybuilder"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/redis"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize Zap logger
	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
	)

	// Query rules are checked before anything touches the database
	rules, err := config.LoadResourceRules()
	if err != nil {
		logger.GetLogger().Fatal("Failed to load query rules", zap.Error(err))
	}
	registry, err := querybuilder.NewRegistry(rules...)
	if err != nil {
		logger.GetLogger().Fatal("Invalid query rules", zap.Error(err))
	}
	logger.GetLogger().Info("Query rules loaded",
		zap.Strings("resources", registry.Names()),
	)

	db, err := database.NewPostgresDB(database.ConfigFromApp(config))
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if config.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
		}
		logger.GetLogger().Info("Database migrated successfully")
	}

	if config.Database.Seed {
		if err := database.Seed(db); err != nil {
			// Don't fail - seed data may already exist
			logger.GetLogger().Error("Failed to seed database", zap.Error(err))
		} else {
			logger.GetLogger().Info("Database seeded successfully")
		}
	}

	// Cache store: redis when enabled, otherwise in memory
	var (
		store        cache.Store
		redisChecker handler.RedisChecker
		breaker      *circuit.Breaker
	)
	if config.Redis.Enabled {
		redisClient, err := redis.NewClient(config)
		if err != nil {
			logger.GetLogger().Fatal("Failed to initialize Redis", zap.Error(err))
		}
		defer redisClient.Close()
		breaker = circuit.NewBreaker("redis-cache", circuit.DefaultConfig(), logger.GetLogger())
		store, redisChecker = circuit.NewStore(redisClient, breaker), redisClient
	} else {
		memory := cache.NewCache()
		defer memory.Close()
		store = memory
	}
	cacheService := service.NewCacheService(store, config.Query.CacheTTL)

	// Repositories
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Services
	catalogService := service.NewCatalogService(productRepo, categoryRepo, orderRepo, cacheService)

	r := router.NewRouter(
		handler.NewCatalogHandler(catalogService),
		handler.NewQueryRulesHandler(registry),
		handler.NewCacheHandler(cacheService, registry),
		handler.NewHealthHandler(db, redisChecker, breaker, constants.AppVersion),

		middleware.NewQueryValidationMiddleware(registry),
		config,
	).SetupRoutes()

	srv := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.GetLogger().Error("Server forced to shutdown", zap.Error(err))
	}
}
