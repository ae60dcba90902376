// File: experiencehub/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"experiencehub/config"
	"experiencehub/cron"
	"experiencehub/database"
	"experiencehub/database/repository"
	"experiencehub/handlers"
	"experiencehub/middleware"
	"experiencehub/routes"
	"experiencehub/services/booking"
	"experiencehub/services/experience"
	"experiencehub/services/promo"
	"experiencehub/services/tasks"
	"experiencehub/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// repositories.
	repos := initRepositories(rootCtx, logger)

	// cache.
	redisClient, err := utils.InitCache()
	if err != nil {
		logger.Warn("main: running without catalog cache", zap.Error(err))
	}
	var catalogCache *experience.CatalogCache
	if redisClient != nil {
		catalogCache = experience.NewCatalogCache(redisClient, config.AppConfig.CatalogCacheTTL, logger)
	}

	// services.
	catalog := experience.NewExperienceService(repos.Experiences, repos.Inventory, catalogCache, logger)

	var drift booking.DriftReporter
	var asynqClient *asynq.Client
	if config.AppConfig.RedisEnabled() {
		asynqClient = asynq.NewClient(cron.RedisOpt())
		drift = &tasks.AsynqDriftReporter{Client: asynqClient, Logger: logger}
	}
	engine := booking.NewReservationEngine(catalog, repos.Inventory, repos.Bookings, drift, logger)
	promoService := promo.NewPromoService()

	// background workers.
	shutdownWorker := func() {}
	if config.AppConfig.RedisEnabled() {
		handler := &tasks.ReconcileHandler{Engine: engine, Experiences: repos.Experiences, Logger: logger}
		if stopWorker, err := cron.InitReconcileWorker(handler, logger); err != nil {
			logger.Error("main: reconcile worker unavailable", zap.Error(err))
		} else {
			shutdownWorker = stopWorker
		}
	}

	health := utils.NewHealthMonitor(redisClient, database.MongoClient)
	health.Start(rootCtx, utils.HealthCheckInterval)

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	handlerBundle := &handlers.HandlerBundle{
		Experiences: handlers.NewExperienceHandler(catalog, engine),
		Bookings:    handlers.NewBookingHandler(engine),
		Promo:       handlers.NewPromoHandler(promoService),
		Admin:       handlers.NewAdminHandler(engine),
		Health:      health,
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	srv := &http.Server{
		Addr:    "0.0.0.0:" + config.AppConfig.AppPort,
		Handler: router,
	}

	logger.Info("Starting server",
		zap.String("addr", srv.Addr),
		zap.String("store", config.AppConfig.StoreDriver),
		zap.Bool("cache", catalogCache != nil))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}

	stop()
	shutdownWorker()
	if asynqClient != nil {
		asynqClient.Close()
	}
	if redisClient != nil {
		redisClient.Close()
	}
	if err := database.Close(ctx); err != nil {
		logger.Warn("main: failed to close MongoDB client", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}

func initRepositories(ctx context.Context, logger *zap.Logger) *repository.Repositories {
	if config.AppConfig.StoreDriver == "memory" {
		logger.Warn("main: using in-memory store; data is lost on restart and not shared across instances")
		return repository.NewMemoryRepositories()
	}

	if _, err := database.InitDB(ctx); err != nil {
		logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
	}
	repos := repository.NewMongoRepositories(database.Database())
	if err := repos.EnsureIndexes(ctx); err != nil {
		logger.Fatal("main: failed to ensure indexes", zap.Error(err))
	}
	return repos
}
