package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"orders-service/controllers"
	"orders-service/database"
	"orders-service/metrics"
	"orders-service/middleware"
	natspub "orders-service/nats"
	"orders-service/repository"
	"orders-service/routes"
	"orders-service/services"
)

func main() {
	cfg := LoadConfig()

	// Structured logger, production encoding outside development.
	var logger *zap.Logger
	var err error
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// --- Store ---
	client, db, dbState, err := database.Connect(context.Background(), cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := database.Disconnect(client); err != nil {
			zap.L().Error("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}()
	zap.L().Info("Connected to MongoDB", zap.String("db", cfg.MongoDB))

	// --- Optional integrations ---
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zap.L().Warn("Failed to parse REDIS_URL, cache disabled", zap.Error(err))
		} else {
			redisClient = redis.NewClient(redisOpts)
			defer redisClient.Close()
		}
	}

	var publisher services.EventPublisher = natspub.NoopPublisher{}
	if cfg.NatsURL != "" {
		natsPublisher, err := natspub.NewPublisher(cfg.NatsURL)
		if err != nil {
			zap.L().Warn("Failed to connect to NATS, event publishing disabled", zap.Error(err))
		} else {
			publisher = natsPublisher
		}
	}
	defer publisher.Close()

	// --- Wiring ---
	m := metrics.New(dbState.Connected)

	orderRepo := repository.NewMongoOrderRepository(db)
	orderService := services.NewOrderService(orderRepo, publisher)

	cacheManager := controllers.NewCacheManager(redisClient)
	orderController := controllers.NewOrderController(orderService, cacheManager, m)
	healthController := controllers.NewHealthController(m, dbState.Connected)

	// --- HTTP server ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CountRequests(m))
	r.Use(middleware.RequestLogger())

	routes.RegisterRoutes(r, orderController, healthController, m.Handler())

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("Orders Microservice starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down Orders Microservice...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Fatal("Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Orders Microservice stopped gracefully")
}
