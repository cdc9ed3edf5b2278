package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"basket-service/cache"
	"basket-service/config"
	"basket-service/controllers"
	"basket-service/database"
	"basket-service/kafka"
	"basket-service/logger"
	"basket-service/routes"
	"basket-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	env := os.Getenv("APP_ENV")

	zlog, err := logger.New(env)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	cfg := config.Load()

	// --- Database ---
	db, err := database.Connect(cfg.PostgresDSN)
	if err != nil {
		zlog.Fatal("DB connection failed", zap.Error(err))
	}
	defer database.Close(db) //nolint:errcheck

	feed := database.NewChangefeed()
	productRepo := database.NewGormProductRepository(db, feed)
	cartRepo := database.NewGormCartRepository(db, feed)

	// --- Redis catalog cache (optional) ---
	var catalogCache *cache.CatalogCache
	if redisClient, rerr := database.NewRedisClient(cfg.RedisURL); rerr != nil {
		zlog.Warn("Redis unavailable, catalog cache disabled", zap.Error(rerr))
	} else {
		catalogCache = cache.NewCatalogCache(redisClient, cfg.CatalogTTL, zlog)
		defer redisClient.Close() //nolint:errcheck
	}

	// --- Kafka checkout events ---
	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close() //nolint:errcheck

	// --- Services ---
	catalogService := services.NewCatalogService(productRepo, catalogCache, zlog)
	basketService := services.NewBasketService(cartRepo, feed, zlog)
	checkoutService := services.NewCheckoutService(producer, cfg.CheckoutDelay, zlog)
	defer basketService.Close()

	if err := catalogService.EnsureSeeded(context.Background()); err != nil {
		zlog.Fatal("Catalog seeding failed", zap.Error(err))
	}

	// --- HTTP router ---
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(zlog))

	basketController := controllers.NewBasketController(basketService, checkoutService, zlog)
	productController := controllers.NewProductController(catalogService, zlog)
	routes.Register(r, basketController, productController, cfg.JWTSecret)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zlog.Info("Basket service is running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zlog.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("Shutdown error", zap.Error(err))
	}
	zlog.Info("Server shutdown complete")
}
