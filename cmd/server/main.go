package main

import (
	"context"   // Shutdown and Redis ping
	"errors"    // Server close detection
	"net/http"  // HTTP server
	"os/signal" // Graceful shutdown
	"syscall"   // Termination signals
	"time"      // Timeouts

	"skate_marketplace/internal/api"     // HTTP handlers and routes
	"skate_marketplace/internal/config"  // Configuration
	"skate_marketplace/internal/db"      // Database connection
	"skate_marketplace/internal/events"  // Order events
	"skate_marketplace/internal/service" // Domain components
	"skate_marketplace/internal/storage" // Upload storage
	"skate_marketplace/internal/store"   // Repositories
	"skate_marketplace/internal/utils"   // Cache and order numbers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	setupLogger(cfg)

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be set")
	}

	gormDB, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}

	// Redis is optional: without it the catalog is not cached and order numbers are random
	var rdb *redis.Client
	var numbers utils.OrderNumbers = utils.RandomOrderNumbers{}
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		numbers = utils.NewRedisOrderNumbers(rdb)
		defer rdb.Close()
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
		logrus.WithField("brokers", cfg.KafkaBrokers).Info("Publishing order events to Kafka")
	}
	defer publisher.Close()

	files, err := storage.NewLocalStorage(cfg.UploadPath, "/uploads")
	if err != nil {
		logrus.Fatalf("failed to prepare upload directory: %v", err)
	}

	users := store.NewUsers(gormDB)
	products := store.NewProducts(gormDB)
	paging := service.Paging{Default: cfg.PageSize, Max: cfg.MaxPageSize}
	svc := api.Services{
		Auth:    service.NewAuthService(users, cfg.JWTSecret, cfg.JWTExpiresIn),
		Users:   service.NewUserService(users, store.NewAddresses(gormDB), store.NewPreferences(gormDB), files, paging, cfg.MaxFileSize),
		Catalog: service.NewCatalogService(store.NewCategories(gormDB), products, utils.NewCache(rdb), paging, cfg.ProductsActiveOnly),
		Orders:  service.NewOrderService(store.NewOrders(gormDB), products, numbers, publisher, paging),
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := api.NewRouter(api.RouterConfig{
		JWTSecret:      cfg.JWTSecret,
		CORSOrigins:    cfg.CORSOrigins,
		UploadPath:     files.BasePath(),
		MaxFileSize:    cfg.MaxFileSize,
		TrustedProxies: []string{"127.0.0.1"},
	}, svc, users)
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		logrus.Info("Server running on " + cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Graceful shutdown failed")
	}
}

func setupLogger(cfg *config.Config) {
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithField("level", cfg.LogLevel).Warn("Unknown LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
