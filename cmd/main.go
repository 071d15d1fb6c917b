package main

import (
	"catalog_service/config"
	"catalog_service/internal/delivery"
	"catalog_service/internal/domain"
	"catalog_service/internal/repository"
	"catalog_service/internal/usecase"
	"catalog_service/pkg/db"
	"catalog_service/web"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	pflag.Parse()

	logger := setupLogger("info")

	cfg, err := config.LoadConfig(*envFile, logger)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", cfg.LogLevel, logger.GetLevel())
	} else {
		logger.SetLevel(logLevel)
	}
	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Info("Starting Catalog Service...")

	// --- Store Connection ---
	productRepo, closeStore := openStore(cfg, logger)
	defer closeStore()

	// --- Dependency Injection ---
	productUseCase := usecase.NewProductUseCase(productRepo, logger)
	productHandler := delivery.NewProductHandler(productUseCase, logger)
	router := delivery.NewRouter(productHandler, web.Handler(), logger)
	logger.Info("Routes registered.")

	// --- Start Server ---
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}
	go func() {
		logger.Infof("Server is running on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Warn("Shutdown signal received...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("HTTP server shutdown failed: %v", err)
	}
	logger.Info("Catalog Service shut down gracefully.")
}

// openStore establishes the store before the listener binds. Failure is fatal.
func openStore(cfg *config.Config, logger *logrus.Logger) (domain.ProductRepository, func()) {
	if cfg.StoreDriver == config.DriverMemory {
		logger.Warn("Using in-memory product store; data is lost on exit.")
		return repository.NewMemoryProductRepository(logger), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	logger.Info("Connecting to MongoDB...")
	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatalf("Could not connect to MongoDB: %v", err)
	}

	dbName := cfg.MongoDatabase
	if dbName == "" {
		dbName = db.DatabaseName(cfg.MongoURI)
	}
	logger.Infof("Successfully connected to MongoDB (database: %s, collection: %s)", dbName, cfg.MongoCollection)

	coll := client.Database(dbName).Collection(cfg.MongoCollection)
	return repository.NewMongoProductRepository(coll, logger), func() { disconnect(client, logger) }
}

func disconnect(client *mongo.Client, logger *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.Errorf("Error closing MongoDB connection: %v", err)
		return
	}
	logger.Info("MongoDB connection closed.")
}

func setupLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	return logger
}
