package main

import (
	"alcyxob/training-log/internal/api"
	"alcyxob/training-log/internal/config"
	"alcyxob/training-log/internal/logging"
	"alcyxob/training-log/internal/repository"
	"alcyxob/training-log/internal/repository/mongo"
	"alcyxob/training-log/internal/service"
	"alcyxob/training-log/internal/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	zapLogger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("FATAL: Could not build logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	logger := zapLogger.Sugar()
	logger.Infow("Starting Training Log Server...", "backend", cfg.Store.Backend, "windowDays", cfg.Loader.WindowDays)

	location, err := cfg.Loader.Location()
	if err != nil {
		logger.Fatalw("Invalid loader timezone", "error", err)
	}

	// --- Workout Log Store ---
	var store repository.WorkoutLogStore
	switch cfg.Store.Backend {
	case config.BackendS3:
		store, err = storage.NewS3Storage(context.Background(), cfg.S3, cfg.Store.S3Prefix, logger)
		if err != nil {
			logger.Fatalw("Failed to initialize S3 storage", "error", err)
		}
	default:
		dbClient, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			logger.Fatalw("Could not connect to MongoDB", "error", err)
		}
		defer func() {
			logger.Info("Disconnecting MongoDB...")
			if err := mongo.DisconnectDB(dbClient); err != nil {
				logger.Errorw("Failed to disconnect MongoDB", "error", err)
			}
		}()
		appDB := dbClient.Database(cfg.Database.Name)
		logger.Infow("Database connection established", "database", cfg.Database.Name)

		go func() { // Index creation runs in the background
			ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
			defer cancel()
			if err := mongo.EnsureWorkoutLogIndexes(ctx, mongo.WorkoutLogCollection(appDB)); err != nil {
				logger.Warnw("Index creation failed", "error", err)
				return
			}
			logger.Info("Index creation process completed.")
		}()

		store = mongo.NewMongoWorkoutLogRepository(appDB, logger)
	}

	// --- Services ---
	loader := service.NewWindowedWorkoutLoader(store, service.LoaderOptions{
		WindowDays:     cfg.Loader.WindowDays,
		MaxConcurrency: cfg.Loader.MaxConcurrency,
		Location:       location,
	}, logger)
	trainingLogService := service.NewTrainingLogService(loader, store, location, logger)

	// --- Routes ---
	router := api.NewRouter(logger)
	api.SetupRoutes(router, trainingLogService, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Infow("Server starting", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("ListenAndServe error", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Errorw("Server forced to shutdown", "error", err)
		return
	}

	logger.Info("Server exiting.")
}
