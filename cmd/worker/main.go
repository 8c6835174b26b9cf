package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/place-search-microservice/internal/config"
	"github.com/place-search-microservice/internal/pkg/logger"
	"github.com/place-search-microservice/internal/repository/postgres"
	"github.com/place-search-microservice/internal/usecase"
	"github.com/place-search-microservice/internal/worker"
	"github.com/place-search-microservice/internal/worker/maintenance"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Maintenance Worker")
	log.Info("Configuration loaded",
		zap.Duration("sweep_interval", cfg.Worker.SweepInterval),
		zap.Int("retention_hours", cfg.Worker.RetentionHours))

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Initialize repositories
	cacheRepo := postgres.NewSearchCacheRepository(db, log)
	rateLimitRepo := postgres.NewRateLimitRepository(db, log)

	// 5. Initialize use cases
	rateLimitUC := usecase.NewRateLimitUseCase(
		rateLimitRepo,
		log,
		cfg.RateLimit.PerMinute,
		cfg.RateLimit.PerHour,
	)

	// 6. Initialize workers
	sweeper := maintenance.NewSweeperWorker(
		cacheRepo,
		rateLimitUC,
		cfg.Worker.SweepInterval,
		time.Duration(cfg.Worker.RetentionHours)*time.Hour,
		log,
	)

	// 7. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(sweeper)

	// 8. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start workers
	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Cancel context to stop workers
	cancel()

	// Stop worker manager
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
