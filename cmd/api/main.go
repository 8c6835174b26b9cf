package main

// @title Place Search Microservice API
// @version 1.0.0
// @description Микросервис агрегирующего поиска точек интереса. Объединяет результаты нескольких внешних провайдеров (OpenStreetMap Overpass, SerpAPI, Nominatim), дедуплицирует и сортирует их по расстоянию, кеширует ответы в PostgreSQL и ограничивает частоту запросов по клиентам.
// @description
// @description Основные возможности:
// @description - Поиск мест рядом с координатами по свободному запросу
// @description - Поиск по сконфигурированным категориям (АЗС, отели, мастерские и др.)
// @description - Подсказки автодополнения через Nominatim
// @description - Статистика кеша и использования лимитов
// @description - Управление поисковым кешем

// @contact.name API Support
// @contact.email support@place-search-microservice.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/place-search-microservice/docs"
	"github.com/place-search-microservice/internal/config"
	httpDelivery "github.com/place-search-microservice/internal/delivery/http"
	"github.com/place-search-microservice/internal/delivery/http/handler"
	"github.com/place-search-microservice/internal/domain/repository"
	"github.com/place-search-microservice/internal/infrastructure/nominatim"
	"github.com/place-search-microservice/internal/infrastructure/overpass"
	"github.com/place-search-microservice/internal/infrastructure/serpapi"
	"github.com/place-search-microservice/internal/pkg/logger"
	"github.com/place-search-microservice/internal/repository/cache"
	"github.com/place-search-microservice/internal/repository/postgres"
	"github.com/place-search-microservice/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Place Search Microservice")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

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
	log.Info("PostgreSQL connected")

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()
	log.Info("Redis connected")

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}

	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize Repositories
	cacheRepo := postgres.NewSearchCacheRepository(db, log)
	rateLimitRepo := postgres.NewRateLimitRepository(db, log)
	suggestionCache := cache.NewSuggestionCacheRepository(redisClient)

	log.Info("Repositories initialized")

	// 7. Initialize external providers
	// Порядок важен: при дедупликации выигрывает более ранний провайдер
	providers := []repository.PlaceProvider{
		overpass.NewClient(&cfg.Provider, log),
	}
	if cfg.Provider.SerpAPIKey != "" {
		providers = append(providers, serpapi.NewClient(&cfg.Provider, config.Categories, log))
		log.Info("SerpAPI provider enabled")
	} else {
		log.Warn("SERPAPI_KEY not set, SerpAPI provider disabled")
	}

	nominatimClient := nominatim.NewClient(&cfg.Provider, log)

	// 8. Initialize Use Cases
	searchUC := usecase.NewSearchUseCase(
		providers,
		nominatimClient,
		suggestionCache,
		cacheRepo,
		config.Categories,
		log,
		cfg.Cache.SearchCacheTTL,
		cfg.Cache.SuggestionCacheTTL,
		cfg.Search.DefaultRadius,
		cfg.Search.MaxResults,
	)

	rateLimitUC := usecase.NewRateLimitUseCase(
		rateLimitRepo,
		log,
		cfg.RateLimit.PerMinute,
		cfg.RateLimit.PerHour,
	)

	statsUC := usecase.NewStatsUseCase(searchUC, rateLimitUC, log)

	log.Info("Use cases initialized")

	// 9. Initialize HTTP Handlers
	searchHandler := handler.NewSearchHandler(searchUC, log)
	statsHandler := handler.NewStatsHandler(statsUC, log)

	log.Info("HTTP handlers initialized")

	// 10. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		rateLimitUC,
		searchHandler,
		statsHandler,
	)

	log.Info("HTTP server initialized")

	// 11. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 12. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
