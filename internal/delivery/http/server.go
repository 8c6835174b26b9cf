package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/place-search-microservice/internal/config"
	"github.com/place-search-microservice/internal/delivery/http/handler"
	"github.com/place-search-microservice/internal/delivery/http/middleware"
	"github.com/place-search-microservice/internal/usecase"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	rateLimitUC *usecase.RateLimitUseCase

	// Handlers
	searchHandler *handler.SearchHandler
	statsHandler  *handler.StatsHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	rateLimitUC *usecase.RateLimitUseCase,
	searchHandler *handler.SearchHandler,
	statsHandler *handler.StatsHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Place Search Microservice",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:           app,
		config:        cfg,
		logger:        logger,
		rateLimitUC:   rateLimitUC,
		searchHandler: searchHandler,
		statsHandler:  statsHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	// Health check - без лимитов
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Категории статичны, лимиты не применяются
	api.Get("/categories", s.searchHandler.GetCategories)

	// Search routes - с проверкой лимитов по эндпоинтам
	api.Get("/search",
		middleware.RateLimit(s.rateLimitUC, "search", s.logger),
		s.searchHandler.Search)
	api.Get("/search/category/:category",
		middleware.RateLimit(s.rateLimitUC, "search_category", s.logger),
		s.searchHandler.SearchByCategory)
	api.Get("/autocomplete",
		middleware.RateLimit(s.rateLimitUC, "autocomplete", s.logger),
		s.searchHandler.Autocomplete)

	// Cache management
	api.Post("/cache/clear",
		middleware.RateLimit(s.rateLimitUC, "cache_clear", s.logger),
		s.searchHandler.ClearCache)

	// Stats
	api.Get("/stats",
		middleware.RateLimit(s.rateLimitUC, "stats", s.logger),
		s.statsHandler.GetStats)
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
