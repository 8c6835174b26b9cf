package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/place-search-microservice/internal/delivery/http/middleware"
	"github.com/place-search-microservice/internal/pkg/errors"
	"github.com/place-search-microservice/internal/pkg/utils"
	"github.com/place-search-microservice/internal/pkg/validator"
	"github.com/place-search-microservice/internal/usecase"
	"github.com/place-search-microservice/internal/usecase/dto"
)

// SearchHandler - обработчик поисковых запросов
type SearchHandler struct {
	searchUC *usecase.SearchUseCase
	logger   *zap.Logger
}

// NewSearchHandler - создание нового SearchHandler
func NewSearchHandler(searchUC *usecase.SearchUseCase, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		searchUC: searchUC,
		logger:   logger,
	}
}

// Search godoc
// @Summary Поиск мест рядом с точкой
// @Description Агрегирующий поиск точек интереса по нескольким провайдерам с кешированием и дедупликацией результатов
// @Tags Search
// @Accept json
// @Produce json
// @Param query query string true "Поисковый запрос"
// @Param lat query number true "Широта (-90..90)"
// @Param lng query number true "Долгота (-180..180)"
// @Param radius query int false "Радиус поиска в км (1-50)" default(5)
// @Param category query string false "Категория поиска"
// @Param use_cache query bool false "Использовать кеш" default(true)
// @Success 200 {object} dto.SearchResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 429 {object} map[string]interface{}
// @Router /api/v1/search [get]
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	req.Query = c.Query("query")
	req.Lat = c.QueryFloat("lat")
	req.Lng = c.QueryFloat("lng")
	req.Radius = c.QueryInt("radius", 5)
	req.Category = c.Query("category")
	req.UseCache = c.QueryBool("use_cache", true)

	// Валидация до вызова use case
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.searchUC.SearchPlaces(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	attachRateLimit(c, result)
	return c.JSON(result)
}

// SearchByCategory godoc
// @Summary Поиск мест по категории
// @Description Поиск по сконфигурированной категории: первое ключевое слово категории используется как запрос, радиус по умолчанию берётся из конфигурации категории
// @Tags Search
// @Accept json
// @Produce json
// @Param category path string true "Категория (gasolina, hospedagem, oficina, restaurante, farmacia, hospital, policia)"
// @Param lat query number true "Широта (-90..90)"
// @Param lng query number true "Долгота (-180..180)"
// @Param radius query int false "Радиус поиска в км (1-50)"
// @Success 200 {object} dto.SearchResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 429 {object} map[string]interface{}
// @Router /api/v1/search/category/{category} [get]
func (h *SearchHandler) SearchByCategory(c *fiber.Ctx) error {
	category := c.Params("category")
	lat := c.QueryFloat("lat")
	lng := c.QueryFloat("lng")
	radius := c.QueryInt("radius", 0)

	result, err := h.searchUC.SearchByCategory(c.Context(), category, lat, lng, radius)
	if err != nil {
		return utils.SendError(c, err)
	}

	attachRateLimit(c, result)
	return c.JSON(result)
}

// Autocomplete godoc
// @Summary Подсказки автодополнения
// @Description Возвращает подсказки мест по частичному запросу. Best-effort: при сбое провайдера возвращается пустой список.
// @Tags Search
// @Accept json
// @Produce json
// @Param query query string true "Частичный запрос"
// @Param limit query int false "Максимум подсказок (1-20)" default(5)
// @Success 200 {object} dto.AutocompleteResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 429 {object} map[string]interface{}
// @Router /api/v1/autocomplete [get]
func (h *SearchHandler) Autocomplete(c *fiber.Ctx) error {
	query := c.Query("query")
	limit := c.QueryInt("limit", 5)

	if query == "" {
		return utils.SendError(c, errors.ErrInvalidQuery)
	}
	if limit < 1 || limit > 20 {
		limit = 5
	}

	suggestions := h.searchUC.Autocomplete(c.Context(), query, limit)

	resp := &dto.AutocompleteResponse{
		Success:     true,
		Suggestions: suggestions,
		Query:       query,
	}
	if decision := middleware.DecisionFromCtx(c); decision != nil {
		resp.RateLimit = &dto.RateLimitInfo{
			Remaining: decision.Remaining,
			Limit:     decision.Limit,
		}
	}

	return c.JSON(resp)
}

// GetCategories godoc
// @Summary Список сконфигурированных категорий
// @Description Возвращает категории с их ключевыми словами, радиусом и приоритетом
// @Tags Search
// @Produce json
// @Success 200 {object} dto.CategoriesResponse
// @Router /api/v1/categories [get]
func (h *SearchHandler) GetCategories(c *fiber.Ctx) error {
	return c.JSON(&dto.CategoriesResponse{
		Success:    true,
		Categories: h.searchUC.Categories(),
	})
}

// ClearCache godoc
// @Summary Очистка поискового кеша
// @Description Без параметра category удаляет только просроченные записи, с параметром - все записи категории
// @Tags Cache
// @Produce json
// @Param category query string false "Категория для полной очистки"
// @Success 200 {object} dto.CacheClearResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/cache/clear [post]
func (h *SearchHandler) ClearCache(c *fiber.Ctx) error {
	category := c.Query("category")

	deleted, err := h.searchUC.ClearCache(c.Context(), category)
	if err != nil {
		return utils.SendError(c, err)
	}

	message := "expired entries cleared"
	if category != "" {
		message = "category cache cleared: " + category
	}

	return c.JSON(&dto.CacheClearResponse{
		Success:        true,
		Message:        message,
		ClearedEntries: deleted,
	})
}

// attachRateLimit прикладывает информацию о лимитах к успешному ответу поиска
func attachRateLimit(c *fiber.Ctx, result *dto.SearchResponse) {
	if decision := middleware.DecisionFromCtx(c); decision != nil {
		result.RateLimit = &dto.RateLimitInfo{
			Remaining: decision.Remaining,
			Limit:     decision.Limit,
		}
	}
}
