package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/place-search-microservice/internal/delivery/http/middleware"
	"github.com/place-search-microservice/internal/pkg/utils"
	"github.com/place-search-microservice/internal/usecase"
)

// StatsHandler - обработчик статистики сервиса
type StatsHandler struct {
	statsUC *usecase.StatsUseCase
	logger  *zap.Logger
}

// NewStatsHandler - создание нового StatsHandler
func NewStatsHandler(statsUC *usecase.StatsUseCase, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		statsUC: statsUC,
		logger:  logger,
	}
}

// GetStats godoc
// @Summary Статистика кеша и лимитов клиента
// @Description Возвращает сводку по поисковому кешу и текущее использование лимитов вызывающим клиентом
// @Tags Stats
// @Produce json
// @Success 200 {object} dto.StatsResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/stats [get]
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	clientID := middleware.ClientID(c)

	stats, err := h.statsUC.GetStats(c.Context(), clientID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.JSON(stats)
}
