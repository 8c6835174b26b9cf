package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/place-search-microservice/internal/pkg/errors"
	"github.com/place-search-microservice/internal/usecase/dto"
)

// StatsUseCase - статистика системы: кеш поиска + журнал запросов клиента
type StatsUseCase struct {
	searchUC    *SearchUseCase
	rateLimitUC *RateLimitUseCase
	logger      *zap.Logger
}

// NewStatsUseCase - создание нового StatsUseCase
func NewStatsUseCase(searchUC *SearchUseCase, rateLimitUC *RateLimitUseCase, logger *zap.Logger) *StatsUseCase {
	return &StatsUseCase{
		searchUC:    searchUC,
		rateLimitUC: rateLimitUC,
		logger:      logger,
	}
}

// GetStats собирает статистику кеша и клиента
func (uc *StatsUseCase) GetStats(ctx context.Context, clientID string) (*dto.StatsResponse, error) {
	cacheStats, err := uc.searchUC.CacheStats(ctx)
	if err != nil {
		return nil, err
	}

	clientStats, err := uc.rateLimitUC.ClientStats(ctx, clientID)
	if err != nil {
		uc.logger.Error("Failed to get client stats",
			zap.String("client_id", clientID),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return &dto.StatsResponse{
		Success: true,
		Cache:   cacheStats,
		Client:  clientStats,
	}, nil
}
