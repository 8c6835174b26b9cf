package maintenance

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/place-search-microservice/internal/domain/repository"
	"github.com/place-search-microservice/internal/usecase"
	"github.com/place-search-microservice/internal/worker"
)

// SweeperWorker периодически удаляет просроченные записи кеша
// и устаревшие записи журнала лимитов
type SweeperWorker struct {
	*worker.BaseWorker
	cacheRepo   repository.SearchCacheRepository
	rateLimitUC *usecase.RateLimitUseCase
	interval    time.Duration
	retention   time.Duration
}

// NewSweeperWorker создает новый SweeperWorker
func NewSweeperWorker(
	cacheRepo repository.SearchCacheRepository,
	rateLimitUC *usecase.RateLimitUseCase,
	interval time.Duration,
	retention time.Duration,
	logger *zap.Logger,
) *SweeperWorker {
	return &SweeperWorker{
		BaseWorker:  worker.NewBaseWorker("maintenance-sweeper", logger),
		cacheRepo:   cacheRepo,
		rateLimitUC: rateLimitUC,
		interval:    interval,
		retention:   retention,
	}
}

// Start запускает воркер
func (w *SweeperWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting SweeperWorker",
		zap.Duration("interval", w.interval),
		zap.Duration("retention", w.retention))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Первый проход сразу при старте
	w.sweep(ctx)

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep выполняет один проход очистки. Ошибки логируются,
// воркер продолжает работу до следующего тика.
func (w *SweeperWorker) sweep(ctx context.Context) {
	logger := w.Logger()

	deleted, err := w.cacheRepo.DeleteExpired(ctx)
	if err != nil {
		logger.Error("Failed to delete expired cache entries", zap.Error(err))
	} else if deleted > 0 {
		logger.Info("Expired cache entries deleted", zap.Int64("count", deleted))
	}

	removed, err := w.rateLimitUC.Cleanup(ctx, w.retention)
	if err != nil {
		logger.Error("Failed to clean up rate limit log", zap.Error(err))
	} else if removed > 0 {
		logger.Info("Old rate limit entries removed", zap.Int64("count", removed))
	}
}
