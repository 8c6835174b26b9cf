package repository

import (
	"context"
	"time"

	"github.com/place-search-microservice/internal/domain"
)

// SearchCacheRepository определяет методы для работы с персистентным кешем поиска
type SearchCacheRepository interface {
	// Get возвращает сериализованный результат по ключу.
	// Возвращает (nil, nil) при промахе кеша или истёкшей записи.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет результат с TTL (upsert по cache_key)
	Set(ctx context.Context, key string, data []byte, category, location string, ttl time.Duration) error

	// DeleteExpired удаляет все истёкшие записи, возвращает количество удалённых
	DeleteExpired(ctx context.Context) (int64, error)

	// DeleteCategory удаляет все записи категории независимо от срока жизни
	DeleteCategory(ctx context.Context, category string) (int64, error)

	// Stats возвращает статистику кеша
	Stats(ctx context.Context) (*domain.CacheStats, error)
}

// SuggestionCacheRepository - горячий кеш подсказок автодополнения (best-effort)
type SuggestionCacheRepository interface {
	// Get возвращает закешированные подсказки, (nil, nil) при промахе
	Get(ctx context.Context, query string, limit int) ([]domain.Suggestion, error)

	// Set сохраняет подсказки с TTL
	Set(ctx context.Context, query string, limit int, suggestions []domain.Suggestion, ttl time.Duration) error
}
