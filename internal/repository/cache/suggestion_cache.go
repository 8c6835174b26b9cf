package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/place-search-microservice/internal/domain"
	"github.com/place-search-microservice/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type suggestionCacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewSuggestionCacheRepository создает горячий Redis-кеш подсказок автодополнения.
// Кеш best-effort: любая ошибка Redis трактуется вызывающим кодом как промах.
func NewSuggestionCacheRepository(redis *Redis) repository.SuggestionCacheRepository {
	return &suggestionCacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func suggestionKey(query string, limit int) string {
	return fmt.Sprintf("suggest:%s:%d", strings.ToLower(strings.TrimSpace(query)), limit)
}

func (r *suggestionCacheRepository) Get(ctx context.Context, query string, limit int) ([]domain.Suggestion, error) {
	key := suggestionKey(query, limit)

	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get suggestions from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("suggestion cache get error: %w", err)
	}

	var suggestions []domain.Suggestion
	if err := json.Unmarshal(val, &suggestions); err != nil {
		r.logger.Error("Failed to unmarshal cached suggestions", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("unmarshal suggestions: %w", err)
	}

	r.logger.Debug("Suggestion cache hit", zap.String("key", key))
	return suggestions, nil
}

func (r *suggestionCacheRepository) Set(ctx context.Context, query string, limit int, suggestions []domain.Suggestion, ttl time.Duration) error {
	key := suggestionKey(query, limit)

	data, err := json.Marshal(suggestions)
	if err != nil {
		return fmt.Errorf("marshal suggestions: %w", err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		r.logger.Error("Failed to set suggestion cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("suggestion cache set error: %w", err)
	}

	r.logger.Debug("Suggestion cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}
