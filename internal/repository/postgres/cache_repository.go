package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/place-search-microservice/internal/domain"
	"github.com/place-search-microservice/internal/domain/repository"
	"go.uber.org/zap"
)

type searchCacheRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewSearchCacheRepository создает репозиторий кеша поиска поверх таблицы search_cache
func NewSearchCacheRepository(db *DB, logger *zap.Logger) repository.SearchCacheRepository {
	return &searchCacheRepository{
		db:     db,
		logger: logger,
	}
}

// Get возвращает последнюю неистёкшую запись по ключу, (nil, nil) при промахе
func (r *searchCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	query := `
		SELECT data FROM search_cache
		WHERE cache_key = $1 AND expires_at > now()
		ORDER BY created_at DESC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &data, query, key)
	if err == sql.ErrNoRows {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from search cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Search cache hit", zap.String("key", key))
	return data, nil
}

// Set сохраняет результат с replace-семантикой по cache_key
func (r *searchCacheRepository) Set(ctx context.Context, key string, data []byte, category, location string, ttl time.Duration) error {
	query := `
		INSERT INTO search_cache (cache_key, data, category, location, created_at, expires_at)
		VALUES ($1, $2, $3, $4, now(), now() + $5::interval)
		ON CONFLICT (cache_key) DO UPDATE SET
			data = EXCLUDED.data,
			category = EXCLUDED.category,
			location = EXCLUDED.location,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
	`

	interval := fmt.Sprintf("%d seconds", int(ttl.Seconds()))
	if _, err := r.db.ExecContext(ctx, query, key, data, category, location, interval); err != nil {
		r.logger.Error("Failed to set search cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Search cache set",
		zap.String("key", key),
		zap.String("category", category),
		zap.Duration("ttl", ttl))
	return nil
}

// DeleteExpired удаляет истёкшие записи
func (r *searchCacheRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM search_cache WHERE expires_at <= now()`)
	if err != nil {
		r.logger.Error("Failed to delete expired cache entries", zap.Error(err))
		return 0, fmt.Errorf("cache delete expired error: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	return deleted, nil
}

// DeleteCategory удаляет все записи категории независимо от expires_at
func (r *searchCacheRepository) DeleteCategory(ctx context.Context, category string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM search_cache WHERE category = $1`, category)
	if err != nil {
		r.logger.Error("Failed to delete cache category",
			zap.String("category", category),
			zap.Error(err))
		return 0, fmt.Errorf("cache delete category error: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	return deleted, nil
}

// Stats возвращает статистику по таблице кеша
func (r *searchCacheRepository) Stats(ctx context.Context) (*domain.CacheStats, error) {
	stats := &domain.CacheStats{
		CategoryStats: make(map[string]int),
	}

	err := r.db.GetContext(ctx, &stats.TotalEntries, `SELECT COUNT(*) FROM search_cache`)
	if err != nil {
		return nil, fmt.Errorf("query cache total: %w", err)
	}

	err = r.db.GetContext(ctx, &stats.ExpiredEntries,
		`SELECT COUNT(*) FROM search_cache WHERE expires_at <= now()`)
	if err != nil {
		return nil, fmt.Errorf("query cache expired: %w", err)
	}
	stats.ActiveEntries = stats.TotalEntries - stats.ExpiredEntries

	rows, err := r.db.QueryContext(ctx, `
		SELECT category, COUNT(*) AS count
		FROM search_cache
		GROUP BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("query cache categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("scan cache category: %w", err)
		}
		stats.CategoryStats[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cache categories: %w", err)
	}

	return stats, nil
}
