package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/place-search-microservice/internal/domain/repository"
	"go.uber.org/zap"
)

type rateLimitRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewRateLimitRepository создает репозиторий журнала запросов поверх таблицы rate_limits
func NewRateLimitRepository(db *DB, logger *zap.Logger) repository.RateLimitRepository {
	return &rateLimitRepository{
		db:     db,
		logger: logger,
	}
}

// Record добавляет запись о запросе. Журнал append-only, без транзакций.
func (r *rateLimitRepository) Record(ctx context.Context, clientID, endpoint string, at time.Time) error {
	query := `
		INSERT INTO rate_limits (client_id, endpoint, request_time)
		VALUES ($1, $2, $3)
	`

	if _, err := r.db.ExecContext(ctx, query, clientID, endpoint, at); err != nil {
		r.logger.Error("Failed to record rate limit entry",
			zap.String("client_id", clientID),
			zap.String("endpoint", endpoint),
			zap.Error(err))
		return fmt.Errorf("rate limit record error: %w", err)
	}

	return nil
}

func (r *rateLimitRepository) CountSince(ctx context.Context, clientID, endpoint string, since time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM rate_limits
		WHERE client_id = $1 AND endpoint = $2 AND request_time > $3
	`

	if err := r.db.GetContext(ctx, &count, query, clientID, endpoint, since); err != nil {
		return 0, fmt.Errorf("rate limit count error: %w", err)
	}

	return count, nil
}

func (r *rateLimitRepository) CountAllSince(ctx context.Context, clientID string, since time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM rate_limits
		WHERE client_id = $1 AND request_time > $2
	`

	if err := r.db.GetContext(ctx, &count, query, clientID, since); err != nil {
		return 0, fmt.Errorf("rate limit count error: %w", err)
	}

	return count, nil
}

func (r *rateLimitRepository) CountByEndpointSince(ctx context.Context, clientID string, since time.Time) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT endpoint, COUNT(*) AS count
		FROM rate_limits
		WHERE client_id = $1 AND request_time > $2
		GROUP BY endpoint
	`, clientID, since)
	if err != nil {
		return nil, fmt.Errorf("rate limit endpoint stats error: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var endpoint string
		var count int
		if err := rows.Scan(&endpoint, &count); err != nil {
			return nil, fmt.Errorf("scan endpoint stats: %w", err)
		}
		stats[endpoint] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate endpoint stats: %w", err)
	}

	return stats, nil
}

// DeleteOlderThan удаляет записи старше cutoff.
// Чисто хозяйственная операция: корректность admission от неё не зависит.
func (r *rateLimitRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rate_limits WHERE request_time < $1`, cutoff)
	if err != nil {
		r.logger.Error("Failed to delete old rate limit records", zap.Error(err))
		return 0, fmt.Errorf("rate limit cleanup error: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	return deleted, nil
}
