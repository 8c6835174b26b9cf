package repository

import (
	"context"
	"time"
)

// RateLimitRepository - персистентный журнал запросов для длинного окна rate limiting.
// Журнал append-only: запись никогда не обновляется, только добавляется и вычищается sweep'ом.
type RateLimitRepository interface {
	// Record добавляет запись о запросе в журнал
	Record(ctx context.Context, clientID, endpoint string, at time.Time) error

	// CountSince возвращает количество запросов клиента к endpoint после since
	CountSince(ctx context.Context, clientID, endpoint string, since time.Time) (int, error)

	// CountAllSince возвращает количество запросов клиента ко всем endpoint после since
	CountAllSince(ctx context.Context, clientID string, since time.Time) (int, error)

	// CountByEndpointSince возвращает разбивку запросов клиента по endpoint после since
	CountByEndpointSince(ctx context.Context, clientID string, since time.Time) (map[string]int, error)

	// DeleteOlderThan удаляет записи старше cutoff, возвращает количество удалённых
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
