package worker

import (
	"context"
)

// Worker - фоновая задача обслуживания (уборка кеша, ротация журнала запросов)
type Worker interface {
	// Start запускает цикл воркера и блокируется до Stop или отмены контекста
	Start(ctx context.Context) error

	// Stop сигнализирует воркеру о завершении
	Stop() error

	// Name возвращает имя воркера для логов
	Name() string
}
