package repository

import (
	"context"

	"github.com/place-search-microservice/internal/domain"
)

// PlaceProvider - внешний источник данных о местах.
// Каждый провайдер нормализует свой нативный ответ в []domain.Place на своей границе.
// Порядок провайдеров в конфигурации определяет приоритет при дедупликации.
type PlaceProvider interface {
	// Name возвращает имя провайдера (используется в логах и поле source)
	Name() string

	// Search ищет места вокруг точки. Ошибка провайдера не фатальна для поиска:
	// оркестратор сворачивает её в пустой вклад.
	Search(ctx context.Context, query string, lat, lng float64, radiusKm int, category string) ([]domain.Place, error)
}

// SuggestionProvider - внешний источник подсказок автодополнения
type SuggestionProvider interface {
	// Suggest возвращает подсказки по запросу
	Suggest(ctx context.Context, query string, limit int) ([]domain.Suggestion, error)
}
