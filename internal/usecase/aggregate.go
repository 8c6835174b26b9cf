package usecase

import "github.com/place-search-microservice/internal/domain"

const (
	// uncategorizedBucket - корзина для мест без категории
	uncategorizedBucket = "other"
	// farBucket - корзина для мест, не попавших ни в один диапазон расстояний
	farBucket = "far"
)

// DistanceRange - полуоткрытый диапазон [Min, Max) с меткой корзины
type DistanceRange struct {
	Min   float64
	Max   float64
	Label string
}

// GroupByCategory группирует места по категории
func GroupByCategory(places []domain.Place) map[string][]domain.Place {
	grouped := make(map[string][]domain.Place)
	for _, place := range places {
		category := uncategorizedBucket
		if place.Category != nil && *place.Category != "" {
			category = *place.Category
		}
		grouped[category] = append(grouped[category], place)
	}
	return grouped
}

// GroupByDistanceRange группирует места по диапазонам расстояний.
// Место, не попавшее ни в один диапазон, уходит в корзину farBucket.
func GroupByDistanceRange(places []domain.Place, ranges []DistanceRange) map[string][]domain.Place {
	grouped := make(map[string][]domain.Place)

	for _, place := range places {
		label := farBucket
		for _, r := range ranges {
			if place.Distance >= r.Min && place.Distance < r.Max {
				label = r.Label
				break
			}
		}
		grouped[label] = append(grouped[label], place)
	}

	return grouped
}

// Statistics возвращает сводную статистику по списку мест.
// Пустой вход даёт нулевую статистику, а не ошибку.
func Statistics(places []domain.Place) *domain.ResultStats {
	stats := &domain.ResultStats{
		Total:      len(places),
		Categories: make(map[string]int),
		Sources:    make(map[string]int),
	}

	if len(places) == 0 {
		return stats
	}

	var distanceSum float64
	var ratingSum float64
	ratedCount := 0
	minDistance := places[0].Distance
	maxDistance := places[0].Distance

	for _, place := range places {
		distanceSum += place.Distance
		if place.Distance < minDistance {
			minDistance = place.Distance
		}
		if place.Distance > maxDistance {
			maxDistance = place.Distance
		}

		if place.Rating != nil {
			ratingSum += *place.Rating
			ratedCount++
		}

		category := uncategorizedBucket
		if place.Category != nil && *place.Category != "" {
			category = *place.Category
		}
		stats.Categories[category]++
		stats.Sources[place.Source]++
	}

	stats.AvgDistance = distanceSum / float64(len(places))
	if ratedCount > 0 {
		stats.AvgRating = ratingSum / float64(ratedCount)
	}
	stats.MinDistance = minDistance
	stats.MaxDistance = maxDistance

	return stats
}
