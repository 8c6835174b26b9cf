package usecase

import (
	"sort"
	"strings"

	"github.com/place-search-microservice/internal/domain"
)

// SortCriterion - один ключ составной сортировки
type SortCriterion struct {
	Field      string
	Descending bool
}

// SortByDistance сортирует по расстоянию (по умолчанию ближние первыми)
func SortByDistance(places []domain.Place, descending bool) []domain.Place {
	sorted := clonePlaces(places)
	sort.SliceStable(sorted, func(i, j int) bool {
		if descending {
			return sorted[i].Distance > sorted[j].Distance
		}
		return sorted[i].Distance < sorted[j].Distance
	})
	return sorted
}

// SortByRating сортирует по рейтингу (по умолчанию лучшие первыми, без рейтинга = 0)
func SortByRating(places []domain.Place, ascending bool) []domain.Place {
	sorted := clonePlaces(places)
	sort.SliceStable(sorted, func(i, j int) bool {
		if ascending {
			return ratingOrZero(sorted[i]) < ratingOrZero(sorted[j])
		}
		return ratingOrZero(sorted[i]) > ratingOrZero(sorted[j])
	})
	return sorted
}

// SortByReviews сортирует по числу отзывов (по умолчанию популярные первыми)
func SortByReviews(places []domain.Place, ascending bool) []domain.Place {
	sorted := clonePlaces(places)
	sort.SliceStable(sorted, func(i, j int) bool {
		if ascending {
			return reviewsOrZero(sorted[i]) < reviewsOrZero(sorted[j])
		}
		return reviewsOrZero(sorted[i]) > reviewsOrZero(sorted[j])
	})
	return sorted
}

// SortByName сортирует по имени без учёта регистра
func SortByName(places []domain.Place, descending bool) []domain.Place {
	sorted := clonePlaces(places)
	sort.SliceStable(sorted, func(i, j int) bool {
		a := strings.ToLower(sorted[i].Name)
		b := strings.ToLower(sorted[j].Name)
		if descending {
			return a > b
		}
		return a < b
	})
	return sorted
}

// SortByCategoryPriority сортирует по приоритету категории.
// Места без категории или с категорией вне карты получают
// domain.UnlistedCategoryPriority и идут последними.
func SortByCategoryPriority(places []domain.Place, priorities map[string]int) []domain.Place {
	priority := func(p domain.Place) int {
		if p.Category != nil {
			if pr, ok := priorities[*p.Category]; ok {
				return pr
			}
		}
		return domain.UnlistedCategoryPriority
	}

	sorted := clonePlaces(places)
	sort.SliceStable(sorted, func(i, j int) bool {
		return priority(sorted[i]) < priority(sorted[j])
	})
	return sorted
}

// MultiSort - составная сортировка: критерии сравниваются лексикографически
func MultiSort(places []domain.Place, criteria []SortCriterion) []domain.Place {
	sorted := clonePlaces(places)
	sort.SliceStable(sorted, func(i, j int) bool {
		for _, criterion := range criteria {
			cmp := compareByField(sorted[i], sorted[j], criterion.Field)
			if cmp == 0 {
				continue
			}
			if criterion.Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	return sorted
}

func compareByField(a, b domain.Place, field string) int {
	switch field {
	case "distance":
		return compareFloat(a.Distance, b.Distance)
	case "rating":
		return compareFloat(ratingOrZero(a), ratingOrZero(b))
	case "reviews":
		return compareFloat(float64(reviewsOrZero(a)), float64(reviewsOrZero(b)))
	case "name":
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	default:
		return 0
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func ratingOrZero(p domain.Place) float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

func reviewsOrZero(p domain.Place) int {
	if p.Reviews == nil {
		return 0
	}
	return *p.Reviews
}

func clonePlaces(places []domain.Place) []domain.Place {
	cloned := make([]domain.Place, len(places))
	copy(cloned, places)
	return cloned
}
