package usecase

import (
	"strings"

	"github.com/place-search-microservice/internal/domain"
)

// FilterFunc - фильтр над списком мест. Значение приходит нетипизированным
// из параметров запроса; фильтр сам проверяет тип и при несовпадении
// возвращает список без изменений.
type FilterFunc func(places []domain.Place, value interface{}) []domain.Place

// FilterParam - именованный параметр фильтрации. Порядок применения
// задаётся вызывающей стороной.
type FilterParam struct {
	Name  string
	Value interface{}
}

// SearchFilters - реестр композируемых фильтров над уже полученным результатом.
// Неизвестные имена фильтров игнорируются, это не ошибка.
type SearchFilters struct {
	filters    map[string]FilterFunc
	categories map[string]domain.CategoryConfig
}

// NewSearchFilters создает реестр со стандартным набором фильтров
func NewSearchFilters(categories map[string]domain.CategoryConfig) *SearchFilters {
	f := &SearchFilters{
		filters:    make(map[string]FilterFunc),
		categories: categories,
	}

	f.filters["distance"] = filterByDistance
	f.filters["rating"] = filterByRating
	f.filters["price"] = filterByPrice
	f.filters["open_now"] = filterByOpenStatus
	f.filters["category"] = f.filterByCategory
	f.filters["source"] = filterBySource

	return f
}

// Apply применяет фильтры в порядке, заданном вызывающей стороной
func (f *SearchFilters) Apply(places []domain.Place, params []FilterParam) []domain.Place {
	filtered := make([]domain.Place, len(places))
	copy(filtered, places)

	for _, param := range params {
		filterFn, ok := f.filters[param.Name]
		if !ok || param.Value == nil {
			continue
		}
		filtered = filterFn(filtered, param.Value)
	}

	return filtered
}

// Register добавляет пользовательский фильтр
func (f *SearchFilters) Register(name string, fn FilterFunc) {
	f.filters[name] = fn
}

// Available возвращает имена зарегистрированных фильтров
func (f *SearchFilters) Available() []string {
	names := make([]string, 0, len(f.filters))
	for name := range f.filters {
		names = append(names, name)
	}
	return names
}

func filterByDistance(places []domain.Place, value interface{}) []domain.Place {
	maxDistance, ok := toFloat(value)
	if !ok {
		return places
	}

	result := make([]domain.Place, 0, len(places))
	for _, place := range places {
		if place.Distance <= maxDistance {
			result = append(result, place)
		}
	}
	return result
}

// filterByRating исключает места без рейтинга
func filterByRating(places []domain.Place, value interface{}) []domain.Place {
	minRating, ok := toFloat(value)
	if !ok {
		return places
	}

	result := make([]domain.Place, 0, len(places))
	for _, place := range places {
		if place.Rating != nil && *place.Rating >= minRating {
			result = append(result, place)
		}
	}
	return result
}

// priceBuckets - отображение корзины цен на теги провайдеров
var priceBuckets = map[string][]string{
	"free":   {"", "Free"},
	"low":    {"$", "Free"},
	"medium": {"$$", "$"},
	"high":   {"$$$", "$$$$"},
}

func filterByPrice(places []domain.Place, value interface{}) []domain.Place {
	bucket, ok := value.(string)
	if !ok {
		return places
	}

	tags, ok := priceBuckets[bucket]
	if !ok {
		return places
	}

	result := make([]domain.Place, 0, len(places))
	for _, place := range places {
		price := ""
		if place.Price != nil {
			price = *place.Price
		}
		for _, tag := range tags {
			if price == tag {
				result = append(result, place)
				break
			}
		}
	}
	return result
}

// filterByOpenStatus оставляет места, чей open_state содержит "open".
// Значение false - no-op, а не "только закрытые".
func filterByOpenStatus(places []domain.Place, value interface{}) []domain.Place {
	openNow, ok := value.(bool)
	if !ok || !openNow {
		return places
	}

	result := make([]domain.Place, 0, len(places))
	for _, place := range places {
		if place.OpenState != nil && strings.Contains(strings.ToLower(*place.OpenState), "open") {
			result = append(result, place)
		}
	}
	return result
}

// filterByCategory оставляет места, в названии или адресе которых
// встречается одно из ключевых слов категории
func (f *SearchFilters) filterByCategory(places []domain.Place, value interface{}) []domain.Place {
	category, ok := value.(string)
	if !ok || category == "" {
		return places
	}

	categoryConfig, ok := f.categories[category]
	if !ok {
		return places
	}

	result := make([]domain.Place, 0, len(places))
	for _, place := range places {
		nameLower := strings.ToLower(place.Name)
		addressLower := strings.ToLower(place.Address)

		for _, keyword := range categoryConfig.Keywords {
			keywordLower := strings.ToLower(keyword)
			if strings.Contains(nameLower, keywordLower) || strings.Contains(addressLower, keywordLower) {
				result = append(result, place)
				break
			}
		}
	}
	return result
}

func filterBySource(places []domain.Place, value interface{}) []domain.Place {
	sources, ok := value.([]string)
	if !ok {
		return places
	}

	allowed := make(map[string]struct{}, len(sources))
	for _, source := range sources {
		allowed[source] = struct{}{}
	}

	result := make([]domain.Place, 0, len(places))
	for _, place := range places {
		if _, ok := allowed[place.Source]; ok {
			result = append(result, place)
		}
	}
	return result
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
