package usecase

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/place-search-microservice/internal/domain"
	"github.com/place-search-microservice/internal/domain/repository"
	"github.com/place-search-microservice/internal/pkg/errors"
	"github.com/place-search-microservice/internal/pkg/utils"
	"github.com/place-search-microservice/internal/usecase/dto"
)

// SearchUseCase - use case агрегирующего поиска мест.
// Оркестрирует: кеш -> параллельный fan-out по провайдерам -> merge/dedup/sort -> запись в кеш.
type SearchUseCase struct {
	providers       []repository.PlaceProvider
	suggestions     repository.SuggestionProvider
	suggestionCache repository.SuggestionCacheRepository
	cacheRepo       repository.SearchCacheRepository
	categories      map[string]domain.CategoryConfig
	logger          *zap.Logger
	cacheTTL        time.Duration
	suggestionTTL   time.Duration
	defaultRadius   int
	maxResults      int
}

// NewSearchUseCase - создание нового SearchUseCase.
// Порядок providers определяет приоритет при дедупликации: при совпадении ID
// выигрывает запись провайдера, стоящего раньше в списке.
func NewSearchUseCase(
	providers []repository.PlaceProvider,
	suggestions repository.SuggestionProvider,
	suggestionCache repository.SuggestionCacheRepository,
	cacheRepo repository.SearchCacheRepository,
	categories map[string]domain.CategoryConfig,
	logger *zap.Logger,
	cacheTTL time.Duration,
	suggestionTTL time.Duration,
	defaultRadius int,
	maxResults int,
) *SearchUseCase {
	return &SearchUseCase{
		providers:       providers,
		suggestions:     suggestions,
		suggestionCache: suggestionCache,
		cacheRepo:       cacheRepo,
		categories:      categories,
		logger:          logger,
		cacheTTL:        cacheTTL,
		suggestionTTL:   suggestionTTL,
		defaultRadius:   defaultRadius,
		maxResults:      maxResults,
	}
}

// cacheKey строит детерминированный ключ кеша по нормализованным параметрам поиска
func cacheKey(query string, lat, lng float64, radius int, category string) string {
	keyString := fmt.Sprintf("%s:%s:%s:%d:%s",
		query,
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lng, 'f', -1, 64),
		radius,
		category,
	)
	sum := md5.Sum([]byte(keyString))
	return hex.EncodeToString(sum[:])
}

// providerResult - вклад одного провайдера в fan-out
type providerResult struct {
	places []domain.Place
	err    error
}

// SearchPlaces - поиск мест с агрегацией по всем провайдерам
func (uc *SearchUseCase) SearchPlaces(ctx context.Context, req dto.SearchRequest) (*dto.SearchResponse, error) {
	// Установка значений по умолчанию
	if req.Radius == 0 {
		req.Radius = uc.defaultRadius
	}

	if !utils.ValidateCoordinates(req.Lat, req.Lng) {
		return nil, errors.ErrInvalidCoordinates
	}
	if !utils.ValidateRadius(req.Radius) {
		return nil, errors.ErrInvalidRadius
	}

	key := cacheKey(req.Query, req.Lat, req.Lng, req.Radius, req.Category)

	// Проверка кеша: ошибка чтения трактуется как промах
	if req.UseCache {
		if places, ok := uc.cacheLookup(ctx, key); ok {
			return &dto.SearchResponse{
				Success:      true,
				Data:         places,
				Cached:       true,
				Source:       "cache",
				TotalResults: len(places),
				Query:        req.Query,
				Coordinates:  domain.Coordinates{Lat: req.Lat, Lng: req.Lng},
				Radius:       req.Radius,
			}, nil
		}
	}

	// Параллельный fan-out по всем провайдерам. Ошибка провайдера никогда
	// не прерывает соседние запросы и не проваливает поиск целиком.
	results := make([]providerResult, len(uc.providers))
	var wg sync.WaitGroup

	for i, provider := range uc.providers {
		wg.Add(1)
		go func(i int, p repository.PlaceProvider) {
			defer wg.Done()
			places, err := p.Search(ctx, req.Query, req.Lat, req.Lng, req.Radius, req.Category)
			results[i] = providerResult{places: places, err: err}
		}(i, provider)
	}
	wg.Wait()

	places := uc.mergeResults(results, req.Lat, req.Lng)

	// Write-through в кеш: неудачная запись деградирует до "fresh, uncached"
	if len(places) > 0 {
		uc.cacheStore(ctx, key, places, req.Category, req.Lat, req.Lng)
	}

	return &dto.SearchResponse{
		Success:      true,
		Data:         places,
		Cached:       false,
		Source:       "api",
		TotalResults: len(places),
		Query:        req.Query,
		Coordinates:  domain.Coordinates{Lat: req.Lat, Lng: req.Lng},
		Radius:       req.Radius,
	}, nil
}

// SearchByCategory - поиск по сконфигурированной категории.
// Неизвестная категория - ошибка пользовательского ввода, а не сбой провайдера.
func (uc *SearchUseCase) SearchByCategory(ctx context.Context, category string, lat, lng float64, radius int) (*dto.SearchResponse, error) {
	categoryConfig, ok := uc.categories[category]
	if !ok {
		return nil, errors.ErrUnknownCategory.WithDetails(map[string]interface{}{
			"category": category,
		})
	}

	searchRadius := radius
	if searchRadius == 0 {
		searchRadius = categoryConfig.Radius
	}

	// Первое ключевое слово категории используется как поисковый запрос
	return uc.SearchPlaces(ctx, dto.SearchRequest{
		Query:    categoryConfig.Keywords[0],
		Lat:      lat,
		Lng:      lng,
		Radius:   searchRadius,
		Category: category,
		UseCache: true,
	})
}

// Autocomplete - подсказки автодополнения. Best-effort: любой сбой
// провайдера или кеша деградирует до пустого списка.
func (uc *SearchUseCase) Autocomplete(ctx context.Context, query string, limit int) []domain.Suggestion {
	if uc.suggestionCache != nil {
		cached, err := uc.suggestionCache.Get(ctx, query, limit)
		if err != nil {
			uc.logger.Warn("Suggestion cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached
		}
	}

	if uc.suggestions == nil {
		return []domain.Suggestion{}
	}

	suggestions, err := uc.suggestions.Suggest(ctx, query, limit)
	if err != nil {
		uc.logger.Warn("Suggestion provider failed",
			zap.String("query", query),
			zap.Error(err))
		return []domain.Suggestion{}
	}

	if uc.suggestionCache != nil {
		if err := uc.suggestionCache.Set(ctx, query, limit, suggestions, uc.suggestionTTL); err != nil {
			uc.logger.Warn("Suggestion cache write failed", zap.Error(err))
		}
	}

	return suggestions
}

// Categories возвращает сконфигурированные категории поиска
func (uc *SearchUseCase) Categories() map[string]domain.CategoryConfig {
	return uc.categories
}

// CacheStats возвращает статистику кеша поиска
func (uc *SearchUseCase) CacheStats(ctx context.Context) (*domain.CacheStats, error) {
	stats, err := uc.cacheRepo.Stats(ctx)
	if err != nil {
		uc.logger.Error("Failed to get cache stats", zap.Error(err))
		return nil, errors.ErrCacheError
	}
	return stats, nil
}

// ClearCache очищает кеш: указанную категорию целиком либо все истёкшие записи
func (uc *SearchUseCase) ClearCache(ctx context.Context, category string) (int64, error) {
	var cleared int64
	var err error

	if category != "" {
		cleared, err = uc.cacheRepo.DeleteCategory(ctx, category)
	} else {
		cleared, err = uc.cacheRepo.DeleteExpired(ctx)
	}

	if err != nil {
		uc.logger.Error("Failed to clear cache",
			zap.String("category", category),
			zap.Error(err))
		return 0, errors.ErrCacheError
	}

	return cleared, nil
}

// cacheLookup читает кеш; возвращает (places, true) только при валидном попадании
func (uc *SearchUseCase) cacheLookup(ctx context.Context, key string) ([]domain.Place, bool) {
	data, err := uc.cacheRepo.Get(ctx, key)
	if err != nil {
		uc.logger.Warn("Cache read failed, falling back to providers", zap.Error(err))
		return nil, false
	}
	if data == nil {
		return nil, false
	}

	var places []domain.Place
	if err := json.Unmarshal(data, &places); err != nil {
		uc.logger.Warn("Corrupted cache entry, falling back to providers",
			zap.String("key", key),
			zap.Error(err))
		return nil, false
	}

	// Закешированное значение возвращается как есть, без повторной обработки
	return places, true
}

// cacheStore сериализует и сохраняет результат; сбой записи только логируется
func (uc *SearchUseCase) cacheStore(ctx context.Context, key string, places []domain.Place, category string, lat, lng float64) {
	data, err := json.Marshal(places)
	if err != nil {
		uc.logger.Error("Failed to marshal places for cache", zap.Error(err))
		return
	}

	location := fmt.Sprintf("%f,%f", lat, lng)
	if err := uc.cacheRepo.Set(ctx, key, data, category, location, uc.cacheTTL); err != nil {
		uc.logger.Warn("Cache write failed, returning fresh result uncached", zap.Error(err))
	}
}

// mergeResults объединяет вклады провайдеров: конкатенация в порядке провайдеров,
// дедупликация по ID (первое вхождение выигрывает), вычисление расстояния,
// сортировка по возрастанию расстояния и усечение до maxResults
func (uc *SearchUseCase) mergeResults(results []providerResult, lat, lng float64) []domain.Place {
	merged := make([]domain.Place, 0)
	seen := make(map[string]struct{})

	for i, result := range results {
		if result.err != nil {
			uc.logger.Warn("Provider search failed, contributing empty result",
				zap.String("provider", uc.providers[i].Name()),
				zap.Error(result.err))
			continue
		}

		for _, place := range result.places {
			if place.ID == "" {
				continue
			}
			if _, ok := seen[place.ID]; ok {
				continue
			}
			seen[place.ID] = struct{}{}

			place.Distance = utils.HaversineDistance(lat, lng, place.Coordinates.Lat, place.Coordinates.Lng)
			merged = append(merged, place)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return sortDistance(merged[i]) < sortDistance(merged[j])
	})

	if len(merged) > uc.maxResults {
		merged = merged[:uc.maxResults]
	}

	return merged
}

// sortDistance трактует невалидное расстояние как +Inf, чтобы такие записи шли последними
func sortDistance(p domain.Place) float64 {
	if p.Distance < 0 || math.IsNaN(p.Distance) {
		return math.Inf(1)
	}
	return p.Distance
}
