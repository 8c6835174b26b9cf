package dto

import "github.com/place-search-microservice/internal/domain"

// StatsResponse - статистика кеша и клиента
type StatsResponse struct {
	Success bool                `json:"success"`
	Cache   *domain.CacheStats  `json:"cache"`
	Client  *domain.ClientStats `json:"client"`
}
