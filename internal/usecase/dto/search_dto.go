package dto

import "github.com/place-search-microservice/internal/domain"

// SearchRequest - нормализованный запрос поиска мест
type SearchRequest struct {
	Query    string  `json:"query" validate:"required,min=1"`
	Lat      float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng      float64 `json:"lng" validate:"gte=-180,lte=180"`
	Radius   int     `json:"radius" validate:"gte=1,lte=50"`
	Category string  `json:"category"`
	UseCache bool    `json:"use_cache"`
}

// SearchResponse - результат поиска мест
type SearchResponse struct {
	Success      bool               `json:"success"`
	Data         []domain.Place     `json:"data"`
	Cached       bool               `json:"cached"`
	Source       string             `json:"source"`
	TotalResults int                `json:"total_results"`
	Query        string             `json:"query"`
	Coordinates  domain.Coordinates `json:"coordinates"`
	Radius       int                `json:"radius"`
	RateLimit    *RateLimitInfo     `json:"rate_limit,omitempty"`
}

// RateLimitInfo - информация о лимитах, прикладываемая к успешному ответу
type RateLimitInfo struct {
	Remaining int `json:"remaining"`
	Limit     int `json:"limit"`
}

// AutocompleteResponse - результат автодополнения
type AutocompleteResponse struct {
	Success     bool                `json:"success"`
	Suggestions []domain.Suggestion `json:"suggestions"`
	Query       string              `json:"query"`
	RateLimit   *RateLimitInfo      `json:"rate_limit,omitempty"`
}

// CategoriesResponse - сконфигурированные категории поиска
type CategoriesResponse struct {
	Success    bool                             `json:"success"`
	Categories map[string]domain.CategoryConfig `json:"categories"`
}

// CacheClearResponse - результат очистки кеша
type CacheClearResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	ClearedEntries int64  `json:"cleared_entries"`
}
