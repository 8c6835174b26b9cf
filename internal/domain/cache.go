package domain

import "time"

// CacheEntry - запись в таблице search_cache
type CacheEntry struct {
	ID        int64     `json:"id" db:"id"`
	CacheKey  string    `json:"cache_key" db:"cache_key"`
	Data      []byte    `json:"-" db:"data"`
	Category  string    `json:"category" db:"category"`
	Location  string    `json:"location" db:"location"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}

// CacheStats - статистика кеша поиска
type CacheStats struct {
	TotalEntries   int            `json:"total_entries"`
	ActiveEntries  int            `json:"active_entries"`
	ExpiredEntries int            `json:"expired_entries"`
	CategoryStats  map[string]int `json:"category_stats"`
}
