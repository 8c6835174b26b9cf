package domain

// RateLimitDecision - решение rate limiter'а по одному запросу
type RateLimitDecision struct {
	Allowed    bool `json:"allowed"`
	RetryAfter int  `json:"retry_after"` // секунды до следующей попытки, 0 если allowed
	Limit      int  `json:"limit"`
	Remaining  int  `json:"remaining"`
}

// ClientStats - агрегированная статистика запросов клиента из журнала rate_limits.
// Чтение статистики не влияет на состояние admission control.
type ClientStats struct {
	ClientID        string         `json:"client_id"`
	HourlyRequests  int            `json:"hourly_requests"`
	MinuteRequests  int            `json:"minute_requests"`
	HourlyLimit     int            `json:"hourly_limit"`
	MinuteLimit     int            `json:"minute_limit"`
	EndpointStats   map[string]int `json:"endpoint_stats"`
	HourlyRemaining int            `json:"hourly_remaining"`
	MinuteRemaining int            `json:"minute_remaining"`
}

// ResultStats - сводная статистика по списку найденных мест
type ResultStats struct {
	Total       int            `json:"total"`
	AvgDistance float64        `json:"avg_distance"`
	AvgRating   float64        `json:"avg_rating"`
	MinDistance float64        `json:"min_distance"`
	MaxDistance float64        `json:"max_distance"`
	Categories  map[string]int `json:"categories"`
	Sources     map[string]int `json:"sources"`
}
