package domain

// Coordinates - географические координаты точки
type Coordinates struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// Place представляет найденное место (точку интереса)
// ID глобально уникален и имеет префикс провайдера: "osm_42", "serpapi_ChIJ..."
type Place struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Coordinates Coordinates `json:"coordinates"`
	Distance    float64     `json:"distance"` // км от точки запроса, округлено до 2 знаков
	Phone       *string     `json:"phone,omitempty"`
	Website     *string     `json:"website,omitempty"`
	Rating      *float64    `json:"rating,omitempty"`
	Reviews     *int        `json:"reviews,omitempty"`
	Price       *string     `json:"price,omitempty"`
	OpenState   *string     `json:"open_state,omitempty"`
	Source      string      `json:"source"`
	Category    *string     `json:"category,omitempty"`
}

// Suggestion - подсказка автодополнения от провайдера геокодирования
type Suggestion struct {
	DisplayName string      `json:"display_name"`
	Coordinates Coordinates `json:"coordinates"`
	Type        string      `json:"type"`
	Importance  float64     `json:"importance"`
}

// CategoryConfig - конфигурация категории поиска
type CategoryConfig struct {
	Keywords []string `json:"keywords"`
	Radius   int      `json:"radius"`
	Priority int      `json:"priority"`
}

// UnlistedCategoryPriority - приоритет для категорий, отсутствующих в конфигурации.
// Такие категории всегда сортируются последними.
const UnlistedCategoryPriority = 999
