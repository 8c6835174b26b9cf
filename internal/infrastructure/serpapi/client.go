package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/place-search-microservice/internal/config"
	"github.com/place-search-microservice/internal/domain"
	"github.com/place-search-microservice/internal/domain/repository"
	"go.uber.org/zap"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	categories map[string]domain.CategoryConfig
	logger     *zap.Logger
}

// NewClient создает провайдер мест на основе SerpAPI (Google Maps engine).
// Провайдер подключается в список только при заданном SERPAPI_KEY.
func NewClient(cfg *config.ProviderConfig, categories map[string]domain.CategoryConfig, logger *zap.Logger) repository.PlaceProvider {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.SerpAPITimeout,
		},
		baseURL:    cfg.SerpAPIURL,
		apiKey:     cfg.SerpAPIKey,
		categories: categories,
		logger:     logger,
	}
}

func (c *client) Name() string {
	return "serpapi"
}

// serpapiResponse - ответ SerpAPI с результатами Google Maps
type serpapiResponse struct {
	PlaceResults []serpapiPlace `json:"place_results"`
}

type serpapiPlace struct {
	PlaceID        string            `json:"place_id"`
	Title          string            `json:"title"`
	Address        string            `json:"address"`
	Phone          string            `json:"phone"`
	Website        string            `json:"website"`
	Rating         float64           `json:"rating"`
	Reviews        int               `json:"reviews"`
	Price          string            `json:"price"`
	OpenState      string            `json:"open_state"`
	GPSCoordinates *serpapiGPSCoords `json:"gps_coordinates"`
}

type serpapiGPSCoords struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Search ищет места через SerpAPI google_maps engine
func (c *client) Search(ctx context.Context, query string, lat, lng float64, radiusKm int, category string) ([]domain.Place, error) {
	// Для известной категории Google Maps ищется по её первому ключевому слову,
	// а не по исходному запросу - ключевые слова дают более точную выдачу
	searchQuery := query
	if category != "" {
		if cfg, ok := c.categories[category]; ok && len(cfg.Keywords) > 0 {
			searchQuery = cfg.Keywords[0]
		}
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("engine", "google_maps")
	params.Set("q", searchQuery)
	params.Set("ll", fmt.Sprintf("@%f,%f,%dkm", lat, lng, radiusKm))
	params.Set("type", "search")

	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("SerpAPI returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("serpapi error: status %d", resp.StatusCode)
	}

	var serpResp serpapiResponse
	if err := json.NewDecoder(resp.Body).Decode(&serpResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	places := c.normalize(serpResp.PlaceResults)

	c.logger.Debug("SerpAPI search completed",
		zap.String("query", query),
		zap.Int("places", len(places)))

	return places, nil
}

// normalize преобразует результаты SerpAPI в domain.Place,
// пропуская записи без координат
func (c *client) normalize(results []serpapiPlace) []domain.Place {
	places := make([]domain.Place, 0, len(results))

	for _, result := range results {
		if result.GPSCoordinates == nil {
			continue
		}

		place := domain.Place{
			ID:      fmt.Sprintf("serpapi_%s", result.PlaceID),
			Name:    result.Title,
			Address: result.Address,
			Coordinates: domain.Coordinates{
				Lat: result.GPSCoordinates.Latitude,
				Lng: result.GPSCoordinates.Longitude,
			},
			Source: c.Name(),
		}

		if result.Phone != "" {
			phone := result.Phone
			place.Phone = &phone
		}
		if result.Website != "" {
			website := result.Website
			place.Website = &website
		}
		if result.Rating > 0 {
			rating := result.Rating
			place.Rating = &rating
		}
		if result.Reviews > 0 {
			reviews := result.Reviews
			place.Reviews = &reviews
		}
		if result.Price != "" {
			price := result.Price
			place.Price = &price
		}
		if result.OpenState != "" {
			openState := result.OpenState
			place.OpenState = &openState
		}

		places = append(places, place)
	}

	return places
}
