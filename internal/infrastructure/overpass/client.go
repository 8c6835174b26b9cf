package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/place-search-microservice/internal/config"
	"github.com/place-search-microservice/internal/domain"
	"github.com/place-search-microservice/internal/domain/repository"
	"go.uber.org/zap"
)

// amenityFilter - типы amenity, которые запрашиваются у Overpass
const amenityFilter = "^(restaurant|fuel|pharmacy|hospital|police|hotel)$"

type client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient создает провайдер мест на основе Overpass API (OpenStreetMap)
func NewClient(cfg *config.ProviderConfig, logger *zap.Logger) repository.PlaceProvider {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.OverpassTimeout,
		},
		baseURL: cfg.OverpassURL,
		logger:  logger,
	}
}

func (c *client) Name() string {
	return "openstreetmap"
}

// overpassResponse - ответ Overpass API
type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *overpassCenter   `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Search ищет места вокруг точки через Overpass QL
func (c *client) Search(ctx context.Context, query string, lat, lng float64, radiusKm int, category string) ([]domain.Place, error) {
	radiusM := radiusKm * 1000
	overpassQuery := fmt.Sprintf(`
[out:json][timeout:25];
(
  node["amenity"~"%[1]s"](around:%[2]d,%[3]f,%[4]f);
  way["amenity"~"%[1]s"](around:%[2]d,%[3]f,%[4]f);
  relation["amenity"~"%[1]s"](around:%[2]d,%[3]f,%[4]f);
);
out center;
`, amenityFilter, radiusM, lat, lng)

	c.logger.Debug("Calling Overpass API",
		zap.Float64("lat", lat),
		zap.Float64("lng", lng),
		zap.Int("radius_km", radiusKm))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(overpassQuery))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Overpass API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("overpass API error: status %d", resp.StatusCode)
	}

	var overpassResp overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&overpassResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	places := c.normalize(overpassResp.Elements, query)

	c.logger.Debug("Overpass search completed",
		zap.Int("elements", len(overpassResp.Elements)),
		zap.Int("places", len(places)))

	return places, nil
}

// normalize преобразует элементы OSM в domain.Place.
// Элементы без имени или координат пропускаются; при заданном query
// оставляются только места, в названии которых он встречается.
func (c *client) normalize(elements []overpassElement, query string) []domain.Place {
	queryLower := strings.ToLower(query)
	places := make([]domain.Place, 0, len(elements))

	for _, element := range elements {
		if element.Tags == nil {
			continue
		}

		var coords domain.Coordinates
		switch {
		case element.Type == "node":
			coords = domain.Coordinates{Lat: element.Lat, Lng: element.Lon}
		case element.Center != nil:
			coords = domain.Coordinates{Lat: element.Center.Lat, Lng: element.Center.Lon}
		default:
			continue
		}

		name := element.Tags["name"]
		if name == "" {
			name = "Sem nome"
		}

		if query != "" && !strings.Contains(strings.ToLower(name), queryLower) {
			continue
		}

		place := domain.Place{
			ID:          fmt.Sprintf("osm_%d", element.ID),
			Name:        name,
			Address:     element.Tags["addr:full"],
			Coordinates: coords,
			Source:      c.Name(),
		}

		if phone := element.Tags["phone"]; phone != "" {
			place.Phone = &phone
		}
		if website := element.Tags["website"]; website != "" {
			place.Website = &website
		}
		if hours := element.Tags["opening_hours"]; hours != "" {
			place.OpenState = &hours
		}

		places = append(places, place)
	}

	return places
}
