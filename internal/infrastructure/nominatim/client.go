package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/place-search-microservice/internal/config"
	"github.com/place-search-microservice/internal/domain"
	"github.com/place-search-microservice/internal/domain/repository"
	"go.uber.org/zap"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient создает клиент Nominatim (подсказки автодополнения и геокодирование)
func NewClient(cfg *config.ProviderConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.NominatimTimeout,
		},
		baseURL: cfg.NominatimURL,
		logger:  logger,
	}
}

var _ repository.SuggestionProvider = (*Client)(nil)

// nominatimResult - один результат поиска Nominatim
type nominatimResult struct {
	DisplayName string  `json:"display_name"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	Type        string  `json:"type"`
	Importance  float64 `json:"importance"`
}

// Suggest возвращает подсказки автодополнения по запросу
func (c *Client) Suggest(ctx context.Context, query string, limit int) ([]domain.Suggestion, error) {
	results, err := c.search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	suggestions := make([]domain.Suggestion, 0, len(results))
	for _, result := range results {
		lat, err := strconv.ParseFloat(result.Lat, 64)
		if err != nil {
			continue
		}
		lng, err := strconv.ParseFloat(result.Lon, 64)
		if err != nil {
			continue
		}

		suggestions = append(suggestions, domain.Suggestion{
			DisplayName: result.DisplayName,
			Coordinates: domain.Coordinates{Lat: lat, Lng: lng},
			Type:        result.Type,
			Importance:  result.Importance,
		})
	}

	return suggestions, nil
}

// Geocode преобразует адрес в координаты. Возвращает (nil, nil), если адрес не найден.
func (c *Client) Geocode(ctx context.Context, address string) (*domain.Coordinates, error) {
	results, err := c.search(ctx, address, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in response: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in response: %w", err)
	}

	return &domain.Coordinates{Lat: lat, Lng: lng}, nil
}

func (c *Client) search(ctx context.Context, query string, limit int) ([]nominatimResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("countrycodes", "br") // Priorizar Brasil
	params.Set("addressdetails", "1")

	reqURL := c.baseURL + "/search?" + params.Encode()

	c.logger.Debug("Calling Nominatim API",
		zap.String("query", query),
		zap.Int("limit", limit))

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
		c.logger.Error("Nominatim API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("nominatim API error: status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return results, nil
}
