package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/place-search-microservice/internal/domain"
	"github.com/place-search-microservice/internal/usecase"
)

func ptr[T any](v T) *T {
	return &v
}

func testPlaces() []domain.Place {
	return []domain.Place{
		{
			ID:       "osm_1",
			Name:     "Posto Shell",
			Address:  "Av. Paulista, 100",
			Distance: 0.5,
			Rating:   ptr(4.5),
			Reviews:  ptr(120),
			Price:    ptr("$$"),
			Source:   "openstreetmap",
		},
		{
			ID:        "serpapi_2",
			Name:      "Restaurante Bom Sabor",
			Address:   "Rua Augusta, 200",
			Distance:  2.3,
			Rating:    ptr(3.8),
			Reviews:   ptr(45),
			Price:     ptr("$"),
			OpenState: ptr("Open now"),
			Source:    "serpapi",
		},
		{
			ID:        "osm_3",
			Name:      "Hotel Central",
			Address:   "Praça da Sé, 1",
			Distance:  5.1,
			OpenState: ptr("Closed"),
			Source:    "openstreetmap",
		},
	}
}

func TestSearchFilters_Apply(t *testing.T) {
	filters := usecase.NewSearchFilters(map[string]domain.CategoryConfig{
		"restaurante": {Keywords: []string{"restaurante", "comida"}, Radius: 5, Priority: 4},
	})

	t.Run("distance filter keeps places within max distance", func(t *testing.T) {
		result := filters.Apply(testPlaces(), []usecase.FilterParam{
			{Name: "distance", Value: 3.0},
		})

		assert.Len(t, result, 2)
		for _, p := range result {
			assert.LessOrEqual(t, p.Distance, 3.0)
		}
	})

	t.Run("rating filter drops unrated places", func(t *testing.T) {
		result := filters.Apply(testPlaces(), []usecase.FilterParam{
			{Name: "rating", Value: 4.0},
		})

		assert.Len(t, result, 1)
		assert.Equal(t, "osm_1", result[0].ID)
	})

	t.Run("open_now true keeps only open places", func(t *testing.T) {
		result := filters.Apply(testPlaces(), []usecase.FilterParam{
			{Name: "open_now", Value: true},
		})

		assert.Len(t, result, 1)
		assert.Equal(t, "serpapi_2", result[0].ID)
	})

	t.Run("open_now false is a no-op", func(t *testing.T) {
		result := filters.Apply(testPlaces(), []usecase.FilterParam{
			{Name: "open_now", Value: false},
		})

		assert.Len(t, result, 3)
	})

	t.Run("category filter matches keywords in name", func(t *testing.T) {
		result := filters.Apply(testPlaces(), []usecase.FilterParam{
			{Name: "category", Value: "restaurante"},
		})

		assert.Len(t, result, 1)
		assert.Equal(t, "serpapi_2", result[0].ID)
	})

	t.Run("unknown category is a no-op", func(t *testing.T) {
		result := filters.Apply(testPlaces(), []usecase.FilterParam{
			{Name: "category", Value: "padaria"},
		})

		assert.Len(t, result, 3)
	})

	t.Run("source filter keeps listed sources", func(t *testing.T) {
		result := filters.Apply(testPlaces(), []usecase.FilterParam{
			{Name: "source", Value: []string{"serpapi"}},
		})

		assert.Len(t, result, 1)
		assert.Equal(t, "serpapi", result[0].Source)
	})

	t.Run("filters compose in caller order", func(t *testing.T) {
		result := filters.Apply(testPlaces(), []usecase.FilterParam{
			{Name: "distance", Value: 3.0},
			{Name: "rating", Value: 3.0},
		})

		assert.Len(t, result, 2)
	})

	t.Run("unknown filter name is ignored", func(t *testing.T) {
		result := filters.Apply(testPlaces(), []usecase.FilterParam{
			{Name: "nonexistent", Value: 1},
		})

		assert.Len(t, result, 3)
	})

	t.Run("wrong value type is a no-op", func(t *testing.T) {
		result := filters.Apply(testPlaces(), []usecase.FilterParam{
			{Name: "distance", Value: "not a number"},
		})

		assert.Len(t, result, 3)
	})

	t.Run("input slice is not mutated", func(t *testing.T) {
		input := testPlaces()
		filters.Apply(input, []usecase.FilterParam{
			{Name: "distance", Value: 1.0},
		})

		assert.Len(t, input, 3)
	})
}

func TestSearchFilters_Register(t *testing.T) {
	filters := usecase.NewSearchFilters(nil)

	filters.Register("has_phone", func(places []domain.Place, value interface{}) []domain.Place {
		result := make([]domain.Place, 0, len(places))
		for _, p := range places {
			if p.Phone != nil {
				result = append(result, p)
			}
		}
		return result
	})

	places := []domain.Place{
		{ID: "osm_1", Phone: ptr("+55 11 1234-5678")},
		{ID: "osm_2"},
	}

	result := filters.Apply(places, []usecase.FilterParam{
		{Name: "has_phone", Value: true},
	})

	assert.Len(t, result, 1)
	assert.Equal(t, "osm_1", result[0].ID)
	assert.Contains(t, filters.Available(), "has_phone")
}
