package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/place-search-microservice/internal/domain"
	"github.com/place-search-microservice/internal/usecase"
)

func TestSortByDistance(t *testing.T) {
	places := []domain.Place{
		{ID: "b", Distance: 3.2},
		{ID: "a", Distance: 1.1},
		{ID: "c", Distance: 7.5},
	}

	asc := usecase.SortByDistance(places, false)
	assert.Equal(t, []string{"a", "b", "c"}, ids(asc))

	desc := usecase.SortByDistance(places, true)
	assert.Equal(t, []string{"c", "b", "a"}, ids(desc))

	// Вход не мутируется
	assert.Equal(t, "b", places[0].ID)
}

func TestSortByRating(t *testing.T) {
	places := []domain.Place{
		{ID: "unrated"},
		{ID: "best", Rating: ptr(4.8)},
		{ID: "ok", Rating: ptr(3.1)},
	}

	best := usecase.SortByRating(places, false)
	assert.Equal(t, []string{"best", "ok", "unrated"}, ids(best))

	worst := usecase.SortByRating(places, true)
	assert.Equal(t, "unrated", worst[0].ID)
}

func TestSortByReviews(t *testing.T) {
	places := []domain.Place{
		{ID: "few", Reviews: ptr(3)},
		{ID: "many", Reviews: ptr(250)},
		{ID: "none"},
	}

	popular := usecase.SortByReviews(places, false)
	assert.Equal(t, []string{"many", "few", "none"}, ids(popular))
}

func TestSortByName(t *testing.T) {
	places := []domain.Place{
		{ID: "2", Name: "padaria central"},
		{ID: "1", Name: "Açougue do Zé"},
		{ID: "3", Name: "Farmácia Popular"},
	}

	sorted := usecase.SortByName(places, false)
	require.Len(t, sorted, 3)
	// Сравнение без учёта регистра
	assert.Equal(t, "Farmácia Popular", sorted[0].Name)
	assert.Equal(t, "padaria central", sorted[1].Name)
}

func TestSortByCategoryPriority(t *testing.T) {
	priorities := map[string]int{
		"gasolina":    1,
		"restaurante": 4,
	}

	places := []domain.Place{
		{ID: "food", Category: ptr("restaurante")},
		{ID: "nocat"},
		{ID: "fuel", Category: ptr("gasolina")},
		{ID: "unknown", Category: ptr("padaria")},
	}

	sorted := usecase.SortByCategoryPriority(places, priorities)

	assert.Equal(t, "fuel", sorted[0].ID)
	assert.Equal(t, "food", sorted[1].ID)
	// Места без категории и с неизвестной категорией идут последними,
	// сохраняя исходный относительный порядок
	assert.Equal(t, "nocat", sorted[2].ID)
	assert.Equal(t, "unknown", sorted[3].ID)
}

func TestMultiSort(t *testing.T) {
	places := []domain.Place{
		{ID: "far_good", Distance: 5.0, Rating: ptr(4.9)},
		{ID: "near_bad", Distance: 1.0, Rating: ptr(2.0)},
		{ID: "near_good", Distance: 1.0, Rating: ptr(4.5)},
	}

	sorted := usecase.MultiSort(places, []usecase.SortCriterion{
		{Field: "distance"},
		{Field: "rating", Descending: true},
	})

	assert.Equal(t, []string{"near_good", "near_bad", "far_good"}, ids(sorted))

	t.Run("unknown field keeps original order", func(t *testing.T) {
		sorted := usecase.MultiSort(places, []usecase.SortCriterion{
			{Field: "popularity"},
		})
		assert.Equal(t, ids(places), ids(sorted))
	})
}

func ids(places []domain.Place) []string {
	result := make([]string, len(places))
	for i, p := range places {
		result[i] = p.ID
	}
	return result
}
