package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	t.Run("zero distance for identical points", func(t *testing.T) {
		assert.Equal(t, 0.0, HaversineDistance(-23.5505, -46.6333, -23.5505, -46.6333))
	})

	t.Run("known distance Sao Paulo to Rio", func(t *testing.T) {
		distance := HaversineDistance(-23.5505, -46.6333, -22.9068, -43.1729)
		assert.InDelta(t, 360.75, distance, 0.01)
	})

	t.Run("symmetric", func(t *testing.T) {
		ab := HaversineDistance(-23.5505, -46.6333, -22.9068, -43.1729)
		ba := HaversineDistance(-22.9068, -43.1729, -23.5505, -46.6333)
		assert.Equal(t, ab, ba)
	})

	t.Run("rounded to 2 decimal places", func(t *testing.T) {
		distance := HaversineDistance(-23.5505, -46.6333, -23.5600, -46.6400)
		assert.Equal(t, Round2(distance), distance)
	})
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.2345))
	assert.Equal(t, 1.24, Round2(1.235))
	assert.Equal(t, 0.0, Round2(0.001))
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, ValidateCoordinates(0, 0))
	assert.True(t, ValidateCoordinates(-90, -180))
	assert.True(t, ValidateCoordinates(90, 180))
	assert.False(t, ValidateCoordinates(90.1, 0))
	assert.False(t, ValidateCoordinates(-90.1, 0))
	assert.False(t, ValidateCoordinates(0, 180.1))
	assert.False(t, ValidateCoordinates(0, -180.1))
}

func TestValidateRadius(t *testing.T) {
	assert.True(t, ValidateRadius(1))
	assert.True(t, ValidateRadius(50))
	assert.False(t, ValidateRadius(0))
	assert.False(t, ValidateRadius(51))
	assert.False(t, ValidateRadius(-5))
}
