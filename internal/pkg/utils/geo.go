package utils

import "math"

const earthRadiusKm = 6371.0

// HaversineDistance вычисляет расстояние между двумя точками в километрах,
// округлённое до 2 знаков после запятой
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLng := (lng2 - lng1) * math.Pi / 180.0

	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return Round2(earthRadiusKm * c)
}

// Round2 округляет до 2 знаков после запятой
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// ValidateRadius проверяет валидность радиуса поиска (1 - 50 км)
func ValidateRadius(radiusKm int) bool {
	return radiusKm >= 1 && radiusKm <= 50
}
