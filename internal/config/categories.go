package config

import "github.com/place-search-microservice/internal/domain"

// Categories - конфигурация категорий поиска.
// Ключевые слова на португальском: основная аудитория сервиса - мотоциклисты в Бразилии.
var Categories = map[string]domain.CategoryConfig{
	"gasolina": {
		Keywords: []string{"posto de gasolina", "gasolina", "combustível"},
		Radius:   5,
		Priority: 1,
	},
	"hospedagem": {
		Keywords: []string{"hotel", "pousada", "camping", "hospedagem"},
		Radius:   10,
		Priority: 2,
	},
	"oficina": {
		Keywords: []string{"oficina mecânica", "mecânica", "oficina moto"},
		Radius:   5,
		Priority: 1,
	},
	"restaurante": {
		Keywords: []string{"restaurante", "lanchonete", "comida"},
		Radius:   3,
		Priority: 3,
	},
	"farmacia": {
		Keywords: []string{"farmácia", "drogaria", "medicamento"},
		Radius:   3,
		Priority: 2,
	},
	"hospital": {
		Keywords: []string{"hospital", "pronto socorro", "emergência"},
		Radius:   10,
		Priority: 1,
	},
	"policia": {
		Keywords: []string{"polícia", "delegacia", "segurança"},
		Radius:   10,
		Priority: 1,
	},
}
