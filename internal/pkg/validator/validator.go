package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate - валидация DTO по struct-тегам (параметры поиска, автодополнения)
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator - доступ к валидатору для регистрации кастомных правил
func GetValidator() *validator.Validate {
	return validate
}
