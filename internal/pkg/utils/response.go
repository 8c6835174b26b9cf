package utils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/go-playground/validator/v10"

	"github.com/place-search-microservice/internal/pkg/errors"
)

type ErrorResponse struct {
	Success bool             `json:"success"`
	Error   *errors.AppError `json:"error"`
}

func SendError(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*errors.AppError); ok {
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Success: false,
			Error:   appErr,
		})
	}

	// Ошибки валидации входных параметров - это 400, а не сбой сервера
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		details := make(map[string]interface{}, len(validationErrs))
		for _, fieldErr := range validationErrs {
			details[fieldErr.Field()] = fieldErr.Tag()
		}
		return c.Status(errors.ErrInvalidRequest.StatusCode).JSON(ErrorResponse{
			Success: false,
			Error:   errors.ErrInvalidRequest.WithDetails(details),
		})
	}

	// Unknown error - return 500
	return c.Status(500).JSON(ErrorResponse{
		Success: false,
		Error:   errors.ErrInternalServer,
	})
}
