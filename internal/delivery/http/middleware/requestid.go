package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID - middleware, помечающее каждый запрос уникальным идентификатором.
// Входящий X-Request-ID сохраняется, отсутствующий - генерируется.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Locals(requestIDKey, requestID)
		c.Set(requestIDHeader, requestID)

		return c.Next()
	}
}

// RequestIDFromCtx возвращает идентификатор текущего запроса
func RequestIDFromCtx(c *fiber.Ctx) string {
	if requestID, ok := c.Locals(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}
