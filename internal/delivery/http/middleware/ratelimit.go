package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/place-search-microservice/internal/domain"
	"github.com/place-search-microservice/internal/pkg/errors"
	"github.com/place-search-microservice/internal/usecase"
)

const rateLimitKey = "rate_limit"

// ClientID извлекает идентификатор клиента запроса:
// заголовок X-Client-ID, иначе IP
func ClientID(c *fiber.Ctx) string {
	if clientID := c.Get("X-Client-ID"); clientID != "" {
		return clientID
	}
	return fmt.Sprintf("client_%s", c.IP())
}

// RateLimit - admission control перед обработкой запроса.
// Отказ - ожидаемый исход с machine-readable подсказкой, а не ошибка сервера.
func RateLimit(rateLimitUC *usecase.RateLimitUseCase, endpoint string, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID := ClientID(c)

		decision, err := rateLimitUC.Allow(c.Context(), clientID, endpoint)
		if err != nil {
			logger.Error("Rate limit check failed", zap.Error(err))
			// Fail-open: сбой admission control не блокирует запрос
			return c.Next()
		}

		if !decision.Allowed {
			return c.Status(errors.ErrRateLimitExceeded.StatusCode).JSON(fiber.Map{
				"error":       errors.ErrRateLimitExceeded.Message,
				"retry_after": decision.RetryAfter,
				"limit":       decision.Limit,
			})
		}

		c.Locals(rateLimitKey, decision)
		return c.Next()
	}
}

// DecisionFromCtx возвращает решение rate limiter'а для текущего запроса
func DecisionFromCtx(c *fiber.Ctx) *domain.RateLimitDecision {
	if decision, ok := c.Locals(rateLimitKey).(*domain.RateLimitDecision); ok {
		return decision
	}
	return nil
}
