package middleware_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/place-search-microservice/internal/delivery/http/middleware"
	"github.com/place-search-microservice/internal/usecase"
)

// stubRateLimitRepo - журнал в памяти, достаточный для admission
type stubRateLimitRepo struct {
	err error
}

func (s *stubRateLimitRepo) Record(ctx context.Context, clientID, endpoint string, at time.Time) error {
	return s.err
}

func (s *stubRateLimitRepo) CountSince(ctx context.Context, clientID, endpoint string, since time.Time) (int, error) {
	return 0, s.err
}

func (s *stubRateLimitRepo) CountAllSince(ctx context.Context, clientID string, since time.Time) (int, error) {
	return 0, s.err
}

func (s *stubRateLimitRepo) CountByEndpointSince(ctx context.Context, clientID string, since time.Time) (map[string]int, error) {
	return map[string]int{}, s.err
}

func (s *stubRateLimitRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, s.err
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("allows requests under the limit", func(t *testing.T) {
		logger := zap.NewNop()
		rateLimitUC := usecase.NewRateLimitUseCase(&stubRateLimitRepo{}, logger, 2, 1000)

		app := fiber.New()
		app.Get("/search",
			middleware.RateLimit(rateLimitUC, "search", logger),
			func(c *fiber.Ctx) error {
				decision := middleware.DecisionFromCtx(c)
				require.NotNil(t, decision)
				return c.JSON(fiber.Map{"remaining": decision.Remaining})
			})

		req := httptest.NewRequest("GET", "/search", nil)
		req.Header.Set("X-Client-ID", "tester")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body map[string]int
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 1, body["remaining"])
	})

	t.Run("rejects over limit with structured payload", func(t *testing.T) {
		logger := zap.NewNop()
		rateLimitUC := usecase.NewRateLimitUseCase(&stubRateLimitRepo{}, logger, 1, 1000)

		app := fiber.New()
		app.Get("/search",
			middleware.RateLimit(rateLimitUC, "search", logger),
			func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})

		first := httptest.NewRequest("GET", "/search", nil)
		first.Header.Set("X-Client-ID", "tester")
		resp, err := app.Test(first)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		second := httptest.NewRequest("GET", "/search", nil)
		second.Header.Set("X-Client-ID", "tester")
		resp, err = app.Test(second)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

		var body struct {
			Error      string `json:"error"`
			RetryAfter int    `json:"retry_after"`
			Limit      int    `json:"limit"`
		}
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "Rate limit exceeded", body.Error)
		assert.Greater(t, body.RetryAfter, 0)
		assert.Equal(t, 1, body.Limit)
	})

	t.Run("clients are isolated", func(t *testing.T) {
		logger := zap.NewNop()
		rateLimitUC := usecase.NewRateLimitUseCase(&stubRateLimitRepo{}, logger, 1, 1000)

		app := fiber.New()
		app.Get("/search",
			middleware.RateLimit(rateLimitUC, "search", logger),
			func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})

		first := httptest.NewRequest("GET", "/search", nil)
		first.Header.Set("X-Client-ID", "client_a")
		resp, err := app.Test(first)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		other := httptest.NewRequest("GET", "/search", nil)
		other.Header.Set("X-Client-ID", "client_b")
		resp, err = app.Test(other)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
