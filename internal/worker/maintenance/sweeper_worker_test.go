package maintenance_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/place-search-microservice/internal/domain"
	"github.com/place-search-microservice/internal/usecase"
	"github.com/place-search-microservice/internal/worker/maintenance"
)

// countingCacheRepo считает вызовы DeleteExpired
type countingCacheRepo struct {
	deleteExpiredCalls atomic.Int64
}

func (c *countingCacheRepo) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, nil
}

func (c *countingCacheRepo) Set(ctx context.Context, key string, data []byte, category, location string, ttl time.Duration) error {
	return nil
}

func (c *countingCacheRepo) DeleteExpired(ctx context.Context) (int64, error) {
	c.deleteExpiredCalls.Add(1)
	return 2, nil
}

func (c *countingCacheRepo) DeleteCategory(ctx context.Context, category string) (int64, error) {
	return 0, nil
}

func (c *countingCacheRepo) Stats(ctx context.Context) (*domain.CacheStats, error) {
	return &domain.CacheStats{}, nil
}

// countingRateRepo считает вызовы DeleteOlderThan
type countingRateRepo struct {
	deleteCalls atomic.Int64
}

func (c *countingRateRepo) Record(ctx context.Context, clientID, endpoint string, at time.Time) error {
	return nil
}

func (c *countingRateRepo) CountSince(ctx context.Context, clientID, endpoint string, since time.Time) (int, error) {
	return 0, nil
}

func (c *countingRateRepo) CountAllSince(ctx context.Context, clientID string, since time.Time) (int, error) {
	return 0, nil
}

func (c *countingRateRepo) CountByEndpointSince(ctx context.Context, clientID string, since time.Time) (map[string]int, error) {
	return map[string]int{}, nil
}

func (c *countingRateRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	c.deleteCalls.Add(1)
	return 3, nil
}

func TestSweeperWorker(t *testing.T) {
	logger := zap.NewNop()

	t.Run("sweeps on start and on every tick", func(t *testing.T) {
		cacheRepo := &countingCacheRepo{}
		rateRepo := &countingRateRepo{}
		rateLimitUC := usecase.NewRateLimitUseCase(rateRepo, logger, 60, 1000)

		sweeper := maintenance.NewSweeperWorker(cacheRepo, rateLimitUC, 20*time.Millisecond, 24*time.Hour, logger)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := make(chan error, 1)
		go func() {
			done <- sweeper.Start(ctx)
		}()

		time.Sleep(70 * time.Millisecond)
		require.NoError(t, sweeper.Stop())

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("worker did not stop")
		}

		// Один проход при старте плюс минимум два тика
		assert.GreaterOrEqual(t, cacheRepo.deleteExpiredCalls.Load(), int64(3))
		assert.GreaterOrEqual(t, rateRepo.deleteCalls.Load(), int64(3))
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		cacheRepo := &countingCacheRepo{}
		rateRepo := &countingRateRepo{}
		rateLimitUC := usecase.NewRateLimitUseCase(rateRepo, logger, 60, 1000)

		sweeper := maintenance.NewSweeperWorker(cacheRepo, rateLimitUC, time.Hour, 24*time.Hour, logger)

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- sweeper.Start(ctx)
		}()

		cancel()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("worker did not stop on context cancellation")
		}
	})
}
