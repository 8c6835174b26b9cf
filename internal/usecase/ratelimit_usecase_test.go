package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockRateLimitRepository is a mock of RateLimitRepository
type mockRateLimitRepository struct {
	mock.Mock
}

func (m *mockRateLimitRepository) Record(ctx context.Context, clientID, endpoint string, at time.Time) error {
	args := m.Called(ctx, clientID, endpoint, at)
	return args.Error(0)
}

func (m *mockRateLimitRepository) CountSince(ctx context.Context, clientID, endpoint string, since time.Time) (int, error) {
	args := m.Called(ctx, clientID, endpoint, since)
	return args.Int(0), args.Error(1)
}

func (m *mockRateLimitRepository) CountAllSince(ctx context.Context, clientID string, since time.Time) (int, error) {
	args := m.Called(ctx, clientID, since)
	return args.Int(0), args.Error(1)
}

func (m *mockRateLimitRepository) CountByEndpointSince(ctx context.Context, clientID string, since time.Time) (map[string]int, error) {
	args := m.Called(ctx, clientID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *mockRateLimitRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// fakeClock - управляемое время для детерминированных окон
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestRateLimiter(repo *mockRateLimitRepository, minuteLimit, hourLimit int) (*RateLimitUseCase, *fakeClock) {
	uc := NewRateLimitUseCase(repo, zap.NewNop(), minuteLimit, hourLimit)
	clock := &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	uc.now = clock.Now
	return uc, clock
}

func TestRateLimitUseCase_Allow(t *testing.T) {
	ctx := context.Background()

	t.Run("admits up to minute limit with decreasing remaining", func(t *testing.T) {
		repo := &mockRateLimitRepository{}
		repo.On("CountSince", ctx, "client_1", "search", mock.AnythingOfType("time.Time")).Return(0, nil)
		repo.On("Record", ctx, "client_1", "search", mock.AnythingOfType("time.Time")).Return(nil)

		uc, _ := newTestRateLimiter(repo, 3, 100)

		for i, wantRemaining := range []int{2, 1, 0} {
			decision, err := uc.Allow(ctx, "client_1", "search")
			require.NoError(t, err, "request %d", i+1)
			assert.True(t, decision.Allowed)
			assert.Equal(t, 3, decision.Limit)
			assert.Equal(t, wantRemaining, decision.Remaining)
		}
	})

	t.Run("rejects request over minute limit with retry hint", func(t *testing.T) {
		repo := &mockRateLimitRepository{}
		repo.On("CountSince", ctx, "client_1", "search", mock.AnythingOfType("time.Time")).Return(0, nil)
		repo.On("Record", ctx, "client_1", "search", mock.AnythingOfType("time.Time")).Return(nil)

		uc, clock := newTestRateLimiter(repo, 3, 100)

		for i := 0; i < 3; i++ {
			_, err := uc.Allow(ctx, "client_1", "search")
			require.NoError(t, err)
			clock.Advance(time.Second)
		}

		decision, err := uc.Allow(ctx, "client_1", "search")
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, 0, decision.Remaining)
		assert.Greater(t, decision.RetryAfter, 0)
		assert.LessOrEqual(t, decision.RetryAfter, 60)
	})

	t.Run("window filled during durable count is rejected on recheck", func(t *testing.T) {
		repo := &mockRateLimitRepository{}
		uc, clock := newTestRateLimiter(repo, 3, 100)

		// Пока идёт чтение часового счётчика, окно заполняют
		// конкурирующие запросы этого же ключа
		repo.On("CountSince", ctx, "client_1", "search", mock.AnythingOfType("time.Time")).
			Run(func(mock.Arguments) {
				w := uc.window(windowKey("client_1", "search"))
				w.mu.Lock()
				for len(w.times) < 3 {
					w.times = append(w.times, clock.Now())
				}
				w.mu.Unlock()
			}).
			Return(0, nil)

		decision, err := uc.Allow(ctx, "client_1", "search")
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, 3, decision.Limit)
		assert.Equal(t, 0, decision.Remaining)
		assert.Greater(t, decision.RetryAfter, 0)
		repo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("minute window slides: old entries expire", func(t *testing.T) {
		repo := &mockRateLimitRepository{}
		repo.On("CountSince", ctx, "client_1", "search", mock.AnythingOfType("time.Time")).Return(0, nil)
		repo.On("Record", ctx, "client_1", "search", mock.AnythingOfType("time.Time")).Return(nil)

		uc, clock := newTestRateLimiter(repo, 3, 100)

		for i := 0; i < 3; i++ {
			_, err := uc.Allow(ctx, "client_1", "search")
			require.NoError(t, err)
		}

		decision, err := uc.Allow(ctx, "client_1", "search")
		require.NoError(t, err)
		require.False(t, decision.Allowed)

		clock.Advance(61 * time.Second)

		decision, err = uc.Allow(ctx, "client_1", "search")
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, 2, decision.Remaining)
	})

	t.Run("rejects when hourly count exhausted", func(t *testing.T) {
		repo := &mockRateLimitRepository{}
		repo.On("CountSince", ctx, "client_1", "search", mock.AnythingOfType("time.Time")).Return(1000, nil)

		uc, _ := newTestRateLimiter(repo, 60, 1000)

		decision, err := uc.Allow(ctx, "client_1", "search")
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, 1000, decision.Limit)
		assert.Equal(t, 3600, decision.RetryAfter)

		// Отклонённый запрос не регистрируется в журнале
		repo.AssertNotCalled(t, "Record")
	})

	t.Run("fails open when durable store unavailable", func(t *testing.T) {
		repo := &mockRateLimitRepository{}
		repo.On("CountSince", ctx, "client_1", "search", mock.AnythingOfType("time.Time")).
			Return(0, errors.New("connection refused"))
		repo.On("Record", ctx, "client_1", "search", mock.AnythingOfType("time.Time")).
			Return(errors.New("connection refused"))

		uc, _ := newTestRateLimiter(repo, 3, 100)

		decision, err := uc.Allow(ctx, "client_1", "search")
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})

	t.Run("windows are independent per client and endpoint", func(t *testing.T) {
		repo := &mockRateLimitRepository{}
		repo.On("CountSince", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(0, nil)
		repo.On("Record", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

		uc, _ := newTestRateLimiter(repo, 1, 100)

		first, err := uc.Allow(ctx, "client_1", "search")
		require.NoError(t, err)
		require.True(t, first.Allowed)

		blocked, err := uc.Allow(ctx, "client_1", "search")
		require.NoError(t, err)
		assert.False(t, blocked.Allowed)

		otherEndpoint, err := uc.Allow(ctx, "client_1", "autocomplete")
		require.NoError(t, err)
		assert.True(t, otherEndpoint.Allowed)

		otherClient, err := uc.Allow(ctx, "client_2", "search")
		require.NoError(t, err)
		assert.True(t, otherClient.Allowed)
	})
}

func TestRateLimitUseCase_ClientStats(t *testing.T) {
	ctx := context.Background()

	t.Run("combines durable counters into stats", func(t *testing.T) {
		repo := &mockRateLimitRepository{}
		uc, clock := newTestRateLimiter(repo, 60, 1000)

		hourAgo := clock.Now().Add(-time.Hour)
		minuteAgo := clock.Now().Add(-time.Minute)

		repo.On("CountAllSince", ctx, "client_1", hourAgo).Return(42, nil)
		repo.On("CountAllSince", ctx, "client_1", minuteAgo).Return(5, nil)
		repo.On("CountByEndpointSince", ctx, "client_1", hourAgo).
			Return(map[string]int{"search": 40, "autocomplete": 2}, nil)

		stats, err := uc.ClientStats(ctx, "client_1")

		require.NoError(t, err)
		assert.Equal(t, "client_1", stats.ClientID)
		assert.Equal(t, 42, stats.HourlyRequests)
		assert.Equal(t, 5, stats.MinuteRequests)
		assert.Equal(t, 958, stats.HourlyRemaining)
		assert.Equal(t, 55, stats.MinuteRemaining)
		assert.Equal(t, 40, stats.EndpointStats["search"])
	})

	t.Run("read does not affect admission", func(t *testing.T) {
		repo := &mockRateLimitRepository{}
		uc, clock := newTestRateLimiter(repo, 1, 1000)

		hourAgo := clock.Now().Add(-time.Hour)
		minuteAgo := clock.Now().Add(-time.Minute)

		repo.On("CountAllSince", ctx, "client_1", hourAgo).Return(0, nil)
		repo.On("CountAllSince", ctx, "client_1", minuteAgo).Return(0, nil)
		repo.On("CountByEndpointSince", ctx, "client_1", hourAgo).Return(map[string]int{}, nil)
		repo.On("CountSince", ctx, "client_1", "search", mock.AnythingOfType("time.Time")).Return(0, nil)
		repo.On("Record", ctx, "client_1", "search", mock.AnythingOfType("time.Time")).Return(nil)

		_, err := uc.ClientStats(ctx, "client_1")
		require.NoError(t, err)

		decision, err := uc.Allow(ctx, "client_1", "search")
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})
}

func TestRateLimitUseCase_Cleanup(t *testing.T) {
	ctx := context.Background()

	repo := &mockRateLimitRepository{}
	uc, clock := newTestRateLimiter(repo, 60, 1000)

	cutoff := clock.Now().Add(-24 * time.Hour)
	repo.On("DeleteOlderThan", ctx, cutoff).Return(int64(128), nil)

	removed, err := uc.Cleanup(ctx, 24*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, int64(128), removed)
}
