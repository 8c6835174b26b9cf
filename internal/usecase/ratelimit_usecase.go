package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/place-search-microservice/internal/domain"
	"github.com/place-search-microservice/internal/domain/repository"
)

const (
	shortWindow = time.Minute
	longWindow  = time.Hour
)

// clientWindow - упорядоченная последовательность недавних запросов одного ключа.
// Мутации (prune+append) сериализуются собственным мьютексом окна,
// чтобы разные ключи не конкурировали между собой.
type clientWindow struct {
	mu    sync.Mutex
	times []time.Time
}

// RateLimitUseCase - двухуровневый sliding-window admission control.
// Короткое окно (минута) живёт в памяти процесса и сбрасывается при рестарте:
// его задача - сглаживание всплесков, а не жёсткая квота. Длинное окно (час)
// опирается на персистентный журнал и переживает рестарты.
// Короткое окно не согласуется между процессами - документированное ограничение.
type RateLimitUseCase struct {
	repo        repository.RateLimitRepository
	logger      *zap.Logger
	minuteLimit int
	hourLimit   int

	mu      sync.RWMutex
	windows map[string]*clientWindow

	now func() time.Time
}

// NewRateLimitUseCase - создание нового RateLimitUseCase
func NewRateLimitUseCase(
	repo repository.RateLimitRepository,
	logger *zap.Logger,
	minuteLimit int,
	hourLimit int,
) *RateLimitUseCase {
	return &RateLimitUseCase{
		repo:        repo,
		logger:      logger,
		minuteLimit: minuteLimit,
		hourLimit:   hourLimit,
		windows:     make(map[string]*clientWindow),
		now:         time.Now,
	}
}

func windowKey(clientID, endpoint string) string {
	return fmt.Sprintf("%s:%s", clientID, endpoint)
}

// window возвращает окно ключа, создавая его при необходимости
func (uc *RateLimitUseCase) window(key string) *clientWindow {
	uc.mu.RLock()
	w, ok := uc.windows[key]
	uc.mu.RUnlock()
	if ok {
		return w
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if w, ok = uc.windows[key]; ok {
		return w
	}
	w = &clientWindow{}
	uc.windows[key] = w
	return w
}

// Allow проверяет, допускается ли запрос клиента к endpoint.
// Сначала дешёвый in-memory уровень (без I/O), затем персистентный часовой.
func (uc *RateLimitUseCase) Allow(ctx context.Context, clientID, endpoint string) (*domain.RateLimitDecision, error) {
	now := uc.now()
	w := uc.window(windowKey(clientID, endpoint))

	w.mu.Lock()
	w.prune(now)

	if len(w.times) >= uc.minuteLimit {
		retryAfter := int(w.times[0].Add(shortWindow).Sub(now).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		w.mu.Unlock()

		uc.logger.Debug("Rate limit exceeded (minute window)",
			zap.String("client_id", clientID),
			zap.String("endpoint", endpoint))

		return &domain.RateLimitDecision{
			Allowed:    false,
			RetryAfter: retryAfter,
			Limit:      uc.minuteLimit,
			Remaining:  0,
		}, nil
	}
	w.mu.Unlock()

	// Часовое окно по персистентному журналу
	hourlyCount, err := uc.repo.CountSince(ctx, clientID, endpoint, now.Add(-longWindow))
	if err != nil {
		// Fail-open: при недоступности журнала admission продолжает работать
		// на одном минутном окне, чтобы сбой хранилища не ронял все запросы
		uc.logger.Error("Rate limit store unavailable, admitting on memory window only",
			zap.Error(err))
		hourlyCount = 0
	} else if hourlyCount >= uc.hourLimit {
		uc.logger.Debug("Rate limit exceeded (hour window)",
			zap.String("client_id", clientID),
			zap.String("endpoint", endpoint),
			zap.Int("hourly_count", hourlyCount))

		return &domain.RateLimitDecision{
			Allowed:    false,
			RetryAfter: int(longWindow.Seconds()),
			Limit:      uc.hourLimit,
			Remaining:  0,
		}, nil
	}

	// Регистрация в памяти с повторной проверкой лимита: пока шёл запрос
	// к журналу, окно могли заполнить конкурирующие запросы этого же ключа
	w.mu.Lock()
	w.prune(now)
	if len(w.times) >= uc.minuteLimit {
		retryAfter := int(w.times[0].Add(shortWindow).Sub(now).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		w.mu.Unlock()

		uc.logger.Debug("Rate limit exceeded (minute window)",
			zap.String("client_id", clientID),
			zap.String("endpoint", endpoint))

		return &domain.RateLimitDecision{
			Allowed:    false,
			RetryAfter: retryAfter,
			Limit:      uc.minuteLimit,
			Remaining:  0,
		}, nil
	}
	w.times = append(w.times, now)
	remaining := uc.minuteLimit - len(w.times)
	w.mu.Unlock()

	// Журналируются только допущенные запросы
	if err := uc.repo.Record(ctx, clientID, endpoint, now); err != nil {
		uc.logger.Error("Failed to record rate limit entry", zap.Error(err))
	}

	return &domain.RateLimitDecision{
		Allowed:    true,
		RetryAfter: 0,
		Limit:      uc.minuteLimit,
		Remaining:  remaining,
	}, nil
}

// prune удаляет из окна все отметки старше now-shortWindow.
// Вызывается только под w.mu.
func (w *clientWindow) prune(now time.Time) {
	cutoff := now.Add(-shortWindow)
	idx := 0
	for idx < len(w.times) && !w.times[idx].After(cutoff) {
		idx++
	}
	if idx > 0 {
		w.times = append(w.times[:0], w.times[idx:]...)
	}
}

// ClientStats возвращает статистику клиента из персистентного журнала.
// Чтение не влияет на admission state.
func (uc *RateLimitUseCase) ClientStats(ctx context.Context, clientID string) (*domain.ClientStats, error) {
	now := uc.now()

	hourly, err := uc.repo.CountAllSince(ctx, clientID, now.Add(-longWindow))
	if err != nil {
		return nil, fmt.Errorf("count hourly requests: %w", err)
	}

	minute, err := uc.repo.CountAllSince(ctx, clientID, now.Add(-shortWindow))
	if err != nil {
		return nil, fmt.Errorf("count minute requests: %w", err)
	}

	endpointStats, err := uc.repo.CountByEndpointSince(ctx, clientID, now.Add(-longWindow))
	if err != nil {
		return nil, fmt.Errorf("count endpoint requests: %w", err)
	}

	hourlyRemaining := uc.hourLimit - hourly
	if hourlyRemaining < 0 {
		hourlyRemaining = 0
	}
	minuteRemaining := uc.minuteLimit - minute
	if minuteRemaining < 0 {
		minuteRemaining = 0
	}

	return &domain.ClientStats{
		ClientID:        clientID,
		HourlyRequests:  hourly,
		MinuteRequests:  minute,
		HourlyLimit:     uc.hourLimit,
		MinuteLimit:     uc.minuteLimit,
		EndpointStats:   endpointStats,
		HourlyRemaining: hourlyRemaining,
		MinuteRemaining: minuteRemaining,
	}, nil
}

// Cleanup удаляет записи журнала старше retention-горизонта.
// Нужен только для контроля роста таблицы, не для корректности admission.
func (uc *RateLimitUseCase) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	return uc.repo.DeleteOlderThan(ctx, uc.now().Add(-olderThan))
}
