package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/namefreezers/city-directory/internal/models"
)

type BreakerConfig struct {
	Interval time.Duration
	Timeout  time.Duration
	Failures uint32
}

// BreakerFetcher fails fast once the wrapped fetcher has failed Failures times
// in a row. It never retries. A caller giving up on its own context is not an
// upstream failure and does not count towards tripping.
type BreakerFetcher struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped Fetcher
}

func NewBreakerFetcher(name string, cfg BreakerConfig, wrapped Fetcher, logger *zap.Logger) *BreakerFetcher {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		IsSuccessful: isUpstreamHealthy,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &BreakerFetcher{
		name:    name,
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func isUpstreamHealthy(err error) bool {
	return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (b *BreakerFetcher) FetchCurrent(ctx context.Context, city string) (models.Weather, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.FetchCurrent(ctx, city)
	})
	if err != nil {
		return models.Weather{}, fmt.Errorf("%s unavailable: %w", b.name, err)
	}
	w, ok := result.(models.Weather)
	if !ok {
		return models.Weather{}, fmt.Errorf("%s returned unexpected result", b.name)
	}
	return w, nil
}
