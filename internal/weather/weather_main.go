package weather

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/namefreezers/city-directory/internal/cache"
	"github.com/namefreezers/city-directory/internal/config"
	"github.com/namefreezers/city-directory/internal/models"
	"github.com/namefreezers/city-directory/internal/opendatasoft"
)

// BuildFetcher constructs the lookup chain:
// 1) the opendatasoft records client
// 2) wrapped in a rate limiter
// 3) behind a circuit breaker
// 4) decorated with a Redis cache when REDIS_ADDR is set
//
// The returned close func releases the Redis connection, if any.
func BuildFetcher(ctx context.Context, cfg *config.Config, client opendatasoft.HTTPClient, logger *zap.Logger) (Fetcher, func() error, error) {
	noop := func() error { return nil }

	records, err := opendatasoft.NewRecordsClient(cfg.Upstream.RecordsURL, cfg.Upstream.RecordsLimit, client, logger)
	if err != nil {
		return nil, noop, err
	}

	limited := NewRateLimitedFetcher(records, cfg.Upstream.RPS, cfg.Upstream.Burst)
	guarded := NewBreakerFetcher("opendatasoft-records", BreakerConfig{
		Interval: cfg.Breaker.Interval,
		Timeout:  cfg.Breaker.Timeout,
		Failures: cfg.Breaker.Failures,
	}, limited, logger)

	if cfg.Redis.Addr == "" {
		logger.Info("weather cache disabled: REDIS_ADDR not set")
		return guarded, noop, nil
	}

	rdb, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, noop, fmt.Errorf("weather cache: %w", err)
	}
	store := cache.NewRedisClient[models.Weather](rdb, logger, cfg.Redis.TTL)
	return NewCachingFetcher(guarded, store, logger), rdb.Close, nil
}
