package weather

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/namefreezers/city-directory/internal/cache"
	"github.com/namefreezers/city-directory/internal/models"
)

type weatherCache interface {
	Get(ctx context.Context, key string) (models.Weather, error)
	Set(ctx context.Context, key string, value models.Weather) error
}

// CachingFetcher decorates another Fetcher with a Redis cache. Cache failures
// are logged and never fail the lookup.
type CachingFetcher struct {
	inner  Fetcher
	cache  weatherCache
	logger *zap.Logger
}

// NewCachingFetcher returns a Fetcher that first looks in the cache,
// falling back to inner on cache-miss.
func NewCachingFetcher(inner Fetcher, c weatherCache, logger *zap.Logger) *CachingFetcher {
	return &CachingFetcher{inner: inner, cache: c, logger: logger}
}

func (c *CachingFetcher) FetchCurrent(ctx context.Context, city string) (models.Weather, error) {
	key := "weather:" + city

	// 1) Try cache
	w, err := c.cache.Get(ctx, key)
	if err == nil {
		c.logger.Debug("cache hit", zap.String("city", city))
		return w, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	// 2) Cache-miss -> delegate to inner
	w, err = c.inner.FetchCurrent(ctx, city)
	if err != nil {
		return w, err
	}

	// 3) Store in cache
	if serr := c.cache.Set(ctx, key, w); serr != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(serr))
	}
	return w, nil
}
