package weather

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/namefreezers/city-directory/internal/models"
)

// RateLimitedFetcher bounds how often the wrapped fetcher reaches the upstream.
type RateLimitedFetcher struct {
	fetcher Fetcher
	limiter *rate.Limiter
}

// NewRateLimitedFetcher allows rps requests per second with bursts of burst.
func NewRateLimitedFetcher(fetcher Fetcher, rps float64, burst int) *RateLimitedFetcher {
	return &RateLimitedFetcher{
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimitedFetcher) FetchCurrent(ctx context.Context, city string) (models.Weather, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return models.Weather{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.fetcher.FetchCurrent(ctx, city)
}

var (
	_ Fetcher = (*RateLimitedFetcher)(nil)
	_ Fetcher = (*BreakerFetcher)(nil)
	_ Fetcher = (*CachingFetcher)(nil)
)
