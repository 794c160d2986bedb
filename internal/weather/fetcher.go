package weather

import (
	"context"

	"github.com/namefreezers/city-directory/internal/models"
)

// Fetcher produces the weather readout for a city.
type Fetcher interface {
	FetchCurrent(ctx context.Context, city string) (models.Weather, error)
}
