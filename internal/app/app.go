package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/namefreezers/city-directory/internal/config"
	"github.com/namefreezers/city-directory/internal/directory"
	"github.com/namefreezers/city-directory/internal/opendatasoft"
	"github.com/namefreezers/city-directory/internal/repository"
	"github.com/namefreezers/city-directory/internal/transport"
	"github.com/namefreezers/city-directory/internal/weather"
)

// App bundles the shared pieces both binaries are built from.
type App struct {
	Directory *directory.Directory
	Fetcher   weather.Fetcher

	closers []func() error
}

// Build wires the city source and the weather lookup chain. It does not load
// the working set; callers decide when to call Directory.Load.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	client := transport.NewClient(cfg.Upstream.Timeout, logger)
	a := &App{}

	var source directory.CitySource
	switch cfg.CitySource {
	case config.SourcePostgres:
		db, err := repository.OpenDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		source = repository.NewCityRepository(db, logger)
	default:
		source = opendatasoft.NewCitiesClient(cfg.Upstream.CitiesURL, client, logger)
	}
	logger.Info("city source selected", zap.String("source", cfg.CitySource))

	fetcher, closeCache, err := weather.BuildFetcher(ctx, cfg, client, logger)
	a.closers = append(a.closers, closeCache)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to initialize weather fetcher: %w", err)
	}

	a.Directory = directory.New(source, logger)
	a.Fetcher = fetcher
	return a, nil
}

// NewSession starts fresh widget state over the shared working set.
func (a *App) NewSession(logger *zap.Logger) *directory.Session {
	return directory.NewSession(a.Directory, a.Fetcher, logger)
}

func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
