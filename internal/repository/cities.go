package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/namefreezers/city-directory/internal/models"
)

// ErrCitiesTableMissing is returned when the cities table has not been created.
var ErrCitiesTableMissing = errors.New("cities table does not exist")

type cityRow struct {
	Name     string `db:"name"`
	Country  string `db:"country"`
	Timezone string `db:"timezone"`
}

// CityRepository reads a Postgres mirror of the geonames dataset.
type CityRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewCityRepository(db *sqlx.DB, logger *zap.Logger) *CityRepository {
	return &CityRepository{db: db, logger: logger}
}

// ListCities implements directory.CitySource.
func (r *CityRepository) ListCities(ctx context.Context) ([]models.City, error) {
	const q = `
        SELECT name, COALESCE(country, '') AS country, COALESCE(timezone, '') AS timezone
        FROM cities
        WHERE name <> ''
        ORDER BY id;
    `
	var rows []cityRow
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		// SQLSTATE 42P01: undefined_table
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "42P01" {
			r.logger.Error("cities table is missing", zap.Error(err))
			return nil, ErrCitiesTableMissing
		}
		r.logger.Error("failed to list cities", zap.Error(err))
		return nil, err
	}

	cities := make([]models.City, len(rows))
	for i, row := range rows {
		cities[i] = models.City{Name: row.Name, Country: row.Country, Timezone: row.Timezone}
	}
	r.logger.Debug("listed cities", zap.Int("count", len(cities)))
	return cities, nil
}
