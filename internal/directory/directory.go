// Package directory holds the city working set and the per-viewer widget
// state built on top of it.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/namefreezers/city-directory/internal/models"
)

var (
	// ErrAlreadyLoaded is returned by a second call to Load.
	ErrAlreadyLoaded = errors.New("city directory already loaded")

	// ErrUnknownCity is returned when a selection names no row of the working set.
	ErrUnknownCity = errors.New("unknown city")

	// ErrSuperseded is returned when a newer selection was issued while a lookup was in flight.
	ErrSuperseded = errors.New("lookup superseded by a newer selection")
)

// CitySource reads the full city dataset in source order.
type CitySource interface {
	ListCities(ctx context.Context) ([]models.City, error)
}

// Directory is the shared working set. It is loaded at most once.
type Directory struct {
	source CitySource
	logger *zap.Logger

	mu      sync.RWMutex
	started bool
	cities  []models.City
	byKey   map[string]int
}

func New(source CitySource, logger *zap.Logger) *Directory {
	return &Directory{source: source, logger: logger, byKey: map[string]int{}}
}

// Load reads the source once and installs the result as the working set. On
// failure the working set stays empty and the error is returned; Load is not
// retried.
func (d *Directory) Load(ctx context.Context) error {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return ErrAlreadyLoaded
	}
	d.started = true
	d.mu.Unlock()

	cities, err := d.source.ListCities(ctx)
	if err != nil {
		d.logger.Error("error fetching city data", zap.Error(err))
		return fmt.Errorf("load cities: %w", err)
	}

	keyed := make([]models.City, len(cities))
	byKey := make(map[string]int, len(cities))
	for i, c := range cities {
		c.Key = uuid.NewString()
		keyed[i] = c
		byKey[c.Key] = i
	}

	d.mu.Lock()
	d.cities = keyed
	d.byKey = byKey
	d.mu.Unlock()

	d.logger.Info("city directory loaded", zap.Int("count", len(keyed)))
	return nil
}

// Cities returns a copy of the working set.
func (d *Directory) Cities() []models.City {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.City, len(d.cities))
	copy(out, d.cities)
	return out
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.cities)
}

// Lookup finds a row by its key.
func (d *Directory) Lookup(key string) (models.City, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	i, ok := d.byKey[key]
	if !ok {
		return models.City{}, false
	}
	return d.cities[i], true
}

// Search filters the working set by term.
func (d *Directory) Search(term string) []models.City {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Filter(d.cities, term)
}

// Filter returns the cities whose name contains term, ignoring case, in their
// original order. An empty term matches every city. The input is not modified.
func Filter(cities []models.City, term string) []models.City {
	needle := strings.ToLower(term)
	out := make([]models.City, 0, len(cities))
	for _, c := range cities {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			out = append(out, c)
		}
	}
	return out
}
