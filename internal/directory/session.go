package directory

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/namefreezers/city-directory/internal/models"
)

// Fetcher produces the weather readout for a city.
type Fetcher interface {
	FetchCurrent(ctx context.Context, city string) (models.Weather, error)
}

// View is a consistent snapshot of one session, with the filter applied.
type View struct {
	SearchTerm   string          `json:"searchTerm"`
	SelectedCity *models.City    `json:"selectedCity"`
	Weather      *models.Weather `json:"weather"`
	Cities       []models.City   `json:"cities"`
}

// ShowDetail reports whether the detail panel should be rendered.
func (v View) ShowDetail() bool {
	return v.SelectedCity != nil && v.Weather != nil
}

// Session is the UI state of a single viewer over a shared Directory.
type Session struct {
	dir     *Directory
	fetcher Fetcher
	logger  *zap.Logger

	mu         sync.Mutex
	searchTerm string
	selected   *models.City
	weather    *models.Weather
	generation uint64
}

func NewSession(dir *Directory, fetcher Fetcher, logger *zap.Logger) *Session {
	return &Session{dir: dir, fetcher: fetcher, logger: logger}
}

func (s *Session) SetSearchTerm(term string) {
	s.mu.Lock()
	s.searchTerm = term
	s.mu.Unlock()
}

// View re-derives the filtered rows from the current working set.
func (s *Session) View() View {
	s.mu.Lock()
	v := View{SearchTerm: s.searchTerm}
	if s.selected != nil {
		c := *s.selected
		v.SelectedCity = &c
	}
	if s.weather != nil {
		w := *s.weather
		v.Weather = &w
	}
	s.mu.Unlock()

	v.Cities = s.dir.Search(v.SearchTerm)
	return v
}

// SelectCity looks up the weather for the row identified by key. Only the most
// recently issued selection may change the session: an older lookup that
// resolves later returns ErrSuperseded. Failures leave the previous selection
// and readout in place.
func (s *Session) SelectCity(ctx context.Context, key string) (models.City, models.Weather, error) {
	city, ok := s.dir.Lookup(key)
	if !ok {
		return models.City{}, models.Weather{}, ErrUnknownCity
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	w, err := s.fetcher.FetchCurrent(ctx, city.Name)
	if err != nil {
		s.logger.Error("error fetching weather data",
			zap.String("city", city.Name),
			zap.Uint64("generation", gen),
			zap.Error(err),
		)
		return models.City{}, models.Weather{}, fmt.Errorf("fetch weather for %q: %w", city.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.logger.Debug("discarding stale weather response",
			zap.String("city", city.Name),
			zap.Uint64("generation", gen),
			zap.Uint64("latest", s.generation),
		)
		return models.City{}, models.Weather{}, ErrSuperseded
	}
	s.selected = &city
	s.weather = &w
	return city, w, nil
}
