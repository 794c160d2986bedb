package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/namefreezers/city-directory/internal/models"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchCurrent(ctx context.Context, city string) (models.Weather, error) {
	args := m.Called(ctx, city)
	w, _ := args.Get(0).(models.Weather)
	return w, args.Error(1)
}

// gatedFetcher blocks each lookup until the test releases the city's gate.
type gatedFetcher struct {
	started chan string
	gates   map[string]chan models.Weather
}

func (g *gatedFetcher) FetchCurrent(ctx context.Context, city string) (models.Weather, error) {
	g.started <- city
	select {
	case w := <-g.gates[city]:
		return w, nil
	case <-ctx.Done():
		return models.Weather{}, ctx.Err()
	}
}

var sunny = models.Weather{Temperature: 21.5, Description: "clear sky", Humidity: 40, WindSpeed: 3.2, Pressure: 1015}

func keyOf(t *testing.T, d *Directory, name string) string {
	t.Helper()
	for _, c := range d.Cities() {
		if c.Name == name {
			return c.Key
		}
	}
	t.Fatalf("city %q not loaded", name)
	return ""
}

func TestSession_ViewFiltersWorkingSet(t *testing.T) {
	d := loadedDirectory(t, paris, london)
	s := NewSession(d, &mockFetcher{}, zap.NewNop())

	s.SetSearchTerm("lon")
	v := s.View()
	assert.Equal(t, "lon", v.SearchTerm)
	assert.Equal(t, []string{"London"}, names(v.Cities))
	assert.False(t, v.ShowDetail())

	s.SetSearchTerm("")
	assert.Equal(t, []string{"Paris", "London"}, names(s.View().Cities))
}

func TestSession_ViewBeforeLoad(t *testing.T) {
	d := New(&mockSource{}, zap.NewNop())
	s := NewSession(d, &mockFetcher{}, zap.NewNop())

	v := s.View()
	assert.Empty(t, v.Cities)
	assert.Nil(t, v.SelectedCity)
	assert.Nil(t, v.Weather)
}

func TestSession_SelectCity_Success(t *testing.T) {
	d := loadedDirectory(t, paris, london)
	f := &mockFetcher{}
	f.On("FetchCurrent", mock.Anything, "Paris").Return(sunny, nil).Once()
	t.Cleanup(func() { f.AssertExpectations(t) })

	s := NewSession(d, f, zap.NewNop())
	city, w, err := s.SelectCity(context.Background(), keyOf(t, d, "Paris"))
	require.NoError(t, err)
	assert.Equal(t, "Paris", city.Name)
	assert.Equal(t, sunny, w)

	v := s.View()
	require.True(t, v.ShowDetail())
	assert.Equal(t, "Paris", v.SelectedCity.Name)
	assert.Equal(t, sunny, *v.Weather)
}

func TestSession_SelectCity_UnknownKey(t *testing.T) {
	d := loadedDirectory(t, paris)
	f := &mockFetcher{}
	s := NewSession(d, f, zap.NewNop())

	_, _, err := s.SelectCity(context.Background(), "no-such-key")
	assert.ErrorIs(t, err, ErrUnknownCity)
	f.AssertNotCalled(t, "FetchCurrent", mock.Anything, mock.Anything)
}

func TestSession_SelectCity_FailureKeepsPreviousDetail(t *testing.T) {
	d := loadedDirectory(t, paris, london)
	boom := errors.New("schema mismatch")
	f := &mockFetcher{}
	f.On("FetchCurrent", mock.Anything, "Paris").Return(sunny, nil).Once()
	f.On("FetchCurrent", mock.Anything, "London").Return(nil, boom).Once()
	t.Cleanup(func() { f.AssertExpectations(t) })

	s := NewSession(d, f, zap.NewNop())
	_, _, err := s.SelectCity(context.Background(), keyOf(t, d, "Paris"))
	require.NoError(t, err)

	_, _, err = s.SelectCity(context.Background(), keyOf(t, d, "London"))
	assert.ErrorIs(t, err, boom)

	v := s.View()
	require.True(t, v.ShowDetail())
	assert.Equal(t, "Paris", v.SelectedCity.Name)
	assert.Equal(t, sunny, *v.Weather)
}

func TestSession_SelectCity_FailureWithoutPriorDetail(t *testing.T) {
	d := loadedDirectory(t, paris)
	f := &mockFetcher{}
	f.On("FetchCurrent", mock.Anything, "Paris").Return(nil, errors.New("timeout")).Once()

	s := NewSession(d, f, zap.NewNop())
	_, _, err := s.SelectCity(context.Background(), keyOf(t, d, "Paris"))
	assert.Error(t, err)
	assert.False(t, s.View().ShowDetail())
}

// Paris is clicked first, London second; London's response arrives first and
// Paris's arrives last. The last click wins.
func TestSession_SelectCity_LastClickWins(t *testing.T) {
	d := loadedDirectory(t, paris, london)
	f := &gatedFetcher{
		started: make(chan string),
		gates: map[string]chan models.Weather{
			"Paris":  make(chan models.Weather),
			"London": make(chan models.Weather),
		},
	}
	s := NewSession(d, f, zap.NewNop())
	ctx := context.Background()
	parisKey, londonKey := keyOf(t, d, "Paris"), keyOf(t, d, "London")

	type result struct {
		city models.City
		err  error
	}
	parisDone := make(chan result, 1)
	londonDone := make(chan result, 1)

	go func() {
		c, _, err := s.SelectCity(ctx, parisKey)
		parisDone <- result{c, err}
	}()
	require.Equal(t, "Paris", <-f.started)

	go func() {
		c, _, err := s.SelectCity(ctx, londonKey)
		londonDone <- result{c, err}
	}()
	require.Equal(t, "London", <-f.started)

	londonWeather := models.Weather{Temperature: 12, Description: "drizzle"}
	f.gates["London"] <- londonWeather
	lr := <-londonDone
	require.NoError(t, lr.err)
	assert.Equal(t, "London", lr.city.Name)

	f.gates["Paris"] <- sunny
	pr := <-parisDone
	assert.ErrorIs(t, pr.err, ErrSuperseded)

	v := s.View()
	require.True(t, v.ShowDetail())
	assert.Equal(t, "London", v.SelectedCity.Name)
	assert.Equal(t, londonWeather, *v.Weather)
}

// Responses that arrive in click order also end on the latest click.
func TestSession_SelectCity_InOrderResponses(t *testing.T) {
	d := loadedDirectory(t, paris, london)
	f := &mockFetcher{}
	f.On("FetchCurrent", mock.Anything, "Paris").Return(sunny, nil).Once()
	f.On("FetchCurrent", mock.Anything, "London").Return(models.Weather{Description: "fog"}, nil).Once()

	s := NewSession(d, f, zap.NewNop())
	_, _, err := s.SelectCity(context.Background(), keyOf(t, d, "Paris"))
	require.NoError(t, err)
	_, _, err = s.SelectCity(context.Background(), keyOf(t, d, "London"))
	require.NoError(t, err)

	v := s.View()
	assert.Equal(t, "London", v.SelectedCity.Name)
	assert.Equal(t, "fog", v.Weather.Description)
}

func TestSession_ViewReturnsCopies(t *testing.T) {
	d := loadedDirectory(t, paris)
	f := &mockFetcher{}
	f.On("FetchCurrent", mock.Anything, "Paris").Return(sunny, nil).Once()

	s := NewSession(d, f, zap.NewNop())
	_, _, err := s.SelectCity(context.Background(), keyOf(t, d, "Paris"))
	require.NoError(t, err)

	v := s.View()
	v.Weather.Temperature = -40
	v.SelectedCity.Name = "Mutated"

	again := s.View()
	assert.Equal(t, sunny.Temperature, again.Weather.Temperature)
	assert.Equal(t, "Paris", again.SelectedCity.Name)
}
