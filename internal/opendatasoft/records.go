package opendatasoft

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/namefreezers/city-directory/internal/models"
)

const recordsEndpoint = "records"

// RecordsClient reads one page of the catalog records endpoint and reshapes
// it into a weather readout. The endpoint is not city specific: the city name
// is only used for logging.
type RecordsClient struct {
	url    string
	limit  int
	client HTTPClient
	logger *zap.Logger
}

func NewRecordsClient(rawURL string, limit int, client HTTPClient, logger *zap.Logger) (*RecordsClient, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("opendatasoft: invalid records url %q: %w", rawURL, err)
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()
	return &RecordsClient{url: u.String(), limit: limit, client: client, logger: logger}, nil
}

type recordsPayload struct {
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
		Pressure *float64 `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description *string `json:"description"`
	} `json:"weather"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
}

// FetchCurrent implements weather.Fetcher.
func (c *RecordsClient) FetchCurrent(ctx context.Context, city string) (models.Weather, error) {
	body, err := get(ctx, c.client, recordsEndpoint, c.url)
	if err != nil {
		return models.Weather{}, err
	}

	w, err := decodeWeather(body)
	if err != nil {
		c.logger.Warn("records payload is not a weather readout",
			zap.String("city", city),
			zap.Int("limit", c.limit),
			zap.Error(err),
		)
		return models.Weather{}, err
	}
	return w, nil
}

func decodeWeather(body []byte) (models.Weather, error) {
	var p recordsPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return models.Weather{}, &SchemaError{Endpoint: recordsEndpoint, Reason: "expected a JSON object"}
	}

	missing := func(field string) error {
		return &SchemaError{Endpoint: recordsEndpoint, Field: field, Reason: "missing"}
	}
	switch {
	case p.Main == nil || p.Main.Temp == nil:
		return models.Weather{}, missing("main.temp")
	case len(p.Weather) == 0 || p.Weather[0].Description == nil:
		return models.Weather{}, missing("weather[0].description")
	case p.Main.Humidity == nil:
		return models.Weather{}, missing("main.humidity")
	case p.Wind == nil || p.Wind.Speed == nil:
		return models.Weather{}, missing("wind.speed")
	case p.Main.Pressure == nil:
		return models.Weather{}, missing("main.pressure")
	}

	return models.Weather{
		Temperature: *p.Main.Temp,
		Description: *p.Weather[0].Description,
		Humidity:    *p.Main.Humidity,
		WindSpeed:   *p.Wind.Speed,
		Pressure:    *p.Main.Pressure,
	}, nil
}
