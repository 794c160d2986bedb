package opendatasoft

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/namefreezers/city-directory/internal/models"
)

const citiesEndpoint = "cities"

// HTTPClient is satisfied by *http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// CitiesClient reads the geonames city dataset. The endpoint must answer with
// a bare JSON array of {name, country, timezone} records.
type CitiesClient struct {
	url    string
	client HTTPClient
	logger *zap.Logger
}

func NewCitiesClient(url string, client HTTPClient, logger *zap.Logger) *CitiesClient {
	return &CitiesClient{url: url, client: client, logger: logger}
}

// ListCities implements directory.CitySource.
func (c *CitiesClient) ListCities(ctx context.Context) ([]models.City, error) {
	body, err := get(ctx, c.client, citiesEndpoint, c.url)
	if err != nil {
		return nil, err
	}

	cities, err := decodeCities(body)
	if err != nil {
		c.logger.Warn("city dataset rejected", zap.Int("bytes", len(body)), zap.Error(err))
		return nil, err
	}
	return cities, nil
}

func decodeCities(body []byte) ([]models.City, error) {
	var records []map[string]json.RawMessage
	// a bare null decodes into a nil slice without error
	if err := json.Unmarshal(body, &records); err != nil || records == nil {
		return nil, &SchemaError{Endpoint: citiesEndpoint, Reason: "expected a JSON array of city records"}
	}

	cities := make([]models.City, 0, len(records))
	for i, rec := range records {
		if rec == nil {
			return nil, &SchemaError{Endpoint: citiesEndpoint, Field: fmt.Sprintf("[%d]", i), Reason: "expected an object"}
		}
		name, err := stringField(rec, i, "name", true)
		if err != nil {
			return nil, err
		}
		country, err := stringField(rec, i, "country", false)
		if err != nil {
			return nil, err
		}
		tz, err := stringField(rec, i, "timezone", false)
		if err != nil {
			return nil, err
		}
		cities = append(cities, models.City{Name: name, Country: country, Timezone: tz})
	}
	return cities, nil
}

func stringField(rec map[string]json.RawMessage, i int, key string, required bool) (string, error) {
	field := fmt.Sprintf("[%d].%s", i, key)
	raw, ok := rec[key]
	if !ok || string(raw) == "null" {
		if required {
			return "", &SchemaError{Endpoint: citiesEndpoint, Field: field, Reason: "missing"}
		}
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &SchemaError{Endpoint: citiesEndpoint, Field: field, Reason: "expected a string"}
	}
	if required && s == "" {
		return "", &SchemaError{Endpoint: citiesEndpoint, Field: field, Reason: "empty"}
	}
	return s, nil
}

// get performs a GET and returns the body of a 200 response.
func get(ctx context.Context, client HTTPClient, endpoint, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("opendatasoft %s: failed to build request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opendatasoft %s: HTTP request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("opendatasoft %s: read body: %w", endpoint, err)
	}
	return body, nil
}
