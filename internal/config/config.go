package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// City sources selectable through CITIES_SOURCE.
const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// Upstream holds the two opendatasoft endpoints and the outbound client knobs.
type Upstream struct {
	CitiesURL    string        `envconfig:"CITIES_URL" default:"https://public.opendatasoft.com/explore/dataset/geonames-all-cities-with-a-population-1000/api/"`
	RecordsURL   string        `envconfig:"RECORDS_URL" default:"https://public.opendatasoft.com/api/explore/v2.1/catalog/datasets/geonames-all-cities-with-a-population-1000/records"`
	RecordsLimit int           `envconfig:"RECORDS_LIMIT" default:"20"`
	Timeout      time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	RPS          float64       `envconfig:"UPSTREAM_RPS" default:"5"`
	Burst        int           `envconfig:"UPSTREAM_BURST" default:"10"`
}

// Breaker configures the circuit breaker in front of the records endpoint.
type Breaker struct {
	Failures uint32        `envconfig:"BREAKER_FAILURES" default:"5"`
	Interval time.Duration `envconfig:"BREAKER_INTERVAL" default:"30s"`
	Timeout  time.Duration `envconfig:"BREAKER_TIMEOUT" default:"10s"`
}

// Postgres is only consulted when CITIES_SOURCE=postgres.
type Postgres struct {
	User     string `envconfig:"POSTGRES_USER"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	DB       string `envconfig:"POSTGRES_DB"`
	Host     string `envconfig:"POSTGRES_HOST" default:"db"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
}

// Redis enables the weather lookup cache when Addr is non-empty.
type Redis struct {
	Addr     string        `envconfig:"REDIS_ADDR"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	TTL      time.Duration `envconfig:"WEATHER_CACHE_TTL" default:"5m"`
}

// Session bounds the in-memory viewer sessions.
type Session struct {
	Max  int           `envconfig:"SESSION_MAX" default:"1000"`
	Idle time.Duration `envconfig:"SESSION_IDLE" default:"30m"`
}

// Config holds all the environment‐driven settings for the application.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	CitySource  string `envconfig:"CITIES_SOURCE" default:"http"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`

	Upstream Upstream
	Breaker  Breaker
	Postgres Postgres
	Redis    Redis
	Session  Session
}

// Load reads a .env file when present, then the environment, applying defaults
// where appropriate. It returns an error if a variable is malformed or if the
// chosen city source lacks the settings it needs.
func Load() (*Config, error) {
	// a missing .env is the normal case in containers
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.CitySource {
	case SourceHTTP:
		if c.Upstream.CitiesURL == "" {
			return fmt.Errorf("CITIES_URL is required")
		}
	case SourcePostgres:
		if c.DatabaseURL != "" {
			break
		}
		if c.Postgres.User == "" {
			return fmt.Errorf("POSTGRES_USER is required")
		}
		if c.Postgres.Password == "" {
			return fmt.Errorf("POSTGRES_PASSWORD is required")
		}
		if c.Postgres.DB == "" {
			return fmt.Errorf("POSTGRES_DB is required")
		}
		c.DatabaseURL = fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s?sslmode=disable",
			c.Postgres.User, c.Postgres.Password, c.Postgres.Host, c.Postgres.Port, c.Postgres.DB,
		)
	default:
		return fmt.Errorf("invalid CITIES_SOURCE %q: want %q or %q", c.CitySource, SourceHTTP, SourcePostgres)
	}

	if c.Upstream.RecordsURL == "" {
		return fmt.Errorf("RECORDS_URL is required")
	}
	if c.Upstream.RecordsLimit <= 0 {
		return fmt.Errorf("invalid RECORDS_LIMIT %d", c.Upstream.RecordsLimit)
	}
	if c.Upstream.RPS <= 0 || c.Upstream.Burst <= 0 {
		return fmt.Errorf("UPSTREAM_RPS and UPSTREAM_BURST must be positive")
	}
	if c.Breaker.Failures == 0 {
		return fmt.Errorf("BREAKER_FAILURES must be positive")
	}
	if c.Session.Max <= 0 {
		return fmt.Errorf("invalid SESSION_MAX %d", c.Session.Max)
	}
	return nil
}
