package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMiddleware_CountsByStatusClass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("test")

	r := gin.New()
	r.Use(m.HTTPMiddleware())
	r.GET("/api/cities", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/api/cities", "/api/cities", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/cities", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/missing", "4xx")))
}

func TestObserveLookupAndGauge(t *testing.T) {
	m := New("test")
	m.ObserveLookup(LookupApplied)
	m.ObserveLookup(LookupFailed)
	m.ObserveLookup(LookupFailed)
	m.SetCitiesLoaded(42)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LookupsTotal.WithLabelValues(LookupApplied)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LookupsTotal.WithLabelValues(LookupFailed)))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.CitiesLoaded))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_cities_loaded 42")
}
