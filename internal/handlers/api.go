package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/namefreezers/city-directory/internal/directory"
	"github.com/namefreezers/city-directory/internal/models"
)

type citiesResponse struct {
	Cities []models.City `json:"cities"`
}

type selectResponse struct {
	City    models.City    `json:"city"`
	Weather models.Weather `json:"weather"`
}

// CitiesHandler handles GET /api/cities?q=
func CitiesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		if q, ok := c.GetQuery("q"); ok {
			sess.SetSearchTerm(q)
		}
		c.JSON(http.StatusOK, citiesResponse{Cities: sess.View().Cities})
	}
}

// SelectHandler handles POST /api/cities/:key/select
func SelectHandler(rec LookupRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		city, w, err := sessionFrom(c).SelectCity(c.Request.Context(), c.Param("key"))
		outcome, status := classifyLookup(err)
		rec.ObserveLookup(outcome)
		if err != nil {
			// 404 unknown key, 409 superseded, 502 upstream or schema failure
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, selectResponse{City: city, Weather: w})
	}
}

// StateHandler handles GET /api/state
func StateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, sessionFrom(c).View())
	}
}

// HealthHandler handles GET /healthz
func HealthHandler(dir *directory.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "cities": dir.Len()})
	}
}
