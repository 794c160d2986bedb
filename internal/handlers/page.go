package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// PageHandler handles GET /
// A present q parameter replaces the search term, even when empty.
func PageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		if q, ok := c.GetQuery("q"); ok {
			sess.SetSearchTerm(q)
		}
		c.HTML(http.StatusOK, "index.html", sess.View())
	}
}

// SelectPageHandler handles POST /select/:key
// Lookup failures are only logged; the viewer is sent back to the page either way.
func SelectPageHandler(rec LookupRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		_, _, err := sess.SelectCity(c.Request.Context(), c.Param("key"))
		outcome, _ := classifyLookup(err)
		rec.ObserveLookup(outcome)

		target := "/"
		if term := sess.View().SearchTerm; term != "" {
			target += "?q=" + url.QueryEscape(term)
		}
		c.Redirect(http.StatusSeeOther, target)
	}
}
