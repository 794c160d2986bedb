package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/namefreezers/city-directory/internal/directory"
	"github.com/namefreezers/city-directory/internal/session"
)

const (
	sessionCookie = "cd_session"
	sessionKey    = "session"
)

// SessionMiddleware attaches the viewer's widget state to the request,
// issuing a new cookie when the viewer has none or it expired.
func SessionMiddleware(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(sessionCookie)
		sess, newID := store.Get(id)
		if newID != id {
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     sessionCookie,
				Value:    newID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *directory.Session {
	return c.MustGet(sessionKey).(*directory.Session)
}
