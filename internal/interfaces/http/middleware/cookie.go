package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zhravan/juztadrop-sub000/internal/domain/entities"
)

var sessionCookieMaxAge = int(entities.SessionValidity.Seconds())

// SessionToken returns the session cookie value, or "" when absent.
func SessionToken(c *gin.Context) string {
	token, err := c.Cookie(entities.SessionCookieName)
	if err != nil {
		return ""
	}
	return token
}

// SetSessionCookie writes the session cookie. secure is on in production.
func SetSessionCookie(c *gin.Context, token string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(entities.SessionCookieName, token, sessionCookieMaxAge, "/", "", secure, true)
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(entities.SessionCookieName, "", -1, "/", "", secure, true)
}
