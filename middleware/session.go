package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookie names the cookie carrying the browsing-session ID.
	SessionCookie = "cart_session"
	// SessionHeader lets non-browser clients pass the session ID explicitly.
	SessionHeader = "X-Cart-Session"
	// SessionKey is the gin context key the session ID is stored under.
	SessionKey = "session_id"

	sessionMaxAge = 60 * 60 * 24 * 30 // 30 days
)

// Session assigns every request a browsing-session ID. An existing ID is
// taken from the header or cookie; otherwise a new one is minted and set as
// a cookie so the same anonymous cart follows the browser across requests.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				sessionID = cookie
			}
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
			c.SetCookie(SessionCookie, sessionID, sessionMaxAge, "/", "", false, true)
		}

		c.Set(SessionKey, sessionID)
		c.Next()
	}
}
