package middleware

import (
	"net/http"

	"marketfront/internal/session"
	"marketfront/pkg/response"

	"github.com/gin-gonic/gin"
)

// LoginPath is where the UI is sent when the session is unrecoverable.
const LoginPath = "/login"

// RequireSession gates a route on the session store's optimistic predicate:
// an in-memory user or a valid-looking access token passes, so protected
// pages render immediately during the cached/loading window instead of
// bouncing to login. The rejection carries the login redirect for the UI.
func RequireSession(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessions.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorRedirect(http.StatusUnauthorized, "Not signed in", LoginPath))
			return
		}
		c.Next()
	}
}

// RequireRole additionally checks the cached user's role. The check runs
// against the local record only; the backend re-verifies on every proxied
// call, so a stale role here costs one upstream rejection, never privilege.
func RequireRole(sessions *session.Store, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := sessions.User()
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorRedirect(http.StatusUnauthorized, "Not signed in", LoginPath))
			return
		}

		for _, role := range allowedRoles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden,
			response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
	}
}
