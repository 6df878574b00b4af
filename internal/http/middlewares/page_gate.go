package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mealvoice/feedbackhub/internal/accesscontrol"
)

// PageGate applies the redirect rules for the browser-facing areas:
// unauthenticated visitors go to login, and each role is pushed back
// to its own area. Unlike the API middlewares it never answers 401,
// it always redirects.
func (m *SessionMiddleware) PageGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := ""

		claims, ok := m.sessionClaims(c)

		if ok {
			role = claims.Role
		}

		decision := accesscontrol.Decide(c.Request.URL.Path, role)

		if !decision.Allow {
			c.Redirect(http.StatusFound, decision.Target)
			c.Abort()
			return
		}

		if ok {
			c.Set(ctxUserIDKey, claims.UserID)
			c.Set(ctxEmailKey, claims.Email)
			c.Set(ctxRoleKey, claims.Role)
			c.Set(ctxJTIKey, claims.JTI)
		}

		c.Next()
	}
}
