package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mealvoice/feedbackhub/internal/auth"
	"github.com/mealvoice/feedbackhub/internal/domain/identity"
	"github.com/mealvoice/feedbackhub/internal/sessions"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	VerifySessionToken(token string) (*auth.Claims, error)
}

type SessionMiddleware struct {
	jwt     TokenVerifier
	revoker sessions.Revoker
}

func NewSessionMiddleware(jwt TokenVerifier, revoker sessions.Revoker) *SessionMiddleware {
	if revoker == nil {
		revoker = sessions.NopRevoker{}
	}

	return &SessionMiddleware{jwt: jwt, revoker: revoker}
}

// RequireSession rejects the request with 401 before any handler logic
// runs unless a valid, unrevoked session token is present.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.sessionClaims(c)

		if !ok {
			abortUnauthorized(c)
			return
		}

		// Stash useful bits of identity on the context
		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxEmailKey, claims.Email)
		c.Set(ctxRoleKey, claims.Role)
		c.Set(ctxJTIKey, claims.JTI)

		c.Next()
	}
}

// RequireAdmin gates the listing endpoint. A non-admin session gets
// the exact same rejection as no session at all, so the response never
// confirms that an admin area exists.
func (m *SessionMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)

		if !ok || role != identity.RoleAdmin {
			abortUnauthorized(c)
			return
		}

		c.Next()
	}
}

// sessionClaims pulls the token from the Authorization header or the
// session cookie and verifies it, including the revocation check.
func (m *SessionMiddleware) sessionClaims(c *gin.Context) (*auth.Claims, bool) {
	raw := tokenFromRequest(c)

	if raw == "" {
		return nil, false
	}

	claims, err := m.jwt.VerifySessionToken(raw)

	if err != nil {
		return nil, false
	}

	revoked, err := m.revoker.IsRevoked(c.Request.Context(), claims.JTI)

	if err != nil || revoked {
		// fail closed when the revocation store is unreachable
		return nil, false
	}

	return claims, true
}

func tokenFromRequest(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")

	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
	}

	raw, err := c.Cookie(SessionCookieName)

	if err != nil {
		return ""
	}

	return raw
}

// abortUnauthorized is the single source of the 401 body. Both the
// missing-session and wrong-role paths go through it so the two are
// indistinguishable to the caller.
func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "unauthorized",
			"message": "Authentication required",
		},
	})
}

// Optional helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func EmailFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxEmailKey)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}

func RoleFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxRoleKey)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}

func JTIFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxJTIKey)
	if !ok {
		return "", false
	}
	jti, ok := v.(string)
	return jti, ok
}
