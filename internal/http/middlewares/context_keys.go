package middlewares

const (
	ctxUserIDKey = "auth.userID"
	ctxEmailKey  = "auth.email"
	ctxRoleKey   = "auth.role"
	ctxJTIKey    = "auth.jti"

	CtxRequestID = "request_id"
)

// SessionCookieName carries the signed session token for browser
// clients; API clients may send the same token as a Bearer header.
const SessionCookieName = "feedback_session"
