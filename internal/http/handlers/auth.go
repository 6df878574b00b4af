package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mealvoice/feedbackhub/internal/auth"
	"github.com/mealvoice/feedbackhub/internal/config"
	domain "github.com/mealvoice/feedbackhub/internal/domain/identity"
	"github.com/mealvoice/feedbackhub/internal/http/middlewares"
	"github.com/mealvoice/feedbackhub/internal/sessions"
)

// Authenticator is the fixed-credential store. The bool result is a
// rejection, not an error: wrong credentials are expected traffic.
type Authenticator interface {
	Authenticate(email, password string) (domain.Identity, bool)
}

type AuthHandler struct {
	store   Authenticator
	jwt     *auth.Manager
	revoker sessions.Revoker
	cfg     config.Config
	log     *slog.Logger
}

func NewAuthHandler(store Authenticator, jwtManager *auth.Manager, revoker sessions.Revoker, cfg config.Config, log *slog.Logger) *AuthHandler {
	if revoker == nil {
		revoker = sessions.NopRevoker{}
	}

	return &AuthHandler{
		store:   store,
		jwt:     jwtManager,
		revoker: revoker,
		cfg:     cfg,
		log:     log,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	id, ok := h.store.Authenticate(req.Email, req.Password)

	if !ok {
		// logged, never retried, and the message never says which
		// field was wrong
		h.log.Info("login rejected", "email", req.Email)
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	sessionToken, _, expiresAt, err := h.jwt.GenerateSessionToken(id)

	if err != nil {
		RespondInternal(ctx, "Could not create session")
		return
	}

	h.setSessionCookie(ctx, sessionToken, expiresAt)

	ctx.JSON(http.StatusOK, gin.H{
		"sessionToken": sessionToken,
		"role":         id.Role,
		"expiresAt":    expiresAt,
	})
}

// Logout revokes the presented session (when a revocation store is
// configured) and clears the cookie. It is idempotent and always
// answers 204, even without a valid session.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	raw := h.sessionTokenFrom(ctx)

	if raw != "" {
		claims, err := h.jwt.VerifySessionToken(raw)

		if err == nil {
			cctx, cancel := config.WithTimeout(2 * time.Second)
			defer cancel()

			if err := h.revoker.Revoke(cctx, claims.JTI, claims.ExpiresAt.Time); err != nil {
				h.log.Error("session revoke failed", "err", err)
			}
		}
	}

	h.clearSessionCookie(ctx)
	ctx.Status(http.StatusNoContent)
}

// Helper functions

func (h *AuthHandler) sessionTokenFrom(ctx *gin.Context) string {
	authHeader := ctx.GetHeader("Authorization")

	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
	}

	raw, err := ctx.Cookie(middlewares.SessionCookieName)

	if err != nil {
		return ""
	}

	return raw
}

func (h *AuthHandler) setSessionCookie(ctx *gin.Context, raw string, expiresAt time.Time) {
	secure := h.cfg.Env == "prod"

	maxAge := int(time.Until(expiresAt).Seconds())

	ctx.SetSameSite(http.SameSiteStrictMode)

	ctx.SetCookie(
		middlewares.SessionCookieName,
		raw,
		maxAge,
		"/",
		"",
		secure,
		true, // HttpOnly.
	)
}

func (h *AuthHandler) clearSessionCookie(ctx *gin.Context) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(
		middlewares.SessionCookieName,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}
