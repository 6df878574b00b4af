package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mealvoice/feedbackhub/internal/auth"
	"github.com/mealvoice/feedbackhub/internal/config"
	"github.com/mealvoice/feedbackhub/internal/http/handlers"
	"github.com/mealvoice/feedbackhub/internal/http/middlewares"
	"github.com/mealvoice/feedbackhub/internal/identity"
	"github.com/mealvoice/feedbackhub/internal/observability"
	"github.com/mealvoice/feedbackhub/internal/repo/postgres"
	"github.com/mealvoice/feedbackhub/internal/sessions"
)

const maxRequestBody = 64 << 10 // feedback payloads are small

// Deps carries everything the router wires together. Production goes
// through NewRouter; tests build Deps directly with fakes and the
// memory repo.
type Deps struct {
	Log       *slog.Logger
	Cfg       config.Config
	Feedbacks handlers.FeedbackStore
	Auth      handlers.Authenticator
	JWT       *auth.Manager
	Revoker   sessions.Revoker
	Registry  *prometheus.Registry
	Prom      *observability.Prom
	Ping      func() error
	Tracing   bool
}

// NewRouter wires the production dependency graph on top of a live
// pgx pool.
func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config) (*gin.Engine, error) {
	store, err := identity.NewStore(cfg)

	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	var revoker sessions.Revoker = sessions.NopRevoker{}

	if cfg.RedisAddr != "" {
		revoker = sessions.NewRedisRevoker(cfg.RedisAddr)
	}

	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	return NewRouterWith(Deps{
		Log:       log,
		Cfg:       cfg,
		Feedbacks: postgres.NewFeedbacksRepo(pool, prom),
		Auth:      store,
		JWT:       auth.NewManager(cfg.SessionSecret, cfg.SessionTTL()),
		Revoker:   revoker,
		Registry:  reg,
		Prom:      prom,
		Ping:      ping,
		Tracing:   cfg.OTLPEndpoint != "",
	}), nil
}

// NewRouterWith assembles the gin engine from already-built parts.
func NewRouterWith(d Deps) *gin.Engine {
	if d.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())

	if len(d.Cfg.AllowedOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(d.Cfg.AllowedOrigins))
	}

	r.Use(middlewares.MaxBodyBytes(maxRequestBody))
	r.Use(middlewares.RequireJSON())

	if d.Tracing {
		r.Use(otelgin.Middleware("feedbackhub-api"))
	}

	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	// health + metrics

	h := handlers.NewHealthHandler(d.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	// wire up handlers

	sessionMw := middlewares.NewSessionMiddleware(d.JWT, d.Revoker)
	authHandler := handlers.NewAuthHandler(d.Auth, d.JWT, d.Revoker, d.Cfg, d.Log)
	feedbackHandler := handlers.NewFeedbackHandler(d.Feedbacks, d.Prom, d.Log)
	dashboardHandler := handlers.NewDashboardHandler(d.Feedbacks, d.Log)

	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/logout", authHandler.Logout)

	// API surface: bearer/cookie session required, listing is
	// admin-gated with the same 401 as no session at all
	api := r.Group("/api")
	api.Use(sessionMw.RequireSession())
	api.POST("/feedback", feedbackHandler.Submit)
	api.GET("/feedback", sessionMw.RequireAdmin(), feedbackHandler.List)

	// browser areas: redirect-based gating
	admin := r.Group("/admin")
	admin.Use(sessionMw.PageGate())
	admin.GET("/dashboard", dashboardHandler.AdminDashboard)

	pages := r.Group("/feedback")
	pages.Use(sessionMw.PageGate())
	pages.GET("/form", dashboardHandler.SubmissionForm)

	return r
}
