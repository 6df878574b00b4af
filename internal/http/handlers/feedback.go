package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mealvoice/feedbackhub/internal/config"
	"github.com/mealvoice/feedbackhub/internal/domain/feedback"
	"github.com/mealvoice/feedbackhub/internal/http/middlewares"
	"github.com/mealvoice/feedbackhub/internal/observability"
)

// FeedbackStore is the append/read-only repository surface the
// handlers need. Tests fake it; production wires the postgres repo.
type FeedbackStore interface {
	Insert(ctx context.Context, userEmail string, req feedback.SubmitRequest) (feedback.Feedback, error)
	ListAll(ctx context.Context) ([]feedback.Feedback, error)
}

type FeedbackHandler struct {
	repo FeedbackStore
	prom *observability.Prom
	log  *slog.Logger
}

func NewFeedbackHandler(repo FeedbackStore, prom *observability.Prom, log *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		repo: repo,
		prom: prom,
		log:  log,
	}
}

// Submit handles POST /api/feedback. The session middleware has
// already rejected unauthenticated calls, so validation never runs
// without an identity. Either the whole payload is accepted and one
// record is written, or nothing is.
func (h *FeedbackHandler) Submit(ctx *gin.Context) {
	email, ok := middlewares.EmailFromContext(ctx)

	if !ok || email == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	var req feedback.SubmitRequest

	if !BindJSON(ctx, &req) {
		h.countSubmission("rejected")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	created, err := h.repo.Insert(cctx, email, req)

	if err != nil {
		// detail stays server-side; the caller sees a generic error
		h.log.Error("feedback insert failed", "err", err)
		h.countSubmission("failed")
		RespondInternal(ctx, "Could not submit feedback")
		return
	}

	h.countSubmission("accepted")

	ctx.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"feedback": created,
	})
}

// List handles GET /api/feedback (admin only, enforced upstream).
func (h *FeedbackHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	all, err := h.repo.ListAll(cctx)

	if err != nil {
		h.log.Error("feedback list failed", "err", err)
		RespondInternal(ctx, "Could not fetch feedbacks")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"feedbacks": all,
		"count":     len(all),
	})
}

func (h *FeedbackHandler) countSubmission(result string) {
	if h.prom != nil {
		h.prom.SubmissionsTotal.WithLabelValues(result).Inc()
	}
}
