package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mealvoice/feedbackhub/internal/config"
	"github.com/mealvoice/feedbackhub/internal/domain/feedback"
)

// DashboardHandler serves the role-gated browser areas: the admin
// dashboard view model and the submission form schema. Page layout
// itself lives in the client; these endpoints carry the data.
type DashboardHandler struct {
	repo FeedbackStore
	log  *slog.Logger
}

func NewDashboardHandler(repo FeedbackStore, log *slog.Logger) *DashboardHandler {
	return &DashboardHandler{repo: repo, log: log}
}

// DashboardEntry is one feedback record decorated with its computed
// average and display band.
type DashboardEntry struct {
	feedback.Feedback
	AverageRating float64       `json:"averageRating"`
	RatingBand    feedback.Band `json:"ratingBand"`
}

func (h *DashboardHandler) AdminDashboard(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	all, err := h.repo.ListAll(cctx)

	if err != nil {
		h.log.Error("dashboard list failed", "err", err)
		RespondInternal(ctx, "Could not load dashboard")
		return
	}

	entries := make([]DashboardEntry, 0, len(all))

	for _, f := range all {
		avg := feedback.AverageRating(f)

		entries = append(entries, DashboardEntry{
			Feedback:      f,
			AverageRating: avg,
			RatingBand:    feedback.RatingBand(avg),
		})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"total":     len(entries),
		"feedbacks": entries,
	})
}

type formField struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Min      int    `json:"min,omitempty"`
	Max      int    `json:"max,omitempty"`
}

// ratingFields mirrors the seven questions of the submission form, in
// schema order.
var ratingFields = []formField{
	{Name: "foodQualityRating", Label: "How would you rate the overall food quality?", Type: "rating", Required: true, Min: 1, Max: 5},
	{Name: "foodTasteRating", Label: "How would you rate the taste of the meals?", Type: "rating", Required: true, Min: 1, Max: 5},
	{Name: "portionSizeRating", Label: "How satisfied are you with the portion sizes?", Type: "rating", Required: true, Min: 1, Max: 5},
	{Name: "foodTemperatureRating", Label: "How would you rate the temperature of the food served?", Type: "rating", Required: true, Min: 1, Max: 5},
	{Name: "varietyRating", Label: "How would you rate the variety of meals offered?", Type: "rating", Required: true, Min: 1, Max: 5},
	{Name: "presentationRating", Label: "How would you rate the presentation of the food?", Type: "rating", Required: true, Min: 1, Max: 5},
	{Name: "hygieneRating", Label: "How would you rate the hygiene standards?", Type: "rating", Required: true, Min: 1, Max: 5},
}

// SubmissionForm describes the fixed-shape form so the client renders
// exactly the fields the API validates.
func (h *DashboardHandler) SubmissionForm(ctx *gin.Context) {
	fields := []formField{
		{Name: "schoolName", Label: "School name", Type: "text", Required: true, Max: 255},
	}

	fields = append(fields, ratingFields...)

	fields = append(fields,
		formField{Name: "favoriteItem", Label: "Favorite menu item", Type: "text", Max: 255},
		formField{Name: "leastFavoriteItem", Label: "Least favorite menu item", Type: "text", Max: 255},
		formField{Name: "suggestions", Label: "Suggestions", Type: "textarea"},
	)

	ctx.JSON(http.StatusOK, gin.H{"fields": fields})
}
