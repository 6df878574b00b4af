package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mealvoice/feedbackhub/internal/domain/feedback"
)

// FeedbacksRepo is the in-memory stand-in for the postgres repo, used
// by handler and router tests. IDs increase monotonically like the
// serial column would.
type FeedbacksRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  []feedback.Feedback
}

func NewFeedbacksRepo() *FeedbacksRepo {
	return &FeedbacksRepo{
		nextID: 1,
	}
}

func (r *FeedbacksRepo) Insert(ctx context.Context, userEmail string, req feedback.SubmitRequest) (feedback.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f := feedback.Feedback{
		ID:                    r.nextID,
		UserEmail:             userEmail,
		SchoolName:            req.SchoolName,
		FoodQualityRating:     req.FoodQualityRating,
		FoodTasteRating:       req.FoodTasteRating,
		PortionSizeRating:     req.PortionSizeRating,
		FoodTemperatureRating: req.FoodTemperatureRating,
		VarietyRating:         req.VarietyRating,
		PresentationRating:    req.PresentationRating,
		HygieneRating:         req.HygieneRating,
		FavoriteItem:          req.FavoriteItem,
		LeastFavoriteItem:     req.LeastFavoriteItem,
		Suggestions:           req.Suggestions,
		CreatedAt:             time.Now().UTC(),
	}

	r.nextID++
	r.items = append(r.items, f)

	return f, nil
}

func (r *FeedbacksRepo) ListAll(ctx context.Context) ([]feedback.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// items are appended in id order already
	out := make([]feedback.Feedback, len(r.items))
	copy(out, r.items)

	return out, nil
}

// Count is a test helper for asserting that failed submissions did not
// persist anything.
func (r *FeedbacksRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}
