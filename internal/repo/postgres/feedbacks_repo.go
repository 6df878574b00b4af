package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mealvoice/feedbackhub/internal/domain/feedback"
	"github.com/mealvoice/feedbackhub/internal/observability"
)

// FeedbacksRepo is the append-only feedback log. There is no update or
// delete: a record is written once and only ever read back.
type FeedbacksRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewFeedbacksRepo(pool *pgxpool.Pool, prom *observability.Prom) *FeedbacksRepo {
	return &FeedbacksRepo{
		pool: pool,
		prom: prom,
	}
}

// Insert writes one record and returns it with the assigned id and
// timestamp. The single INSERT is atomic at the storage layer; a
// retried call after a timeout may however write a duplicate record,
// which is a known limitation of this endpoint.
func (r *FeedbacksRepo) Insert(ctx context.Context, userEmail string, req feedback.SubmitRequest) (feedback.Feedback, error) {
	f := feedback.Feedback{
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
	}

	err := r.prom.ObserveDB("feedbacks.insert", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO feedbacks(
				user_email, school_name,
				food_quality_rating, food_taste_rating, portion_size_rating,
				food_temperature_rating, variety_rating, presentation_rating,
				hygiene_rating, favorite_item, least_favorite_item, suggestions)
			VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			RETURNING id, created_at`,
			f.UserEmail, f.SchoolName,
			f.FoodQualityRating, f.FoodTasteRating, f.PortionSizeRating,
			f.FoodTemperatureRating, f.VarietyRating, f.PresentationRating,
			f.HygieneRating, nullable(f.FavoriteItem), nullable(f.LeastFavoriteItem), nullable(f.Suggestions),
		).Scan(&f.ID, &f.CreatedAt)
	})

	if err != nil {
		return feedback.Feedback{}, err
	}

	return f, nil
}

// ListAll is a full scan ordered by id so callers see a deterministic
// order and every insert that completed before the call.
func (r *FeedbacksRepo) ListAll(ctx context.Context) ([]feedback.Feedback, error) {
	var output []feedback.Feedback

	err := r.prom.ObserveDB("feedbacks.list_all", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, user_email, school_name,
				food_quality_rating, food_taste_rating, portion_size_rating,
				food_temperature_rating, variety_rating, presentation_rating,
				hygiene_rating, favorite_item, least_favorite_item, suggestions,
				created_at
			FROM feedbacks
			ORDER BY id ASC`)

		if err != nil {
			return err
		}

		defer rows.Close()

		output = make([]feedback.Feedback, 0)

		for rows.Next() {
			var f feedback.Feedback
			var fav, least, sugg *string

			err = rows.Scan(
				&f.ID, &f.UserEmail, &f.SchoolName,
				&f.FoodQualityRating, &f.FoodTasteRating, &f.PortionSizeRating,
				&f.FoodTemperatureRating, &f.VarietyRating, &f.PresentationRating,
				&f.HygieneRating, &fav, &least, &sugg,
				&f.CreatedAt,
			)

			if err != nil {
				return err
			}

			f.FavoriteItem = deref(fav)
			f.LeastFavoriteItem = deref(least)
			f.Suggestions = deref(sugg)

			output = append(output, f)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

// nullable maps "" to NULL so optional text columns stay NULL instead
// of collecting empty strings.
func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
