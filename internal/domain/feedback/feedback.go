package feedback

import (
	"errors"
	"time"
)

// Feedback is one immutable meal-quality submission. Records are only
// ever inserted and read back, never updated or deleted.
type Feedback struct {
	ID         int64  `json:"id"`
	UserEmail  string `json:"userEmail"`
	SchoolName string `json:"schoolName"`

	// seven 1-5 ratings, all required
	FoodQualityRating     int `json:"foodQualityRating"`
	FoodTasteRating       int `json:"foodTasteRating"`
	PortionSizeRating     int `json:"portionSizeRating"`
	FoodTemperatureRating int `json:"foodTemperatureRating"`
	VarietyRating         int `json:"varietyRating"`
	PresentationRating    int `json:"presentationRating"`
	HygieneRating         int `json:"hygieneRating"`

	FavoriteItem      string `json:"favoriteItem,omitempty"`
	LeastFavoriteItem string `json:"leastFavoriteItem,omitempty"`
	Suggestions       string `json:"suggestions,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

var ErrNotFound = errors.New("feedback not found")

// SubmitRequest is the POST /api/feedback payload. userEmail and the
// timestamp are stamped by the server, never taken from the client.
type SubmitRequest struct {
	SchoolName string `json:"schoolName" binding:"required,max=255"`

	FoodQualityRating     int `json:"foodQualityRating" binding:"required,min=1,max=5"`
	FoodTasteRating       int `json:"foodTasteRating" binding:"required,min=1,max=5"`
	PortionSizeRating     int `json:"portionSizeRating" binding:"required,min=1,max=5"`
	FoodTemperatureRating int `json:"foodTemperatureRating" binding:"required,min=1,max=5"`
	VarietyRating         int `json:"varietyRating" binding:"required,min=1,max=5"`
	PresentationRating    int `json:"presentationRating" binding:"required,min=1,max=5"`
	HygieneRating         int `json:"hygieneRating" binding:"required,min=1,max=5"`

	FavoriteItem      string `json:"favoriteItem" binding:"omitempty,max=255"`
	LeastFavoriteItem string `json:"leastFavoriteItem" binding:"omitempty,max=255"`
	Suggestions       string `json:"suggestions" binding:"omitempty"`
}

// Ratings returns the seven rating values in schema order.
func (f Feedback) Ratings() [7]int {
	return [7]int{
		f.FoodQualityRating,
		f.FoodTasteRating,
		f.PortionSizeRating,
		f.FoodTemperatureRating,
		f.VarietyRating,
		f.PresentationRating,
		f.HygieneRating,
	}
}
