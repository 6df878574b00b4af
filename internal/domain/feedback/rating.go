package feedback

import "math"

// Band classifies an average rating for display.
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// AverageRating is the arithmetic mean of the seven ratings, rounded
// half-up to one decimal place.
func AverageRating(f Feedback) float64 {
	total := 0

	for _, r := range f.Ratings() {
		total += r
	}

	avg := float64(total) / 7.0

	// math.Floor(x*10+0.5)/10 rounds half up; math.Round would round
	// half away from zero, which is the same for values in [1,5] but
	// the intent here is explicit.
	return math.Floor(avg*10+0.5) / 10
}

// RatingBand maps an average onto its display band:
// >= 4 high, >= 3 medium, else low.
func RatingBand(average float64) Band {
	switch {
	case average >= 4:
		return BandHigh
	case average >= 3:
		return BandMedium
	default:
		return BandLow
	}
}
