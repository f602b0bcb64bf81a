package artists

import (
	"fmt"
	"math"
)

// RatingAxis is one running average over submitted scores.
type RatingAxis struct {
	Avg   float64
	Count int
}

// ApplyRating folds one score (1..5) into the running average. The
// average is kept rounded to two decimals.
func ApplyRating(axis RatingAxis, score int) (RatingAxis, error) {
	if score < 1 || score > 5 {
		return axis, fmt.Errorf("%w: rating score must be between 1 and 5", ErrValidation)
	}

	newCount := axis.Count + 1
	newAvg := (axis.Avg*float64(axis.Count) + float64(score)) / float64(newCount)

	return RatingAxis{
		Avg:   math.Round(newAvg*100) / 100,
		Count: newCount,
	}, nil
}
