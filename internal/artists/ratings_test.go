package artists_test

import (
	"testing"

	"gigtune/internal/artists"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyRatingFirstScore(t *testing.T) {
	axis, err := artists.ApplyRating(artists.RatingAxis{}, 4)
	require.NoError(t, err)
	assert.Equal(t, 4.0, axis.Avg)
	assert.Equal(t, 1, axis.Count)
}

func TestApplyRatingRunningAverage(t *testing.T) {
	axis := artists.RatingAxis{}
	var err error
	for _, score := range []int{4, 5, 3} {
		axis, err = artists.ApplyRating(axis, score)
		require.NoError(t, err)
	}

	assert.Equal(t, 4.0, axis.Avg)
	assert.Equal(t, 3, axis.Count)
}

func TestApplyRatingRoundsToTwoDecimals(t *testing.T) {
	axis := artists.RatingAxis{}
	var err error
	for _, score := range []int{5, 4, 4} {
		axis, err = artists.ApplyRating(axis, score)
		require.NoError(t, err)
	}

	// 13/3 = 4.333...
	assert.Equal(t, 4.33, axis.Avg)
}

func TestApplyRatingRejectsOutOfRange(t *testing.T) {
	for _, score := range []int{0, -1, 6, 100} {
		_, err := artists.ApplyRating(artists.RatingAxis{}, score)
		assert.ErrorIs(t, err, artists.ErrValidation, "score %d", score)
	}
}
