package search

import (
	"sort"

	"gigtune/internal/artists"
)

// PageSize is the fixed result page size.
const PageSize = 10

// RankedProfile pairs a candidate with its computed fit score.
type RankedProfile struct {
	Profile *artists.ArtistProfile
	Score   int
}

// Rank scores every candidate and orders the result by score, newest
// profile first on ties and highest ID on full ties. The ordering is a
// total order, so the same candidate set always ranks identically.
func Rank(candidates []artists.ArtistProfile, tokens []string, filters Filters) []RankedProfile {
	ranked := make([]RankedProfile, 0, len(candidates))
	for i := range candidates {
		profile := &candidates[i]
		ranked = append(ranked, RankedProfile{
			Profile: profile,
			Score:   ScoreCandidate(profile, tokens, filters),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Profile.CreatedAt.Equal(b.Profile.CreatedAt) {
			return a.Profile.CreatedAt.After(b.Profile.CreatedAt)
		}
		return a.Profile.ID.String() > b.Profile.ID.String()
	})
	return ranked
}

// Paginate slices one page out of the ranked list. The requested page
// is clamped into [1, totalPages]; an empty result set yields page 1 of
// 0 total pages with no items.
func Paginate(ranked []RankedProfile, page int) (items []RankedProfile, clampedPage, totalPages int) {
	totalPages = (len(ranked) + PageSize - 1) / PageSize

	clampedPage = page
	if clampedPage < 1 || totalPages == 0 {
		clampedPage = 1
	}
	if totalPages > 0 && clampedPage > totalPages {
		clampedPage = totalPages
	}

	start := (clampedPage - 1) * PageSize
	if start >= len(ranked) {
		return nil, clampedPage, totalPages
	}
	end := start + PageSize
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[start:end], clampedPage, totalPages
}
