package search

import (
	"math"
	"strings"

	"gigtune/internal/artists"
)

// Score bounds for a ranked candidate.
const (
	minScore = 0
	maxScore = 999
)

// Filters narrows the candidate set and feeds the match-quality part
// of the score.
type Filters struct {
	// TermSlugs maps taxonomy to the requested term slugs.
	TermSlugs map[string][]string

	AvailableNow      *bool
	Day               string
	MinTravelRadiusKm *int
}

// HasTermFilters reports whether any taxonomy filter was requested.
func (f Filters) HasTermFilters() bool {
	for _, slugs := range f.TermSlugs {
		if len(slugs) > 0 {
			return true
		}
	}
	return false
}

// ScoreCandidate computes the deterministic fit score of one published
// profile against the query tokens and filters. Identical inputs always
// produce the identical score; the result is clamped to [0, 999].
func ScoreCandidate(profile *artists.ArtistProfile, tokens []string, filters Filters) int {
	score := 0
	termsByTaxonomy := profile.TermsByTaxonomy()
	bioText := stripText(profile.Bio)

	// Profile completeness measures visible text only
	if strings.TrimSpace(profile.Title) != "" {
		score += 5
	}
	if len(bioText) >= 30 {
		score += 5
	}
	if len(bioText) >= 120 {
		score += 5
	}

	// Taxonomy breadth, capped
	breadth := 0
	for _, terms := range termsByTaxonomy {
		if len(terms) > 0 {
			breadth += 2
		}
	}
	if breadth > 10 {
		breadth = 10
	}
	score += breadth

	// Filter overlap per taxonomy: a flat bonus for matching at all plus
	// a capped per-term bonus
	for taxonomy, requested := range filters.TermSlugs {
		if len(requested) == 0 {
			continue
		}
		wanted := make(map[string]bool, len(requested))
		for _, slug := range requested {
			wanted[slug] = true
		}
		overlap := 0
		for _, term := range termsByTaxonomy[taxonomy] {
			if wanted[term.Slug] {
				overlap++
			}
		}
		if overlap > 0 {
			score += 25 + minInt(25, overlap*10)
		}
	}

	// Text relevance: a token hits when it appears anywhere in the
	// visible text, so "sing" matches a bio mentioning "singer"
	if len(tokens) > 0 {
		titleText := strings.ToLower(stripText(profile.Title))
		loweredBio := strings.ToLower(bioText)

		titleHits, bioHits := 0, 0
		for _, token := range tokens {
			if strings.Contains(titleText, token) {
				titleHits++
			}
			if strings.Contains(loweredBio, token) {
				bioHits++
			}
		}
		score += minInt(60, titleHits*20)
		score += minInt(40, bioHits*10)

		// One bonus per taxonomy whose term names mention a query token
		for _, terms := range termsByTaxonomy {
			if taxonomyMentionsToken(terms, tokens) {
				score += 8
			}
		}
	}

	// Reliability: response speed, acceptance, cancellations and no-shows
	// folded into one rounded component
	metrics := profile.Reliability().Normalize()

	responseHours := math.Min(72, metrics.ResponseHours)
	acceptance := clampRate(metrics.AcceptanceRate)
	cancellation := clampRate(metrics.CancellationRate)

	reliability := (1-responseHours/72)*15 +
		acceptance/100*15 +
		(1-cancellation/100)*10 -
		math.Min(10, float64(metrics.NoShowCount))
	score += int(math.Round(reliability))

	// Availability
	if profile.AvailableNow {
		score += 5
	}
	if filters.AvailableNow != nil && *filters.AvailableNow && profile.AvailableNow {
		score += 15
	}
	if filters.Day != "" && profile.AvailabilityDaySet()[filters.Day] {
		score += 10
	}
	if filters.MinTravelRadiusKm != nil && profile.TravelRadiusKm >= *filters.MinTravelRadiusKm {
		score += 5
	}

	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

func taxonomyMentionsToken(terms []artists.Term, tokens []string) bool {
	for _, term := range terms {
		name := strings.ToLower(term.Name)
		for _, token := range tokens {
			if strings.Contains(name, token) {
				return true
			}
		}
	}
	return false
}

func clampRate(rate float64) float64 {
	if rate < 0 {
		return 0
	}
	if rate > 100 {
		return 100
	}
	return rate
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
