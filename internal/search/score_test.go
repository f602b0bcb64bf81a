package search_test

import (
	"testing"

	"gigtune/internal/artists"
	"gigtune/internal/search"

	"github.com/stretchr/testify/assert"
)

// An empty profile still earns the default reliability component:
// normalized metrics give (1-24/72)*15 + 15 + 10 = 35.
const defaultReliabilityScore = 35

func term(taxonomy, slug, name string) artists.Term {
	return artists.Term{Taxonomy: taxonomy, Slug: slug, Name: name}
}

func TestScoreEmptyProfile(t *testing.T) {
	p := &artists.ArtistProfile{}
	got := search.ScoreCandidate(p, nil, search.Filters{})
	assert.Equal(t, defaultReliabilityScore, got)
}

func TestScoreCompleteness(t *testing.T) {
	base := defaultReliabilityScore

	withTitle := &artists.ArtistProfile{Title: "Jazz Trio"}
	assert.Equal(t, base+5, search.ScoreCandidate(withTitle, nil, search.Filters{}))

	shortBio := &artists.ArtistProfile{Title: "Jazz Trio", Bio: "Thirty characters of bio text."}
	assert.Equal(t, base+10, search.ScoreCandidate(shortBio, nil, search.Filters{}))

	longBio := &artists.ArtistProfile{
		Title: "Jazz Trio",
		Bio: "An experienced trio playing standards and modern arrangements for weddings," +
			" lounges and corporate receptions across the region all year.",
	}
	assert.Equal(t, base+15, search.ScoreCandidate(longBio, nil, search.Filters{}))
}

func TestScoreTaxonomyBreadthCapped(t *testing.T) {
	p := &artists.ArtistProfile{
		Terms: []artists.Term{
			term(artists.TaxonomyPerformerType, "dj", "DJ"),
			term(artists.TaxonomyInstrumentCategory, "guitar", "Guitar"),
			term(artists.TaxonomyKeyboardParts, "piano", "Piano"),
			term(artists.TaxonomyVocalType, "tenor", "Tenor"),
			term(artists.TaxonomyVocalRole, "lead", "Lead Vocals"),
		},
	}
	// Five populated taxonomies would be +10; the cap holds it there.
	got := search.ScoreCandidate(p, nil, search.Filters{})
	assert.Equal(t, defaultReliabilityScore+10, got)
}

func TestScoreFilterOverlap(t *testing.T) {
	p := &artists.ArtistProfile{
		Terms: []artists.Term{
			term(artists.TaxonomyInstrumentCategory, "guitar", "Guitar"),
			term(artists.TaxonomyInstrumentCategory, "drums", "Drums"),
		},
	}
	filters := search.Filters{TermSlugs: map[string][]string{
		artists.TaxonomyInstrumentCategory: {"guitar", "drums", "brass"},
	}}

	// breadth +2, overlap 2 terms: +25 flat + 20
	got := search.ScoreCandidate(p, nil, filters)
	assert.Equal(t, defaultReliabilityScore+2+25+20, got)
}

func TestScoreFilterOverlapPerTermBonusCapped(t *testing.T) {
	var terms []artists.Term
	slugs := []string{"guitar", "drums", "strings", "brass", "keyboard"}
	for _, slug := range slugs {
		terms = append(terms, term(artists.TaxonomyInstrumentCategory, slug, slug))
	}
	p := &artists.ArtistProfile{Terms: terms}
	filters := search.Filters{TermSlugs: map[string][]string{
		artists.TaxonomyInstrumentCategory: slugs,
	}}

	// Overlap of 5 would be +50; the per-term part caps at 25.
	got := search.ScoreCandidate(p, nil, filters)
	assert.Equal(t, defaultReliabilityScore+2+25+25, got)
}

func TestScoreTextRelevance(t *testing.T) {
	p := &artists.ArtistProfile{
		Title: "Smooth Jazz Trio",
		Bio:   "A jazz group for lounges.",
		Terms: []artists.Term{
			term(artists.TaxonomyPerformerType, "live-band", "Jazz Band"),
		},
	}
	tokens := search.Tokenize("jazz trio")

	// title: both tokens hit = +40; bio: "jazz" hits = +10;
	// taxonomy name mentions "jazz" = +8; title +5, bio ≥30? len 25 no;
	// breadth +2.
	got := search.ScoreCandidate(p, tokens, search.Filters{})
	assert.Equal(t, defaultReliabilityScore+5+2+40+10+8, got)
}

// A token hits whenever it appears inside a word, matching the term
// bonus semantics: "sing" must hit both "Singers" and "singer".
func TestScoreSubstringTokenHits(t *testing.T) {
	p := &artists.ArtistProfile{
		Title: "The Jazz Singers",
		Bio:   "An experienced singer available for weddings.",
	}

	// title +5, bio ≥30 +5
	without := search.ScoreCandidate(p, nil, search.Filters{})
	assert.Equal(t, defaultReliabilityScore+5+5, without)

	// title hit +20, bio hit +10
	got := search.ScoreCandidate(p, search.Tokenize("sing"), search.Filters{})
	assert.Equal(t, without+20+10, got)
}

// Completeness measures the visible text, so markup alone earns nothing.
func TestScoreCompletenessIgnoresMarkup(t *testing.T) {
	markupOnly := &artists.ArtistProfile{Bio: "<p><strong></strong></p><p><em></em></p>"}
	got := search.ScoreCandidate(markupOnly, nil, search.Filters{})
	assert.Equal(t, defaultReliabilityScore, got)

	wrapped := &artists.ArtistProfile{Bio: "<p>Thirty characters of bio text.</p>"}
	got = search.ScoreCandidate(wrapped, nil, search.Filters{})
	assert.Equal(t, defaultReliabilityScore+5, got)
}

func TestScoreTitleHitsCapped(t *testing.T) {
	p := &artists.ArtistProfile{Title: "alpha bravo charlie delta echo"}
	tokens := search.Tokenize("alpha bravo charlie delta echo")

	// Five hits would be +100; the title component caps at 60.
	got := search.ScoreCandidate(p, tokens, search.Filters{})
	assert.Equal(t, defaultReliabilityScore+5+60, got)
}

func TestScoreReliabilityComponent(t *testing.T) {
	p := &artists.ArtistProfile{
		ResponseHours:    36,
		AcceptanceRate:   80,
		CancellationRate: 20,
		NoShowCount:      2,
	}
	// (1-36/72)*15 + 80/100*15 + (1-20/100)*10 - 2 = 7.5 + 12 + 8 - 2 = 25.5 → 26
	got := search.ScoreCandidate(p, nil, search.Filters{})
	assert.Equal(t, 26, got)
}

func TestScoreClampsAtZero(t *testing.T) {
	p := &artists.ArtistProfile{
		ResponseHours:    100,
		AcceptanceRate:   1,
		CancellationRate: 100,
		NoShowCount:      50,
	}
	// Reliability is 0.15 - 10 → rounds to -10; the final score clamps.
	got := search.ScoreCandidate(p, nil, search.Filters{})
	assert.Equal(t, 0, got)
}

func TestScoreAvailability(t *testing.T) {
	p := &artists.ArtistProfile{
		AvailableNow:     true,
		TravelRadiusKm:   100,
		AvailabilityDays: "friday,saturday",
	}

	// Flat +5 with no availability filters requested
	got := search.ScoreCandidate(p, nil, search.Filters{})
	assert.Equal(t, defaultReliabilityScore+5, got)

	availableNow := true
	minRadius := 80
	filters := search.Filters{
		AvailableNow:      &availableNow,
		Day:               "saturday",
		MinTravelRadiusKm: &minRadius,
	}
	// +5 flat, +15 available-now match, +10 day match, +5 radius met
	got = search.ScoreCandidate(p, nil, filters)
	assert.Equal(t, defaultReliabilityScore+5+15+10+5, got)

	// Requested but not matching: no availability filter points
	notAvailable := &artists.ArtistProfile{TravelRadiusKm: 50, AvailabilityDays: "monday"}
	got = search.ScoreCandidate(notAvailable, nil, filters)
	assert.Equal(t, defaultReliabilityScore, got)
}

func TestScoreIsDeterministic(t *testing.T) {
	p := &artists.ArtistProfile{
		Title: "Midnight Groove Collective",
		Bio:   "A five-piece live band playing funk, soul and disco classics for weddings and parties.",
		Terms: []artists.Term{
			term(artists.TaxonomyPerformerType, "live-band", "Live Band"),
			term(artists.TaxonomyInstrumentCategory, "guitar", "Guitar"),
		},
		AvailableNow:   true,
		ResponseHours:  4,
		AcceptanceRate: 92,
	}
	tokens := search.Tokenize("funk band")
	filters := search.Filters{TermSlugs: map[string][]string{
		artists.TaxonomyPerformerType: {"live-band"},
	}}

	first := search.ScoreCandidate(p, tokens, filters)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, search.ScoreCandidate(p, tokens, filters))
	}
}
