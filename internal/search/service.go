package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"gigtune/internal/artists"
	"gigtune/internal/shared/constants"
	"gigtune/pkg/cache"
	"gigtune/pkg/logger"
)

type Service interface {
	SearchArtists(ctx context.Context, query SearchQuery, termFilters map[string][]string) (*SearchResponse, error)
}

type service struct {
	profiles artists.Repository
	cache    cache.Service
	log      *logger.Logger
}

func NewService(profiles artists.Repository, cacheService cache.Service, log *logger.Logger) Service {
	return &service{
		profiles: profiles,
		cache:    cacheService,
		log:      log,
	}
}

// SearchArtists ranks published profiles against the query and filters.
// Result pages are cached briefly; any profile write invalidates the
// whole search keyspace.
func (s *service) SearchArtists(ctx context.Context, query SearchQuery, termFilters map[string][]string) (*SearchResponse, error) {
	filters, err := buildFilters(query, termFilters)
	if err != nil {
		return nil, err
	}

	tokens := Tokenize(query.Query)
	page := query.Page
	if page < 1 {
		page = 1
	}

	cacheKey := constants.BuildSearchPageKey(digest(tokens, filters), page)

	var result SearchResponse
	err = s.cache.GetOrSet(ctx, cacheKey, constants.TTL_SEARCH_PAGE, func() (interface{}, error) {
		return s.rankPage(ctx, tokens, filters, page, query.Query)
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) rankPage(ctx context.Context, tokens []string, filters Filters, page int, rawQuery string) (*SearchResponse, error) {
	start := time.Now()

	candidates, err := s.profiles.GetSearchCandidates(ctx, artists.CandidateFilter{TermSlugs: filters.TermSlugs})
	if err != nil {
		return nil, fmt.Errorf("failed to load search candidates: %w", err)
	}

	ranked := Rank(candidates, tokens, filters)
	pageItems, clampedPage, totalPages := Paginate(ranked, page)

	results := make([]ResultResponse, 0, len(pageItems))
	for _, item := range pageItems {
		results = append(results, ResultResponse{
			ProfileResponse: item.Profile.ToResponse(true),
			Score:           item.Score,
		})
	}

	s.log.LogSearch(ctx, rawQuery, len(candidates), clampedPage, time.Since(start))

	return &SearchResponse{
		Results:    results,
		Page:       clampedPage,
		PageSize:   PageSize,
		TotalPages: totalPages,
		TotalCount: len(ranked),
	}, nil
}

func buildFilters(query SearchQuery, termFilters map[string][]string) (Filters, error) {
	filters := Filters{
		AvailableNow:      query.AvailableNow,
		MinTravelRadiusKm: query.MinTravelRadiusKm,
	}

	if query.Day != "" {
		day := strings.ToLower(strings.TrimSpace(query.Day))
		if !artists.IsValidWeekday(day) {
			return Filters{}, fmt.Errorf("%w: invalid weekday %q", artists.ErrValidation, query.Day)
		}
		filters.Day = day
	}

	for taxonomy, slugs := range termFilters {
		if !artists.IsValidTaxonomy(taxonomy) {
			return Filters{}, fmt.Errorf("%w: unknown taxonomy %q", artists.ErrValidation, taxonomy)
		}
		cleaned := make([]string, 0, len(slugs))
		seen := make(map[string]bool)
		for _, slug := range slugs {
			slug = strings.ToLower(strings.TrimSpace(slug))
			if slug == "" || seen[slug] {
				continue
			}
			seen[slug] = true
			cleaned = append(cleaned, slug)
		}
		if len(cleaned) > 0 {
			if filters.TermSlugs == nil {
				filters.TermSlugs = make(map[string][]string)
			}
			filters.TermSlugs[taxonomy] = cleaned
		}
	}
	return filters, nil
}

// digest canonicalizes tokens and filters into a stable cache key part.
func digest(tokens []string, filters Filters) string {
	var parts []string
	parts = append(parts, "q="+strings.Join(tokens, ","))

	taxonomies := make([]string, 0, len(filters.TermSlugs))
	for taxonomy := range filters.TermSlugs {
		taxonomies = append(taxonomies, taxonomy)
	}
	sort.Strings(taxonomies)
	for _, taxonomy := range taxonomies {
		slugs := append([]string(nil), filters.TermSlugs[taxonomy]...)
		sort.Strings(slugs)
		parts = append(parts, taxonomy+"="+strings.Join(slugs, ","))
	}

	if filters.AvailableNow != nil {
		parts = append(parts, fmt.Sprintf("available_now=%t", *filters.AvailableNow))
	}
	if filters.Day != "" {
		parts = append(parts, "day="+filters.Day)
	}
	if filters.MinTravelRadiusKm != nil {
		parts = append(parts, fmt.Sprintf("min_travel_radius_km=%d", *filters.MinTravelRadiusKm))
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "&")))
	return hex.EncodeToString(sum[:8])
}
