package constants

import (
	"fmt"
	"time"
)

// Redis cache configuration for the gigtune backend.
// Pattern: gigtune:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_STATIC_LONG  = 24 * time.Hour // taxonomy terms, rarely change
	TTL_STATIC_SHORT = 6 * time.Hour

	TTL_SEMI_STATIC = 10 * time.Minute // published artist profiles
	TTL_DYNAMIC     = 2 * time.Minute  // search result pages
	TTL_REALTIME    = 30 * time.Second
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "gigtune"
)

// ================== ARTISTS MODULE ==================

const (
	CACHE_KEY_ARTIST_DETAIL = CACHE_PREFIX + ":artists:detail:uuid:" // + profile-id
	CACHE_KEY_TERMS_ALL     = CACHE_PREFIX + ":artists:terms:all"
)

const (
	TTL_ARTIST_DETAIL = TTL_SEMI_STATIC
	TTL_TERMS         = TTL_STATIC_LONG
)

// ================== SEARCH MODULE ==================

const (
	CACHE_KEY_SEARCH_PAGE = CACHE_PREFIX + ":search:artists:" // + digest:page:X
)

const (
	TTL_SEARCH_PAGE = TTL_DYNAMIC
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_ARTIST_DETAIL = CACHE_PREFIX + ":artists:detail:*"
	PATTERN_INVALIDATE_SEARCH_ALL    = CACHE_PREFIX + ":search:artists:*"
)

// ================== HELPER FUNCTIONS ==================

func BuildArtistDetailKey(profileID string) string {
	return CACHE_KEY_ARTIST_DETAIL + profileID
}

// BuildSearchPageKey keys one page of ranked search results by the
// normalized query digest.
func BuildSearchPageKey(digest string, page int) string {
	return CACHE_KEY_SEARCH_PAGE + digest + ":page:" + fmt.Sprintf("%d", page)
}
