package search

import "gigtune/internal/artists"

// ResultResponse is one ranked search hit: the public profile view
// plus its fit score.
type ResultResponse struct {
	artists.ProfileResponse
	Score int `json:"score"`
}

type SearchResponse struct {
	Results    []ResultResponse `json:"results"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
	TotalCount int              `json:"total_count"`
}
