package search

// SearchQuery carries the raw query parameters of a search request.
// Taxonomy term filters are bound separately from the query string
// because their keys are dynamic.
type SearchQuery struct {
	Query             string `form:"q" binding:"omitempty,max=200"`
	Page              int    `form:"page" binding:"omitempty,min=1"`
	AvailableNow      *bool  `form:"available_now"`
	Day               string `form:"day" binding:"omitempty"`
	MinTravelRadiusKm *int   `form:"min_travel_radius_km" binding:"omitempty,min=0"`
}
