package artists

// CreateProfileRequest creates a new draft profile for the acting artist
type CreateProfileRequest struct {
	Title string `json:"title" binding:"required,min=3,max=255"`
	Bio   string `json:"bio" binding:"max=5000"`
}

// DemoVideoRequest is one demo reel entry in an update request
type DemoVideoRequest struct {
	URL             string `json:"url" binding:"required,url,max=500"`
	Orientation     string `json:"orientation" binding:"required,oneof=PORTRAIT LANDSCAPE"`
	DurationSeconds int    `json:"duration_seconds" binding:"required,min=1,max=600"`
}

// UpdateProfileRequest updates profile content, capability terms,
// availability and the demo reel. Nil pointers leave fields unchanged;
// nil slices leave relations unchanged.
type UpdateProfileRequest struct {
	Title *string `json:"title" binding:"omitempty,min=3,max=255"`
	Bio   *string `json:"bio" binding:"omitempty,max=5000"`

	TermSlugs []string `json:"term_slugs"`

	AvailableNow      *bool    `json:"available_now"`
	BaseArea          *string  `json:"base_area" binding:"omitempty,max=255"`
	TravelRadiusKm    *int     `json:"travel_radius_km" binding:"omitempty,min=0,max=20000"`
	VisibilityMode    *string  `json:"visibility_mode" binding:"omitempty,oneof=APPROXIMATE HIDDEN"`
	AvailabilityDays  []string `json:"availability_days"`
	AvailabilityStart *string  `json:"availability_start" binding:"omitempty,len=5"`
	AvailabilityEnd   *string  `json:"availability_end" binding:"omitempty,len=5"`

	DemoVideos []DemoVideoRequest `json:"demo_videos" binding:"omitempty,max=5,dive"`
}
