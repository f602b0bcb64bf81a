package artists

import (
	"sort"
	"time"
)

type TermResponse struct {
	ID       string `json:"id"`
	Taxonomy string `json:"taxonomy"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
}

type DemoVideoResponse struct {
	Position        int    `json:"position"`
	URL             string `json:"url"`
	Orientation     string `json:"orientation"`
	DurationSeconds int    `json:"duration_seconds"`
}

type ReliabilityResponse struct {
	ResponseHours    float64 `json:"response_hours"`
	AcceptanceRate   float64 `json:"acceptance_rate"`
	CancellationRate float64 `json:"cancellation_rate"`
	NoShowCount      int     `json:"no_show_count"`
}

type ReputationResponse struct {
	PerformanceAvg   float64 `json:"performance_avg"`
	PerformanceCount int     `json:"performance_count"`
	ReliabilityAvg   float64 `json:"reliability_avg"`
	ReliabilityCount int     `json:"reliability_count"`
}

type AvailabilityResponse struct {
	AvailableNow      bool     `json:"available_now"`
	BaseArea          string   `json:"base_area,omitempty"`
	TravelRadiusKm    int      `json:"travel_radius_km"`
	VisibilityMode    string   `json:"visibility_mode"`
	AvailabilityDays  []string `json:"availability_days"`
	AvailabilityStart string   `json:"availability_start,omitempty"`
	AvailabilityEnd   string   `json:"availability_end,omitempty"`
}

type ProfileResponse struct {
	ID           string                    `json:"id"`
	UserID       string                    `json:"user_id"`
	Title        string                    `json:"title"`
	Bio          string                    `json:"bio"`
	Status       string                    `json:"status"`
	Terms        map[string][]TermResponse `json:"terms"`
	DemoVideos   []DemoVideoResponse       `json:"demo_videos"`
	Reliability  ReliabilityResponse       `json:"reliability"`
	Reputation   ReputationResponse        `json:"reputation"`
	Availability AvailabilityResponse      `json:"availability"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

// ToResponse converts the profile to its API shape. When public is true
// and the visibility mode is HIDDEN, the base area is omitted.
func (p *ArtistProfile) ToResponse(public bool) ProfileResponse {
	terms := make(map[string][]TermResponse)
	for _, t := range p.Terms {
		terms[t.Taxonomy] = append(terms[t.Taxonomy], TermResponse{
			ID:       t.ID.String(),
			Taxonomy: t.Taxonomy,
			Slug:     t.Slug,
			Name:     t.Name,
		})
	}

	videos := make([]DemoVideoResponse, 0, len(p.DemoVideos))
	for _, v := range p.DemoVideos {
		videos = append(videos, DemoVideoResponse{
			Position:        v.Position,
			URL:             v.URL,
			Orientation:     v.Orientation.String(),
			DurationSeconds: v.DurationSeconds,
		})
	}

	baseArea := p.BaseArea
	if public && p.VisibilityMode == VisibilityHidden {
		baseArea = ""
	}

	days := make([]string, 0)
	for day := range p.AvailabilityDaySet() {
		days = append(days, day)
	}
	sort.Strings(days)

	return ProfileResponse{
		ID:         p.ID.String(),
		UserID:     p.UserID.String(),
		Title:      p.Title,
		Bio:        p.Bio,
		Status:     p.Status.String(),
		Terms:      terms,
		DemoVideos: videos,
		Reliability: ReliabilityResponse{
			ResponseHours:    p.ResponseHours,
			AcceptanceRate:   p.AcceptanceRate,
			CancellationRate: p.CancellationRate,
			NoShowCount:      p.NoShowCount,
		},
		Reputation: ReputationResponse{
			PerformanceAvg:   p.PerformanceAvg,
			PerformanceCount: p.PerformanceCount,
			ReliabilityAvg:   p.ReliabilityAvg,
			ReliabilityCount: p.ReliabilityCount,
		},
		Availability: AvailabilityResponse{
			AvailableNow:      p.AvailableNow,
			BaseArea:          baseArea,
			TravelRadiusKm:    p.TravelRadiusKm,
			VisibilityMode:    p.VisibilityMode.String(),
			AvailabilityDays:  days,
			AvailabilityStart: p.AvailabilityStart,
			AvailabilityEnd:   p.AvailabilityEnd,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
