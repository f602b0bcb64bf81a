package bookings

import "time"

// CreateBookingRequest starts a booking against one artist profile
type CreateBookingRequest struct {
	ArtistProfileID string     `json:"artist_profile_id" binding:"required,uuid"`
	EscrowAmount    float64    `json:"escrow_amount" binding:"min=0"`
	EventDate       *time.Time `json:"event_date"`
	Notes           string     `json:"notes" binding:"max=2000"`
}

// RespondRequest is the artist's answer to a booking request
type RespondRequest struct {
	Action string `json:"action" binding:"required,oneof=accept decline"`
}

// DisputeRequest raises a dispute on a completed booking
type DisputeRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}

// RatingRequest submits the client's two-axis rating
type RatingRequest struct {
	Performance int `json:"performance" binding:"required,min=1,max=5"`
	Reliability int `json:"reliability" binding:"required,min=1,max=5"`
}

// BookingListQuery filters paginated booking lists
type BookingListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status string `form:"status" binding:"omitempty"`
}
