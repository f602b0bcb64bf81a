package bookings

import "time"

type BookingResponse struct {
	ID              string `json:"id"`
	ClientID        string `json:"client_id"`
	ArtistProfileID string `json:"artist_profile_id"`
	Status          string `json:"status"`

	RequestedAt       time.Time  `json:"requested_at"`
	RespondedAt       *time.Time `json:"responded_at,omitempty"`
	RequestExpiresAt  time.Time  `json:"request_expires_at"`
	ArtistCompletedAt *time.Time `json:"artist_completed_at,omitempty"`
	ClientConfirmedAt *time.Time `json:"client_confirmed_at,omitempty"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`

	EscrowStatus     string     `json:"escrow_status"`
	EscrowAmount     float64    `json:"escrow_amount"`
	EscrowCapturedAt *time.Time `json:"escrow_captured_at,omitempty"`
	EscrowReleaseAt  *time.Time `json:"escrow_release_at,omitempty"`
	PayoutReleasedAt *time.Time `json:"payout_released_at,omitempty"`

	DisputeRaised   bool       `json:"dispute_raised"`
	DisputeRaisedAt *time.Time `json:"dispute_raised_at,omitempty"`
	DisputeNotes    string     `json:"dispute_notes,omitempty"`

	RatingSubmitted bool       `json:"rating_submitted"`
	EventDate       *time.Time `json:"event_date,omitempty"`
	Notes           string     `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PaginatedBookings struct {
	Bookings   []BookingResponse `json:"bookings"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// ToResponse converts a booking to its API shape
func (b *Booking) ToResponse() BookingResponse {
	return BookingResponse{
		ID:                b.ID.String(),
		ClientID:          b.ClientID.String(),
		ArtistProfileID:   b.ArtistProfileID.String(),
		Status:            b.Status.String(),
		RequestedAt:       b.RequestedAt,
		RespondedAt:       b.RespondedAt,
		RequestExpiresAt:  b.RequestExpiresAt,
		ArtistCompletedAt: b.ArtistCompletedAt,
		ClientConfirmedAt: b.ClientConfirmedAt,
		ReviewedAt:        b.ReviewedAt,
		EscrowStatus:      b.EscrowStatus.String(),
		EscrowAmount:      b.EscrowAmount,
		EscrowCapturedAt:  b.EscrowCapturedAt,
		EscrowReleaseAt:   b.EscrowReleaseAt,
		PayoutReleasedAt:  b.PayoutReleasedAt,
		DisputeRaised:     b.DisputeRaised,
		DisputeRaisedAt:   b.DisputeRaisedAt,
		DisputeNotes:      b.DisputeNotes,
		RatingSubmitted:   b.RatingSubmitted,
		EventDate:         b.EventDate,
		Notes:             b.Notes,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}
