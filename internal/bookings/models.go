package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking is a single request-to-completion record between one client
// and one artist profile. Bookings are never deleted, only transitioned.
type Booking struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ClientID        uuid.UUID `gorm:"type:uuid;index;not null" json:"client_id"`
	ArtistProfileID uuid.UUID `gorm:"type:uuid;index;not null" json:"artist_profile_id"`

	Status Status `gorm:"type:varchar(40);not null;default:'REQUESTED'" json:"status"`

	// Lifecycle timestamps
	RequestedAt       time.Time  `gorm:"not null" json:"requested_at"`
	RespondedAt       *time.Time `json:"responded_at,omitempty"`
	RequestExpiresAt  time.Time  `gorm:"not null" json:"request_expires_at"`
	ArtistCompletedAt *time.Time `json:"artist_completed_at,omitempty"`
	ClientConfirmedAt *time.Time `json:"client_confirmed_at,omitempty"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`

	// Escrow block
	EscrowStatus     EscrowStatus `gorm:"type:varchar(20);not null;default:'PENDING_CAPTURE'" json:"escrow_status"`
	EscrowAmount     float64      `gorm:"not null;check:escrow_amount >= 0" json:"escrow_amount"`
	EscrowCapturedAt *time.Time   `json:"escrow_captured_at,omitempty"`
	EscrowReleaseAt  *time.Time   `json:"escrow_release_at,omitempty"`
	PayoutReleasedAt *time.Time   `json:"payout_released_at,omitempty"`

	// Dispute block
	DisputeRaised   bool       `gorm:"default:false" json:"dispute_raised"`
	DisputeRaisedAt *time.Time `json:"dispute_raised_at,omitempty"`
	DisputeNotes    string     `gorm:"type:text" json:"dispute_notes,omitempty"`

	// Write-once rating lock
	RatingSubmitted bool `gorm:"default:false" json:"rating_submitted"`

	EventDate *time.Time `json:"event_date,omitempty"`
	Notes     string     `gorm:"type:text" json:"notes,omitempty"`

	// Optimistic concurrency token
	Version int `gorm:"default:1;not null" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Booking) TableName() string {
	return "bookings"
}
