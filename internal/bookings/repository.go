package bookings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Core booking operations
	CreateBooking(ctx context.Context, booking *Booking) error
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// UpdateBookingVersioned writes the booking back only if the stored
	// version still matches expectedVersion, bumping the version on
	// success. Returns ErrVersionConflict otherwise.
	UpdateBookingVersioned(ctx context.Context, booking *Booking, expectedVersion int) error

	// List views
	GetClientBookings(ctx context.Context, clientID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	GetArtistBookings(ctx context.Context, artistProfileID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)

	// Sweeper queries (bounded batches)
	FindExpiredRequests(ctx context.Context, now time.Time, limit int) ([]Booking, error)
	FindAutoCompletable(ctx context.Context, completedBefore time.Time, limit int) ([]Booking, error)
	FindReleasable(ctx context.Context, now time.Time, limit int) ([]Booking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBooking(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) UpdateBookingVersioned(ctx context.Context, booking *Booking, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND version = ?", booking.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":              booking.Status,
			"responded_at":        booking.RespondedAt,
			"artist_completed_at": booking.ArtistCompletedAt,
			"client_confirmed_at": booking.ClientConfirmedAt,
			"reviewed_at":         booking.ReviewedAt,
			"escrow_status":       booking.EscrowStatus,
			"escrow_captured_at":  booking.EscrowCapturedAt,
			"escrow_release_at":   booking.EscrowReleaseAt,
			"payout_released_at":  booking.PayoutReleasedAt,
			"dispute_raised":      booking.DisputeRaised,
			"dispute_raised_at":   booking.DisputeRaisedAt,
			"dispute_notes":       booking.DisputeNotes,
			"rating_submitted":    booking.RatingSubmitted,
			"version":             gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	booking.Version = expectedVersion + 1
	return nil
}

func (r *repository) GetClientBookings(ctx context.Context, clientID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	return r.listBookings(ctx, r.db.WithContext(ctx).Model(&Booking{}).Where("client_id = ?", clientID), query)
}

func (r *repository) GetArtistBookings(ctx context.Context, artistProfileID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	return r.listBookings(ctx, r.db.WithContext(ctx).Model(&Booking{}).Where("artist_profile_id = ?", artistProfileID), query)
}

func (r *repository) listBookings(ctx context.Context, baseQuery *gorm.DB, query BookingListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	// Set defaults
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	if query.Status != "" {
		baseQuery = baseQuery.Where("status = ?", query.Status)
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error

	return bookings, totalCount, err
}

func (r *repository) FindExpiredRequests(ctx context.Context, now time.Time, limit int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusRequested).
		Where("request_expires_at <= ?", now).
		Order("request_expires_at ASC").
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) FindAutoCompletable(ctx context.Context, completedBefore time.Time, limit int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusAwaitingClientConfirmation).
		Where("artist_completed_at <= ?", completedBefore).
		Order("artist_completed_at ASC").
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) FindReleasable(ctx context.Context, now time.Time, limit int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusCompleted).
		Where("escrow_status = ?", EscrowCaptured).
		Where("dispute_raised = ?", false).
		Where("escrow_release_at <= ?", now).
		Order("escrow_release_at ASC").
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

// CalculateTotalPages is a helper for paginated list responses
func CalculateTotalPages(totalCount int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalCount) / float64(limit)))
}
