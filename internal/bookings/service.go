package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gigtune/internal/artists"
	"gigtune/internal/shared/middleware"
	"gigtune/pkg/logger"

	"github.com/google/uuid"
)

// maxVersionRetries bounds the re-read loop on version conflicts for
// user-triggered transitions. The sweeper never retries: a conflict
// means someone else already advanced the record.
const maxVersionRetries = 3

// Booking lifecycle event types published to the message bus.
const (
	EventBookingRequested = "booking.requested"
	EventBookingEscrowed  = "booking.escrowed"
	EventBookingDeclined  = "booking.declined"
	EventBookingExpired   = "booking.expired"
	EventBookingCancelled = "booking.cancelled"
	EventBookingAwaiting  = "booking.awaiting_confirmation"
	EventBookingCompleted = "booking.completed"
	EventBookingDisputed  = "booking.disputed"
	EventBookingPaid      = "booking.paid"
	EventBookingReviewed  = "booking.reviewed"
	EventBookingRated     = "booking.rated"
)

// ArtistDirectory is the slice of the artists service the booking
// engine depends on. It is a mandatory dependency: every transition
// that triggers a reliability event delivers it here.
type ArtistDirectory interface {
	GetProfileRef(ctx context.Context, profileID uuid.UUID) (artists.ProfileRef, error)
	RecordReliabilityEvent(ctx context.Context, profileID uuid.UUID, event artists.ReliabilityEvent) error
	RecordRating(ctx context.Context, profileID uuid.UUID, performance, reliability int) error
}

// EventPublisher publishes booking lifecycle events best-effort; a
// publish failure never fails the transition.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, eventType string, booking *Booking) error
}

// SweepStats summarizes one timeout sweeper pass.
type SweepStats struct {
	Expired       int
	AutoCompleted int
	Released      int
	Skipped       int
}

type Service interface {
	// Client actions
	RequestBooking(ctx context.Context, actor middleware.Actor, req CreateBookingRequest) (*BookingResponse, error)
	Confirm(ctx context.Context, actor middleware.Actor, bookingID uuid.UUID) (*BookingResponse, error)
	Dispute(ctx context.Context, actor middleware.Actor, bookingID uuid.UUID, req DisputeRequest) (*BookingResponse, error)
	ReportNoShow(ctx context.Context, actor middleware.Actor, bookingID uuid.UUID) (*BookingResponse, error)
	SubmitRating(ctx context.Context, actor middleware.Actor, bookingID uuid.UUID, req RatingRequest) (*BookingResponse, error)

	// Artist actions
	Respond(ctx context.Context, actor middleware.Actor, bookingID uuid.UUID, req RespondRequest) (*BookingResponse, error)
	MarkCompleted(ctx context.Context, actor middleware.Actor, bookingID uuid.UUID) (*BookingResponse, error)
	Cancel(ctx context.Context, actor middleware.Actor, bookingID uuid.UUID) (*BookingResponse, error)

	// Reads
	GetBooking(ctx context.Context, actor middleware.Actor, bookingID uuid.UUID) (*BookingResponse, error)
	GetClientBookings(ctx context.Context, actor middleware.Actor, query BookingListQuery) (*PaginatedBookings, error)
	GetArtistBookings(ctx context.Context, actor middleware.Actor, artistProfileID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error)

	// Timeout sweeper entry point
	RunSweep(ctx context.Context, batchSize int) SweepStats
}

type service struct {
	repo      Repository
	directory ArtistDirectory
	publisher EventPublisher
	sm        *StateMachine
	log       *logger.Logger
}

// NewService wires the booking engine. The artist directory is not
// optional; passing nil is a programming error.
func NewService(repo Repository, directory ArtistDirectory, publisher EventPublisher, sm *StateMachine, log *logger.Logger) Service {
	if directory == nil {
		panic("bookings: artist directory dependency is required")
	}
	return &service{
		repo:      repo,
		directory: directory,
		publisher: publisher,
		sm:        sm,
		log:       log,
	}
}

func (s *service) RequestBooking(ctx context.Context, actor middleware.Actor, req CreateBookingRequest) (*BookingResponse, error) {
	profileID, err := uuid.Parse(req.ArtistProfileID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid artist profile id", ErrValidation)
	}

	ref, err := s.directory.GetProfileRef(ctx, profileID)
	if err != nil {
		if errors.Is(err, artists.ErrNotFound) {
			return nil, fmt.Errorf("%w: artist profile not found", ErrValidation)
		}
		return nil, err
	}
	if ref.Status != artists.ProfileStatusPublished {
		return nil, fmt.Errorf("%w: artist profile is not published", ErrValidation)
	}
	if ref.OwnerID == actor.UserID {
		return nil, fmt.Errorf("%w: cannot book your own profile", ErrValidation)
	}

	booking, err := s.sm.NewRequest(actor.UserID, profileID, req.EscrowAmount, req.EventDate, req.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.publish(ctx, EventBookingRequested, booking)
	s.log.LogBookingTransition(ctx, booking.ID.String(), "", StatusRequested.String(), actor.UserID.String())

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) Respond(ctx context.Context, actor middleware.Actor, bookingID uuid.UUID, req RespondRequest) (*BookingResponse, error) {
	accept := req.Action == "accept"

	booking, event, err := s.transition(ctx, bookingID, func(b *Booking) (artists.ReliabilityEvent, error) {
		if err := s.requireArtistOwner(ctx, actor, b); err != nil {
			return "", err
		}
		if accept {
			return s.sm.Accept(b)
		}
		return s.sm.Decline(b)
	})

	if errors.Is(err, ErrRequestExpired) {
		// The late response forced the corrective EXPIRED transition.
		s.publish(ctx, EventBookingExpired, booking)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	s.deliverReliability(ctx, booking.ArtistProfileID, event)
	if accept {
		s.publish(ctx, EventBookingEscrowed, booking)
	} else {
		s.publish(ctx, EventBookingDeclined, booking)
	}
	s.log.LogBookingTransition(ctx, booking.ID.String(), StatusRequested.String(), booking.Status.String(), actor.UserID.String())

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) MarkCompleted(ctx context.Context, actor middleware.Actor, bookingID uuid.UUID) (*BookingResponse, error) {
	booking, _, err := s.transition(ctx, bookingID, func(b *Booking) (artists.ReliabilityEvent, error) {
		if err := s.requireArtistOwner(ctx, actor, b); err != nil {
			return "", err
		}
		return "", s.sm.MarkCompleted(b)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventBookingAwaiting, booking)
	s.log.LogBookingTransition(ctx, booking.ID.String(), StatusEscrowed.String(), booking.Status.String(), actor.UserID.String())

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) Confirm(ctx context.Context, actor middleware.Actor, bookingID uuid.UUID) (*BookingResponse, error) {
	booking, _, err := s.transition(ctx, bookingID, func(b *Booking) (artists.ReliabilityEvent, error) {
		if b.ClientID != actor.UserID {
			return "", ErrForbidden
		}
		return "", s.sm.Confirm(b)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventBookingCompleted, booking)
	s.log.LogBookingTransition(ctx, booking.ID.String(), StatusAwaitingClientConfirmation.String(), booking.Status.String(), actor.UserID.String())

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) Dispute(ctx context.Context, actor middleware.Actor, bookingID uuid.UUID, req DisputeRequest) (*BookingResponse, error) {
	booking, _, err := s.transition(ctx, bookingID, func(b *Booking) (artists.ReliabilityEvent, error) {
		if b.ClientID != actor.UserID {
			return "", ErrForbidden
		}
		return "", s.sm.Dispute(b, req.Notes)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventBookingDisputed, booking)
	s.log.LogBookingTransition(ctx, booking.ID.String(), StatusCompleted.String(), booking.Status.String(), actor.UserID.String())

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) Cancel(ctx context.Context, actor middleware.Actor, bookingID uuid.UUID) (*BookingResponse, error) {
	booking, event, err := s.transition(ctx, bookingID, func(b *Booking) (artists.ReliabilityEvent, error) {
		if err := s.requireArtistOwner(ctx, actor, b); err != nil {
			return "", err
		}
		return s.sm.Cancel(b)
	})
	if err != nil {
		return nil, err
	}

	s.deliverReliability(ctx, booking.ArtistProfileID, event)
	s.publish(ctx, EventBookingCancelled, booking)
	s.log.LogBookingTransition(ctx, booking.ID.String(), StatusEscrowed.String(), booking.Status.String(), actor.UserID.String())

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) ReportNoShow(ctx context.Context, actor middleware.Actor, bookingID uuid.UUID) (*BookingResponse, error) {
	booking, event, err := s.transition(ctx, bookingID, func(b *Booking) (artists.ReliabilityEvent, error) {
		if b.ClientID != actor.UserID {
			return "", ErrForbidden
		}
		return s.sm.ReportNoShow(b)
	})
	if err != nil {
		return nil, err
	}

	s.deliverReliability(ctx, booking.ArtistProfileID, event)
	s.publish(ctx, EventBookingCancelled, booking)
	s.log.LogBookingTransition(ctx, booking.ID.String(), StatusEscrowed.String(), booking.Status.String(), actor.UserID.String())

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) SubmitRating(ctx context.Context, actor middleware.Actor, bookingID uuid.UUID, req RatingRequest) (*BookingResponse, error) {
	// Reject bad scores before any state is read; an invalid submission
	// must not consume the write-once rating lock.
	if req.Performance < 1 || req.Performance > 5 || req.Reliability < 1 || req.Reliability > 5 {
		return nil, fmt.Errorf("%w: rating scores must be between 1 and 5", ErrValidation)
	}

	booking, _, err := s.transition(ctx, bookingID, func(b *Booking) (artists.ReliabilityEvent, error) {
		if b.ClientID != actor.UserID {
			return "", ErrForbidden
		}
		return "", s.sm.SubmitRating(b)
	})
	if err != nil {
		return nil, err
	}

	// The rating lock committed with the booking; fold the scores into
	// the artist's running averages. Unlike reliability events a lost
	// rating can never be resubmitted, so a failure here surfaces to the
	// caller instead of being swallowed.
	if err := s.directory.RecordRating(ctx, booking.ArtistProfileID, req.Performance, req.Reliability); err != nil {
		s.log.ErrorWithContext(ctx, "failed to record rating aggregate", err, map[string]interface{}{
			"booking_id":        booking.ID.String(),
			"artist_profile_id": booking.ArtistProfileID.String(),
		})
		return nil, fmt.Errorf("failed to record rating aggregate: %w", err)
	}

	s.publish(ctx, EventBookingRated, booking)
	s.log.LogRatingSubmitted(ctx, booking.ID.String(), booking.ArtistProfileID.String(), req.Performance, req.Reliability)

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) GetBooking(ctx context.Context, actor middleware.Actor, bookingID uuid.UUID) (*BookingResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.ClientID != actor.UserID {
		if err := s.requireArtistOwner(ctx, actor, booking); err != nil {
			return nil, err
		}
	}

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) GetClientBookings(ctx context.Context, actor middleware.Actor, query BookingListQuery) (*PaginatedBookings, error) {
	if err := validateListQuery(&query); err != nil {
		return nil, err
	}

	bookings, total, err := s.repo.GetClientBookings(ctx, actor.UserID, query)
	if err != nil {
		return nil, err
	}
	return paginate(bookings, total, query), nil
}

func (s *service) GetArtistBookings(ctx context.Context, actor middleware.Actor, artistProfileID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error) {
	if err := validateListQuery(&query); err != nil {
		return nil, err
	}

	ref, err := s.directory.GetProfileRef(ctx, artistProfileID)
	if err != nil {
		if errors.Is(err, artists.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if ref.OwnerID != actor.UserID {
		return nil, ErrForbidden
	}

	bookings, total, err := s.repo.GetArtistBookings(ctx, artistProfileID, query)
	if err != nil {
		return nil, err
	}
	return paginate(bookings, total, query), nil
}

// RunSweep executes one timeout sweeper pass. Each record is advanced
// through the same guard-then-versioned-write path as user actions; a
// version conflict means another actor won and the record is skipped.
func (s *service) RunSweep(ctx context.Context, batchSize int) SweepStats {
	var stats SweepStats
	started := time.Now()
	now := s.sm.Now()

	// Pass 1: expire stale requests
	if batch, err := s.repo.FindExpiredRequests(ctx, now, batchSize); err != nil {
		s.log.ErrorWithContext(ctx, "sweep: expired request query failed", err, nil)
	} else {
		for i := range batch {
			b := batch[i]
			if s.sweepOne(ctx, &b, EventBookingExpired, func(b *Booking) (artists.ReliabilityEvent, error) {
				return "", s.sm.ExpireRequest(b)
			}) {
				stats.Expired++
			} else {
				stats.Skipped++
			}
		}
	}

	// Pass 2: auto-complete unconfirmed gigs
	cutoff := now.Add(-s.sm.Timers().AutoComplete)
	if batch, err := s.repo.FindAutoCompletable(ctx, cutoff, batchSize); err != nil {
		s.log.ErrorWithContext(ctx, "sweep: auto-complete query failed", err, nil)
	} else {
		for i := range batch {
			b := batch[i]
			if s.sweepOne(ctx, &b, EventBookingCompleted, func(b *Booking) (artists.ReliabilityEvent, error) {
				return "", s.sm.AutoComplete(b)
			}) {
				stats.AutoCompleted++
			} else {
				stats.Skipped++
			}
		}
	}

	// Pass 3: release escrow past the dispute window
	if batch, err := s.repo.FindReleasable(ctx, now, batchSize); err != nil {
		s.log.ErrorWithContext(ctx, "sweep: escrow release query failed", err, nil)
	} else {
		for i := range batch {
			b := batch[i]
			eventType := EventBookingPaid
			if b.RatingSubmitted {
				eventType = EventBookingReviewed
			}
			if s.sweepOne(ctx, &b, eventType, func(b *Booking) (artists.ReliabilityEvent, error) {
				return "", s.sm.ReleaseEscrow(b)
			}) {
				stats.Released++
			} else {
				stats.Skipped++
			}
		}
	}

	s.log.LogSweepPass(ctx, stats.Expired, stats.AutoCompleted, stats.Released, stats.Skipped, time.Since(started))
	return stats
}

// sweepOne applies a single sweeper transition without retrying.
func (s *service) sweepOne(ctx context.Context, b *Booking, eventType string, apply func(*Booking) (artists.ReliabilityEvent, error)) bool {
	if _, err := apply(b); err != nil {
		// Guard no longer holds, someone advanced the record between the
		// batch query and now.
		return false
	}
	if err := s.repo.UpdateBookingVersioned(ctx, b, b.Version); err != nil {
		if !errors.Is(err, ErrVersionConflict) {
			s.log.ErrorWithContext(ctx, "sweep: booking write failed", err, map[string]interface{}{
				"booking_id": b.ID.String(),
			})
		}
		return false
	}
	s.publish(ctx, eventType, b)
	return true
}

// transition runs a guarded read-modify-write with bounded retries on
// version conflicts. A forced-expire result is persisted and the
// ErrRequestExpired passed through with the final record.
func (s *service) transition(ctx context.Context, bookingID uuid.UUID, apply func(*Booking) (artists.ReliabilityEvent, error)) (*Booking, artists.ReliabilityEvent, error) {
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		booking, err := s.repo.GetBookingByID(ctx, bookingID)
		if err != nil {
			return nil, "", err
		}

		event, applyErr := apply(booking)
		if applyErr != nil && !errors.Is(applyErr, ErrRequestExpired) {
			return nil, "", applyErr
		}

		if err := s.repo.UpdateBookingVersioned(ctx, booking, booking.Version); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				continue
			}
			return nil, "", err
		}
		return booking, event, applyErr
	}
	return nil, "", ErrVersionConflict
}

func (s *service) requireArtistOwner(ctx context.Context, actor middleware.Actor, b *Booking) error {
	ref, err := s.directory.GetProfileRef(ctx, b.ArtistProfileID)
	if err != nil {
		return err
	}
	if ref.OwnerID != actor.UserID {
		return ErrForbidden
	}
	return nil
}

// deliverReliability hands a triggered reliability event to the artist
// directory. The booking transition is already committed; a delivery
// failure is logged, the next event self-heals via normalization.
func (s *service) deliverReliability(ctx context.Context, profileID uuid.UUID, event artists.ReliabilityEvent) {
	if event == "" {
		return
	}
	if err := s.directory.RecordReliabilityEvent(ctx, profileID, event); err != nil {
		s.log.ErrorWithContext(ctx, "failed to record reliability event", err, map[string]interface{}{
			"artist_profile_id": profileID.String(),
			"event":             event.String(),
		})
	}
}

func (s *service) publish(ctx context.Context, eventType string, booking *Booking) {
	if s.publisher == nil || booking == nil {
		return
	}
	if err := s.publisher.PublishBookingEvent(ctx, eventType, booking); err != nil {
		s.log.WithError(err).Warn("failed to publish booking event", "event_type", eventType)
	}
}

func validateListQuery(query *BookingListQuery) error {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}
	if query.Status != "" && !Status(query.Status).IsValid() {
		return fmt.Errorf("%w: invalid status filter", ErrValidation)
	}
	return nil
}

func paginate(bookings []Booking, total int64, query BookingListQuery) *PaginatedBookings {
	responses := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, bookings[i].ToResponse())
	}
	return &PaginatedBookings{
		Bookings:   responses,
		TotalCount: total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: CalculateTotalPages(total, query.Limit),
	}
}
