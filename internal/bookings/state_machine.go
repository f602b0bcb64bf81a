package bookings

import (
	"fmt"
	"time"

	"gigtune/internal/artists"

	"github.com/google/uuid"
)

// Timers holds the lifecycle timer knobs of the state machine.
type Timers struct {
	RequestExpiry time.Duration
	DisputeWindow time.Duration
	AutoComplete  time.Duration
}

// StateMachine owns every booking status transition. All methods mutate
// the passed booking in place and return the reliability event the
// transition triggers ("" when none); the caller persists the record and
// must deliver the event to the artist's metrics. Guard failures leave
// the booking unchanged, with one exception: a late response forces the
// corrective EXPIRED transition and returns ErrRequestExpired.
type StateMachine struct {
	timers Timers
	now    func() time.Time
}

// NewStateMachine creates a state machine with the given timers. The
// clock is injectable for tests via WithClock.
func NewStateMachine(timers Timers) *StateMachine {
	return &StateMachine{
		timers: timers,
		now:    time.Now,
	}
}

// WithClock replaces the machine's clock and returns it.
func (sm *StateMachine) WithClock(now func() time.Time) *StateMachine {
	sm.now = now
	return sm
}

// Now reports the machine's current clock time.
func (sm *StateMachine) Now() time.Time {
	return sm.now()
}

// Timers returns the configured lifecycle timers.
func (sm *StateMachine) Timers() Timers {
	return sm.timers
}

// NewRequest builds a fresh REQUESTED booking for a client action.
func (sm *StateMachine) NewRequest(clientID, artistProfileID uuid.UUID, escrowAmount float64, eventDate *time.Time, notes string) (*Booking, error) {
	if escrowAmount < 0 {
		return nil, fmt.Errorf("%w: escrow amount must be non-negative", ErrValidation)
	}

	now := sm.now()
	return &Booking{
		ClientID:         clientID,
		ArtistProfileID:  artistProfileID,
		Status:           StatusRequested,
		RequestedAt:      now,
		RequestExpiresAt: now.Add(sm.timers.RequestExpiry),
		EscrowStatus:     EscrowPendingCapture,
		EscrowAmount:     escrowAmount,
		DisputeRaised:    false,
		EventDate:        eventDate,
		Notes:            notes,
		Version:          1,
	}, nil
}

// Accept moves REQUESTED to ESCROWED before the request expires.
// A late accept forces EXPIRED instead and reports ErrRequestExpired.
func (sm *StateMachine) Accept(b *Booking) (artists.ReliabilityEvent, error) {
	if b.Status != StatusRequested {
		return "", fmt.Errorf("%w: cannot accept a booking in status %s", ErrInvalidTransition, b.Status)
	}

	now := sm.now()
	if now.After(b.RequestExpiresAt) {
		sm.forceExpire(b)
		return "", ErrRequestExpired
	}

	b.Status = StatusEscrowed
	b.EscrowStatus = EscrowCaptured
	b.RespondedAt = &now
	b.EscrowCapturedAt = &now
	return artists.ReliabilityAccepted, nil
}

// Decline moves REQUESTED to DECLINED before the request expires.
// A late decline forces EXPIRED instead and reports ErrRequestExpired.
func (sm *StateMachine) Decline(b *Booking) (artists.ReliabilityEvent, error) {
	if b.Status != StatusRequested {
		return "", fmt.Errorf("%w: cannot decline a booking in status %s", ErrInvalidTransition, b.Status)
	}

	now := sm.now()
	if now.After(b.RequestExpiresAt) {
		sm.forceExpire(b)
		return "", ErrRequestExpired
	}

	b.Status = StatusDeclined
	b.EscrowStatus = EscrowReleased
	b.RespondedAt = &now
	return artists.ReliabilityDeclined, nil
}

// ExpireRequest is the sweeper row for stale REQUESTED bookings.
func (sm *StateMachine) ExpireRequest(b *Booking) error {
	if b.Status != StatusRequested {
		return fmt.Errorf("%w: cannot expire a booking in status %s", ErrInvalidTransition, b.Status)
	}
	if sm.now().Before(b.RequestExpiresAt) {
		return fmt.Errorf("%w: booking request has not expired yet", ErrInvalidTransition)
	}
	sm.forceExpire(b)
	return nil
}

// MarkCompleted moves ESCROWED to AWAITING_CLIENT_CONFIRMATION when the
// artist reports the gig as played.
func (sm *StateMachine) MarkCompleted(b *Booking) error {
	if b.Status != StatusEscrowed {
		return fmt.Errorf("%w: cannot mark a booking in status %s as completed", ErrInvalidTransition, b.Status)
	}

	now := sm.now()
	b.Status = StatusAwaitingClientConfirmation
	b.ArtistCompletedAt = &now
	return nil
}

// Confirm moves AWAITING_CLIENT_CONFIRMATION to COMPLETED by client
// action and opens the dispute window.
func (sm *StateMachine) Confirm(b *Booking) error {
	if b.Status != StatusAwaitingClientConfirmation {
		return fmt.Errorf("%w: cannot confirm a booking in status %s", ErrInvalidTransition, b.Status)
	}
	sm.complete(b, sm.now())
	return nil
}

// AutoComplete is the sweeper row for AWAITING_CLIENT_CONFIRMATION
// bookings the client never confirmed. The sweep time stands in as the
// confirmation time.
func (sm *StateMachine) AutoComplete(b *Booking) error {
	if b.Status != StatusAwaitingClientConfirmation {
		return fmt.Errorf("%w: cannot auto-complete a booking in status %s", ErrInvalidTransition, b.Status)
	}
	if b.ArtistCompletedAt == nil {
		return fmt.Errorf("%w: booking has no artist completion time", ErrInvalidTransition)
	}

	now := sm.now()
	if now.Sub(*b.ArtistCompletedAt) < sm.timers.AutoComplete {
		return fmt.Errorf("%w: auto-complete window has not elapsed", ErrInvalidTransition)
	}
	sm.complete(b, now)
	return nil
}

// Dispute moves COMPLETED to DISPUTED within the dispute window. The
// boundary is inclusive: a dispute raised exactly at window end is
// accepted, and the version check decides any race with escrow release.
func (sm *StateMachine) Dispute(b *Booking, notes string) error {
	if b.Status != StatusCompleted {
		return fmt.Errorf("%w: cannot dispute a booking in status %s", ErrInvalidTransition, b.Status)
	}
	if b.DisputeRaised {
		return fmt.Errorf("%w: dispute already raised", ErrInvalidTransition)
	}
	if b.ClientConfirmedAt == nil {
		return fmt.Errorf("%w: booking has no confirmation time", ErrInvalidTransition)
	}

	now := sm.now()
	if now.Sub(*b.ClientConfirmedAt) > sm.timers.DisputeWindow {
		return fmt.Errorf("%w: dispute window has closed", ErrInvalidTransition)
	}

	b.Status = StatusDisputed
	b.EscrowStatus = EscrowHeld
	b.DisputeRaised = true
	b.DisputeRaisedAt = &now
	b.DisputeNotes = notes
	return nil
}

// ReleaseEscrow is the sweeper row that pays out a COMPLETED booking
// once the dispute window has elapsed without a dispute.
func (sm *StateMachine) ReleaseEscrow(b *Booking) error {
	if b.Status != StatusCompleted {
		return fmt.Errorf("%w: cannot release escrow for a booking in status %s", ErrInvalidTransition, b.Status)
	}
	if b.EscrowStatus != EscrowCaptured {
		return fmt.Errorf("%w: escrow is not captured", ErrInvalidTransition)
	}
	if b.DisputeRaised {
		return fmt.Errorf("%w: escrow is blocked by an active dispute", ErrInvalidTransition)
	}
	if b.EscrowReleaseAt == nil {
		return fmt.Errorf("%w: booking has no escrow release time", ErrInvalidTransition)
	}

	now := sm.now()
	if now.Before(*b.EscrowReleaseAt) {
		return fmt.Errorf("%w: escrow release time has not arrived", ErrInvalidTransition)
	}

	if b.RatingSubmitted {
		b.Status = StatusReviewed
	} else {
		b.Status = StatusPaid
	}
	b.EscrowStatus = EscrowReleased
	b.PayoutReleasedAt = &now
	return nil
}

// Cancel moves ESCROWED to CANCELLED when the artist backs out; the
// escrow is released back to the client.
func (sm *StateMachine) Cancel(b *Booking) (artists.ReliabilityEvent, error) {
	if b.Status != StatusEscrowed {
		return "", fmt.Errorf("%w: cannot cancel a booking in status %s", ErrInvalidTransition, b.Status)
	}

	b.Status = StatusCancelled
	b.EscrowStatus = EscrowReleased
	return artists.ReliabilityCancelled, nil
}

// ReportNoShow moves ESCROWED to CANCELLED when the client reports the
// artist missing after the event date has passed.
func (sm *StateMachine) ReportNoShow(b *Booking) (artists.ReliabilityEvent, error) {
	if b.Status != StatusEscrowed {
		return "", fmt.Errorf("%w: cannot report a no-show for a booking in status %s", ErrInvalidTransition, b.Status)
	}
	if b.EventDate == nil {
		return "", fmt.Errorf("%w: booking has no event date", ErrValidation)
	}
	if sm.now().Before(*b.EventDate) {
		return "", fmt.Errorf("%w: event date has not passed yet", ErrInvalidTransition)
	}

	b.Status = StatusCancelled
	b.EscrowStatus = EscrowReleased
	return artists.ReliabilityNoShow, nil
}

// SubmitRating marks the write-once rating lock. Allowed on COMPLETED
// (status unchanged) and PAID (moves to REVIEWED); rejected on disputes.
func (sm *StateMachine) SubmitRating(b *Booking) error {
	if b.RatingSubmitted {
		return fmt.Errorf("%w: rating already submitted", ErrInvalidTransition)
	}
	if b.DisputeRaised {
		return fmt.Errorf("%w: cannot rate a disputed booking", ErrInvalidTransition)
	}
	if b.Status != StatusCompleted && b.Status != StatusPaid {
		return fmt.Errorf("%w: cannot rate a booking in status %s", ErrInvalidTransition, b.Status)
	}

	now := sm.now()
	b.RatingSubmitted = true
	b.ReviewedAt = &now
	if b.Status == StatusPaid {
		b.Status = StatusReviewed
	}
	return nil
}

func (sm *StateMachine) forceExpire(b *Booking) {
	b.Status = StatusExpired
	b.EscrowStatus = EscrowReleased
}

func (sm *StateMachine) complete(b *Booking, at time.Time) {
	releaseAt := at.Add(sm.timers.DisputeWindow)
	b.Status = StatusCompleted
	b.EscrowStatus = EscrowCaptured
	b.ClientConfirmedAt = &at
	b.EscrowReleaseAt = &releaseAt
}
