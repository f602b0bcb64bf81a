package bookings_test

import (
	"errors"
	"testing"
	"time"

	"gigtune/internal/artists"
	"gigtune/internal/bookings"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTimers = bookings.Timers{
	RequestExpiry: 2 * time.Hour,
	DisputeWindow: 24 * time.Hour,
	AutoComplete:  48 * time.Hour,
}

// machineAt builds a machine whose clock is base plus a movable offset.
func machineAt(base time.Time) (*bookings.StateMachine, *time.Duration) {
	offset := new(time.Duration)
	sm := bookings.NewStateMachine(testTimers).WithClock(func() time.Time {
		return base.Add(*offset)
	})
	return sm, offset
}

func newRequest(t *testing.T, sm *bookings.StateMachine) *bookings.Booking {
	t.Helper()
	b, err := sm.NewRequest(uuid.New(), uuid.New(), 250, nil, "wedding gig")
	require.NoError(t, err)
	b.ID = uuid.New()
	return b
}

func TestNewRequest(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sm, _ := machineAt(base)

	b := newRequest(t, sm)

	assert.Equal(t, bookings.StatusRequested, b.Status)
	assert.Equal(t, bookings.EscrowPendingCapture, b.EscrowStatus)
	assert.Equal(t, base, b.RequestedAt)
	assert.Equal(t, base.Add(2*time.Hour), b.RequestExpiresAt)
	assert.Equal(t, 1, b.Version)
}

func TestNewRequestRejectsNegativeAmount(t *testing.T) {
	sm, _ := machineAt(time.Now())

	_, err := sm.NewRequest(uuid.New(), uuid.New(), -1, nil, "")
	assert.ErrorIs(t, err, bookings.ErrValidation)
}

func TestAcceptWithinWindow(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sm, offset := machineAt(base)
	b := newRequest(t, sm)

	*offset = 90 * time.Minute
	event, err := sm.Accept(b)

	require.NoError(t, err)
	assert.Equal(t, artists.ReliabilityAccepted, event)
	assert.Equal(t, bookings.StatusEscrowed, b.Status)
	assert.Equal(t, bookings.EscrowCaptured, b.EscrowStatus)
	require.NotNil(t, b.RespondedAt)
	assert.Equal(t, base.Add(90*time.Minute), *b.RespondedAt)
	require.NotNil(t, b.EscrowCapturedAt)
}

// A request with a 2h expiry accepted at t=3h must land in EXPIRED with
// the escrow released, never in ESCROWED.
func TestLateAcceptForcesExpiry(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sm, offset := machineAt(base)
	b := newRequest(t, sm)

	*offset = 3 * time.Hour
	event, err := sm.Accept(b)

	assert.ErrorIs(t, err, bookings.ErrRequestExpired)
	assert.Empty(t, event)
	assert.Equal(t, bookings.StatusExpired, b.Status)
	assert.Equal(t, bookings.EscrowReleased, b.EscrowStatus)
	assert.Nil(t, b.RespondedAt)
}

func TestDecline(t *testing.T) {
	sm, offset := machineAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	b := newRequest(t, sm)

	*offset = time.Hour
	event, err := sm.Decline(b)

	require.NoError(t, err)
	assert.Equal(t, artists.ReliabilityDeclined, event)
	assert.Equal(t, bookings.StatusDeclined, b.Status)
	assert.Equal(t, bookings.EscrowReleased, b.EscrowStatus)
}

func TestLateDeclineForcesExpiry(t *testing.T) {
	sm, offset := machineAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	b := newRequest(t, sm)

	*offset = 2*time.Hour + time.Minute
	_, err := sm.Decline(b)

	assert.ErrorIs(t, err, bookings.ErrRequestExpired)
	assert.Equal(t, bookings.StatusExpired, b.Status)
}

func TestExpireRequestGuards(t *testing.T) {
	sm, offset := machineAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	b := newRequest(t, sm)

	// Too early
	*offset = time.Hour
	err := sm.ExpireRequest(b)
	assert.ErrorIs(t, err, bookings.ErrInvalidTransition)
	assert.Equal(t, bookings.StatusRequested, b.Status)

	// Exactly at expiry counts as expired
	*offset = 2 * time.Hour
	require.NoError(t, sm.ExpireRequest(b))
	assert.Equal(t, bookings.StatusExpired, b.Status)
	assert.Equal(t, bookings.EscrowReleased, b.EscrowStatus)

	// Already expired: not again
	err = sm.ExpireRequest(b)
	assert.ErrorIs(t, err, bookings.ErrInvalidTransition)
}

// Artist completes, client never confirms; the 48h sweeper completes
// the booking with the sweep time as the confirmation time and the
// escrow release scheduled a dispute window later.
func TestAutoCompleteAfterDeadline(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sm, offset := machineAt(base)
	b := newRequest(t, sm)

	*offset = time.Hour
	_, err := sm.Accept(b)
	require.NoError(t, err)

	*offset = 2 * time.Hour
	require.NoError(t, sm.MarkCompleted(b))
	assert.Equal(t, bookings.StatusAwaitingClientConfirmation, b.Status)

	// Not yet
	*offset = 2*time.Hour + 47*time.Hour
	err = sm.AutoComplete(b)
	assert.ErrorIs(t, err, bookings.ErrInvalidTransition)

	*offset = 2*time.Hour + 48*time.Hour
	require.NoError(t, sm.AutoComplete(b))

	sweepTime := base.Add(*offset)
	assert.Equal(t, bookings.StatusCompleted, b.Status)
	require.NotNil(t, b.ClientConfirmedAt)
	assert.Equal(t, sweepTime, *b.ClientConfirmedAt)
	require.NotNil(t, b.EscrowReleaseAt)
	assert.Equal(t, sweepTime.Add(24*time.Hour), *b.EscrowReleaseAt)
}

func TestConfirmOpensDisputeWindow(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sm, offset := machineAt(base)
	b := newRequest(t, sm)

	*offset = time.Hour
	_, err := sm.Accept(b)
	require.NoError(t, err)
	require.NoError(t, sm.MarkCompleted(b))

	*offset = 5 * time.Hour
	require.NoError(t, sm.Confirm(b))

	assert.Equal(t, bookings.StatusCompleted, b.Status)
	require.NotNil(t, b.EscrowReleaseAt)
	assert.Equal(t, base.Add(5*time.Hour+24*time.Hour), *b.EscrowReleaseAt)
}

// A dispute raised 10 hours into a 24 hour window holds the escrow; a
// held escrow is never auto-released afterwards.
func TestDisputeHoldsEscrow(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sm, offset := machineAt(base)
	b := confirmedBooking(t, sm, offset)

	confirmedAt := *b.ClientConfirmedAt
	*offset = confirmedAt.Sub(base) + 10*time.Hour
	require.NoError(t, sm.Dispute(b, "sound system never showed up"))

	assert.Equal(t, bookings.StatusDisputed, b.Status)
	assert.Equal(t, bookings.EscrowHeld, b.EscrowStatus)
	assert.True(t, b.DisputeRaised)

	// Release must refuse even long after the window
	*offset += 100 * time.Hour
	err := sm.ReleaseEscrow(b)
	assert.ErrorIs(t, err, bookings.ErrInvalidTransition)
	assert.Equal(t, bookings.EscrowHeld, b.EscrowStatus)
}

func TestDisputeWindowBoundaryInclusive(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sm, offset := machineAt(base)
	b := confirmedBooking(t, sm, offset)

	confirmedAt := *b.ClientConfirmedAt

	// Exactly at window end: allowed
	*offset = confirmedAt.Sub(base) + 24*time.Hour
	require.NoError(t, sm.Dispute(b, ""))

	// One second past the window: rejected
	b2 := confirmedBooking(t, sm, offset)
	confirmedAt2 := *b2.ClientConfirmedAt
	*offset = confirmedAt2.Sub(base) + 24*time.Hour + time.Second
	err := sm.Dispute(b2, "")
	assert.ErrorIs(t, err, bookings.ErrInvalidTransition)
}

func TestDisputeIsWriteOnce(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sm, offset := machineAt(base)
	b := confirmedBooking(t, sm, offset)

	*offset = (*b.ClientConfirmedAt).Sub(base) + time.Hour
	require.NoError(t, sm.Dispute(b, "first"))
	err := sm.Dispute(b, "second")
	assert.ErrorIs(t, err, bookings.ErrInvalidTransition)
}

func TestReleaseEscrowPaysOut(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sm, offset := machineAt(base)
	b := confirmedBooking(t, sm, offset)

	releaseAt := *b.EscrowReleaseAt

	// Before the release time
	*offset = releaseAt.Sub(base) - time.Minute
	err := sm.ReleaseEscrow(b)
	assert.ErrorIs(t, err, bookings.ErrInvalidTransition)

	// Exactly at the release time
	*offset = releaseAt.Sub(base)
	require.NoError(t, sm.ReleaseEscrow(b))
	assert.Equal(t, bookings.StatusPaid, b.Status)
	assert.Equal(t, bookings.EscrowReleased, b.EscrowStatus)
	require.NotNil(t, b.PayoutReleasedAt)
}

func TestReleaseEscrowAfterRatingLandsInReviewed(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sm, offset := machineAt(base)
	b := confirmedBooking(t, sm, offset)

	require.NoError(t, sm.SubmitRating(b))
	assert.Equal(t, bookings.StatusCompleted, b.Status)

	*offset = (*b.EscrowReleaseAt).Sub(base)
	require.NoError(t, sm.ReleaseEscrow(b))
	assert.Equal(t, bookings.StatusReviewed, b.Status)
}

func TestCancelReleasesEscrow(t *testing.T) {
	sm, _ := machineAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	b := newRequest(t, sm)
	_, err := sm.Accept(b)
	require.NoError(t, err)

	event, err := sm.Cancel(b)
	require.NoError(t, err)
	assert.Equal(t, artists.ReliabilityCancelled, event)
	assert.Equal(t, bookings.StatusCancelled, b.Status)
	assert.Equal(t, bookings.EscrowReleased, b.EscrowStatus)
}

func TestReportNoShow(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sm, offset := machineAt(base)

	eventDate := base.Add(24 * time.Hour)
	b, err := sm.NewRequest(uuid.New(), uuid.New(), 100, &eventDate, "")
	require.NoError(t, err)

	*offset = time.Hour
	_, err = sm.Accept(b)
	require.NoError(t, err)

	// Before the event date
	_, err = sm.ReportNoShow(b)
	assert.ErrorIs(t, err, bookings.ErrInvalidTransition)

	*offset = 25 * time.Hour
	event, err := sm.ReportNoShow(b)
	require.NoError(t, err)
	assert.Equal(t, artists.ReliabilityNoShow, event)
	assert.Equal(t, bookings.StatusCancelled, b.Status)
	assert.Equal(t, bookings.EscrowReleased, b.EscrowStatus)
}

func TestSubmitRating(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sm, offset := machineAt(base)
	b := confirmedBooking(t, sm, offset)

	require.NoError(t, sm.SubmitRating(b))
	assert.True(t, b.RatingSubmitted)
	assert.Equal(t, bookings.StatusCompleted, b.Status)

	// Write-once
	err := sm.SubmitRating(b)
	assert.ErrorIs(t, err, bookings.ErrInvalidTransition)
}

func TestSubmitRatingOnPaidMovesToReviewed(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sm, offset := machineAt(base)
	b := confirmedBooking(t, sm, offset)

	*offset = (*b.EscrowReleaseAt).Sub(base)
	require.NoError(t, sm.ReleaseEscrow(b))
	require.Equal(t, bookings.StatusPaid, b.Status)

	require.NoError(t, sm.SubmitRating(b))
	assert.Equal(t, bookings.StatusReviewed, b.Status)
}

func TestSubmitRatingRejectedOnDispute(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sm, offset := machineAt(base)
	b := confirmedBooking(t, sm, offset)

	*offset = (*b.ClientConfirmedAt).Sub(base) + time.Hour
	require.NoError(t, sm.Dispute(b, ""))

	err := sm.SubmitRating(b)
	assert.ErrorIs(t, err, bookings.ErrInvalidTransition)
	assert.False(t, b.RatingSubmitted)
}

func TestInvalidTransitionsLeaveBookingUnchanged(t *testing.T) {
	sm, _ := machineAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	b := newRequest(t, sm)

	before := *b
	assert.True(t, errors.Is(sm.MarkCompleted(b), bookings.ErrInvalidTransition))
	assert.True(t, errors.Is(sm.Confirm(b), bookings.ErrInvalidTransition))
	assert.True(t, errors.Is(sm.Dispute(b, ""), bookings.ErrInvalidTransition))
	assert.True(t, errors.Is(sm.ReleaseEscrow(b), bookings.ErrInvalidTransition))
	_, err := sm.Cancel(b)
	assert.ErrorIs(t, err, bookings.ErrInvalidTransition)
	assert.Equal(t, before, *b)
}

// confirmedBooking walks a fresh request to client-confirmed COMPLETED.
func confirmedBooking(t *testing.T, sm *bookings.StateMachine, offset *time.Duration) *bookings.Booking {
	t.Helper()
	b := newRequest(t, sm)
	_, err := sm.Accept(b)
	require.NoError(t, err)
	require.NoError(t, sm.MarkCompleted(b))
	require.NoError(t, sm.Confirm(b))
	require.Equal(t, bookings.StatusCompleted, b.Status)
	return b
}
