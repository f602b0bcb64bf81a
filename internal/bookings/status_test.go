package bookings_test

import (
	"testing"

	"gigtune/internal/bookings"

	"github.com/stretchr/testify/assert"
)

func TestStatusIsValid(t *testing.T) {
	valid := []bookings.Status{
		bookings.StatusRequested,
		bookings.StatusEscrowed,
		bookings.StatusDeclined,
		bookings.StatusExpired,
		bookings.StatusCancelled,
		bookings.StatusAwaitingClientConfirmation,
		bookings.StatusCompleted,
		bookings.StatusDisputed,
		bookings.StatusPaid,
		bookings.StatusReviewed,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, bookings.Status("PENDING").IsValid())
}

func TestEscrowStatusFor(t *testing.T) {
	tests := map[bookings.Status]bookings.EscrowStatus{
		bookings.StatusRequested:                  bookings.EscrowPendingCapture,
		bookings.StatusEscrowed:                   bookings.EscrowCaptured,
		bookings.StatusAwaitingClientConfirmation: bookings.EscrowCaptured,
		bookings.StatusCompleted:                  bookings.EscrowCaptured,
		bookings.StatusDisputed:                   bookings.EscrowHeld,
		bookings.StatusDeclined:                   bookings.EscrowReleased,
		bookings.StatusExpired:                    bookings.EscrowReleased,
		bookings.StatusCancelled:                  bookings.EscrowReleased,
		bookings.StatusPaid:                       bookings.EscrowReleased,
		bookings.StatusReviewed:                   bookings.EscrowReleased,
	}
	for status, want := range tests {
		assert.Equal(t, want, bookings.EscrowStatusFor(status), status)
	}
}
