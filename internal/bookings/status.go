package bookings

// Status is the closed set of booking lifecycle states.
type Status string

const (
	StatusRequested                  Status = "REQUESTED"
	StatusEscrowed                   Status = "ESCROWED"
	StatusDeclined                   Status = "DECLINED"
	StatusExpired                    Status = "EXPIRED"
	StatusCancelled                  Status = "CANCELLED"
	StatusAwaitingClientConfirmation Status = "AWAITING_CLIENT_CONFIRMATION"
	StatusCompleted                  Status = "COMPLETED"
	StatusDisputed                   Status = "DISPUTED"
	StatusPaid                       Status = "PAID"
	StatusReviewed                   Status = "REVIEWED"
)

// IsValid checks if the booking status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusRequested, StatusEscrowed, StatusDeclined, StatusExpired,
		StatusCancelled, StatusAwaitingClientConfirmation, StatusCompleted,
		StatusDisputed, StatusPaid, StatusReviewed:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the engine will never advance this booking
// again. Disputed bookings are terminal here; payout resolution of a
// dispute is handled manually.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusDeclined, StatusExpired, StatusCancelled, StatusDisputed, StatusReviewed:
		return true
	}
	return false
}

// EscrowStatus tracks the escrow label for a booking. No real payment
// integration sits behind it.
type EscrowStatus string

const (
	EscrowPendingCapture EscrowStatus = "PENDING_CAPTURE"
	EscrowCaptured       EscrowStatus = "CAPTURED"
	EscrowHeld           EscrowStatus = "HELD"
	EscrowReleased       EscrowStatus = "RELEASED"
)

func (e EscrowStatus) IsValid() bool {
	switch e {
	case EscrowPendingCapture, EscrowCaptured, EscrowHeld, EscrowReleased:
		return true
	}
	return false
}

func (e EscrowStatus) String() string {
	return string(e)
}

// EscrowStatusFor returns the escrow status mandated for a booking
// status. Status and escrow status always move together.
func EscrowStatusFor(s Status) EscrowStatus {
	switch s {
	case StatusRequested:
		return EscrowPendingCapture
	case StatusEscrowed, StatusAwaitingClientConfirmation, StatusCompleted:
		return EscrowCaptured
	case StatusDisputed:
		return EscrowHeld
	default:
		// DECLINED, EXPIRED, CANCELLED, PAID, REVIEWED
		return EscrowReleased
	}
}
