package bookings

import "errors"

var (
	ErrNotFound          = errors.New("booking not found")
	ErrValidation        = errors.New("validation failed")
	ErrForbidden         = errors.New("actor may not act on this booking")
	ErrInvalidTransition = errors.New("invalid booking transition")
	ErrVersionConflict   = errors.New("booking was modified concurrently")

	// ErrRequestExpired signals that a response arrived after the request
	// expiry; the booking is forced to EXPIRED as a corrective transition.
	ErrRequestExpired = errors.New("booking request has expired")
)
