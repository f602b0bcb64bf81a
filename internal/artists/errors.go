package artists

import "errors"

var (
	ErrNotFound        = errors.New("artist profile not found")
	ErrValidation      = errors.New("validation failed")
	ErrForbidden       = errors.New("actor does not own this profile")
	ErrVersionConflict = errors.New("profile was modified concurrently")
)
