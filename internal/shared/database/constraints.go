package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds indexes the booking sweeper and search rely on
func MigrateConstraints(db *gorm.DB) error {
	// Sweeper pass 1: expired booking requests
	err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_status_request_expires
		ON bookings (status, request_expires_at);
	`).Error
	if err != nil {
		return err
	}

	// Sweeper pass 2: auto-complete after artist completion
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_status_artist_completed
		ON bookings (status, artist_completed_at);
	`).Error
	if err != nil {
		return err
	}

	// Sweeper pass 3: escrow release
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_status_escrow_release
		ON bookings (status, escrow_status, escrow_release_at);
	`).Error
	if err != nil {
		return err
	}

	// Directory candidate query
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_artist_profiles_status_created
		ON artist_profiles (status, created_at DESC, id DESC);
	`).Error
	if err != nil {
		return err
	}

	// One rating per booking is enforced in the state machine; this keeps
	// the participant lookups fast.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_client_id
		ON bookings (client_id, created_at DESC);
	`).Error
	if err != nil {
		return err
	}

	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_artist_profile_id
		ON bookings (artist_profile_id, created_at DESC);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
