package database

import (
	"gigtune/internal/artists"
	"gigtune/internal/bookings"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&artists.Term{},
		&artists.ArtistProfile{},
		&artists.DemoVideo{},
		&bookings.Booking{},
	); err != nil {
		return err
	}
	return MigrateConstraints(db)
}
