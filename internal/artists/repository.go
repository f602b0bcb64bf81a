package artists

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CandidateFilter narrows the search candidate set. Taxonomy filters are
// AND-combined across taxonomies; within one taxonomy any listed slug
// matches.
type CandidateFilter struct {
	TermSlugs map[string][]string
}

type Repository interface {
	// Profile operations
	CreateProfile(ctx context.Context, profile *ArtistProfile) error
	GetProfileByID(ctx context.Context, id uuid.UUID) (*ArtistProfile, error)
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*ArtistProfile, error)

	// UpdateProfileVersioned writes the profile back only if the stored
	// version still matches expectedVersion, bumping the version on
	// success. Returns ErrVersionConflict otherwise.
	UpdateProfileVersioned(ctx context.Context, profile *ArtistProfile, expectedVersion int) error

	// Relation operations
	ReplaceTerms(ctx context.Context, profile *ArtistProfile, terms []Term) error
	ReplaceDemoVideos(ctx context.Context, profile *ArtistProfile, videos []DemoVideo) error

	// Term lookups
	GetTermsBySlugs(ctx context.Context, slugs []string) ([]Term, error)
	GetAllTerms(ctx context.Context) ([]Term, error)

	// Search candidate retrieval: published profiles matching the filter,
	// terms and demo reel preloaded, deterministic order.
	GetSearchCandidates(ctx context.Context, filter CandidateFilter) ([]ArtistProfile, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateProfile(ctx context.Context, profile *ArtistProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *repository) GetProfileByID(ctx context.Context, id uuid.UUID) (*ArtistProfile, error) {
	var profile ArtistProfile
	err := r.db.WithContext(ctx).
		Preload("Terms").
		Preload("DemoVideos", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *repository) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*ArtistProfile, error) {
	var profile ArtistProfile
	err := r.db.WithContext(ctx).
		Preload("Terms").
		Preload("DemoVideos", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *repository) UpdateProfileVersioned(ctx context.Context, profile *ArtistProfile, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&ArtistProfile{}).
		Where("id = ? AND version = ?", profile.ID, expectedVersion).
		Updates(map[string]interface{}{
			"title":              profile.Title,
			"bio":                profile.Bio,
			"status":             profile.Status,
			"response_hours":     profile.ResponseHours,
			"acceptance_rate":    profile.AcceptanceRate,
			"cancellation_rate":  profile.CancellationRate,
			"no_show_count":      profile.NoShowCount,
			"performance_avg":    profile.PerformanceAvg,
			"performance_count":  profile.PerformanceCount,
			"reliability_avg":    profile.ReliabilityAvg,
			"reliability_count":  profile.ReliabilityCount,
			"available_now":      profile.AvailableNow,
			"base_area":          profile.BaseArea,
			"travel_radius_km":   profile.TravelRadiusKm,
			"visibility_mode":    profile.VisibilityMode,
			"availability_days":  profile.AvailabilityDays,
			"availability_start": profile.AvailabilityStart,
			"availability_end":   profile.AvailabilityEnd,
			"version":            gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	profile.Version = expectedVersion + 1
	return nil
}

func (r *repository) ReplaceTerms(ctx context.Context, profile *ArtistProfile, terms []Term) error {
	if err := r.db.WithContext(ctx).Model(profile).Association("Terms").Replace(terms); err != nil {
		return fmt.Errorf("failed to replace terms: %w", err)
	}
	profile.Terms = terms
	return nil
}

func (r *repository) ReplaceDemoVideos(ctx context.Context, profile *ArtistProfile, videos []DemoVideo) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("artist_profile_id = ?", profile.ID).Delete(&DemoVideo{}).Error; err != nil {
			return fmt.Errorf("failed to clear demo videos: %w", err)
		}
		for i := range videos {
			videos[i].ArtistProfileID = profile.ID
			videos[i].Position = i + 1
		}
		if len(videos) > 0 {
			if err := tx.Create(&videos).Error; err != nil {
				return fmt.Errorf("failed to create demo videos: %w", err)
			}
		}
		profile.DemoVideos = videos
		return nil
	})
}

func (r *repository) GetTermsBySlugs(ctx context.Context, slugs []string) ([]Term, error) {
	var terms []Term
	if len(slugs) == 0 {
		return terms, nil
	}
	err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&terms).Error
	return terms, err
}

func (r *repository) GetAllTerms(ctx context.Context) ([]Term, error) {
	var terms []Term
	err := r.db.WithContext(ctx).Order("taxonomy ASC, name ASC").Find(&terms).Error
	return terms, err
}

func (r *repository) GetSearchCandidates(ctx context.Context, filter CandidateFilter) ([]ArtistProfile, error) {
	query := r.db.WithContext(ctx).
		Model(&ArtistProfile{}).
		Where("status = ?", ProfileStatusPublished)

	for taxonomy, slugs := range filter.TermSlugs {
		if len(slugs) == 0 {
			continue
		}
		query = query.Where(
			"EXISTS (SELECT 1 FROM artist_profile_terms apt JOIN terms t ON t.id = apt.term_id "+
				"WHERE apt.artist_profile_id = artist_profiles.id AND t.taxonomy = ? AND t.slug IN ?)",
			taxonomy, slugs,
		)
	}

	var profiles []ArtistProfile
	err := query.
		Preload("Terms").
		Preload("DemoVideos", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at DESC, id DESC").
		Find(&profiles).Error

	return profiles, err
}
