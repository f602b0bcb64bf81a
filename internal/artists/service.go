package artists

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gigtune/internal/shared/constants"
	"gigtune/internal/shared/middleware"
	"gigtune/pkg/cache"
	"gigtune/pkg/logger"

	"github.com/google/uuid"
)

// maxVersionRetries bounds the re-read loop on version conflicts.
const maxVersionRetries = 3

type Service interface {
	// Profile lifecycle
	CreateProfile(ctx context.Context, actor middleware.Actor, req CreateProfileRequest) (*ProfileResponse, error)
	GetProfile(ctx context.Context, id uuid.UUID, actor *middleware.Actor) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, actor middleware.Actor, id uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error)
	PublishProfile(ctx context.Context, actor middleware.Actor, id uuid.UUID) (*ProfileResponse, error)

	// Term lookup
	ListTerms(ctx context.Context) (map[string][]TermResponse, error)

	// Booking-event side effects. Both write through the same versioned
	// update as profile edits.
	RecordReliabilityEvent(ctx context.Context, profileID uuid.UUID, event ReliabilityEvent) error
	RecordRating(ctx context.Context, profileID uuid.UUID, performance, reliability int) error

	// Ownership and status lookup for the booking engine
	GetProfileRef(ctx context.Context, profileID uuid.UUID) (ProfileRef, error)
}

// ProfileRef is the lightweight profile view other domains key on.
type ProfileRef struct {
	OwnerID uuid.UUID
	Status  ProfileStatus
}

type service struct {
	repo  Repository
	cache cache.Service
	log   *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service, log *logger.Logger) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
		log:   log,
	}
}

func (s *service) CreateProfile(ctx context.Context, actor middleware.Actor, req CreateProfileRequest) (*ProfileResponse, error) {
	// One profile per artist account
	if existing, err := s.repo.GetProfileByUserID(ctx, actor.UserID); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: artist already has a profile", ErrValidation)
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	profile := &ArtistProfile{
		UserID:         actor.UserID,
		Title:          strings.TrimSpace(req.Title),
		Bio:            req.Bio,
		Status:         ProfileStatusDraft,
		ResponseHours:  24,
		AcceptanceRate: 100,
		VisibilityMode: VisibilityApproximate,
		Version:        1,
	}

	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	resp := profile.ToResponse(false)
	return &resp, nil
}

func (s *service) GetProfile(ctx context.Context, id uuid.UUID, actor *middleware.Actor) (*ProfileResponse, error) {
	profile, err := s.repo.GetProfileByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isOwner := actor != nil && actor.UserID == profile.UserID
	if !isOwner && profile.Status != ProfileStatusPublished {
		return nil, ErrNotFound
	}

	resp := profile.ToResponse(!isOwner)
	return &resp, nil
}

func (s *service) UpdateProfile(ctx context.Context, actor middleware.Actor, id uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error) {
	profile, err := s.repo.GetProfileByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile.UserID != actor.UserID {
		return nil, ErrForbidden
	}

	if req.Title != nil {
		profile.Title = strings.TrimSpace(*req.Title)
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.AvailableNow != nil {
		profile.AvailableNow = *req.AvailableNow
	}
	if req.BaseArea != nil {
		profile.BaseArea = strings.TrimSpace(*req.BaseArea)
	}
	if req.TravelRadiusKm != nil {
		profile.TravelRadiusKm = *req.TravelRadiusKm
	}
	if req.VisibilityMode != nil {
		mode := VisibilityMode(*req.VisibilityMode)
		if !mode.IsValid() {
			return nil, fmt.Errorf("%w: invalid visibility mode", ErrValidation)
		}
		profile.VisibilityMode = mode
	}
	if req.AvailabilityDays != nil {
		days, err := normalizeAvailabilityDays(req.AvailabilityDays)
		if err != nil {
			return nil, err
		}
		profile.AvailabilityDays = days
	}
	if req.AvailabilityStart != nil || req.AvailabilityEnd != nil {
		if req.AvailabilityStart == nil || req.AvailabilityEnd == nil {
			return nil, fmt.Errorf("%w: availability window requires both start and end", ErrValidation)
		}
		profile.AvailabilityStart = *req.AvailabilityStart
		profile.AvailabilityEnd = *req.AvailabilityEnd
	}

	var newTerms []Term
	if req.TermSlugs != nil {
		newTerms, err = s.resolveTerms(ctx, req.TermSlugs)
		if err != nil {
			return nil, err
		}
	}

	var newVideos []DemoVideo
	if req.DemoVideos != nil {
		newVideos, err = buildDemoVideos(req.DemoVideos)
		if err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateProfileVersioned(ctx, profile, profile.Version); err != nil {
		return nil, err
	}
	if req.TermSlugs != nil {
		if err := s.repo.ReplaceTerms(ctx, profile, newTerms); err != nil {
			return nil, err
		}
	}
	if req.DemoVideos != nil {
		if err := s.repo.ReplaceDemoVideos(ctx, profile, newVideos); err != nil {
			return nil, err
		}
	}

	s.invalidateCaches(ctx, profile.ID)

	resp := profile.ToResponse(false)
	return &resp, nil
}

func (s *service) PublishProfile(ctx context.Context, actor middleware.Actor, id uuid.UUID) (*ProfileResponse, error) {
	profile, err := s.repo.GetProfileByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	if profile.Status == ProfileStatusPublished {
		resp := profile.ToResponse(false)
		return &resp, nil
	}

	if strings.TrimSpace(profile.Title) == "" {
		return nil, fmt.Errorf("%w: profile needs a title before publishing", ErrValidation)
	}
	if len(profile.DemoVideos) < 1 {
		return nil, fmt.Errorf("%w: profile needs at least one demo video before publishing", ErrValidation)
	}

	profile.Status = ProfileStatusPublished
	if err := s.repo.UpdateProfileVersioned(ctx, profile, profile.Version); err != nil {
		return nil, err
	}

	s.invalidateCaches(ctx, profile.ID)

	resp := profile.ToResponse(false)
	return &resp, nil
}

func (s *service) ListTerms(ctx context.Context) (map[string][]TermResponse, error) {
	var grouped map[string][]TermResponse
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_TERMS_ALL, constants.TTL_TERMS, func() (interface{}, error) {
		terms, err := s.repo.GetAllTerms(ctx)
		if err != nil {
			return nil, err
		}
		result := make(map[string][]TermResponse)
		for _, t := range terms {
			result[t.Taxonomy] = append(result[t.Taxonomy], TermResponse{
				ID:       t.ID.String(),
				Taxonomy: t.Taxonomy,
				Slug:     t.Slug,
				Name:     t.Name,
			})
		}
		return result, nil
	}, &grouped)
	return grouped, err
}

func (s *service) RecordReliabilityEvent(ctx context.Context, profileID uuid.UUID, event ReliabilityEvent) error {
	if !event.IsValid() {
		return fmt.Errorf("%w: unknown reliability event %q", ErrValidation, event)
	}

	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		profile, err := s.repo.GetProfileByID(ctx, profileID)
		if err != nil {
			return err
		}

		updated, err := ApplyReliabilityEvent(profile.Reliability(), event)
		if err != nil {
			return err
		}
		profile.SetReliability(updated)

		err = s.repo.UpdateProfileVersioned(ctx, profile, profile.Version)
		if err == nil {
			s.invalidateCaches(ctx, profileID)
			return nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return err
		}
	}
	return ErrVersionConflict
}

func (s *service) RecordRating(ctx context.Context, profileID uuid.UUID, performance, reliability int) error {
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		profile, err := s.repo.GetProfileByID(ctx, profileID)
		if err != nil {
			return err
		}

		perfAxis, err := ApplyRating(RatingAxis{Avg: profile.PerformanceAvg, Count: profile.PerformanceCount}, performance)
		if err != nil {
			return err
		}
		relAxis, err := ApplyRating(RatingAxis{Avg: profile.ReliabilityAvg, Count: profile.ReliabilityCount}, reliability)
		if err != nil {
			return err
		}

		profile.PerformanceAvg = perfAxis.Avg
		profile.PerformanceCount = perfAxis.Count
		profile.ReliabilityAvg = relAxis.Avg
		profile.ReliabilityCount = relAxis.Count

		err = s.repo.UpdateProfileVersioned(ctx, profile, profile.Version)
		if err == nil {
			s.invalidateCaches(ctx, profileID)
			return nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return err
		}
	}
	return ErrVersionConflict
}

func (s *service) GetProfileRef(ctx context.Context, profileID uuid.UUID) (ProfileRef, error) {
	profile, err := s.repo.GetProfileByID(ctx, profileID)
	if err != nil {
		return ProfileRef{}, err
	}
	return ProfileRef{OwnerID: profile.UserID, Status: profile.Status}, nil
}

// resolveTerms maps slugs to stored terms, rejecting unknown slugs.
func (s *service) resolveTerms(ctx context.Context, slugs []string) ([]Term, error) {
	terms, err := s.repo.GetTermsBySlugs(ctx, slugs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve terms: %w", err)
	}
	if len(terms) != len(dedupe(slugs)) {
		return nil, fmt.Errorf("%w: one or more term slugs are unknown", ErrValidation)
	}
	return terms, nil
}

func buildDemoVideos(reqs []DemoVideoRequest) ([]DemoVideo, error) {
	if len(reqs) > 5 {
		return nil, fmt.Errorf("%w: at most 5 demo videos allowed", ErrValidation)
	}
	videos := make([]DemoVideo, 0, len(reqs))
	for i, v := range reqs {
		orientation := Orientation(v.Orientation)
		if !orientation.IsValid() {
			return nil, fmt.Errorf("%w: invalid orientation %q", ErrValidation, v.Orientation)
		}
		if v.DurationSeconds < 1 || v.DurationSeconds > 600 {
			return nil, fmt.Errorf("%w: demo video duration must be between 1 and 600 seconds", ErrValidation)
		}
		videos = append(videos, DemoVideo{
			Position:        i + 1,
			URL:             v.URL,
			Orientation:     orientation,
			DurationSeconds: v.DurationSeconds,
		})
	}
	return videos, nil
}

func normalizeAvailabilityDays(days []string) (string, error) {
	seen := make(map[string]bool)
	var normalized []string
	for _, day := range days {
		day = strings.ToLower(strings.TrimSpace(day))
		if day == "" || seen[day] {
			continue
		}
		if !IsValidWeekday(day) {
			return "", fmt.Errorf("%w: invalid weekday %q", ErrValidation, day)
		}
		seen[day] = true
		normalized = append(normalized, day)
	}
	return strings.Join(normalized, ","), nil
}

func dedupe(values []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func (s *service) invalidateCaches(ctx context.Context, profileID uuid.UUID) {
	if err := s.cache.Delete(ctx, constants.BuildArtistDetailKey(profileID.String())); err != nil {
		s.log.WithError(err).Warn("failed to invalidate artist detail cache")
	}
	if err := s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_SEARCH_ALL); err != nil {
		s.log.WithError(err).Warn("failed to invalidate search cache")
	}
}
