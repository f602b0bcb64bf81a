package bookings_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gigtune/internal/artists"
	"gigtune/internal/bookings"
	"gigtune/internal/shared/middleware"
	"gigtune/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository is an in-memory Repository with real version checking.
type fakeRepository struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]bookings.Booking

	// failNextUpdates injects version conflicts for retry tests
	failNextUpdates int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{bookings: make(map[uuid.UUID]bookings.Booking)}
}

func (r *fakeRepository) CreateBooking(ctx context.Context, b *bookings.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = time.Now()
	r.bookings[b.ID] = *b
	return nil
}

func (r *fakeRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*bookings.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookings.ErrNotFound
	}
	copied := b
	return &copied, nil
}

func (r *fakeRepository) UpdateBookingVersioned(ctx context.Context, b *bookings.Booking, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failNextUpdates > 0 {
		r.failNextUpdates--
		return bookings.ErrVersionConflict
	}

	stored, ok := r.bookings[b.ID]
	if !ok || stored.Version != expectedVersion {
		return bookings.ErrVersionConflict
	}
	b.Version = expectedVersion + 1
	r.bookings[b.ID] = *b
	return nil
}

func (r *fakeRepository) GetClientBookings(ctx context.Context, clientID uuid.UUID, query bookings.BookingListQuery) ([]bookings.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []bookings.Booking
	for _, b := range r.bookings {
		if b.ClientID == clientID {
			out = append(out, b)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepository) GetArtistBookings(ctx context.Context, artistProfileID uuid.UUID, query bookings.BookingListQuery) ([]bookings.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []bookings.Booking
	for _, b := range r.bookings {
		if b.ArtistProfileID == artistProfileID {
			out = append(out, b)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepository) FindExpiredRequests(ctx context.Context, now time.Time, limit int) ([]bookings.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []bookings.Booking
	for _, b := range r.bookings {
		if b.Status == bookings.StatusRequested && !b.RequestExpiresAt.After(now) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepository) FindAutoCompletable(ctx context.Context, completedBefore time.Time, limit int) ([]bookings.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []bookings.Booking
	for _, b := range r.bookings {
		if b.Status == bookings.StatusAwaitingClientConfirmation &&
			b.ArtistCompletedAt != nil && !b.ArtistCompletedAt.After(completedBefore) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepository) FindReleasable(ctx context.Context, now time.Time, limit int) ([]bookings.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []bookings.Booking
	for _, b := range r.bookings {
		if b.Status == bookings.StatusCompleted && b.EscrowStatus == bookings.EscrowCaptured &&
			!b.DisputeRaised && b.EscrowReleaseAt != nil && !b.EscrowReleaseAt.After(now) {
			out = append(out, b)
		}
	}
	return out, nil
}

// fakeDirectory implements bookings.ArtistDirectory and records the
// reliability events and ratings it receives.
type fakeDirectory struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]artists.ProfileRef
	events   []artists.ReliabilityEvent
	ratings  [][2]int

	// ratingErr injects a failure into RecordRating
	ratingErr error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{profiles: make(map[uuid.UUID]artists.ProfileRef)}
}

func (d *fakeDirectory) addProfile(ownerID uuid.UUID) uuid.UUID {
	id := uuid.New()
	d.profiles[id] = artists.ProfileRef{OwnerID: ownerID, Status: artists.ProfileStatusPublished}
	return id
}

func (d *fakeDirectory) GetProfileRef(ctx context.Context, profileID uuid.UUID) (artists.ProfileRef, error) {
	ref, ok := d.profiles[profileID]
	if !ok {
		return artists.ProfileRef{}, artists.ErrNotFound
	}
	return ref, nil
}

func (d *fakeDirectory) RecordReliabilityEvent(ctx context.Context, profileID uuid.UUID, event artists.ReliabilityEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *fakeDirectory) RecordRating(ctx context.Context, profileID uuid.UUID, performance, reliability int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ratingErr != nil {
		return d.ratingErr
	}
	d.ratings = append(d.ratings, [2]int{performance, reliability})
	return nil
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *capturingPublisher) PublishBookingEvent(ctx context.Context, eventType string, booking *bookings.Booking) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

type serviceHarness struct {
	svc       bookings.Service
	repo      *fakeRepository
	directory *fakeDirectory
	publisher *capturingPublisher
	offset    *time.Duration
	base      time.Time

	client    middleware.Actor
	artist    middleware.Actor
	profileID uuid.UUID
}

func newServiceHarness(t *testing.T) *serviceHarness {
	t.Helper()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	offset := new(time.Duration)
	sm := bookings.NewStateMachine(testTimers).WithClock(func() time.Time {
		return base.Add(*offset)
	})

	repo := newFakeRepository()
	directory := newFakeDirectory()
	publisher := &capturingPublisher{}

	artist := middleware.Actor{UserID: uuid.New(), Roles: []string{middleware.RoleArtist}}
	client := middleware.Actor{UserID: uuid.New(), Roles: []string{middleware.RoleClient}}
	profileID := directory.addProfile(artist.UserID)

	svc := bookings.NewService(repo, directory, publisher, sm, logger.New())
	return &serviceHarness{
		svc:       svc,
		repo:      repo,
		directory: directory,
		publisher: publisher,
		offset:    offset,
		base:      base,
		client:    client,
		artist:    artist,
		profileID: profileID,
	}
}

func (h *serviceHarness) request(t *testing.T) uuid.UUID {
	t.Helper()
	resp, err := h.svc.RequestBooking(context.Background(), h.client, bookings.CreateBookingRequest{
		ArtistProfileID: h.profileID.String(),
		EscrowAmount:    150,
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

func TestRequestBooking(t *testing.T) {
	h := newServiceHarness(t)

	id := h.request(t)

	stored, err := h.repo.GetBookingByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusRequested, stored.Status)
	assert.Contains(t, h.publisher.events, bookings.EventBookingRequested)
}

func TestRequestBookingRejectsSelfBooking(t *testing.T) {
	h := newServiceHarness(t)

	_, err := h.svc.RequestBooking(context.Background(), h.artist, bookings.CreateBookingRequest{
		ArtistProfileID: h.profileID.String(),
		EscrowAmount:    150,
	})
	assert.ErrorIs(t, err, bookings.ErrValidation)
}

func TestRequestBookingRejectsUnpublishedProfile(t *testing.T) {
	h := newServiceHarness(t)
	draftID := uuid.New()
	h.directory.profiles[draftID] = artists.ProfileRef{OwnerID: uuid.New(), Status: artists.ProfileStatusDraft}

	_, err := h.svc.RequestBooking(context.Background(), h.client, bookings.CreateBookingRequest{
		ArtistProfileID: draftID.String(),
		EscrowAmount:    150,
	})
	assert.ErrorIs(t, err, bookings.ErrValidation)
}

func TestRespondAcceptDeliversReliability(t *testing.T) {
	h := newServiceHarness(t)
	id := h.request(t)

	*h.offset = time.Hour
	resp, err := h.svc.Respond(context.Background(), h.artist, id, bookings.RespondRequest{Action: "accept"})
	require.NoError(t, err)

	assert.Equal(t, bookings.StatusEscrowed.String(), resp.Status)
	assert.Equal(t, []artists.ReliabilityEvent{artists.ReliabilityAccepted}, h.directory.events)
	assert.Contains(t, h.publisher.events, bookings.EventBookingEscrowed)
}

func TestRespondByNonOwnerForbidden(t *testing.T) {
	h := newServiceHarness(t)
	id := h.request(t)

	stranger := middleware.Actor{UserID: uuid.New(), Roles: []string{middleware.RoleArtist}}
	_, err := h.svc.Respond(context.Background(), stranger, id, bookings.RespondRequest{Action: "accept"})
	assert.ErrorIs(t, err, bookings.ErrForbidden)
	assert.Empty(t, h.directory.events)
}

// A late response persists the forced EXPIRED state and surfaces the
// expiry to the caller.
func TestLateRespondPersistsExpiry(t *testing.T) {
	h := newServiceHarness(t)
	id := h.request(t)

	*h.offset = 3 * time.Hour
	_, err := h.svc.Respond(context.Background(), h.artist, id, bookings.RespondRequest{Action: "accept"})
	assert.ErrorIs(t, err, bookings.ErrRequestExpired)

	stored, err := h.repo.GetBookingByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusExpired, stored.Status)
	assert.Equal(t, bookings.EscrowReleased, stored.EscrowStatus)
	assert.Empty(t, h.directory.events)
	assert.Contains(t, h.publisher.events, bookings.EventBookingExpired)
}

func TestTransitionRetriesOnVersionConflict(t *testing.T) {
	h := newServiceHarness(t)
	id := h.request(t)

	*h.offset = time.Hour
	h.repo.failNextUpdates = 2
	resp, err := h.svc.Respond(context.Background(), h.artist, id, bookings.RespondRequest{Action: "accept"})
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusEscrowed.String(), resp.Status)
}

func TestTransitionGivesUpAfterRepeatedConflicts(t *testing.T) {
	h := newServiceHarness(t)
	id := h.request(t)

	*h.offset = time.Hour
	h.repo.failNextUpdates = 10
	_, err := h.svc.Respond(context.Background(), h.artist, id, bookings.RespondRequest{Action: "accept"})
	assert.ErrorIs(t, err, bookings.ErrVersionConflict)
}

func TestSubmitRatingRecordsAggregate(t *testing.T) {
	h := newServiceHarness(t)
	id := h.request(t)
	ctx := context.Background()

	*h.offset = time.Hour
	_, err := h.svc.Respond(ctx, h.artist, id, bookings.RespondRequest{Action: "accept"})
	require.NoError(t, err)
	_, err = h.svc.MarkCompleted(ctx, h.artist, id)
	require.NoError(t, err)
	_, err = h.svc.Confirm(ctx, h.client, id)
	require.NoError(t, err)

	resp, err := h.svc.SubmitRating(ctx, h.client, id, bookings.RatingRequest{Performance: 5, Reliability: 4})
	require.NoError(t, err)
	assert.True(t, resp.RatingSubmitted)
	assert.Equal(t, [][2]int{{5, 4}}, h.directory.ratings)

	// Only the client may rate
	id2 := h.request(t)
	_, err = h.svc.SubmitRating(ctx, h.artist, id2, bookings.RatingRequest{Performance: 5, Reliability: 5})
	assert.ErrorIs(t, err, bookings.ErrForbidden)
}

// An out-of-range score is rejected before any state is read; the
// write-once rating lock stays available for a valid resubmission.
func TestSubmitRatingRejectsOutOfRangeScores(t *testing.T) {
	h := newServiceHarness(t)
	id := h.request(t)
	ctx := context.Background()

	*h.offset = time.Hour
	_, err := h.svc.Respond(ctx, h.artist, id, bookings.RespondRequest{Action: "accept"})
	require.NoError(t, err)
	_, err = h.svc.MarkCompleted(ctx, h.artist, id)
	require.NoError(t, err)
	_, err = h.svc.Confirm(ctx, h.client, id)
	require.NoError(t, err)

	_, err = h.svc.SubmitRating(ctx, h.client, id, bookings.RatingRequest{Performance: 7, Reliability: 3})
	assert.ErrorIs(t, err, bookings.ErrValidation)

	stored, err := h.repo.GetBookingByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, stored.RatingSubmitted)
	assert.Equal(t, bookings.StatusCompleted, stored.Status)
	assert.Empty(t, h.directory.ratings)

	// The lock was not consumed, so a valid rating still lands
	_, err = h.svc.SubmitRating(ctx, h.client, id, bookings.RatingRequest{Performance: 5, Reliability: 3})
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{5, 3}}, h.directory.ratings)
}

// A rating can never be resubmitted once the lock commits, so a failed
// aggregate write must surface instead of being logged away.
func TestSubmitRatingSurfacesAggregateFailure(t *testing.T) {
	h := newServiceHarness(t)
	id := h.request(t)
	ctx := context.Background()

	*h.offset = time.Hour
	_, err := h.svc.Respond(ctx, h.artist, id, bookings.RespondRequest{Action: "accept"})
	require.NoError(t, err)
	_, err = h.svc.MarkCompleted(ctx, h.artist, id)
	require.NoError(t, err)
	_, err = h.svc.Confirm(ctx, h.client, id)
	require.NoError(t, err)

	h.directory.ratingErr = errors.New("artist profile store unavailable")
	_, err = h.svc.SubmitRating(ctx, h.client, id, bookings.RatingRequest{Performance: 4, Reliability: 4})
	assert.Error(t, err)
	assert.Empty(t, h.directory.ratings)
}

func TestGetBookingParticipantsOnly(t *testing.T) {
	h := newServiceHarness(t)
	id := h.request(t)
	ctx := context.Background()

	_, err := h.svc.GetBooking(ctx, h.client, id)
	assert.NoError(t, err)
	_, err = h.svc.GetBooking(ctx, h.artist, id)
	assert.NoError(t, err)

	stranger := middleware.Actor{UserID: uuid.New()}
	_, err = h.svc.GetBooking(ctx, stranger, id)
	assert.ErrorIs(t, err, bookings.ErrForbidden)
}

func TestRunSweepAdvancesAllThreePhases(t *testing.T) {
	h := newServiceHarness(t)
	ctx := context.Background()

	// One request left to expire
	expiredID := h.request(t)

	// One accepted and marked complete, never confirmed
	awaitingID := h.request(t)
	_, err := h.svc.Respond(ctx, h.artist, awaitingID, bookings.RespondRequest{Action: "accept"})
	require.NoError(t, err)
	_, err = h.svc.MarkCompleted(ctx, h.artist, awaitingID)
	require.NoError(t, err)

	// One confirmed and past the dispute window
	releasableID := h.request(t)
	_, err = h.svc.Respond(ctx, h.artist, releasableID, bookings.RespondRequest{Action: "accept"})
	require.NoError(t, err)
	_, err = h.svc.MarkCompleted(ctx, h.artist, releasableID)
	require.NoError(t, err)
	_, err = h.svc.Confirm(ctx, h.client, releasableID)
	require.NoError(t, err)

	// Jump far enough for every deadline to pass
	*h.offset = 72 * time.Hour
	stats := h.svc.RunSweep(ctx, 50)

	assert.Equal(t, 1, stats.Expired)
	assert.Equal(t, 1, stats.AutoCompleted)
	assert.Equal(t, 1, stats.Released)
	assert.Equal(t, 0, stats.Skipped)

	expired, _ := h.repo.GetBookingByID(ctx, expiredID)
	assert.Equal(t, bookings.StatusExpired, expired.Status)

	completed, _ := h.repo.GetBookingByID(ctx, awaitingID)
	assert.Equal(t, bookings.StatusCompleted, completed.Status)

	released, _ := h.repo.GetBookingByID(ctx, releasableID)
	assert.Equal(t, bookings.StatusPaid, released.Status)
	assert.Equal(t, bookings.EscrowReleased, released.EscrowStatus)
}

func TestRunSweepNeverReleasesDisputedEscrow(t *testing.T) {
	h := newServiceHarness(t)
	ctx := context.Background()

	id := h.request(t)
	_, err := h.svc.Respond(ctx, h.artist, id, bookings.RespondRequest{Action: "accept"})
	require.NoError(t, err)
	_, err = h.svc.MarkCompleted(ctx, h.artist, id)
	require.NoError(t, err)
	_, err = h.svc.Confirm(ctx, h.client, id)
	require.NoError(t, err)

	*h.offset = 10 * time.Hour
	_, err = h.svc.Dispute(ctx, h.client, id, bookings.DisputeRequest{Notes: "half the set was missing"})
	require.NoError(t, err)

	*h.offset = 500 * time.Hour
	stats := h.svc.RunSweep(ctx, 50)
	assert.Equal(t, 0, stats.Released)

	stored, _ := h.repo.GetBookingByID(ctx, id)
	assert.Equal(t, bookings.StatusDisputed, stored.Status)
	assert.Equal(t, bookings.EscrowHeld, stored.EscrowStatus)
}
