package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mybnb/service-booking/internal/domain"
	"github.com/mybnb/service-booking/internal/domain/favorite"
)

// fakeFavoriteRepo is an in-memory favorite store keyed by guest+listing.
type fakeFavoriteRepo struct {
	mu        sync.Mutex
	favorites map[[2]uuid.UUID]favorite.Favorite
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favorites: make(map[[2]uuid.UUID]favorite.Favorite)}
}

func (f *fakeFavoriteRepo) Add(_ context.Context, fav favorite.Favorite) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uuid.UUID{fav.GuestID, fav.ListingID}
	if _, ok := f.favorites[key]; ok {
		return true, nil
	}
	f.favorites[key] = fav
	return false, nil
}

func (f *fakeFavoriteRepo) Remove(_ context.Context, guestID, listingID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uuid.UUID{guestID, listingID}
	if _, ok := f.favorites[key]; !ok {
		return false, nil
	}
	delete(f.favorites, key)
	return true, nil
}

func (f *fakeFavoriteRepo) ListingIDsByGuest(_ context.Context, guestID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []uuid.UUID
	for key := range f.favorites {
		if key[0] == guestID {
			out = append(out, key[1])
		}
	}
	return out, nil
}

func (f *fakeFavoriteRepo) DeleteByGuest(_ context.Context, guestID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for key := range f.favorites {
		if key[0] == guestID {
			delete(f.favorites, key)
			n++
		}
	}
	return n, nil
}

func (f *fakeFavoriteRepo) DeleteByListing(_ context.Context, listingID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for key := range f.favorites {
		if key[1] == listingID {
			delete(f.favorites, key)
			n++
		}
	}
	return n, nil
}

func newTestListingService(t *testing.T) (*ListingService, *fakeListingRepo, *fakeReservationRepo, *fakeFavoriteRepo) {
	t.Helper()
	listings := newFakeListingRepo()
	reservations := newFakeReservationRepo()
	favorites := newFakeFavoriteRepo()
	svc := NewListingService(listings, reservations, favorites, zap.NewNop())
	return svc, listings, reservations, favorites
}

func TestCreateListing(t *testing.T) {
	svc, _, _, _ := newTestListingService(t)
	hostID := uuid.New()

	dto, err := svc.CreateListing(context.Background(), hostID, CreateListingRequest{
		Name:       "Sea View Flat",
		Location:   "Lisbon",
		PriceCents: 12000,
		Rating:     4.5,
	})
	require.NoError(t, err)
	assert.Equal(t, hostID, dto.HostID)
	assert.Equal(t, "Sea View Flat", dto.Name)

	got, err := svc.GetListing(context.Background(), dto.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.ID, got.ID)

	page, total, err := svc.ListListings(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, page, 1)
}

func TestCreateListing_Invalid(t *testing.T) {
	svc, _, _, _ := newTestListingService(t)

	_, err := svc.CreateListing(context.Background(), uuid.New(), CreateListingRequest{
		Name:       "",
		Location:   "Lisbon",
		PriceCents: 12000,
	})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestUpdateListing_OwnershipEnforced(t *testing.T) {
	svc, listings, _, _ := newTestListingService(t)
	hostID := uuid.New()
	l := seedListing(t, listings, hostID)

	_, err := svc.UpdateListing(context.Background(), uuid.New(), l.ID(), UpdateListingRequest{Name: "Taken Over"})
	require.Error(t, err)
	assert.Equal(t, domain.CodeForbidden, domain.CodeOf(err))

	dto, err := svc.UpdateListing(context.Background(), hostID, l.ID(), UpdateListingRequest{Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", dto.Name)
	assert.Equal(t, "Lisbon", dto.Location)
}

func TestDeleteListing_Cascades(t *testing.T) {
	ctx := context.Background()
	svc, listings, reservations, favorites := newTestListingService(t)
	hostID := uuid.New()
	l := seedListing(t, listings, hostID)
	guestID := uuid.New()

	seedReservation(t, reservations, l.ID(), guestID, 2, 5)
	_, err := favorites.Add(ctx, favorite.New(guestID, l.ID()))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteListing(ctx, hostID, l.ID()))

	_, err = svc.GetListing(ctx, l.ID())
	assert.True(t, domain.IsNotFound(err))

	left, err := reservations.ListByListingIDs(ctx, []uuid.UUID{l.ID()})
	require.NoError(t, err)
	assert.Empty(t, left)

	ids, err := favorites.ListingIDsByGuest(ctx, guestID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDeleteListing_OwnershipEnforced(t *testing.T) {
	svc, listings, _, _ := newTestListingService(t)
	l := seedListing(t, listings, uuid.New())

	err := svc.DeleteListing(context.Background(), uuid.New(), l.ID())
	require.Error(t, err)
	assert.Equal(t, domain.CodeForbidden, domain.CodeOf(err))
}

func TestListingReviews(t *testing.T) {
	ctx := context.Background()
	svc, listings, reservations, _ := newTestListingService(t)
	l := seedListing(t, listings, uuid.New())

	reviewed := seedReservation(t, reservations, l.ID(), uuid.New(), -10, -7)
	require.NoError(t, reviewed.AttachReview(4, "lovely", time.Now()))
	seedReservation(t, reservations, l.ID(), uuid.New(), 2, 5) // unreviewed

	result, err := svc.ListingReviews(ctx, l.ID())
	require.NoError(t, err)

	require.Len(t, result, 1)
	assert.Equal(t, reviewed.ID(), result[0].ReservationID)
	assert.Equal(t, 4, result[0].Rating)
	assert.Equal(t, "lovely", result[0].Comment)
	assert.Equal(t, "Ada Guest", result[0].GuestName)
}

func TestListingReviews_UnknownListing(t *testing.T) {
	svc, _, _, _ := newTestListingService(t)

	_, err := svc.ListingReviews(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestFavoriteService(t *testing.T) {
	ctx := context.Background()
	listings := newFakeListingRepo()
	favorites := newFakeFavoriteRepo()
	svc := NewFavoriteService(favorites, listings, zap.NewNop())
	l := seedListing(t, listings, uuid.New())
	guestID := uuid.New()

	t.Run("add is idempotent", func(t *testing.T) {
		require.NoError(t, svc.AddFavorite(ctx, guestID, l.ID()))
		require.NoError(t, svc.AddFavorite(ctx, guestID, l.ID()))

		saved, err := svc.GuestFavorites(ctx, guestID)
		require.NoError(t, err)
		require.Len(t, saved, 1)
		assert.Equal(t, l.ID(), saved[0].ID)
	})

	t.Run("add rejects unknown listings", func(t *testing.T) {
		err := svc.AddFavorite(ctx, guestID, uuid.New())
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		require.NoError(t, svc.RemoveFavorite(ctx, guestID, l.ID()))
		require.NoError(t, svc.RemoveFavorite(ctx, guestID, l.ID()))

		saved, err := svc.GuestFavorites(ctx, guestID)
		require.NoError(t, err)
		assert.Empty(t, saved)
	})
}
