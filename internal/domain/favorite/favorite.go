package favorite

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Favorite marks a listing a guest has saved. The (guest, listing) pair is
// unique; re-adding is a no-op.
type Favorite struct {
	GuestID   uuid.UUID
	ListingID uuid.UUID
	CreatedAt time.Time
}

// New creates a Favorite for the given guest and listing.
func New(guestID, listingID uuid.UUID) Favorite {
	return Favorite{
		GuestID:   guestID,
		ListingID: listingID,
		CreatedAt: time.Now().UTC(),
	}
}

// Repository defines persistence operations for favorites.
type Repository interface {
	// Add saves the favorite, reporting whether it already existed.
	Add(ctx context.Context, fav Favorite) (alreadyAdded bool, err error)

	// Remove deletes the favorite, reporting whether it existed.
	Remove(ctx context.Context, guestID, listingID uuid.UUID) (bool, error)

	// ListingIDsByGuest returns the listing ids the guest has saved.
	ListingIDsByGuest(ctx context.Context, guestID uuid.UUID) ([]uuid.UUID, error)

	// DeleteByGuest removes all of the guest's favorites.
	DeleteByGuest(ctx context.Context, guestID uuid.UUID) (int64, error)

	// DeleteByListing removes the listing from every guest's favorites.
	DeleteByListing(ctx context.Context, listingID uuid.UUID) (int64, error)
}
