package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the reservation ledger: the durable store of reservations and
// the single place the non-overlap invariant is enforced.
type Repository interface {
	// FindByID retrieves a reservation by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Reservation, error)

	// FindOverlapping returns any reservation on the listing whose
	// [checkIn, checkOut) range intersects the given one, or nil.
	FindOverlapping(ctx context.Context, listingID uuid.UUID, checkIn, checkOut time.Time) (*Reservation, error)

	// Create persists a new reservation. The overlap check and the insert run
	// atomically: concurrent creations for the same listing serialize, and an
	// overlap surfaces as a ConflictError with nothing inserted.
	Create(ctx context.Context, res *Reservation) error

	// DeleteByIDAndGuest hard-deletes the reservation iff it exists and is
	// owned by guestID, reporting whether a deletion occurred.
	DeleteByIDAndGuest(ctx context.Context, id, guestID uuid.UUID) (bool, error)

	// UpdateReview attaches or overwrites the review sub-record.
	UpdateReview(ctx context.Context, res *Reservation) error

	// ListByGuest returns all reservations for a guest.
	ListByGuest(ctx context.Context, guestID uuid.UUID) ([]*Reservation, error)

	// ListByListingIDs returns all reservations across the given listings.
	ListByListingIDs(ctx context.Context, listingIDs []uuid.UUID) ([]*Reservation, error)

	// ListReviewedByListing returns the listing's reservations that carry a
	// review, newest stay first.
	ListReviewedByListing(ctx context.Context, listingID uuid.UUID) ([]*Reservation, error)

	// DeleteByGuest removes every reservation owned by the guest, returning
	// the number deleted. Used when an account is erased upstream.
	DeleteByGuest(ctx context.Context, guestID uuid.UUID) (int64, error)

	// DeleteByListing removes every reservation on the listing, returning the
	// number deleted. Used when a host removes a listing.
	DeleteByListing(ctx context.Context, listingID uuid.UUID) (int64, error)
}
