package reservation

import (
	"time"

	"github.com/google/uuid"

	"github.com/mybnb/service-booking/internal/domain"
)

// Review is the optional post-stay feedback attached to a reservation.
// Re-submission overwrites the previous one.
type Review struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Reservation is the aggregate root for a guest's claim on a listing over a
// date range. Check-in and check-out are whole days; the range is half-open,
// so the check-out day itself stays free for the next guest.
type Reservation struct {
	id         uuid.UUID
	listingID  uuid.UUID
	guestID    uuid.UUID
	guestName  string
	guestAge   int
	guestEmail string
	checkIn    time.Time
	checkOut   time.Time
	review     *Review
	createdAt  time.Time
	updatedAt  time.Time
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether [aIn, aOut) and [bIn, bOut) intersect. Back-to-back
// stays sharing a boundary day do not overlap.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}

// New creates a validated reservation. The check-in day must be strictly
// after today's calendar day on the server clock.
func New(
	listingID, guestID uuid.UUID,
	guestName string,
	guestAge int,
	guestEmail string,
	checkIn, checkOut time.Time,
) (*Reservation, error) {
	if listingID == uuid.Nil {
		return nil, domain.NewValidationError("listing ID is required")
	}
	if guestID == uuid.Nil {
		return nil, domain.NewValidationError("guest ID is required")
	}
	if guestName == "" {
		return nil, domain.NewValidationError("guest name is required")
	}
	if guestEmail == "" {
		return nil, domain.NewValidationError("guest email is required")
	}

	checkIn = Day(checkIn)
	checkOut = Day(checkOut)
	today := Day(time.Now())

	if !checkIn.After(today) {
		return nil, domain.NewValidationError("check-in date must be after today")
	}
	if checkOut.Before(checkIn) {
		return nil, domain.NewValidationError("check-out must be after or equal to check-in")
	}

	now := time.Now().UTC()
	return &Reservation{
		id:         uuid.New(),
		listingID:  listingID,
		guestID:    guestID,
		guestName:  guestName,
		guestAge:   guestAge,
		guestEmail: guestEmail,
		checkIn:    checkIn,
		checkOut:   checkOut,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// Reconstruct rebuilds a Reservation from persistence data (no validation).
func Reconstruct(
	id, listingID, guestID uuid.UUID,
	guestName string,
	guestAge int,
	guestEmail string,
	checkIn, checkOut time.Time,
	review *Review,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:         id,
		listingID:  listingID,
		guestID:    guestID,
		guestName:  guestName,
		guestAge:   guestAge,
		guestEmail: guestEmail,
		checkIn:    checkIn,
		checkOut:   checkOut,
		review:     review,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// --- Getters ---

func (r *Reservation) ID() uuid.UUID        { return r.id }
func (r *Reservation) ListingID() uuid.UUID { return r.listingID }
func (r *Reservation) GuestID() uuid.UUID   { return r.guestID }
func (r *Reservation) GuestName() string    { return r.guestName }
func (r *Reservation) GuestAge() int        { return r.guestAge }
func (r *Reservation) GuestEmail() string   { return r.guestEmail }
func (r *Reservation) CheckIn() time.Time   { return r.checkIn }
func (r *Reservation) CheckOut() time.Time  { return r.checkOut }
func (r *Reservation) Review() *Review      { return r.review }
func (r *Reservation) CreatedAt() time.Time { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time { return r.updatedAt }

// --- Behavior ---

// IsOwnedBy checks if the reservation belongs to the given guest.
func (r *Reservation) IsOwnedBy(guestID uuid.UUID) bool {
	return r.guestID == guestID
}

// IsPast reports whether the stay had ended by the given instant. Current vs
// past is derived here on every read, never persisted.
func (r *Reservation) IsPast(now time.Time) bool {
	return r.checkOut.Before(now)
}

// OverlapsRange reports whether the reservation intersects [checkIn, checkOut).
func (r *Reservation) OverlapsRange(checkIn, checkOut time.Time) bool {
	return Overlaps(r.checkIn, r.checkOut, checkIn, checkOut)
}

// AttachReview sets or overwrites the review. The stay must have ended.
func (r *Reservation) AttachReview(rating int, comment string, now time.Time) error {
	if rating < 1 || rating > 5 {
		return domain.NewValidationError("rating must be between 1 and 5")
	}
	if !r.IsPast(now) {
		return domain.NewValidationError("a stay can only be reviewed after check-out")
	}
	r.review = &Review{Rating: rating, Comment: comment}
	r.updatedAt = now.UTC()
	return nil
}

// HasReview reports whether a review has been attached.
func (r *Reservation) HasReview() bool {
	return r.review != nil
}
