package schema

import (
	"time"

	"github.com/google/uuid"
)

// Topics this service produces to and consumes from.
const (
	TopicReservationEvents = "reservation.events"
	TopicUserEvents        = "user.events"
)

// Event types carried in the CloudEvent envelope.
const (
	ReservationCreated   = "reservation.created"
	ReservationCancelled = "reservation.cancelled"
	ReservationReviewed  = "reservation.reviewed"
	UserDeleted          = "user.deleted"
)

// ReservationCreatedEvent is published after a booking is committed.
type ReservationCreatedEvent struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	ListingID     uuid.UUID `json:"listing_id"`
	GuestID       uuid.UUID `json:"guest_id"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// ReservationCancelledEvent is published after a guest cancels.
type ReservationCancelledEvent struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	ListingID     uuid.UUID `json:"listing_id"`
	GuestID       uuid.UUID `json:"guest_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// ReservationReviewedEvent is published after a review is attached.
type ReservationReviewedEvent struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	ListingID     uuid.UUID `json:"listing_id"`
	GuestID       uuid.UUID `json:"guest_id"`
	Rating        int       `json:"rating"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// UserDeletedEvent arrives from the auth service when an account is erased.
type UserDeletedEvent struct {
	UserID     uuid.UUID `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
