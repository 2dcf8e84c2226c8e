package events

import "github.com/mybnb/service-booking/internal/events/schema"

// Topics this service produces to and consumes from.
const (
	TopicReservationEvents = schema.TopicReservationEvents
	TopicUserEvents        = schema.TopicUserEvents
)

// Event types carried in the CloudEvent envelope.
const (
	ReservationCreated   = schema.ReservationCreated
	ReservationCancelled = schema.ReservationCancelled
	ReservationReviewed  = schema.ReservationReviewed
	UserDeleted          = schema.UserDeleted
)

// ReservationCreatedEvent is published after a booking is committed.
type ReservationCreatedEvent = schema.ReservationCreatedEvent

// ReservationCancelledEvent is published after a guest cancels.
type ReservationCancelledEvent = schema.ReservationCancelledEvent

// ReservationReviewedEvent is published after a review is attached.
type ReservationReviewedEvent = schema.ReservationReviewedEvent

// UserDeletedEvent arrives from the auth service when an account is erased.
type UserDeletedEvent = schema.UserDeletedEvent
