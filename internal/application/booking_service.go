package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mybnb/service-booking/internal/domain"
	listingDomain "github.com/mybnb/service-booking/internal/domain/listing"
	"github.com/mybnb/service-booking/internal/domain/reservation"
	events "github.com/mybnb/service-booking/internal/events/schema"
	"github.com/mybnb/service-booking/internal/kafka"
)

// bookingDateLayout is the wire format for check-in/check-out days.
const bookingDateLayout = "2006-01-02"

// CreateBookingRequest is the request body for creating a booking.
type CreateBookingRequest struct {
	ListingID string `json:"listingId" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Age       int    `json:"age" binding:"required,gte=18,lte=120"`
	Email     string `json:"email" binding:"required,email"`
	Checkin   string `json:"checkin" binding:"required,bookdate"`
	Checkout  string `json:"checkout" binding:"required,bookdate"`
}

// AddReviewRequest is the request body for reviewing a completed stay.
type AddReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// ListingSummaryDTO is the slice of listing data joined onto booking views.
type ListingSummaryDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Location   string    `json:"location"`
	PriceCents int64     `json:"price_cents"`
	Rating     float64   `json:"rating"`
	ImageURL   string    `json:"image_url,omitempty"`
}

// BookingDTO is the response representation of a reservation.
type BookingDTO struct {
	ID         uuid.UUID           `json:"id"`
	ListingID  uuid.UUID           `json:"listing_id"`
	GuestID    uuid.UUID           `json:"guest_id"`
	GuestName  string              `json:"guest_name"`
	GuestAge   int                 `json:"guest_age"`
	GuestEmail string              `json:"guest_email"`
	Checkin    string              `json:"checkin"`
	Checkout   string              `json:"checkout"`
	Review     *reservation.Review `json:"review,omitempty"`
	Listing    *ListingSummaryDTO  `json:"listing,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// GuestBookingsDTO partitions a guest's bookings by whether the stay ended.
type GuestBookingsDTO struct {
	Current []BookingDTO `json:"current"`
	Past    []BookingDTO `json:"past"`
}

// BookingService enforces the booking rules around the reservation ledger.
// It is the sole writer of reservation records.
type BookingService struct {
	reservations reservation.Repository
	listings     listingDomain.Repository
	producer     *kafka.Producer
	logger       *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	reservations reservation.Repository,
	listings listingDomain.Repository,
	producer *kafka.Producer,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		reservations: reservations,
		listings:     listings,
		producer:     producer,
		logger:       logger,
	}
}

// CreateBooking validates the request and inserts the reservation. The check
// against overlapping reservations and the insert run atomically in the
// ledger, so no success can leave two overlapping reservations on a listing.
func (s *BookingService) CreateBooking(ctx context.Context, guestID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		return nil, domain.NewValidationError("invalid listing ID")
	}

	checkIn, err := parseBookingDate(req.Checkin)
	if err != nil {
		return nil, domain.NewValidationError("invalid check-in date")
	}
	checkOut, err := parseBookingDate(req.Checkout)
	if err != nil {
		return nil, domain.NewValidationError("invalid check-out date")
	}

	res, err := reservation.New(listingID, guestID, req.Name, req.Age, req.Email, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	if _, err := s.listings.FindByID(ctx, listingID); err != nil {
		return nil, err
	}

	// Fast-fail on an obvious overlap; Create re-checks atomically, so this
	// is an optimization, not the correctness guarantee.
	existing, err := s.reservations.FindOverlapping(ctx, listingID, res.CheckIn(), res.CheckOut())
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if existing != nil {
		return nil, domain.NewConflictError("selected dates are already booked")
	}

	if err := s.reservations.Create(ctx, res); err != nil {
		return nil, err
	}

	s.logger.Info("reservation created",
		zap.String("reservation_id", res.ID().String()),
		zap.String("listing_id", listingID.String()),
		zap.String("guest_id", guestID.String()),
	)

	evt := events.ReservationCreatedEvent{
		ReservationID: res.ID(),
		ListingID:     res.ListingID(),
		GuestID:       res.GuestID(),
		CheckIn:       res.CheckIn(),
		CheckOut:      res.CheckOut(),
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, events.ReservationCreated, evt)

	result := toBookingDTO(res, nil)
	return &result, nil
}

// CancelBooking hard-deletes the guest's reservation. A reservation that does
// not exist and one owned by someone else are indistinguishable to the caller.
func (s *BookingService) CancelBooking(ctx context.Context, guestID, reservationID uuid.UUID) error {
	res, err := s.reservations.FindByID(ctx, reservationID)
	if err != nil {
		return err
	}

	deleted, err := s.reservations.DeleteByIDAndGuest(ctx, reservationID, guestID)
	if err != nil {
		return fmt.Errorf("failed to cancel reservation: %w", err)
	}
	if !deleted {
		return domain.NewNotFoundError("reservation", reservationID.String())
	}

	s.logger.Info("reservation cancelled",
		zap.String("reservation_id", reservationID.String()),
		zap.String("guest_id", guestID.String()),
	)

	evt := events.ReservationCancelledEvent{
		ReservationID: reservationID,
		ListingID:     res.ListingID(),
		GuestID:       guestID,
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, events.ReservationCancelled, evt)
	return nil
}

// AddReview attaches (or overwrites) the guest's review of a completed stay.
// Ownership mismatches surface as not-found, like cancellation.
func (s *BookingService) AddReview(ctx context.Context, guestID, reservationID uuid.UUID, req AddReviewRequest) (*BookingDTO, error) {
	res, err := s.reservations.FindByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !res.IsOwnedBy(guestID) {
		return nil, domain.NewNotFoundError("reservation", reservationID.String())
	}

	if err := res.AttachReview(req.Rating, req.Comment, time.Now()); err != nil {
		return nil, err
	}

	if err := s.reservations.UpdateReview(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	evt := events.ReservationReviewedEvent{
		ReservationID: res.ID(),
		ListingID:     res.ListingID(),
		GuestID:       guestID,
		Rating:        req.Rating,
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, events.ReservationReviewed, evt)

	result := toBookingDTO(res, nil)
	return &result, nil
}

// GuestBookings returns the guest's reservations partitioned into current and
// past by comparing check-out against now. The partition is recomputed on
// every read; there is no stored status to go stale.
func (s *BookingService) GuestBookings(ctx context.Context, guestID uuid.UUID) (*GuestBookingsDTO, error) {
	reservations, err := s.reservations.ListByGuest(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	summaries, err := s.listingSummaries(ctx, reservations)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := &GuestBookingsDTO{Current: []BookingDTO{}, Past: []BookingDTO{}}
	for _, res := range reservations {
		dto := toBookingDTO(res, summaries[res.ListingID()])
		if res.IsPast(now) {
			out.Past = append(out.Past, dto)
		} else {
			out.Current = append(out.Current, dto)
		}
	}
	return out, nil
}

// HostBookings returns every reservation across the host's listings, joined
// with the listing summary. Guest contact lives on the reservation itself.
func (s *BookingService) HostBookings(ctx context.Context, hostID uuid.UUID) ([]BookingDTO, error) {
	listingIDs, err := s.listings.ListingIDsOwnedBy(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve host listings: %w", err)
	}
	if len(listingIDs) == 0 {
		return []BookingDTO{}, nil
	}

	reservations, err := s.reservations.ListByListingIDs(ctx, listingIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list host bookings: %w", err)
	}

	summaries, err := s.listingSummaries(ctx, reservations)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(reservations))
	for i, res := range reservations {
		dtos[i] = toBookingDTO(res, summaries[res.ListingID()])
	}
	return dtos, nil
}

// PurgeGuestReservations removes every reservation owned by a deleted user.
func (s *BookingService) PurgeGuestReservations(ctx context.Context, guestID uuid.UUID) error {
	n, err := s.reservations.DeleteByGuest(ctx, guestID)
	if err != nil {
		return fmt.Errorf("failed to purge reservations: %w", err)
	}
	if n > 0 {
		s.logger.Info("purged reservations for deleted user",
			zap.String("guest_id", guestID.String()),
			zap.Int64("count", n),
		)
	}
	return nil
}

// --- Helpers ---

func (s *BookingService) listingSummaries(ctx context.Context, reservations []*reservation.Reservation) (map[uuid.UUID]*ListingSummaryDTO, error) {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0, len(reservations))
	for _, res := range reservations {
		if _, ok := seen[res.ListingID()]; !ok {
			seen[res.ListingID()] = struct{}{}
			ids = append(ids, res.ListingID())
		}
	}
	if len(ids) == 0 {
		return map[uuid.UUID]*ListingSummaryDTO{}, nil
	}

	listings, err := s.listings.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load listing summaries: %w", err)
	}

	out := make(map[uuid.UUID]*ListingSummaryDTO, len(listings))
	for _, l := range listings {
		out[l.ID()] = &ListingSummaryDTO{
			ID:         l.ID(),
			Name:       l.Name(),
			Location:   l.Location(),
			PriceCents: l.PriceCents(),
			Rating:     l.Rating(),
			ImageURL:   l.ImageURL(),
		}
	}
	return out, nil
}

func (s *BookingService) publishEvent(ctx context.Context, eventType string, data interface{}) {
	if s.producer == nil {
		return
	}
	ce, err := kafka.NewCloudEvent("service-booking", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicReservationEvents, ce); err != nil {
		s.logger.Error("failed to publish event", zap.String("event_type", eventType), zap.Error(err))
	}
}

func parseBookingDate(s string) (time.Time, error) {
	if t, err := time.Parse(bookingDateLayout, s); err == nil {
		return t, nil
	}
	// The frontend occasionally sends full timestamps; the day is all that matters.
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return reservation.Day(t), nil
}

func toBookingDTO(res *reservation.Reservation, listing *ListingSummaryDTO) BookingDTO {
	return BookingDTO{
		ID:         res.ID(),
		ListingID:  res.ListingID(),
		GuestID:    res.GuestID(),
		GuestName:  res.GuestName(),
		GuestAge:   res.GuestAge(),
		GuestEmail: res.GuestEmail(),
		Checkin:    res.CheckIn().Format(bookingDateLayout),
		Checkout:   res.CheckOut().Format(bookingDateLayout),
		Review:     res.Review(),
		Listing:    listing,
		CreatedAt:  res.CreatedAt(),
	}
}
