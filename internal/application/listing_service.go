package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mybnb/service-booking/internal/domain"
	"github.com/mybnb/service-booking/internal/domain/favorite"
	listingDomain "github.com/mybnb/service-booking/internal/domain/listing"
	"github.com/mybnb/service-booking/internal/domain/reservation"
)

// CreateListingRequest is the request body for publishing a new listing.
type CreateListingRequest struct {
	Name        string  `json:"name" binding:"required"`
	Location    string  `json:"location" binding:"required"`
	Description string  `json:"description"`
	PriceCents  int64   `json:"price_cents" binding:"required,gt=0"`
	Rating      float64 `json:"rating" binding:"gte=0,lte=5"`
	ImageURL    string  `json:"image_url" binding:"omitempty,url"`
	Latitude    float64 `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" binding:"gte=-180,lte=180"`
}

// UpdateListingRequest carries partial listing updates; zero values are skipped.
type UpdateListingRequest struct {
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	PriceCents  int64   `json:"price_cents" binding:"omitempty,gt=0"`
	Rating      float64 `json:"rating" binding:"gte=0,lte=5"`
	ImageURL    string  `json:"image_url" binding:"omitempty,url"`
	Latitude    float64 `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" binding:"gte=-180,lte=180"`
}

// ListingDTO is the response representation of a listing.
type ListingDTO struct {
	ID          uuid.UUID `json:"id"`
	HostID      uuid.UUID `json:"host_id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Rating      float64   `json:"rating"`
	ImageURL    string    `json:"image_url,omitempty"`
	Latitude    float64   `json:"latitude,omitempty"`
	Longitude   float64   `json:"longitude,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ReviewDTO is one entry in a listing's review feed.
type ReviewDTO struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	GuestName     string    `json:"guest_name"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment,omitempty"`
	Checkout      string    `json:"checkout"`
}

// ListingService manages the listing catalog and its review feed. Deleting a
// listing cascades to its reservations and favorites.
type ListingService struct {
	listings     listingDomain.Repository
	reservations reservation.Repository
	favorites    favorite.Repository
	logger       *zap.Logger
}

// NewListingService creates a new ListingService.
func NewListingService(
	listings listingDomain.Repository,
	reservations reservation.Repository,
	favorites favorite.Repository,
	logger *zap.Logger,
) *ListingService {
	return &ListingService{
		listings:     listings,
		reservations: reservations,
		favorites:    favorites,
		logger:       logger,
	}
}

// CreateListing publishes a new listing owned by the host.
func (s *ListingService) CreateListing(ctx context.Context, hostID uuid.UUID, req CreateListingRequest) (*ListingDTO, error) {
	l, err := listingDomain.New(
		hostID,
		req.Name, req.Location, req.Description,
		req.PriceCents, req.Rating, req.ImageURL,
		req.Latitude, req.Longitude,
	)
	if err != nil {
		return nil, err
	}

	if err := s.listings.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to save listing: %w", err)
	}

	s.logger.Info("listing created",
		zap.String("listing_id", l.ID().String()),
		zap.String("host_id", hostID.String()),
	)

	dto := toListingDTO(l)
	return &dto, nil
}

// GetListing returns a single listing.
func (s *ListingService) GetListing(ctx context.Context, id uuid.UUID) (*ListingDTO, error) {
	l, err := s.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toListingDTO(l)
	return &dto, nil
}

// ListListings returns one page of the catalog with the total count.
func (s *ListingService) ListListings(ctx context.Context, page, limit int) ([]ListingDTO, int64, error) {
	listings, total, err := s.listings.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list listings: %w", err)
	}
	return toListingDTOs(listings), total, nil
}

// HostListings returns the listings owned by a host.
func (s *ListingService) HostListings(ctx context.Context, hostID uuid.UUID) ([]ListingDTO, error) {
	listings, err := s.listings.FindByHostID(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to list host listings: %w", err)
	}
	return toListingDTOs(listings), nil
}

// UpdateListing applies partial updates to a listing the host owns.
func (s *ListingService) UpdateListing(ctx context.Context, hostID, id uuid.UUID, req UpdateListingRequest) (*ListingDTO, error) {
	l, err := s.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !l.IsOwnedBy(hostID) {
		return nil, domain.NewForbiddenError("you do not own this listing")
	}

	l.Update(
		req.Name, req.Location, req.Description,
		req.PriceCents, req.Rating, req.ImageURL,
		req.Latitude, req.Longitude,
	)

	if err := s.listings.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}

	dto := toListingDTO(l)
	return &dto, nil
}

// DeleteListing removes the host's listing together with its reservations and
// favorites. Without the cascade, orphaned reservations would keep blocking
// dates on a listing that no longer exists.
func (s *ListingService) DeleteListing(ctx context.Context, hostID, id uuid.UUID) error {
	l, err := s.listings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !l.IsOwnedBy(hostID) {
		return domain.NewForbiddenError("you do not own this listing")
	}

	if err := s.listings.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	nRes, err := s.reservations.DeleteByListing(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete listing reservations: %w", err)
	}
	nFav, err := s.favorites.DeleteByListing(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete listing favorites: %w", err)
	}

	s.logger.Info("listing deleted",
		zap.String("listing_id", id.String()),
		zap.String("host_id", hostID.String()),
		zap.Int64("reservations_removed", nRes),
		zap.Int64("favorites_removed", nFav),
	)
	return nil
}

// ListingReviews returns the reviews guests left on the listing's completed
// stays, newest stay first.
func (s *ListingService) ListingReviews(ctx context.Context, listingID uuid.UUID) ([]ReviewDTO, error) {
	if _, err := s.listings.FindByID(ctx, listingID); err != nil {
		return nil, err
	}

	reservations, err := s.reservations.ListReviewedByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	dtos := make([]ReviewDTO, 0, len(reservations))
	for _, res := range reservations {
		review := res.Review()
		if review == nil {
			continue
		}
		dtos = append(dtos, ReviewDTO{
			ReservationID: res.ID(),
			GuestName:     res.GuestName(),
			Rating:        review.Rating,
			Comment:       review.Comment,
			Checkout:      res.CheckOut().Format(bookingDateLayout),
		})
	}
	return dtos, nil
}

func toListingDTO(l *listingDomain.Listing) ListingDTO {
	return ListingDTO{
		ID:          l.ID(),
		HostID:      l.HostID(),
		Name:        l.Name(),
		Location:    l.Location(),
		Description: l.Description(),
		PriceCents:  l.PriceCents(),
		Rating:      l.Rating(),
		ImageURL:    l.ImageURL(),
		Latitude:    l.Latitude(),
		Longitude:   l.Longitude(),
		CreatedAt:   l.CreatedAt(),
		UpdatedAt:   l.UpdatedAt(),
	}
}

func toListingDTOs(listings []*listingDomain.Listing) []ListingDTO {
	dtos := make([]ListingDTO, len(listings))
	for i, l := range listings {
		dtos[i] = toListingDTO(l)
	}
	return dtos
}
