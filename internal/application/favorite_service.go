package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mybnb/service-booking/internal/domain/favorite"
	listingDomain "github.com/mybnb/service-booking/internal/domain/listing"
)

// FavoriteService manages the listings a guest has saved.
type FavoriteService struct {
	favorites favorite.Repository
	listings  listingDomain.Repository
	logger    *zap.Logger
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(
	favorites favorite.Repository,
	listings listingDomain.Repository,
	logger *zap.Logger,
) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		listings:  listings,
		logger:    logger,
	}
}

// AddFavorite saves the listing for the guest. Re-adding an already saved
// listing is a no-op, not an error.
func (s *FavoriteService) AddFavorite(ctx context.Context, guestID, listingID uuid.UUID) error {
	if _, err := s.listings.FindByID(ctx, listingID); err != nil {
		return err
	}

	already, err := s.favorites.Add(ctx, favorite.New(guestID, listingID))
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	if already {
		return nil
	}

	s.logger.Debug("favorite added",
		zap.String("guest_id", guestID.String()),
		zap.String("listing_id", listingID.String()),
	)
	return nil
}

// RemoveFavorite unsaves the listing. Removing a favorite that was never
// saved is a no-op, mirroring AddFavorite.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, guestID, listingID uuid.UUID) error {
	if _, err := s.favorites.Remove(ctx, guestID, listingID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// GuestFavorites returns the guest's saved listings. Listings deleted after
// being saved are already purged from favorites by the listing cascade.
func (s *FavoriteService) GuestFavorites(ctx context.Context, guestID uuid.UUID) ([]ListingDTO, error) {
	ids, err := s.favorites.ListingIDsByGuest(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	if len(ids) == 0 {
		return []ListingDTO{}, nil
	}

	listings, err := s.listings.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite listings: %w", err)
	}
	return toListingDTOs(listings), nil
}

// PurgeGuestFavorites removes every favorite owned by a deleted user.
func (s *FavoriteService) PurgeGuestFavorites(ctx context.Context, guestID uuid.UUID) error {
	if _, err := s.favorites.DeleteByGuest(ctx, guestID); err != nil {
		return fmt.Errorf("failed to purge favorites: %w", err)
	}
	return nil
}
